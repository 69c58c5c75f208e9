package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/ffunk/uptime-monitor/internal/config"
	"github.com/ffunk/uptime-monitor/internal/logging"
	"github.com/ffunk/uptime-monitor/internal/monitor"
	"github.com/ffunk/uptime-monitor/internal/probe"
	"github.com/ffunk/uptime-monitor/internal/repo/sqlite"
	"github.com/ffunk/uptime-monitor/internal/targets"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("monitor_run_failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// run keeps the fatal path in one place so the store handle is released on
// every exit. Per-target failures are absorbed inside the monitor; only
// setup failures and the run commit surface here.
func run(cfg config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	store, err := sqlite.New(ctx, cfg.DBFile, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	urls, err := targets.Load(cfg.URLsFile)
	if err != nil {
		return err
	}

	prober := probe.NewProber(cfg.HTTPTimeout, cfg.UserAgent)
	mon := monitor.New(logger, store, prober, monitor.Config{
		RetentionDays: cfg.RetentionDays,
	})
	return mon.Run(ctx, urls)
}
