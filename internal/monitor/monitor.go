// Package monitor sequences one probing run across the target list.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ffunk/uptime-monitor/internal/domain"
	"github.com/ffunk/uptime-monitor/internal/probe"
	"github.com/ffunk/uptime-monitor/internal/repo"
	"github.com/ffunk/uptime-monitor/internal/urlutil"
)

// Prober is the single-probe port; the HTTP implementation lives in
// internal/probe.
type Prober interface {
	Probe(ctx context.Context, target string) (*probe.Result, error)
}

type Config struct {
	RetentionDays int
}

// Monitor owns the run-scoped state: summary counters and the per-domain
// consecutive-failure tracker. Both live only for one process invocation.
type Monitor struct {
	log      *zap.Logger
	store    repo.Store
	prober   Prober
	cfg      Config
	failures failureTracker
	summary  domain.Summary
}

func New(log *zap.Logger, store repo.Store, prober Prober, cfg Config) *Monitor {
	return &Monitor{
		log:      log,
		store:    store,
		prober:   prober,
		cfg:      cfg,
		failures: newFailureTracker(),
	}
}

// Summary returns the counters accumulated by the last Run.
func (m *Monitor) Summary() domain.Summary { return m.summary }

// Run executes one full pass: prune retention, then probe every target in
// list order, batching all writes into a single transaction committed after
// the loop. Per-target failures are logged and absorbed; only the run
// transaction itself is fatal.
func (m *Monitor) Run(ctx context.Context, targets []string) error {
	now := time.Now()
	runTS := now.Format(domain.TimestampLayout)
	cutoff := now.AddDate(0, 0, -m.cfg.RetentionDays).Format(domain.TimestampLayout)

	if deleted, err := m.store.Prune(ctx, cutoff); err != nil {
		m.log.Error("prune_failed", zap.Error(err))
	} else if deleted > 0 {
		m.log.Info("pruned_old_records", zap.Int64("deleted", deleted))
	}

	tx, err := m.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin run transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, target := range targets {
		m.checkTarget(ctx, tx, target, runTS)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	committed = true

	m.log.Info("monitoring_complete",
		zap.Int("probed", m.summary.Probed),
		zap.Int("errors", m.summary.Errors),
		zap.Int("cache_misses", m.summary.Misses),
	)
	return nil
}

func (m *Monitor) checkTarget(ctx context.Context, tx repo.RunTx, target, ts string) {
	if !urlutil.Validate(target) {
		m.log.Error("invalid_url", zap.String("url", target))
		return
	}
	dom, ok := urlutil.ExtractDomain(target)
	if !ok {
		m.log.Error("domain_extraction_failed", zap.String("url", target))
		return
	}
	m.summary.Probed++

	start := time.Now()
	res, err := m.prober.Probe(ctx, target)

	var outcome domain.Outcome
	if err != nil {
		var reqErr *probe.RequestError
		if errors.As(err, &reqErr) {
			// Expected outage: unreachable or reachable-but-erroring.
			m.log.Info("request_failed",
				zap.String("url", target),
				zap.String("reason", reqErr.Reason),
				zap.Error(err))
		} else {
			m.log.Error("unexpected_probe_error",
				zap.String("url", target),
				zap.Error(err))
		}
		outcome = probe.ExtractFailure()
		m.summary.Errors++
		if n := m.failures.failure(dom); n >= 3 {
			m.log.Warn("consecutive_failures",
				zap.String("url", target),
				zap.Int("count", n))
		}
	} else {
		outcome = probe.ExtractSuccess(res, start)
		m.failures.success(dom)
		if *outcome.ResponseCode != 200 {
			m.log.Info("non_200_response",
				zap.String("url", target),
				zap.Int("status", *outcome.ResponseCode))
		}
		m.checkCacheStatus(outcome, target)
	}

	rec := &domain.Record{Domain: dom, Timestamp: ts, Outcome: outcome}
	if err := tx.Save(ctx, rec); err != nil {
		m.log.Error("save_failed", zap.String("domain", dom), zap.Error(err))
	}
}

// checkCacheStatus declares a miss iff neither indicator contains "hit" and
// the status is exactly 200. Other cacheable statuses (e.g. 304) are
// deliberately not counted. Never called for failure outcomes.
func (m *Monitor) checkCacheStatus(o domain.Outcome, target string) {
	if o.ResponseCode == nil || *o.ResponseCode != 200 {
		return
	}
	cf := lowerOrEmpty(o.CFCacheStatus)
	ls := lowerOrEmpty(o.XLitespeedCache)
	if strings.Contains(cf, "hit") || strings.Contains(ls, "hit") {
		return
	}
	m.summary.Misses++
	m.log.Info("cache_miss",
		zap.String("url", target),
		zap.String("cf", orNone(cf)),
		zap.String("litespeed", orNone(ls)))
}

func lowerOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return strings.ToLower(*s)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
