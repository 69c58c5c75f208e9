// Command history prints persisted probe history, one block per domain.
//
// Usage: history [store_path] [row_limit]
// Defaults: website_stats.db, 10 rows per domain, newest first.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/ffunk/uptime-monitor/internal/history"
	"github.com/ffunk/uptime-monitor/internal/repo/sqlite"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "history:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	path := "website_stats.db"
	limit := 10
	if len(args) > 0 {
		path = args[0]
	}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("row limit %q: %w", args[1], err)
		}
		limit = n
	}

	ctx := context.Background()
	store, err := sqlite.New(ctx, path, zap.NewNop())
	if err != nil {
		return err
	}
	defer store.Close()

	return history.Render(ctx, os.Stdout, store, limit)
}
