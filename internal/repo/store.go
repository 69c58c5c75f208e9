package repo

import (
	"context"

	"github.com/ffunk/uptime-monitor/internal/domain"
)

// Ports (interfaces) — the monitor run only talks to these, so tests can
// swap in the memory adapter.

// Store owns the per-domain schema and retention. One Store handle is
// shared across a whole run and released by the caller on every exit path.
type Store interface {
	// Prune deletes rows strictly older than cutoff (minute layout) from
	// every domain table and commits on its own, independent of any run
	// transaction. Per-table failures do not stop the pass; the aggregate
	// deleted count is returned alongside whatever errors accumulated.
	Prune(ctx context.Context, cutoff string) (int64, error)

	// Begin opens the run transaction that batches all of a run's writes.
	Begin(ctx context.Context) (RunTx, error)

	Close() error
}

// RunTx batches one run's Record writes. Nothing is visible to readers
// until Commit; a crash mid-run loses only the uncommitted batch.
type RunTx interface {
	// Save upserts the record into its domain's table, creating the table
	// if needed. Keyed by timestamp, so re-runs within the same minute
	// replace in place.
	Save(ctx context.Context, rec *domain.Record) error
	Commit() error
	Rollback() error
}

// HistoryRow is the read-side projection the history viewer consumes.
type HistoryRow struct {
	Timestamp    string
	ResponseCode *int
	TTFB         *float64
	Total        *float64
}

// HistoryReader is the read-only surface over the persisted schema.
type HistoryReader interface {
	Tables(ctx context.Context) ([]string, error)
	Recent(ctx context.Context, table string, limit int) ([]HistoryRow, error)
}
