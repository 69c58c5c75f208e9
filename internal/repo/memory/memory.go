// Package memory is an in-memory Store used by monitor tests.
package memory

import (
	"context"
	"sync"

	"github.com/ffunk/uptime-monitor/internal/domain"
	"github.com/ffunk/uptime-monitor/internal/repo"
)

var _ repo.Store = (*Store)(nil)

type Store struct {
	mu     sync.RWMutex
	tables map[string]map[string]domain.Outcome

	// SaveErr, when set, makes every Save fail. Lets tests exercise the
	// per-target persistence-error path.
	SaveErr error
}

func New() *Store {
	return &Store{tables: make(map[string]map[string]domain.Outcome)}
}

func (s *Store) Close() error { return nil }

func (s *Store) Prune(ctx context.Context, cutoff string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for _, rows := range s.tables {
		for ts := range rows {
			// Minute-layout timestamps order lexicographically.
			if ts < cutoff {
				delete(rows, ts)
				deleted++
			}
		}
	}
	return deleted, nil
}

func (s *Store) Begin(ctx context.Context) (repo.RunTx, error) {
	return &runTx{store: s}, nil
}

type runTx struct {
	store  *Store
	staged []domain.Record
}

func (t *runTx) Save(ctx context.Context, rec *domain.Record) error {
	if t.store.SaveErr != nil {
		return t.store.SaveErr
	}
	t.staged = append(t.staged, *rec)
	return nil
}

func (t *runTx) Commit() error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, rec := range t.staged {
		rows := t.store.tables[rec.Domain]
		if rows == nil {
			rows = make(map[string]domain.Outcome)
			t.store.tables[rec.Domain] = rows
		}
		rows[rec.Timestamp] = rec.Outcome
	}
	t.staged = nil
	return nil
}

func (t *runTx) Rollback() error {
	t.staged = nil
	return nil
}

// Domains lists the domains that have at least one committed row.
func (s *Store) Domains() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.tables))
	for d := range s.tables {
		out = append(out, d)
	}
	return out
}

// Rows returns a copy of the committed rows for one domain.
func (s *Store) Rows(d string) map[string]domain.Outcome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Outcome, len(s.tables[d]))
	for ts, o := range s.tables[d] {
		out[ts] = o
	}
	return out
}
