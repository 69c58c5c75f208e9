package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ffunk/uptime-monitor/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "stats.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func saveOne(t *testing.T, s *Store, dom, ts string, o domain.Outcome) {
	t.Helper()
	tx, err := s.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tx.Save(context.Background(), &domain.Record{Domain: dom, Timestamp: ts, Outcome: o}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

func successOutcome(code int, ttfb, total float64) domain.Outcome {
	return domain.Outcome{ResponseCode: &code, TTFB: &ttfb, Total: &total}
}

func TestTableName(t *testing.T) {
	cases := []struct {
		domain string
		want   string
		ok     bool
	}{
		{"example.com", "example_com", true},
		{"my-site.co.uk", "my_site_co_uk", true},
		{"Sub.Example.com", "sub_example_com", true},
		{"example.com:8080", "", false},
		{"evil; DROP TABLE x", "", false},
		{"", "", false},
		{"1domain.com", "", false}, // identifier cannot start with a digit
	}
	for _, c := range cases {
		got, err := TableName(c.domain)
		if c.ok && (err != nil || got != c.want) {
			t.Errorf("TableName(%q) = %q, %v; want %q", c.domain, got, err, c.want)
		}
		if !c.ok && err == nil {
			t.Errorf("TableName(%q) = %q, want error", c.domain, got)
		}
	}
}

func TestSave_UpsertSameMinute(t *testing.T) {
	s := newTestStore(t)
	ts := "2026-08-26T10:15"
	saveOne(t, s, "example.com", ts, successOutcome(200, 0.1, 0.2))
	saveOne(t, s, "example.com", ts, successOutcome(503, 0.3, 0.4))

	rows, err := s.Recent(context.Background(), "example_com", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("want exactly one row for the minute, got %d", len(rows))
	}
	if rows[0].ResponseCode == nil || *rows[0].ResponseCode != 503 {
		t.Fatalf("want the later write to win, got %+v", rows[0])
	}
}

func TestSave_NullOutageRow(t *testing.T) {
	s := newTestStore(t)
	saveOne(t, s, "down.example.com", "2026-08-26T10:15", domain.Outcome{})

	rows, err := s.Recent(context.Background(), "down_example_com", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("want one row, got %d", len(rows))
	}
	r := rows[0]
	if r.ResponseCode != nil || r.TTFB != nil || r.Total != nil {
		t.Fatalf("outage row must be all NULL, got %+v", r)
	}
}

func TestSave_RejectsUnsafeDomain(t *testing.T) {
	s := newTestStore(t)
	tx, err := s.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer tx.Rollback()
	err = tx.Save(context.Background(), &domain.Record{
		Domain:    "example.com:8080",
		Timestamp: "2026-08-26T10:15",
	})
	if err == nil {
		t.Fatalf("want sanitizer rejection for domain with port")
	}
}

func TestPrune_RemovesOnlyRowsPastCutoff(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	day31 := now.AddDate(0, 0, -31).Format(domain.TimestampLayout)
	day29 := now.AddDate(0, 0, -29).Format(domain.TimestampLayout)
	cutoff := now.AddDate(0, 0, -30).Format(domain.TimestampLayout)

	saveOne(t, s, "example.com", day31, successOutcome(200, 0.1, 0.2))
	saveOne(t, s, "example.com", day29, successOutcome(200, 0.1, 0.2))
	saveOne(t, s, "other.com", day31, domain.Outcome{})

	deleted, err := s.Prune(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("want 2 rows pruned across tables, got %d", deleted)
	}

	rows, err := s.Recent(context.Background(), "example_com", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(rows) != 1 || rows[0].Timestamp != day29 {
		t.Fatalf("want only the day-29 row to survive, got %+v", rows)
	}

	// Tables are pruned, never dropped.
	tables, err := s.Tables(context.Background())
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("want both tables to survive the prune, got %v", tables)
	}
}

func TestRunTx_RollbackDiscardsWrites(t *testing.T) {
	s := newTestStore(t)
	tx, err := s.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tx.Save(context.Background(), &domain.Record{
		Domain:    "example.com",
		Timestamp: "2026-08-26T10:15",
		Outcome:   successOutcome(200, 0.1, 0.2),
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	tables, err := s.Tables(context.Background())
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	if len(tables) != 0 {
		t.Fatalf("rolled-back run must leave nothing behind, got %v", tables)
	}
}

func TestRecent_NewestFirstWithLimit(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		ts := base.Add(time.Duration(i) * time.Minute).Format(domain.TimestampLayout)
		saveOne(t, s, "example.com", ts, successOutcome(200, 0.1, 0.2))
	}

	rows, err := s.Recent(context.Background(), "example_com", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(rows) != 10 {
		t.Fatalf("want 10 rows, got %d", len(rows))
	}
	if rows[0].Timestamp != "2026-08-26T10:14" {
		t.Fatalf("want newest first, got %q", rows[0].Timestamp)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Timestamp >= rows[i-1].Timestamp {
			t.Fatalf("rows not descending at %d: %q >= %q", i, rows[i].Timestamp, rows[i-1].Timestamp)
		}
	}
}

func TestRecent_RejectsUnsafeTable(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Recent(context.Background(), "x; DROP TABLE y", 5); err == nil {
		t.Fatalf("want rejection of unsafe table name")
	}
}
