package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/ffunk/uptime-monitor/internal/domain"
	"github.com/ffunk/uptime-monitor/internal/repo"
)

var _ repo.Store = (*Store)(nil)
var _ repo.HistoryReader = (*Store)(nil)

// identPattern is the allow-list for table names. Domains are transformed
// to identifiers and then validated before ever being interpolated into a
// statement; identifiers cannot be bound as parameters, so this check is
// the only guard.
var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

var tableReplacer = strings.NewReplacer(".", "_", "-", "_")

// TableName maps a normalized domain to its table identifier: lowercased,
// with '.' and '-' replaced by '_'. An error means the domain cannot be
// persisted (e.g., it still carries a port).
func TableName(d string) (string, error) {
	name := strings.ToLower(tableReplacer.Replace(d))
	if !identPattern.MatchString(name) {
		return "", fmt.Errorf("domain %q does not map to a valid table name", d)
	}
	return name, nil
}

// Store is the SQLite persistence layer: one table per domain, six columns,
// WAL journaling so an in-progress run never blocks external readers.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// New opens (or creates) the store file. WAL is enabled at connection time;
// a busy timeout covers the handoff with concurrent readers.
func New(ctx context.Context, path string, log *zap.Logger) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Single writer handle for the whole run.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Prune removes rows older than cutoff from every domain table, in its own
// transaction. One bad table never aborts the batch: failures accumulate
// and the rest of the pass continues.
func (s *Store) Prune(ctx context.Context, cutoff string) (int64, error) {
	tables, err := s.Tables(ctx)
	if err != nil {
		return 0, fmt.Errorf("list tables: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin prune: %w", err)
	}
	defer tx.Rollback()

	var deleted int64
	var errs error
	for _, name := range tables {
		res, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE timestamp < ?`, name), cutoff)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("prune %s: %w", name, err))
			continue
		}
		n, _ := res.RowsAffected()
		deleted += n
	}
	if err := tx.Commit(); err != nil {
		return 0, multierr.Append(errs, fmt.Errorf("commit prune: %w", err))
	}
	return deleted, errs
}

// Begin opens the run transaction batching all of a run's writes.
func (s *Store) Begin(ctx context.Context) (repo.RunTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin run transaction: %w", err)
	}
	return &runTx{tx: tx}, nil
}

type runTx struct {
	tx *sql.Tx
}

func (t *runTx) Save(ctx context.Context, rec *domain.Record) error {
	name, err := TableName(rec.Domain)
	if err != nil {
		return err
	}
	if _, err := t.tx.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			timestamp TEXT PRIMARY KEY,
			response_code INTEGER,
			cf_cache_status TEXT,
			x_litespeed_cache TEXT,
			ttfb REAL,
			total REAL
		)`, name)); err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}
	if _, err := t.tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT OR REPLACE INTO %s
		(timestamp, response_code, cf_cache_status, x_litespeed_cache, ttfb, total)
		VALUES (?, ?, ?, ?, ?, ?)`, name),
		rec.Timestamp, rec.ResponseCode, rec.CFCacheStatus,
		rec.XLitespeedCache, rec.TTFB, rec.Total,
	); err != nil {
		return fmt.Errorf("save record for %s: %w", rec.Domain, err)
	}
	return nil
}

func (t *runTx) Commit() error   { return t.tx.Commit() }
func (t *runTx) Rollback() error { return t.tx.Rollback() }

// Tables lists the domain tables, skipping SQLite internals and anything
// that does not match the identifier allow-list.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query sqlite_master: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		if identPattern.MatchString(name) {
			names = append(names, name)
		}
	}
	return names, rows.Err()
}

// Recent returns up to limit rows for one table, newest first.
func (s *Store) Recent(ctx context.Context, table string, limit int) ([]repo.HistoryRow, error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT timestamp, response_code, ttfb, total FROM %s ORDER BY timestamp DESC LIMIT ?`, table),
		limit)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out []repo.HistoryRow
	for rows.Next() {
		var r repo.HistoryRow
		var code sql.NullInt64
		var ttfb, total sql.NullFloat64
		if err := rows.Scan(&r.Timestamp, &code, &ttfb, &total); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		if code.Valid {
			v := int(code.Int64)
			r.ResponseCode = &v
		}
		if ttfb.Valid {
			v := ttfb.Float64
			r.TTFB = &v
		}
		if total.Valid {
			v := total.Float64
			r.Total = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
