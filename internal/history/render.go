// Package history renders persisted probe history for the viewer CLI.
package history

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ffunk/uptime-monitor/internal/repo"
)

// Render prints one block per domain table: a header line with the table
// name mapped back to dotted form, then up to limit rows newest-first as
// "timestamp flag code ttfb total", then a blank line. The flag is H for an
// all-NULL outage row, G otherwise; NULL columns render blank.
func Render(ctx context.Context, w io.Writer, store repo.HistoryReader, limit int) error {
	tables, err := store.Tables(ctx)
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	for _, table := range tables {
		rows, err := store.Recent(ctx, table, limit)
		if err != nil {
			return fmt.Errorf("read %s: %w", table, err)
		}
		fmt.Fprintln(w, strings.ReplaceAll(table, "_", "."))
		for _, r := range rows {
			fmt.Fprintf(w, "%s %s %s %s %s\n",
				r.Timestamp, flag(r), intCol(r.ResponseCode), floatCol(r.TTFB), floatCol(r.Total))
		}
		fmt.Fprintln(w)
	}
	return nil
}

func flag(r repo.HistoryRow) string {
	if r.ResponseCode == nil && r.TTFB == nil && r.Total == nil {
		return "H"
	}
	return "G"
}

func intCol(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatCol(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
