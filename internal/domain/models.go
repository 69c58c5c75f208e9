package domain

// TimestampLayout is the minute-resolution layout used both as the run
// timestamp and as the per-table primary key. Two probes of the same domain
// within one minute collapse to a single row.
const TimestampLayout = "2006-01-02T15:04"

// Outcome holds the stats extracted from one probe. Pointer fields allow
// nil, which maps to NULL in the store. ResponseCode is nil iff every other
// field is nil: a failed probe is recorded as an all-NULL row, while cache
// headers may legitimately be absent on a success.
type Outcome struct {
	ResponseCode    *int     `json:"response_code"`
	CFCacheStatus   *string  `json:"cf_cache_status"`
	XLitespeedCache *string  `json:"x_litespeed_cache"`
	TTFB            *float64 `json:"ttfb"`
	Total           *float64 `json:"total"`
}

// Failed reports whether the outcome is the uniform failure marker.
func (o Outcome) Failed() bool {
	return o.ResponseCode == nil
}

// Summary is the run-scoped counter set logged once at the end of a run.
type Summary struct {
	Probed int
	Errors int
	Misses int
}
