package probe

import (
	"math"
	"time"

	"github.com/ffunk/uptime-monitor/internal/domain"
)

// Cache-indicator headers, read case-insensitively.
const (
	headerCFCacheStatus  = "cf-cache-status"
	headerLitespeedCache = "x-litespeed-cache"
)

// ExtractSuccess builds the uniform outcome record for a successful probe.
// TTFB is the transport-measured latency from the Result; Total is wall
// clock since start, which covers DNS, connect, redirects and the body
// read. Both are seconds rounded to three decimals. A missing cache header
// maps to nil, not empty string.
func ExtractSuccess(res *Result, start time.Time) domain.Outcome {
	code := res.StatusCode
	o := domain.Outcome{ResponseCode: &code}
	if v := res.Header.Get(headerCFCacheStatus); v != "" {
		o.CFCacheStatus = &v
	}
	if v := res.Header.Get(headerLitespeedCache); v != "" {
		o.XLitespeedCache = &v
	}
	ttfb := round3(res.TTFB.Seconds())
	total := round3(time.Since(start).Seconds())
	o.TTFB = &ttfb
	o.Total = &total
	return o
}

// ExtractFailure is the all-NULL outage marker used whenever the Prober
// returned no response, regardless of the failure class.
func ExtractFailure() domain.Outcome {
	return domain.Outcome{}
}

func round3(s float64) float64 {
	return math.Round(s*1000) / 1000
}
