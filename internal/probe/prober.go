package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Failure reason classes carried by RequestError. They end up in the log
// stream so an operator can tell "unreachable" from "reachable but erroring"
// even though both persist as the same outage row.
const (
	ReasonTimeout    = "timeout"
	ReasonHTTPError  = "http_error"
	ReasonHTTPStatus = "http_status"
)

// RequestError is the expected, non-fatal probe failure: transport error,
// timeout, or an HTTP status >= 400. Anything the Prober returns that is
// not a RequestError is an anomaly and gets logged at error severity.
type RequestError struct {
	Reason string
	Status int // set when Reason == ReasonHTTPStatus
	Err    error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: HTTP %d", e.Reason, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Result is a successful raw response: the terminal status after redirects,
// the response headers, and the transport-measured time to first byte. The
// body has already been drained by the time the caller sees a Result, so
// wall-clock time since probe start covers the full transfer.
type Result struct {
	StatusCode int
	Header     http.Header
	TTFB       time.Duration
}

// Prober issues one timed GET per target with a fixed identifying
// user-agent. Redirects are followed (client default); the client timeout
// bounds the whole exchange.
type Prober struct {
	Client    *http.Client
	UserAgent string
}

func NewProber(timeout time.Duration, userAgent string) *Prober {
	return &Prober{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: userAgent,
	}
}

// Probe performs the GET. A status >= 400 is treated as a failure even
// though the endpoint answered. Returns (nil, *RequestError) for every
// expected failure class and a plain error for anything else.
func (p *Prober) Probe(ctx context.Context, target string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", p.UserAgent)

	start := time.Now()
	resp, err := p.Client.Do(req)
	if err != nil {
		reason := ReasonHTTPError
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			reason = ReasonTimeout
		}
		return nil, &RequestError{Reason: reason, Err: err}
	}
	ttfb := time.Since(start)
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return nil, &RequestError{Reason: ReasonHTTPError, Err: err}
	}
	if resp.StatusCode >= 400 {
		return nil, &RequestError{Reason: ReasonHTTPStatus, Status: resp.StatusCode}
	}
	return &Result{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		TTFB:       ttfb,
	}, nil
}
