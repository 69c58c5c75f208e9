// Package urlutil validates targets and derives their persistence key.
package urlutil

import (
	"net/url"
	"strings"
)

// Validate reports whether raw is a well-formed probe target: it must parse,
// carry an http or https scheme, and have a non-empty authority. It never
// panics on garbage input.
func Validate(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ExtractDomain derives the normalized domain from a target URL: the
// authority lowercased with a leading "www." stripped. The second return is
// false when the URL does not parse or has no host; callers log and skip.
// A port, if present, is kept and left for the store's identifier check.
func ExtractDomain(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	d := strings.ToLower(u.Host)
	d = strings.TrimPrefix(d, "www.")
	return d, true
}
