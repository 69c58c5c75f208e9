package monitor

// failureTracker counts consecutive failures per domain within one run.
// A success resets the domain to zero. The map is owned by the Monitor and
// never shared, so no locking is needed on the sequential path.
type failureTracker struct {
	counts map[string]int
}

func newFailureTracker() failureTracker {
	return failureTracker{counts: make(map[string]int)}
}

func (t failureTracker) success(domain string) {
	delete(t.counts, domain)
}

// failure increments and returns the post-increment count.
func (t failureTracker) failure(domain string) int {
	t.counts[domain]++
	return t.counts[domain]
}
