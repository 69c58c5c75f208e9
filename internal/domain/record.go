package domain

// Record is one persisted row: an Outcome keyed by (domain, timestamp).
// Domain is the normalized hostname and selects the table; Timestamp is the
// minute-resolution primary key within it.
type Record struct {
	Domain    string `json:"domain"`
	Timestamp string `json:"timestamp"`
	Outcome
}
