package crawler

import (
	"sync"

	"github.com/jthrilly/dead-link-checker/internal/model"
)

// Results collects link outcomes as workers produce them. Outcomes are
// append-only: the enqueue-once guarantee of the frontier means no address
// is ever recorded twice, so nothing here is ever overwritten.
type Results struct {
	mu       sync.Mutex
	outcomes []model.LinkOutcome
}

// NewResults creates an empty aggregator.
func NewResults() *Results {
	return &Results{}
}

// Record appends one outcome.
func (r *Results) Record(o model.LinkOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

// Snapshot returns a copy of all outcomes in arrival order.
func (r *Results) Snapshot() []model.LinkOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.LinkOutcome, len(r.outcomes))
	copy(out, r.outcomes)
	return out
}

// Checked returns the number of outcomes recorded so far. Read by the
// progress display while the crawl is running.
func (r *Results) Checked() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.outcomes)
}
