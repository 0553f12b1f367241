package model

import "time"

// RunReport is the full record of one crawl run: the seed, timing
// information, and every link outcome in the order it arrived.
type RunReport struct {
	// Seed is the normalized address the crawl started from.
	Seed string `json:"seed"`

	// Origin is the scheme://host[:port] of the seed. Addresses sharing
	// it were crawled recursively; all others were checked once.
	Origin string `json:"origin"`

	// StartedAt is when the crawl began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the wall-clock time the crawl took.
	Duration time.Duration `json:"duration"`

	// Outcomes holds one entry per distinct address, ordered by arrival.
	Outcomes []LinkOutcome `json:"outcomes"`

	// Interrupted is set when the run was cancelled by a signal before
	// the frontier drained. Outcomes collected so far are still valid.
	Interrupted bool `json:"interrupted,omitempty"`
}

// DeadLinks returns the subset of outcomes classified as dead, preserving
// arrival order.
func (r *RunReport) DeadLinks() []LinkOutcome {
	var dead []LinkOutcome
	for _, o := range r.Outcomes {
		if o.IsDead() {
			dead = append(dead, o)
		}
	}
	return dead
}

// Summary aggregates a run for display and storage.
type Summary struct {
	// Total is the number of distinct addresses checked.
	Total int `json:"total"`

	// Dead is the number of dead links found.
	Dead int `json:"dead"`

	// OK is Total minus Dead.
	OK int `json:"ok"`
}

// NewSummary computes the summary counts for a run.
func NewSummary(r *RunReport) Summary {
	s := Summary{Total: len(r.Outcomes)}
	for _, o := range r.Outcomes {
		if o.IsDead() {
			s.Dead++
		}
	}
	s.OK = s.Total - s.Dead
	return s
}
