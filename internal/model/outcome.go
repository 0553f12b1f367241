package model

import "fmt"

// StatusFetchError is the sentinel status recorded when a link could not be
// fetched at all (DNS failure, connection refused, timeout). It is
// deliberately outside the valid HTTP status range so it can share the
// Status field with real response codes.
const StatusFetchError = 0

// FetchErrorText is the human-readable tag rendered for StatusFetchError.
const FetchErrorText = "FETCH_ERROR"

// LinkOutcome is the result of checking a single address.
// Exactly one outcome is produced for every distinct address the crawl
// ever schedules; outcomes are never rewritten once recorded.
type LinkOutcome struct {
	// Address is the normalized absolute URL that was checked.
	Address string `json:"address"`

	// Status is the HTTP status code of the response, or StatusFetchError
	// if the request failed at the transport level.
	Status int `json:"status"`

	// Err describes why the address is considered dead beyond its status
	// code: the transport error message, or a note about a malformed
	// redirect. Empty for ordinary responses.
	Err string `json:"error,omitempty"`
}

// IsDead reports whether this outcome marks the address as a dead link:
// an HTTP error status, a transport failure, or a redirect that could not
// be followed.
func (o LinkOutcome) IsDead() bool {
	if o.Status == StatusFetchError {
		return true
	}
	if o.Status >= 300 && o.Status < 400 {
		// A redirect is dead only when it carried no usable Location.
		return o.Err != ""
	}
	return o.Status >= 400
}

// StatusText returns the status for display: the numeric code, or the
// FETCH_ERROR tag for transport failures.
func (o LinkOutcome) StatusText() string {
	if o.Status == StatusFetchError {
		return FetchErrorText
	}
	return fmt.Sprintf("%d", o.Status)
}

// String renders the outcome in the "address — status" form used by the
// dead-link listing.
func (o LinkOutcome) String() string {
	if o.Err != "" {
		return fmt.Sprintf("%s — %s (%s)", o.Address, o.StatusText(), o.Err)
	}
	return fmt.Sprintf("%s — %s", o.Address, o.StatusText())
}
