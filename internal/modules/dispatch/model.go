// README: Dispatch outcomes and errors.
package dispatch

import "errors"

// Outcome is a driver's reaction to a single trip offer.
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeDeclined Outcome = "declined"
	OutcomeTimedOut Outcome = "timed_out"
)

// ErrNoDriversAvailable is a business condition, not a failure: every
// candidate declined or timed out, or none were nearby. The customer can
// retry later.
var ErrNoDriversAvailable = errors.New("no drivers available")
