// README: Simulated driver gateway with a fixed response delay.
package dispatch

import (
	"context"
	"time"

	"ridehub/internal/modules/trip"
	"ridehub/internal/types"
)

// SimGateway answers every offer with a fixed outcome after a fixed delay.
// It stands in for a real driver app channel in local runs and tests; the
// coordinator interface is what a production gateway would plug into.
type SimGateway struct {
	Delay   time.Duration
	Outcome Outcome
}

func (g *SimGateway) Offer(ctx context.Context, _ types.ID, _ *trip.Trip) (Outcome, error) {
	select {
	case <-ctx.Done():
		return OutcomeTimedOut, ctx.Err()
	case <-time.After(g.Delay):
		return g.Outcome, nil
	}
}
