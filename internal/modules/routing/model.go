// README: Route resolution result type.
package routing

import "ridehub/internal/types"

// Result is a resolved route between a pickup and a dropoff. It is built
// once per coordinate pair and never mutated; a newer resolution replaces
// it wholesale.
type Result struct {
	Geometry        []types.Point
	DistanceMeters  float64
	DurationSeconds float64
	UsedFallback    bool
}
