// README: Common value types shared across modules.
package types

// ID is an opaque entity identifier (trips, customers, drivers).
type ID string

// Point is a WGS84 coordinate. Lat is in [-90,90], Lng in [-180,180].
type Point struct {
	Lat float64
	Lng float64
}

// Money is an amount in whole currency units.
type Money struct {
	Amount   int64
	Currency string
}
