// README: Pure fare calculation.
package pricing

import "math"

// Quote computes the fare for a distance and vehicle class against a config
// snapshot. Pure function: no I/O, no hidden state, so repeated quotes while
// the customer is choosing a class are stable.
//
//	price = round((baseFare + km * perKmFare) * multiplier)
//
// Rounding is to the nearest whole currency unit, ties away from zero.
// Distance 0 (pickup == dropoff) is a defined case: the base fare times the
// class multiplier.
func Quote(distanceMeters float64, class VehicleClass, cfg Config) (int64, error) {
	mult, err := cfg.Multiplier(class)
	if err != nil {
		return 0, err
	}
	fare := (float64(cfg.BaseFare) + distanceMeters/1000.0*float64(cfg.PerKmFare)) * mult
	return int64(math.Round(fare)), nil
}

// DriverPayout is the driver's share of a fare after the platform commission.
func DriverPayout(price int64, cfg Config) int64 {
	return int64(math.Round(float64(price) * (100.0 - cfg.CommissionPercent) / 100.0))
}
