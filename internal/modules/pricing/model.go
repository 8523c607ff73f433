// README: Vehicle classes and the immutable fare configuration snapshot.
package pricing

import "errors"

// VehicleClass is the closed set of offered vehicle classes. Values are
// stable identifiers used as pricing keys, not display labels.
type VehicleClass string

const (
	ClassRegular    VehicleClass = "regular"
	ClassAC         VehicleClass = "ac"
	ClassPublic     VehicleClass = "public"
	ClassVIP        VehicleClass = "vip"
	ClassMicrobus   VehicleClass = "microbus"
	ClassMotorcycle VehicleClass = "motorcycle"
)

// AllClasses lists every class in quoting order.
var AllClasses = []VehicleClass{
	ClassRegular, ClassAC, ClassPublic, ClassVIP, ClassMicrobus, ClassMotorcycle,
}

var (
	// ErrUnknownVehicleClass means the class has no multiplier configured.
	// Callers treat this as "class not offered", not a failure.
	ErrUnknownVehicleClass = errors.New("unknown vehicle class")
	// ErrConfigUnavailable blocks quoting until the settings collaborator
	// can be reached again.
	ErrConfigUnavailable = errors.New("pricing config unavailable")
	// ErrConfigSchemaOutdated means the stored settings use a schema this
	// build does not understand.
	ErrConfigSchemaOutdated = errors.New("pricing config schema outdated")
)

// Config is a point-in-time snapshot of the fare parameters. It is never
// mutated in place; a refresh replaces the whole snapshot atomically.
type Config struct {
	BaseFare           int64                    `validate:"gte=0"`
	PerKmFare          int64                    `validate:"gte=0"`
	CommissionPercent  float64                  `validate:"gte=0,lte=100"`
	VehicleMultipliers map[VehicleClass]float64 `validate:"required,dive,gt=0"`
	ManagerContact     string
	Currency           string
}

// Multiplier returns the fare multiplier for a class, or
// ErrUnknownVehicleClass when the class is absent from the mapping.
func (c Config) Multiplier(class VehicleClass) (float64, error) {
	m, ok := c.VehicleMultipliers[class]
	if !ok {
		return 0, ErrUnknownVehicleClass
	}
	return m, nil
}
