// Package units provides shared constants and validation for the length units
// used when reporting trajectories, and the timezone handling used when
// splitting logs by calendar date.
package units

// Unit constants
const (
	Meters = "m"
	Feet   = "ft"
)

// StandardGravity is g0 in m/s².
const StandardGravity = 9.81

// ValidUnits contains all valid unit values
var ValidUnits = []string{Meters, Feet}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "m, ft"
}

// ConvertLength converts a length in meters to the target units.
// Trajectories are computed in meters.
func ConvertLength(meters float64, targetUnits string) float64 {
	switch targetUnits {
	case Feet:
		return meters / 0.3048
	default:
		return meters
	}
}
