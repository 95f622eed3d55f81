package domain

import "regexp"

// VehicleType enumerates the fleet vehicle classes the entry form offers.
type VehicleType string

const (
	VehiclePrimeMover         VehicleType = "Prime Mover"
	VehicleTerminalTransport  VehicleType = "Terminal Transport"
	VehiclePrimeMoverInternal VehicleType = "Prime Mover Internal"
	VehicleInternalTransport  VehicleType = "Internal Transport"
	VehicleSmallForklift      VehicleType = "Small Forklift"
	VehicleRingsTractor       VehicleType = "Rings Tractor"
	VehicleRTGCrane           VehicleType = "Rubber Tire Granty Crane"
)

// VehicleTypes lists all recognized vehicle classes.
var VehicleTypes = []VehicleType{
	VehiclePrimeMover,
	VehicleTerminalTransport,
	VehiclePrimeMoverInternal,
	VehicleInternalTransport,
	VehicleSmallForklift,
	VehicleRingsTractor,
	VehicleRTGCrane,
}

// vehicle numbers follow the convention: 2-letter vehicle-type code + 4 digits
var vehicleNoPattern = regexp.MustCompile(`^[A-Za-z]{2}[0-9]{4}$`)

// ValidVehicleNo reports whether s matches the vehicle number convention.
func ValidVehicleNo(s string) bool {
	return vehicleNoPattern.MatchString(s)
}

// TirePositions lists the recognized mounting positions. The four named
// positions come from the wheel-layout form; the positional codes come from
// the multi-axle form used for larger vehicles.
var TirePositions = []string{
	"Front Left", "Front Right", "Rear Left", "Rear Right",
	"P#01", "P#02", "P#03", "P#04", "P#05", "P#06", "P#07", "P#08",
}

// ValidTirePosition reports whether p is a recognized mounting position.
func ValidTirePosition(p string) bool {
	for _, v := range TirePositions {
		if v == p {
			return true
		}
	}
	return false
}
