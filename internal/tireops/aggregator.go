package tireops

import (
	"strings"

	"optitrack-data/internal/domain"
)

// KeyFunc selects the grouping key for a reading.
type KeyFunc func(domain.Reading) string

// FilterFunc restricts which readings take part in an aggregation.
type FilterFunc func(domain.Reading) bool

// KeyByTire groups by tire id, case-insensitively. Used for the history of
// one tire across partition dates.
func KeyByTire(r domain.Reading) string {
	return strings.ToLower(strings.TrimSpace(r.TireID))
}

// KeyByVehiclePosition groups by (vehicle, mounting position). Used for the
// current state of every wheel position on one vehicle.
func KeyByVehiclePosition(r domain.Reading) string {
	return strings.ToLower(strings.TrimSpace(r.VehicleID)) + "|" + strings.ToLower(strings.TrimSpace(r.Position))
}

// MatchTireID builds a filter that matches readings whose tire id contains
// the given free-text fragment, case-insensitively.
func MatchTireID(fragment string) FilterFunc {
	needle := strings.ToLower(strings.TrimSpace(fragment))
	return func(r domain.Reading) bool {
		return strings.Contains(strings.ToLower(r.TireID), needle)
	}
}

// MatchVehicleID builds a filter that matches readings for one vehicle,
// case-insensitively.
func MatchVehicleID(vehicleNo string) FilterFunc {
	want := strings.ToLower(strings.TrimSpace(vehicleNo))
	return func(r domain.Reading) bool {
		return strings.ToLower(strings.TrimSpace(r.VehicleID)) == want
	}
}

// Aggregate reduces a snapshot of readings to the single most recent reading
// per group key, ordered by the parsed (RecordedDate, RecordedTime) pair.
// filter may be nil. Ties on an identical timestamp resolve to the reading
// encountered later in input order (stable-last-wins); arbitrary, but
// deterministic, and relied on by callers. An empty snapshot, or a filter
// that matches nothing, yields an empty map, never an error. Aggregate is a
// pure function of its inputs: it touches no store and has no side effects.
func Aggregate(readings []domain.Reading, keyOf KeyFunc, filter FilterFunc) map[string]domain.Reading {
	out := make(map[string]domain.Reading)
	for _, r := range readings {
		if filter != nil && !filter(r) {
			continue
		}
		key := keyOf(r)
		cur, ok := out[key]
		if !ok || !r.RecordedAt().Before(cur.RecordedAt()) {
			out[key] = r
		}
	}
	return out
}
