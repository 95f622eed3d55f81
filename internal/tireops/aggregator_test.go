package tireops

import (
	"testing"

	"optitrack-data/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reading(tire, vehicle, pos, date, tm string, pressure, tread float64) domain.Reading {
	return domain.Reading{
		TireID:       tire,
		VehicleID:    vehicle,
		Position:     pos,
		Pressure:     pressure,
		TreadDepth:   tread,
		RecordedDate: date,
		RecordedTime: tm,
	}
}

func TestAggregate_EmptySnapshot(t *testing.T) {
	got := Aggregate(nil, KeyByTire, nil)
	assert.Empty(t, got)

	got = Aggregate([]domain.Reading{}, KeyByTire, nil)
	assert.Empty(t, got)
}

func TestAggregate_FilterMatchesNothing(t *testing.T) {
	snapshot := []domain.Reading{
		reading("T1", "PM0001", "Front Left", "01-01-2025", "", 46, 12),
	}
	got := Aggregate(snapshot, KeyByTire, MatchTireID("ZZ999"))
	// "no data found" is the caller's concern; the aggregator just reports empty
	assert.Empty(t, got)
}

func TestAggregate_LatestPerTire(t *testing.T) {
	// the spec scenario: the second reading is newer and both metrics are
	// below the warn band, so the aggregated entry must evaluate BAD
	snapshot := []domain.Reading{
		reading("T1", "PM0001", "Front Left", "01-01-2025", "", 46, 12),
		reading("T1", "PM0001", "Front Left", "02-01-2025", "", 30, 3),
	}

	got := Aggregate(snapshot, KeyByTire, nil)
	require.Len(t, got, 1)

	latest, ok := got["t1"]
	require.True(t, ok)
	assert.Equal(t, "02-01-2025", latest.RecordedDate)
	assert.Equal(t, Bad, Evaluate(latest.Pressure, latest.TreadDepth, testThresholds))
}

func TestAggregate_SingleDigitDatesCompareNumerically(t *testing.T) {
	// "09-01-2025" > "10-12-2024" as strings but not as dates; the parsed
	// comparison must pick January 2025
	snapshot := []domain.Reading{
		reading("T1", "PM0001", "Front Left", "10-12-2024", "", 50, 12),
		reading("T1", "PM0001", "Front Left", "09-01-2025", "", 44, 8),
	}
	got := Aggregate(snapshot, KeyByTire, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "09-01-2025", got["t1"].RecordedDate)
}

func TestAggregate_TimeBreaksSameDayOrder(t *testing.T) {
	snapshot := []domain.Reading{
		reading("T1", "PM0001", "Front Left", "02-01-2025", "14:30:00", 44, 8),
		reading("T1", "PM0001", "Front Left", "02-01-2025", "08:00:00", 50, 12),
	}
	got := Aggregate(snapshot, KeyByTire, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "14:30:00", got["t1"].RecordedTime)
}

func TestAggregate_TieResolvesToLastInInputOrder(t *testing.T) {
	// identical (date, time): stable-last-wins
	first := reading("T1", "PM0001", "Front Left", "02-01-2025", "08:00:00", 50, 12)
	second := reading("T1", "PM0002", "Front Left", "02-01-2025", "08:00:00", 44, 8)

	got := Aggregate([]domain.Reading{first, second}, KeyByTire, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "PM0002", got["t1"].VehicleID)

	// and in the reversed order the other one wins
	got = Aggregate([]domain.Reading{second, first}, KeyByTire, nil)
	assert.Equal(t, "PM0001", got["t1"].VehicleID)
}

func TestAggregate_GroupCountBoundedByDistinctKeys(t *testing.T) {
	snapshot := []domain.Reading{
		reading("T1", "PM0001", "Front Left", "01-01-2025", "", 46, 12),
		reading("t1", "PM0001", "Front Left", "02-01-2025", "", 46, 12), // same tire, different case
		reading("T2", "PM0001", "Front Right", "01-01-2025", "", 46, 12),
		reading("T3", "PM0002", "Rear Left", "01-01-2025", "", 46, 12),
	}
	got := Aggregate(snapshot, KeyByTire, nil)
	assert.Len(t, got, 3)
}

func TestAggregate_Maximality(t *testing.T) {
	snapshot := []domain.Reading{
		reading("T1", "PM0001", "Front Left", "05-03-2025", "09:00:00", 46, 12),
		reading("T1", "PM0001", "Front Left", "01-04-2025", "07:00:00", 46, 12),
		reading("T1", "PM0001", "Front Left", "28-02-2025", "23:59:59", 46, 12),
		reading("T2", "PM0001", "Front Right", "01-01-2025", "", 46, 12),
	}

	got := Aggregate(snapshot, KeyByTire, nil)
	for key, selected := range got {
		for _, r := range snapshot {
			if KeyByTire(r) != key {
				continue
			}
			assert.False(t, selected.RecordedAt().Before(r.RecordedAt()),
				"selected reading for %s is older than another in its group", key)
		}
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	snapshot := []domain.Reading{
		reading("T1", "PM0001", "Front Left", "01-01-2025", "", 46, 12),
		reading("T1", "PM0001", "Front Left", "02-01-2025", "10:00:00", 30, 3),
		reading("T2", "PM0001", "Front Right", "02-01-2025", "", 44, 8),
	}
	first := Aggregate(snapshot, KeyByTire, nil)
	second := Aggregate(snapshot, KeyByTire, nil)
	assert.Equal(t, first, second)
}

func TestAggregate_ByVehiclePosition(t *testing.T) {
	snapshot := []domain.Reading{
		reading("T1", "PM0001", "Front Left", "01-01-2025", "", 46, 12),
		reading("T9", "PM0001", "Front Left", "03-01-2025", "", 44, 8), // tire swapped on the same position
		reading("T2", "PM0001", "Front Right", "01-01-2025", "", 46, 12),
		reading("T5", "TT0002", "Front Left", "04-01-2025", "", 46, 12), // other vehicle
	}

	got := Aggregate(snapshot, KeyByVehiclePosition, MatchVehicleID("PM0001"))
	require.Len(t, got, 2)
	assert.Equal(t, "T9", got["pm0001|front left"].TireID)
	assert.Equal(t, "T2", got["pm0001|front right"].TireID)
}

func TestMatchTireID_CaseInsensitiveFragment(t *testing.T) {
	r := reading("ABC-123", "PM0001", "Front Left", "01-01-2025", "", 46, 12)
	assert.True(t, MatchTireID("abc")(r))
	assert.True(t, MatchTireID("C-12")(r))
	assert.False(t, MatchTireID("xyz")(r))
}
