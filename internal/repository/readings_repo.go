package repository

import (
	"context"

	"optitrack-data/internal/domain"
)

// ReadingsRepository persists tire readings. The table mirrors the external
// store layout TireData/{date}/{tireId}: (recorded_date, tire_id) is the
// record key, and history is append-only across partition dates.
//
// The repository only narrows the snapshot; grouping, latest-per-key
// selection and health evaluation live in the tireops engine, which works on
// whatever slice these methods return.
type ReadingsRepository interface {
	// InsertReading writes one reading. Re-submitting the same tire on the
	// same partition date overwrites that record, matching the external
	// store's set() semantics; other dates are never touched.
	InsertReading(ctx context.Context, r domain.Reading) error

	// Snapshot returns every reading, in insertion order. Insertion order is
	// what makes the aggregator's stable-last-wins tie-break deterministic.
	Snapshot(ctx context.Context) ([]domain.Reading, error)

	// ListByVehicle returns the readings for one vehicle, case-insensitive,
	// in insertion order.
	ListByVehicle(ctx context.Context, vehicleNo string) ([]domain.Reading, error)

	// ListByTire returns readings whose tire id contains the fragment,
	// case-insensitive, in insertion order.
	ListByTire(ctx context.Context, fragment string) ([]domain.Reading, error)

	// ListByDateRange returns readings whose partition date falls in
	// [from, to], both in the canonical DD-MM-YYYY format.
	ListByDateRange(ctx context.Context, from, to string) ([]domain.Reading, error)
}
