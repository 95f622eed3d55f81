package service

import (
	"context"
	"strings"
	"time"

	"optitrack-data/internal/domain"
)

// fakeReadingsRepo keeps readings in a slice, in insertion order, with the
// same (recorded_date, tire_id) upsert semantics as the Postgres repo.
type fakeReadingsRepo struct {
	readings []domain.Reading
	failWith error
}

func (f *fakeReadingsRepo) InsertReading(ctx context.Context, r domain.Reading) error {
	if f.failWith != nil {
		return f.failWith
	}
	for i, existing := range f.readings {
		if existing.RecordedDate == r.RecordedDate &&
			strings.EqualFold(existing.TireID, r.TireID) {
			f.readings[i] = r
			return nil
		}
	}
	f.readings = append(f.readings, r)
	return nil
}

func (f *fakeReadingsRepo) Snapshot(ctx context.Context) ([]domain.Reading, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]domain.Reading, len(f.readings))
	copy(out, f.readings)
	return out, nil
}

func (f *fakeReadingsRepo) ListByVehicle(ctx context.Context, vehicleNo string) ([]domain.Reading, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []domain.Reading
	for _, r := range f.readings {
		if strings.EqualFold(r.VehicleID, vehicleNo) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReadingsRepo) ListByDateRange(ctx context.Context, from, to string) ([]domain.Reading, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	fromAt, _ := time.Parse(domain.DateLayout, from)
	toAt, _ := time.Parse(domain.DateLayout, to)
	var out []domain.Reading
	for _, r := range f.readings {
		at, err := time.Parse(domain.DateLayout, r.RecordedDate)
		if err != nil {
			continue
		}
		if !at.Before(fromAt) && !at.After(toAt) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReadingsRepo) ListByTire(ctx context.Context, fragment string) ([]domain.Reading, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []domain.Reading
	for _, r := range f.readings {
		if strings.Contains(strings.ToLower(r.TireID), strings.ToLower(fragment)) {
			out = append(out, r)
		}
	}
	return out, nil
}
