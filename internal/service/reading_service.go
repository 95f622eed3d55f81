package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"optitrack-data/internal/config"
	"optitrack-data/internal/domain"
	"optitrack-data/internal/repository"
	"optitrack-data/internal/store"
	"optitrack-data/internal/tireops"

	"go.uber.org/zap"
)

// ErrNoData means the query matched nothing. It is deliberately distinct
// from transport/storage failures so the clients can render "no data found"
// instead of an error dialog.
var ErrNoData = errors.New("no data found")

const (
	snapshotCacheKey = "tiredata:snapshot"
	snapshotCacheTTL = 10 * time.Second
)

// ReadingStatus is a reading with its derived health verdict attached. The
// verdict is recomputed on every query; it is never persisted or trusted
// across time.
type ReadingStatus struct {
	domain.Reading
	Status string `json:"status"`
}

// ReadingService is the application service around the tireops engine: it
// materializes snapshots from the repository, runs aggregation/evaluation,
// and accepts new readings.
type ReadingService interface {
	SubmitReading(ctx context.Context, r domain.Reading) error

	// SearchTires returns the current (latest) reading of every tire whose id
	// contains the fragment, with verdicts, sorted by tire id.
	SearchTires(ctx context.Context, fragment string) ([]ReadingStatus, error)

	// TireHistory returns every reading of one tire, newest first.
	TireHistory(ctx context.Context, tireNo string) ([]ReadingStatus, error)

	// VehicleStatus returns the latest reading per wheel position of one
	// vehicle, sorted by position.
	VehicleStatus(ctx context.Context, vehicleNo string) ([]ReadingStatus, error)

	// ReadingsBetween returns every reading whose partition date falls in
	// [from, to] (canonical DD-MM-YYYY), with verdicts, newest first.
	ReadingsBetween(ctx context.Context, from, to string) ([]ReadingStatus, error)

	// Snapshot returns all readings currently known, in insertion order.
	Snapshot(ctx context.Context) ([]domain.Reading, error)

	// Thresholds exposes the configured health bands (for the evaluator and
	// for report rendering).
	Thresholds() tireops.Thresholds
}

type readingService struct {
	repo       repository.ReadingsRepository
	kv         store.KV
	thresholds tireops.Thresholds
	logger     *zap.Logger
	now        func() time.Time
}

func NewReadingService(repo repository.ReadingsRepository, kv store.KV, th config.ThresholdsConfig, logger *zap.Logger) ReadingService {
	return &readingService{
		repo: repo,
		kv:   kv,
		thresholds: tireops.Thresholds{
			PressureGoodMin: th.PressureGoodMin,
			PressureWarnMin: th.PressureWarnMin,
			TreadGoodMin:    th.TreadGoodMin,
			TreadWarnMin:    th.TreadWarnMin,
		},
		logger: logger,
		now:    time.Now,
	}
}

func (s *readingService) Thresholds() tireops.Thresholds {
	return s.thresholds
}

func (s *readingService) SubmitReading(ctx context.Context, r domain.Reading) error {
	r.TireID = strings.TrimSpace(r.TireID)
	r.VehicleID = strings.TrimSpace(r.VehicleID)

	if r.TireID == "" {
		return fmt.Errorf("tire number is required")
	}
	if !domain.ValidVehicleNo(r.VehicleID) {
		return fmt.Errorf("invalid vehicle number: %q", r.VehicleID)
	}
	if !domain.ValidTirePosition(r.Position) {
		return fmt.Errorf("invalid tire position: %q", r.Position)
	}
	if badNumber(r.Pressure) || badNumber(r.TreadDepth) || badNumber(r.KmReading) {
		return fmt.Errorf("pressure, tread depth and km reading must be numeric")
	}

	now := s.now()
	if r.RecordedDate == "" {
		r.RecordedDate = now.Format(domain.DateLayout)
	}
	if r.RecordedTime == "" {
		r.RecordedTime = now.Format(domain.TimeLayout)
	}
	if r.RecordedAt().IsZero() {
		return fmt.Errorf("invalid recorded date: %q", r.RecordedDate)
	}

	if err := s.repo.InsertReading(ctx, r); err != nil {
		return err
	}

	// drop the cached snapshot so the next query sees this reading
	if err := s.kv.Del(ctx, snapshotCacheKey); err != nil {
		s.logger.Warn("Failed to invalidate snapshot cache", zap.Error(err))
	}

	s.logger.Info("Reading recorded",
		zap.String("tire_id", r.TireID),
		zap.String("vehicle_id", r.VehicleID),
		zap.String("position", r.Position),
		zap.String("recorded_date", r.RecordedDate),
	)
	return nil
}

func (s *readingService) SearchTires(ctx context.Context, fragment string) ([]ReadingStatus, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var filter tireops.FilterFunc
	if strings.TrimSpace(fragment) != "" {
		filter = tireops.MatchTireID(fragment)
	}

	current := tireops.Aggregate(snapshot, tireops.KeyByTire, filter)
	if len(current) == 0 {
		return nil, ErrNoData
	}
	return s.sortedStatuses(current), nil
}

func (s *readingService) TireHistory(ctx context.Context, tireNo string) ([]ReadingStatus, error) {
	tireNo = strings.TrimSpace(tireNo)
	if tireNo == "" {
		return nil, fmt.Errorf("tire number is required")
	}

	readings, err := s.repo.ListByTire(ctx, tireNo)
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, ErrNoData
	}

	out := make([]ReadingStatus, 0, len(readings))
	for _, r := range readings {
		out = append(out, s.withStatus(r))
	}
	// newest first
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].RecordedAt().Before(out[i].RecordedAt())
	})
	return out, nil
}

func (s *readingService) VehicleStatus(ctx context.Context, vehicleNo string) ([]ReadingStatus, error) {
	vehicleNo = strings.TrimSpace(vehicleNo)
	if !domain.ValidVehicleNo(vehicleNo) {
		return nil, fmt.Errorf("invalid vehicle number: %q", vehicleNo)
	}

	readings, err := s.repo.ListByVehicle(ctx, vehicleNo)
	if err != nil {
		return nil, err
	}

	current := tireops.Aggregate(readings, tireops.KeyByVehiclePosition, tireops.MatchVehicleID(vehicleNo))
	if len(current) == 0 {
		return nil, ErrNoData
	}

	out := make([]ReadingStatus, 0, len(current))
	for _, r := range current {
		out = append(out, s.withStatus(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *readingService) ReadingsBetween(ctx context.Context, from, to string) ([]ReadingStatus, error) {
	fromAt, err := time.Parse(domain.DateLayout, strings.TrimSpace(from))
	if err != nil {
		return nil, fmt.Errorf("invalid from date: %q", from)
	}
	toAt, err := time.Parse(domain.DateLayout, strings.TrimSpace(to))
	if err != nil {
		return nil, fmt.Errorf("invalid to date: %q", to)
	}
	if toAt.Before(fromAt) {
		return nil, fmt.Errorf("date range is reversed: %s .. %s", from, to)
	}

	readings, err := s.repo.ListByDateRange(ctx, strings.TrimSpace(from), strings.TrimSpace(to))
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, ErrNoData
	}

	out := make([]ReadingStatus, 0, len(readings))
	for _, r := range readings {
		out = append(out, s.withStatus(r))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].RecordedAt().Before(out[i].RecordedAt())
	})
	return out, nil
}

// Snapshot reads the full set of readings, served from the Redis cache when
// fresh. A cache failure falls back to the database rather than failing the
// query.
func (s *readingService) Snapshot(ctx context.Context) ([]domain.Reading, error) {
	if cached, err := s.kv.Get(ctx, snapshotCacheKey); err == nil {
		var readings []domain.Reading
		if err := json.Unmarshal([]byte(cached), &readings); err == nil {
			return readings, nil
		}
	} else if err != store.ErrMiss {
		s.logger.Warn("Snapshot cache read failed", zap.Error(err))
	}

	readings, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(readings); err == nil {
		if err := s.kv.Set(ctx, snapshotCacheKey, string(data), snapshotCacheTTL); err != nil {
			s.logger.Warn("Snapshot cache write failed", zap.Error(err))
		}
	}
	return readings, nil
}

func (s *readingService) withStatus(r domain.Reading) ReadingStatus {
	return ReadingStatus{
		Reading: r,
		Status:  tireops.Evaluate(r.Pressure, r.TreadDepth, s.thresholds).String(),
	}
}

func (s *readingService) sortedStatuses(m map[string]domain.Reading) []ReadingStatus {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]ReadingStatus, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.withStatus(m[k]))
	}
	return out
}

func badNumber(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}
