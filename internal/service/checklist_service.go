package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"optitrack-data/internal/domain"
	"optitrack-data/internal/repository"
	"optitrack-data/internal/store"
	"optitrack-data/internal/tireops"

	"go.uber.org/zap"
)

// ChecklistItem is one tire on the daily check list.
type ChecklistItem struct {
	TireID          string `json:"tireNo"`
	VehicleID       string `json:"vehicleNo"`
	Position        string `json:"tirePosition"`
	LastCheckedDate string `json:"lastCheckedDate"`
	CheckedToday    bool   `json:"checkedToday"`
}

// ChecklistService derives the daily tire check list from the reading
// history. A tire's "last checked" date is simply the partition date of its
// latest reading; confirming a check files a fresh reading under today's
// partition, never touching history.
type ChecklistService interface {
	DueToday(ctx context.Context) ([]ChecklistItem, error)
	ConfirmCheck(ctx context.Context, tireNo string) (*ChecklistItem, error)
}

type checklistService struct {
	readings ReadingService
	repo     repository.ReadingsRepository
	kv       store.KV
	logger   *zap.Logger
	now      func() time.Time
}

func NewChecklistService(readings ReadingService, repo repository.ReadingsRepository, kv store.KV, logger *zap.Logger) ChecklistService {
	return &checklistService{
		readings: readings,
		repo:     repo,
		kv:       kv,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *checklistService) DueToday(ctx context.Context) ([]ChecklistItem, error) {
	snapshot, err := s.readings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	latest := tireops.Aggregate(snapshot, tireops.KeyByTire, nil)
	today := s.now().Format(domain.DateLayout)

	items := make([]ChecklistItem, 0, len(latest))
	for _, r := range latest {
		items = append(items, ChecklistItem{
			TireID:          r.TireID,
			VehicleID:       r.VehicleID,
			Position:        r.Position,
			LastCheckedDate: r.RecordedDate,
			CheckedToday:    r.RecordedDate == today,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].TireID < items[j].TireID })
	return items, nil
}

func (s *checklistService) ConfirmCheck(ctx context.Context, tireNo string) (*ChecklistItem, error) {
	tireNo = strings.TrimSpace(tireNo)
	if tireNo == "" {
		return nil, fmt.Errorf("tire number is required")
	}

	snapshot, err := s.readings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	latest := tireops.Aggregate(snapshot, tireops.KeyByTire, nil)
	current, ok := latest[strings.ToLower(tireNo)]
	if !ok {
		return nil, ErrNoData
	}

	now := s.now()
	today := now.Format(domain.DateLayout)
	if current.RecordedDate != today {
		// a confirmation is a new partition-dated record carrying the last
		// known measurements forward
		confirmed := current
		confirmed.RecordedDate = today
		confirmed.RecordedTime = now.Format(domain.TimeLayout)
		if err := s.repo.InsertReading(ctx, confirmed); err != nil {
			return nil, err
		}
		if err := s.kv.Del(ctx, snapshotCacheKey); err != nil {
			s.logger.Warn("Failed to invalidate snapshot cache", zap.Error(err))
		}
		s.logger.Info("Tire check confirmed",
			zap.String("tire_id", current.TireID),
			zap.String("previous_date", current.RecordedDate),
		)
	}

	return &ChecklistItem{
		TireID:          current.TireID,
		VehicleID:       current.VehicleID,
		Position:        current.Position,
		LastCheckedDate: today,
		CheckedToday:    true,
	}, nil
}
