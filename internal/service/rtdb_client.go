package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"optitrack-data/internal/domain"
	"optitrack-data/internal/repository"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// RTDBClient reads snapshots from the legacy realtime database's REST
// export. It only ever consumes a full TireData snapshot; live sync,
// authentication and storage stay with the external backend.
type RTDBClient struct {
	httpClient *resty.Client
	auth       string
	logger     *zap.Logger
}

// rtdbSnapshot mirrors the export layout: TireData/{date}/{tireId} -> record
type rtdbSnapshot map[string]map[string]map[string]any

func NewRTDBClient(baseURL, auth string, logger *zap.Logger) *RTDBClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second). // full snapshots can be large
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Accept", "application/json")

	return &RTDBClient{
		httpClient: client,
		auth:       auth,
		logger:     logger,
	}
}

// FetchSnapshot pulls the full TireData tree and normalizes every record
// into the canonical Reading shape. Records are emitted in partition-date
// order so re-imports stay deterministic.
func (c *RTDBClient) FetchSnapshot(ctx context.Context) ([]domain.Reading, error) {
	var snapshot rtdbSnapshot

	req := c.httpClient.R().
		SetContext(ctx).
		SetResult(&snapshot)
	if c.auth != "" {
		req.SetQueryParam("auth", c.auth)
	}

	resp, err := req.Get("/TireData.json")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch TireData snapshot: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("TireData snapshot request failed: %s", resp.Status())
	}

	readings := make([]domain.Reading, 0)
	for date, entries := range snapshot {
		for tireID, raw := range entries {
			r := domain.NormalizeRecord(raw, date)
			if r.TireID == "" {
				// some legacy records only carry the id as the store key
				r.TireID = tireID
			}
			readings = append(readings, r)
		}
	}

	// map iteration order is random; sort by recorded time for stable imports
	sortReadingsByTime(readings)

	c.logger.Info("Fetched TireData snapshot",
		zap.Int("partition_count", len(snapshot)),
		zap.Int("reading_count", len(readings)),
	)
	return readings, nil
}

// ImportSnapshot copies the legacy store's contents into the local
// repository. Within-partition duplicates overwrite, matching the source's
// set() semantics, so the import is idempotent.
func (c *RTDBClient) ImportSnapshot(ctx context.Context, repo repository.ReadingsRepository) (int, error) {
	readings, err := c.FetchSnapshot(ctx)
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, r := range readings {
		if r.TireID == "" || r.RecordedDate == "" {
			c.logger.Warn("Skipping unusable legacy record",
				zap.String("tire_id", r.TireID),
				zap.String("recorded_date", r.RecordedDate),
			)
			continue
		}
		if err := repo.InsertReading(ctx, r); err != nil {
			return imported, fmt.Errorf("failed to import reading %s/%s: %w", r.RecordedDate, r.TireID, err)
		}
		imported++
	}

	c.logger.Info("Imported TireData snapshot", zap.Int("imported", imported))
	return imported, nil
}

func sortReadingsByTime(readings []domain.Reading) {
	sort.SliceStable(readings, func(i, j int) bool {
		a, b := readings[i], readings[j]
		if !a.RecordedAt().Equal(b.RecordedAt()) {
			return a.RecordedAt().Before(b.RecordedAt())
		}
		return a.TireID < b.TireID
	})
}
