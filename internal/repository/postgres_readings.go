package repository

import (
	"context"
	"database/sql"
	"fmt"

	"optitrack-data/internal/domain"

	"go.uber.org/zap"
)

type PostgresReadingsRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresReadingsRepo(db *sql.DB, logger *zap.Logger) *PostgresReadingsRepo {
	return &PostgresReadingsRepo{db: db, logger: logger}
}

const readingColumns = `
	recorded_date, tire_id, vehicle_id, vehicle_type, position,
	pressure, tread_depth, km_reading, brand, condition, recorded_time`

func (r *PostgresReadingsRepo) InsertReading(ctx context.Context, reading domain.Reading) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tire_readings (
			recorded_date, tire_id, vehicle_id, vehicle_type, position,
			pressure, tread_depth, km_reading, brand, condition, recorded_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (recorded_date, tire_id) DO UPDATE SET
			vehicle_id = EXCLUDED.vehicle_id,
			vehicle_type = EXCLUDED.vehicle_type,
			position = EXCLUDED.position,
			pressure = EXCLUDED.pressure,
			tread_depth = EXCLUDED.tread_depth,
			km_reading = EXCLUDED.km_reading,
			brand = EXCLUDED.brand,
			condition = EXCLUDED.condition,
			recorded_time = EXCLUDED.recorded_time`,
		reading.RecordedDate,
		reading.TireID,
		reading.VehicleID,
		reading.VehicleType,
		reading.Position,
		reading.Pressure,
		reading.TreadDepth,
		reading.KmReading,
		reading.Brand,
		reading.Condition,
		reading.RecordedTime,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}
	return nil
}

func (r *PostgresReadingsRepo) Snapshot(ctx context.Context) ([]domain.Reading, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+readingColumns+`
		FROM tire_readings
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	defer rows.Close()
	return scanReadings(rows)
}

func (r *PostgresReadingsRepo) ListByVehicle(ctx context.Context, vehicleNo string) ([]domain.Reading, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+readingColumns+`
		FROM tire_readings
		WHERE vehicle_id ILIKE $1
		ORDER BY created_at, id`,
		vehicleNo,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings by vehicle: %w", err)
	}
	defer rows.Close()
	return scanReadings(rows)
}

func (r *PostgresReadingsRepo) ListByTire(ctx context.Context, fragment string) ([]domain.Reading, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+readingColumns+`
		FROM tire_readings
		WHERE tire_id ILIKE '%' || $1 || '%'
		ORDER BY created_at, id`,
		fragment,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings by tire: %w", err)
	}
	defer rows.Close()
	return scanReadings(rows)
}

func (r *PostgresReadingsRepo) ListByDateRange(ctx context.Context, from, to string) ([]domain.Reading, error) {
	// partition dates are stored in the canonical DD-MM-YYYY form, so the
	// range comparison has to go through to_date
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+readingColumns+`
		FROM tire_readings
		WHERE to_date(recorded_date, 'DD-MM-YYYY')
		      BETWEEN to_date($1, 'DD-MM-YYYY') AND to_date($2, 'DD-MM-YYYY')
		ORDER BY created_at, id`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings by date range: %w", err)
	}
	defer rows.Close()
	return scanReadings(rows)
}

func scanReadings(rows *sql.Rows) ([]domain.Reading, error) {
	readings := []domain.Reading{}
	for rows.Next() {
		var rd domain.Reading
		var recordedTime sql.NullString
		if err := rows.Scan(
			&rd.RecordedDate,
			&rd.TireID,
			&rd.VehicleID,
			&rd.VehicleType,
			&rd.Position,
			&rd.Pressure,
			&rd.TreadDepth,
			&rd.KmReading,
			&rd.Brand,
			&rd.Condition,
			&recordedTime,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		rd.RecordedTime = recordedTime.String
		readings = append(readings, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return readings, nil
}
