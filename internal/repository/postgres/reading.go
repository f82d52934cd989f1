package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/aquawatch/aquawatch/internal/domain/reading"
	"github.com/aquawatch/aquawatch/internal/pkg/errors"
)

// pq error codes
const fkViolation = "23503"

type ReadingRepository struct {
	db *sql.DB
}

func NewReadingRepository(db *sql.DB) reading.Repository {
	return &ReadingRepository{db: db}
}

func (r *ReadingRepository) Create(ctx context.Context, rec *reading.Reading) error {
	query := `
		INSERT INTO water_quality_readings
		(station_id, timestamp, ph, dissolved_oxygen, temperature, turbidity, conductivity, ammonia, nitrates, chlorophyll_a, anomaly_score, is_anomaly)
		VALUES ($1, NOW(), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, timestamp
	`

	err := r.db.QueryRowContext(ctx, query,
		rec.StationID, rec.PH, rec.DissolvedOxygen, rec.Temperature, rec.Turbidity,
		rec.Conductivity, rec.Ammonia, rec.Nitrates, rec.ChlorophyllA,
		rec.AnomalyScore, rec.IsAnomaly,
	).Scan(&rec.ID, &rec.Timestamp)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == fkViolation {
			return errors.Conflict(fmt.Sprintf("Unknown station: %s", rec.StationID))
		}
		return errors.DatabaseError("Failed to create reading", err)
	}

	return nil
}

func (r *ReadingRepository) GetByID(ctx context.Context, id int64) (*reading.Reading, error) {
	query := `
		SELECT id, station_id, timestamp, ph, dissolved_oxygen, temperature, turbidity, conductivity, ammonia, nitrates, chlorophyll_a, anomaly_score, is_anomaly
		FROM water_quality_readings WHERE id = $1
	`

	rec, err := scanReading(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Reading")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get reading", err)
	}

	return rec, nil
}

func (r *ReadingRepository) List(ctx context.Context, filter reading.Filter) ([]*reading.Reading, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	idx := 1

	if filter.StationID != "" {
		where = append(where, fmt.Sprintf("station_id = $%d", idx))
		args = append(args, filter.StationID)
		idx++
	}
	if filter.StartDate != nil {
		where = append(where, fmt.Sprintf("timestamp >= $%d", idx))
		args = append(args, *filter.StartDate)
		idx++
	}
	if filter.EndDate != nil {
		where = append(where, fmt.Sprintf("timestamp <= $%d", idx))
		args = append(args, *filter.EndDate)
		idx++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	query := fmt.Sprintf(`
		SELECT id, station_id, timestamp, ph, dissolved_oxygen, temperature, turbidity, conductivity, ammonia, nitrates, chlorophyll_a, anomaly_score, is_anomaly
		FROM water_quality_readings WHERE %s ORDER BY timestamp DESC LIMIT $%d OFFSET $%d
	`, strings.Join(where, " AND "), idx, idx+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list readings", err)
	}
	defer rows.Close()

	readings := make([]*reading.Reading, 0, limit)
	for rows.Next() {
		rec, err := scanReading(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan reading", err)
		}
		readings = append(readings, rec)
	}

	return readings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReading(row rowScanner) (*reading.Reading, error) {
	var rec reading.Reading
	err := row.Scan(
		&rec.ID, &rec.StationID, &rec.Timestamp,
		&rec.PH, &rec.DissolvedOxygen, &rec.Temperature, &rec.Turbidity,
		&rec.Conductivity, &rec.Ammonia, &rec.Nitrates, &rec.ChlorophyllA,
		&rec.AnomalyScore, &rec.IsAnomaly,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
