package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/aquawatch/aquawatch/internal/domain/reading"
	"github.com/aquawatch/aquawatch/internal/pkg/errors"
)

func f64(v float64) *float64 { return &v }

func TestReadingRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &ReadingRepository{db: db}
	ctx := context.Background()
	now := time.Now()

	t.Run("assigns id and timestamp", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO water_quality_readings`).
			WithArgs("STN001", f64(7.2), f64(8.5), f64(22.0), f64(2.1), f64(450.0), nil, nil, nil, f64(0.12), false).
			WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(int64(1), now))

		rec := &reading.Reading{
			StationID:       "STN001",
			PH:              f64(7.2),
			DissolvedOxygen: f64(8.5),
			Temperature:     f64(22.0),
			Turbidity:       f64(2.1),
			Conductivity:    f64(450.0),
			AnomalyScore:    f64(0.12),
		}
		if err := repo.Create(ctx, rec); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if rec.ID != 1 {
			t.Errorf("ID = %d, want 1", rec.ID)
		}
		if !rec.Timestamp.Equal(now) {
			t.Errorf("Timestamp = %v, want %v", rec.Timestamp, now)
		}
	})

	t.Run("unknown station maps to conflict", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO water_quality_readings`).
			WillReturnError(&pq.Error{Code: fkViolation})

		rec := &reading.Reading{StationID: "NOPE"}
		err := repo.Create(ctx, rec)
		if err == nil {
			t.Fatal("Create() error = nil, want conflict")
		}
		appErr, ok := err.(*errors.AppError)
		if !ok || appErr.Code != errors.ErrCodeConflict {
			t.Errorf("error = %v, want CONFLICT AppError", err)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReadingRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &ReadingRepository{db: db}
	ctx := context.Background()
	now := time.Now()

	cols := []string{"id", "station_id", "timestamp", "ph", "dissolved_oxygen", "temperature", "turbidity", "conductivity", "ammonia", "nitrates", "chlorophyll_a", "anomaly_score", "is_anomaly"}

	t.Run("existing reading", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .+ FROM water_quality_readings WHERE id`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow(int64(5), "STN001", now, 7.2, 8.5, 22.0, 2.1, 450.0, nil, nil, nil, 0.92, true))

		rec, err := repo.GetByID(ctx, 5)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if rec.StationID != "STN001" || !rec.IsAnomaly {
			t.Errorf("reading = %+v, want STN001 anomalous", rec)
		}
		if rec.AnomalyScore == nil || *rec.AnomalyScore != 0.92 {
			t.Errorf("AnomalyScore = %v, want 0.92", rec.AnomalyScore)
		}
	})

	t.Run("missing reading", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .+ FROM water_quality_readings WHERE id`).
			WithArgs(int64(999)).
			WillReturnRows(sqlmock.NewRows(cols))

		_, err := repo.GetByID(ctx, 999)
		if !errors.IsNotFound(err) {
			t.Errorf("GetByID() error = %v, want not found", err)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReadingRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &ReadingRepository{db: db}
	ctx := context.Background()
	now := time.Now()

	cols := []string{"id", "station_id", "timestamp", "ph", "dissolved_oxygen", "temperature", "turbidity", "conductivity", "ammonia", "nitrates", "chlorophyll_a", "anomaly_score", "is_anomaly"}

	mock.ExpectQuery(`SELECT .+ FROM water_quality_readings WHERE .+station_id`).
		WithArgs("STN001", 50, 0).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(2), "STN001", now, 7.1, 8.4, 22.1, 2.2, 455.0, nil, nil, nil, nil, false).
			AddRow(int64(1), "STN001", now.Add(-time.Hour), 7.2, 8.5, 22.0, 2.1, 450.0, nil, nil, nil, nil, false))

	readings, err := repo.List(ctx, reading.Filter{StationID: "STN001", Limit: 50})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("len(readings) = %d, want 2", len(readings))
	}
	if readings[0].ID != 2 {
		t.Errorf("readings[0].ID = %d, want newest first", readings[0].ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
