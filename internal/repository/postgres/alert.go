package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/aquawatch/aquawatch/internal/domain/alert"
	"github.com/aquawatch/aquawatch/internal/pkg/errors"
)

const alertColumns = `id, station_id, alert_type, severity, description, parameter, threshold_value, actual_value, recipients, status, triggered_at, acknowledged_at, resolved_at, notes`

type AlertRepository struct {
	db *sql.DB
}

func NewAlertRepository(db *sql.DB) alert.Repository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Create(ctx context.Context, a *alert.Alert) error {
	query := `
		INSERT INTO alerts (station_id, alert_type, severity, description, parameter, threshold_value, actual_value, recipients, status, triggered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, triggered_at
	`

	err := r.db.QueryRowContext(ctx, query,
		a.StationID, a.Type, a.Severity, a.Description, a.Parameter,
		a.ThresholdValue, a.ActualValue, pq.Array(a.Recipients), a.Status,
	).Scan(&a.ID, &a.TriggeredAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == fkViolation {
			return errors.Conflict(fmt.Sprintf("Unknown station: %s", a.StationID))
		}
		return errors.DatabaseError("Failed to create alert", err)
	}

	return nil
}

func (r *AlertRepository) GetByID(ctx context.Context, id int64) (*alert.Alert, error) {
	query := fmt.Sprintf("SELECT %s FROM alerts WHERE id = $1", alertColumns)

	a, err := scanAlert(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Alert")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get alert", err)
	}

	return a, nil
}

func (r *AlertRepository) ListByStation(ctx context.Context, stationID string) ([]*alert.Alert, error) {
	query := fmt.Sprintf("SELECT %s FROM alerts WHERE station_id = $1 ORDER BY triggered_at DESC", alertColumns)

	rows, err := r.db.QueryContext(ctx, query, stationID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list alerts", err)
	}
	defer rows.Close()

	alerts := make([]*alert.Alert, 0)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan alert", err)
		}
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}

// UpdateStatus writes the status unconditionally but keeps lifecycle
// timestamps first-write-wins: acknowledged_at and resolved_at are only
// populated when still NULL. Notes replace stored notes only when
// supplied.
func (r *AlertRepository) UpdateStatus(ctx context.Context, id int64, status string, notes *string) (*alert.Alert, error) {
	query := fmt.Sprintf(`
		UPDATE alerts
		SET status = $2,
		    notes = COALESCE($3, notes),
		    acknowledged_at = CASE WHEN $2 = '%s' AND acknowledged_at IS NULL THEN NOW() ELSE acknowledged_at END,
		    resolved_at = CASE WHEN $2 = '%s' AND resolved_at IS NULL THEN NOW() ELSE resolved_at END
		WHERE id = $1
		RETURNING %s
	`, alert.StatusAcknowledged, alert.StatusResolved, alertColumns)

	a, err := scanAlert(r.db.QueryRowContext(ctx, query, id, status, notes))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Alert")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to update alert status", err)
	}

	return a, nil
}

func scanAlert(row rowScanner) (*alert.Alert, error) {
	var a alert.Alert
	var recipients pq.StringArray
	err := row.Scan(
		&a.ID, &a.StationID, &a.Type, &a.Severity, &a.Description,
		&a.Parameter, &a.ThresholdValue, &a.ActualValue, &recipients,
		&a.Status, &a.TriggeredAt, &a.AcknowledgedAt, &a.ResolvedAt, &a.Notes,
	)
	if err != nil {
		return nil, err
	}
	a.Recipients = recipients
	return &a, nil
}
