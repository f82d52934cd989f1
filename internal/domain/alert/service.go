package alert

import "context"

// Service defines the interface for the alert manager
type Service interface {
	// CreateAnomalyAlert persists an anomaly alert for a classified
	// reading and kicks off notification dispatch and realtime
	// broadcast as best-effort follow-ups.
	CreateAnomalyAlert(ctx context.Context, stationID string, readingID int64, score *float64, recipients []string) (*Alert, error)

	// GetByID retrieves an alert by ID
	GetByID(ctx context.Context, id int64) (*Alert, error)

	// ListByStation retrieves a station's alerts
	ListByStation(ctx context.Context, stationID string) ([]*Alert, error)

	// UpdateStatus advances the alert lifecycle. Forward transitions are
	// idempotent; a malformed status is rejected before any side effect.
	UpdateStatus(ctx context.Context, id int64, status string, notes *string) (*Alert, error)
}
