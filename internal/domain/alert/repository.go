package alert

import "context"

// Repository defines the interface for alert data access
type Repository interface {
	// Create persists a new alert. The store assigns the identifier and
	// triggered timestamp; the persisted row is written back into a.
	Create(ctx context.Context, a *Alert) error

	// GetByID retrieves an alert by ID
	GetByID(ctx context.Context, id int64) (*Alert, error)

	// ListByStation retrieves a station's alerts, newest first
	ListByStation(ctx context.Context, stationID string) ([]*Alert, error)

	// UpdateStatus sets the alert status. Lifecycle timestamps are
	// first-write-wins: an already-populated acknowledged/resolved
	// timestamp is never overwritten. Notes replace the stored notes
	// only when non-nil.
	UpdateStatus(ctx context.Context, id int64, status string, notes *string) (*Alert, error)
}
