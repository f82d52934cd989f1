package reading

import "context"

// Repository defines the interface for reading data access
type Repository interface {
	// Create appends a reading. The store assigns the identifier and
	// server timestamp; the persisted row is written back into r.
	Create(ctx context.Context, r *Reading) error

	// GetByID retrieves a reading by ID
	GetByID(ctx context.Context, id int64) (*Reading, error)

	// List retrieves readings matching the filter, newest first
	List(ctx context.Context, filter Filter) ([]*Reading, error)
}
