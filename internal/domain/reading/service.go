package reading

import "context"

// Input is a raw reading submitted for ingestion. Recipients, when
// supplied, become the recipient list of any alert the reading raises.
type Input struct {
	StationID       string   `json:"station_id" validate:"required"`
	PH              *float64 `json:"ph" validate:"omitempty,gte=0,lte=14"`
	DissolvedOxygen *float64 `json:"dissolved_oxygen" validate:"omitempty,gte=0"`
	Temperature     *float64 `json:"temperature"`
	Turbidity       *float64 `json:"turbidity" validate:"omitempty,gte=0"`
	Conductivity    *float64 `json:"conductivity" validate:"omitempty,gte=0"`
	Ammonia         *float64 `json:"ammonia" validate:"omitempty,gte=0"`
	Nitrates        *float64 `json:"nitrates" validate:"omitempty,gte=0"`
	ChlorophyllA    *float64 `json:"chlorophyll_a" validate:"omitempty,gte=0"`
	Recipients      []string `json:"recipients"`
}

// Service defines the interface for the ingestion pipeline
type Service interface {
	// Ingest classifies, persists and (when flagged) alerts on a reading.
	// The returned reading is always the persisted row; alerting outcome
	// never changes it.
	Ingest(ctx context.Context, in Input) (*Reading, error)

	// GetByID retrieves a reading by ID
	GetByID(ctx context.Context, id int64) (*Reading, error)

	// List retrieves readings matching the filter
	List(ctx context.Context, filter Filter) ([]*Reading, error)
}
