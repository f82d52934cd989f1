package reading

import "time"

// Reading represents one timestamped set of sensor parameter values
// for a monitoring station. Readings are immutable once written.
type Reading struct {
	ID              int64     `json:"id"`
	StationID       string    `json:"station_id"`
	Timestamp       time.Time `json:"timestamp"`
	PH              *float64  `json:"ph,omitempty"`
	DissolvedOxygen *float64  `json:"dissolved_oxygen,omitempty"`
	Temperature     *float64  `json:"temperature,omitempty"`
	Turbidity       *float64  `json:"turbidity,omitempty"`
	Conductivity    *float64  `json:"conductivity,omitempty"`
	Ammonia         *float64  `json:"ammonia,omitempty"`
	Nitrates        *float64  `json:"nitrates,omitempty"`
	ChlorophyllA    *float64  `json:"chlorophyll_a,omitempty"`
	AnomalyScore    *float64  `json:"anomaly_score,omitempty"`
	IsAnomaly       bool      `json:"is_anomaly"`
}

// Filter contains reading query options
type Filter struct {
	StationID string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}
