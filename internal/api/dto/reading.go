package dto

import (
	"time"

	"github.com/aquawatch/aquawatch/internal/domain/reading"
)

// IngestReadingRequest represents a sensor reading submission
type IngestReadingRequest struct {
	StationID       string   `json:"station_id" validate:"required"`
	PH              *float64 `json:"ph" validate:"omitempty,gte=0,lte=14"`
	DissolvedOxygen *float64 `json:"dissolved_oxygen" validate:"omitempty,gte=0"`
	Temperature     *float64 `json:"temperature"`
	Turbidity       *float64 `json:"turbidity" validate:"omitempty,gte=0"`
	Conductivity    *float64 `json:"conductivity" validate:"omitempty,gte=0"`
	Ammonia         *float64 `json:"ammonia" validate:"omitempty,gte=0"`
	Nitrates        *float64 `json:"nitrates" validate:"omitempty,gte=0"`
	ChlorophyllA    *float64 `json:"chlorophyll_a" validate:"omitempty,gte=0"`
	Recipients      []string `json:"recipients,omitempty"`
}

// ToInput converts the request to the ingestion input
func (r IngestReadingRequest) ToInput() reading.Input {
	return reading.Input{
		StationID:       r.StationID,
		PH:              r.PH,
		DissolvedOxygen: r.DissolvedOxygen,
		Temperature:     r.Temperature,
		Turbidity:       r.Turbidity,
		Conductivity:    r.Conductivity,
		Ammonia:         r.Ammonia,
		Nitrates:        r.Nitrates,
		ChlorophyllA:    r.ChlorophyllA,
		Recipients:      r.Recipients,
	}
}

// ReadingDTO represents a persisted reading in API responses
type ReadingDTO struct {
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

// FromReading converts a domain reading to its API representation
func FromReading(rec *reading.Reading) ReadingDTO {
	return ReadingDTO{
		ID:              rec.ID,
		StationID:       rec.StationID,
		Timestamp:       rec.Timestamp,
		PH:              rec.PH,
		DissolvedOxygen: rec.DissolvedOxygen,
		Temperature:     rec.Temperature,
		Turbidity:       rec.Turbidity,
		Conductivity:    rec.Conductivity,
		Ammonia:         rec.Ammonia,
		Nitrates:        rec.Nitrates,
		ChlorophyllA:    rec.ChlorophyllA,
		AnomalyScore:    rec.AnomalyScore,
		IsAnomaly:       rec.IsAnomaly,
	}
}
