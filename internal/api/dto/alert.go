package dto

import (
	"time"

	"github.com/aquawatch/aquawatch/internal/domain/alert"
)

// AlertDTO represents an alert in API responses
type AlertDTO struct {
	ID             int64      `json:"id"`
	StationID      string     `json:"station_id"`
	Type           string     `json:"alert_type"`
	Severity       string     `json:"severity"`
	Description    string     `json:"description"`
	Parameter      string     `json:"parameter,omitempty"`
	ThresholdValue *float64   `json:"threshold_value,omitempty"`
	ActualValue    *float64   `json:"actual_value,omitempty"`
	Recipients     []string   `json:"recipients"`
	Status         string     `json:"status"`
	TriggeredAt    time.Time  `json:"triggered_at"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
}

// UpdateAlertStatusRequest represents an alert lifecycle transition
type UpdateAlertStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=TRIGGERED ACKNOWLEDGED RESOLVED"`
	Notes  *string `json:"notes,omitempty"`
}

// FromAlert converts a domain alert to its API representation
func FromAlert(a *alert.Alert) AlertDTO {
	return AlertDTO{
		ID:             a.ID,
		StationID:      a.StationID,
		Type:           a.Type,
		Severity:       a.Severity,
		Description:    a.Description,
		Parameter:      a.Parameter,
		ThresholdValue: a.ThresholdValue,
		ActualValue:    a.ActualValue,
		Recipients:     a.Recipients,
		Status:         a.Status,
		TriggeredAt:    a.TriggeredAt,
		AcknowledgedAt: a.AcknowledgedAt,
		ResolvedAt:     a.ResolvedAt,
		Notes:          a.Notes,
	}
}
