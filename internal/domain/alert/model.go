package alert

import "time"

// Alert represents a tracked anomalous-condition record with a lifecycle.
// Alerts are never deleted; they form the audit trail of detections.
type Alert struct {
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

// Alert types
const (
	TypeAnomalyDetected   = "ANOMALY_DETECTED"
	TypeThresholdBreach   = "THRESHOLD_BREACH"
	TypeSensorMalfunction = "SENSOR_MALFUNCTION"
)

// Alert severity levels, ordered
const (
	SeverityLow    = "LOW"
	SeverityMedium = "MEDIUM"
	SeverityHigh   = "HIGH"
)

// Alert lifecycle statuses
const (
	StatusTriggered    = "TRIGGERED"
	StatusAcknowledged = "ACKNOWLEDGED"
	StatusResolved     = "RESOLVED"
)

// ValidStatus reports whether s is a known lifecycle status
func ValidStatus(s string) bool {
	switch s {
	case StatusTriggered, StatusAcknowledged, StatusResolved:
		return true
	}
	return false
}
