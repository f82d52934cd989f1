package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aquawatch/aquawatch/internal/domain/alert"
	"github.com/aquawatch/aquawatch/internal/pkg/errors"
	"github.com/aquawatch/aquawatch/internal/pkg/logger"
	"github.com/aquawatch/aquawatch/internal/pkg/metrics"
	"github.com/aquawatch/aquawatch/internal/ws"
)

// Notifier fans an alert out to its recipients.
type Notifier interface {
	Dispatch(ctx context.Context, a *alert.Alert)
}

// Broadcaster pushes an anomaly event to connected realtime observers.
type Broadcaster interface {
	BroadcastAnomaly(ev ws.AnomalyEvent)
}

// AlertService implements alert.Service. Alert persistence is
// synchronous; notification dispatch and realtime broadcast run as
// tracked background follow-ups that never affect the caller.
type AlertService struct {
	repo              alert.Repository
	notifier          Notifier
	broadcaster       Broadcaster
	defaultRecipients []string
	dispatchTimeout   time.Duration
	wg                sync.WaitGroup
	logger            *logger.Logger
}

// NewAlertService creates a new alert service
func NewAlertService(repo alert.Repository, notifier Notifier, broadcaster Broadcaster, defaultRecipients []string, dispatchTimeout time.Duration, log *logger.Logger) *AlertService {
	return &AlertService{
		repo:              repo,
		notifier:          notifier,
		broadcaster:       broadcaster,
		defaultRecipients: defaultRecipients,
		dispatchTimeout:   dispatchTimeout,
		logger:            log,
	}
}

// CreateAnomalyAlert persists a TRIGGERED alert for an anomalous reading,
// then dispatches notifications and broadcasts the event in the
// background. The alert exists before this returns; delivery does not.
func (s *AlertService) CreateAnomalyAlert(ctx context.Context, stationID string, readingID int64, score *float64, recipients []string) (*alert.Alert, error) {
	if len(recipients) == 0 {
		recipients = s.defaultRecipients
	}

	description := fmt.Sprintf("Anomalous water quality reading detected at station %s", stationID)
	if score != nil {
		description = fmt.Sprintf("%s (anomaly score %.4f)", description, *score)
	}

	a := &alert.Alert{
		StationID:   stationID,
		Type:        alert.TypeAnomalyDetected,
		Severity:    alert.SeverityHigh,
		Description: description,
		Parameter:   "multi-parameter",
		ActualValue: score,
		Recipients:  recipients,
		Status:      alert.StatusTriggered,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create alert")
		return nil, err
	}

	metrics.RecordAlertCreated(a.Severity, a.Type)
	s.logger.WithFields(map[string]interface{}{
		"alert_id":   a.ID,
		"station_id": stationID,
		"reading_id": readingID,
	}).Info("Alert created")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// Detached from the request: the caller's context ends with the
		// HTTP response, delivery must not.
		dctx, cancel := context.WithTimeout(context.Background(), s.dispatchTimeout)
		defer cancel()
		s.notifier.Dispatch(dctx, a)
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.broadcaster.BroadcastAnomaly(ws.AnomalyEvent{
			StationID: stationID,
			ReadingID: readingID,
			AlertID:   a.ID,
			Timestamp: a.TriggeredAt,
		})
	}()

	return a, nil
}

// GetByID retrieves an alert by ID
func (s *AlertService) GetByID(ctx context.Context, id int64) (*alert.Alert, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByStation retrieves a station's alerts
func (s *AlertService) ListByStation(ctx context.Context, stationID string) ([]*alert.Alert, error) {
	return s.repo.ListByStation(ctx, stationID)
}

// UpdateStatus advances the alert lifecycle. The status is validated
// before any store write; repeating a transition is a no-op apart from
// notes, which follow last-write-wins.
func (s *AlertService) UpdateStatus(ctx context.Context, id int64, status string, notes *string) (*alert.Alert, error) {
	if !alert.ValidStatus(status) {
		return nil, errors.BadRequest(fmt.Sprintf("Invalid alert status: %s", status))
	}

	a, err := s.repo.UpdateStatus(ctx, id, status, notes)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"alert_id": id,
		"status":   status,
	}).Info("Alert status updated")

	return a, nil
}

// Drain waits for in-flight dispatch and broadcast follow-ups, up to the
// context deadline. Used during shutdown.
func (s *AlertService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
