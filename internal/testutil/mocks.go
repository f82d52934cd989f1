package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aquawatch/aquawatch/internal/classifier"
	"github.com/aquawatch/aquawatch/internal/domain/alert"
	"github.com/aquawatch/aquawatch/internal/domain/reading"
	"github.com/aquawatch/aquawatch/internal/pkg/errors"
	"github.com/aquawatch/aquawatch/internal/ws"
)

// MockReadingRepository is a mock implementation of reading.Repository
type MockReadingRepository struct {
	mu          sync.Mutex
	Readings    map[int64]*reading.Reading
	NextID      int64
	CreateError error
	GetError    error
	ListError   error
}

func NewMockReadingRepository() *MockReadingRepository {
	return &MockReadingRepository{
		Readings: make(map[int64]*reading.Reading),
		NextID:   1,
	}
}

func (m *MockReadingRepository) Create(ctx context.Context, r *reading.Reading) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.NextID
	m.NextID++
	r.Timestamp = time.Now()
	m.Readings[r.ID] = r
	return nil
}

func (m *MockReadingRepository) GetByID(ctx context.Context, id int64) (*reading.Reading, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.Readings[id]
	if !ok {
		return nil, errors.NotFound("Reading")
	}
	return r, nil
}

func (m *MockReadingRepository) List(ctx context.Context, filter reading.Filter) ([]*reading.Reading, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*reading.Reading, 0, len(m.Readings))
	for _, r := range m.Readings {
		if filter.StationID != "" && r.StationID != filter.StationID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// MockAlertRepository is a mock implementation of alert.Repository
type MockAlertRepository struct {
	mu          sync.Mutex
	Alerts      map[int64]*alert.Alert
	NextID      int64
	CreateError error
	GetError    error
	UpdateError error
}

func NewMockAlertRepository() *MockAlertRepository {
	return &MockAlertRepository{
		Alerts: make(map[int64]*alert.Alert),
		NextID: 1,
	}
}

func (m *MockAlertRepository) Create(ctx context.Context, a *alert.Alert) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.NextID
	m.NextID++
	a.TriggeredAt = time.Now()
	m.Alerts[a.ID] = a
	return nil
}

func (m *MockAlertRepository) GetByID(ctx context.Context, id int64) (*alert.Alert, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Alerts[id]
	if !ok {
		return nil, errors.NotFound("Alert")
	}
	return a, nil
}

func (m *MockAlertRepository) ListByStation(ctx context.Context, stationID string) ([]*alert.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*alert.Alert, 0)
	for _, a := range m.Alerts {
		if a.StationID == stationID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockAlertRepository) UpdateStatus(ctx context.Context, id int64, status string, notes *string) (*alert.Alert, error) {
	if m.UpdateError != nil {
		return nil, m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Alerts[id]
	if !ok {
		return nil, errors.NotFound("Alert")
	}
	now := time.Now()
	a.Status = status
	if notes != nil {
		a.Notes = notes
	}
	if status == alert.StatusAcknowledged && a.AcknowledgedAt == nil {
		a.AcknowledgedAt = &now
	}
	if status == alert.StatusResolved && a.ResolvedAt == nil {
		a.ResolvedAt = &now
	}
	return a, nil
}

// MockClassifier is a mock implementation of classifier.Classifier
type MockClassifier struct {
	mu      sync.Mutex
	Result  classifier.Result
	Err     error
	Samples []classifier.Sample
}

func (m *MockClassifier) Classify(ctx context.Context, s classifier.Sample) (classifier.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Samples = append(m.Samples, s)
	if m.Err != nil {
		return classifier.Result{}, m.Err
	}
	return m.Result, nil
}

// MockBroadcaster records anomaly events instead of pushing them to
// websocket observers.
type MockBroadcaster struct {
	mu     sync.Mutex
	Events []ws.AnomalyEvent
}

func (m *MockBroadcaster) BroadcastAnomaly(ev ws.AnomalyEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, ev)
}

func (m *MockBroadcaster) Recorded() []ws.AnomalyEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ws.AnomalyEvent, len(m.Events))
	copy(out, m.Events)
	return out
}

// MockEmailSender records sent emails
type MockEmailSender struct {
	mu   sync.Mutex
	Sent []string
	Err  error
}

func (m *MockEmailSender) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, to)
	return nil
}

// MockSMSSender records sent messages
type MockSMSSender struct {
	mu   sync.Mutex
	Sent []string
	Err  error
}

func (m *MockSMSSender) Send(ctx context.Context, to, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, to)
	return nil
}

// FailingEmailSender always fails, for dispatch error paths.
type FailingEmailSender struct{}

func (FailingEmailSender) Send(ctx context.Context, to, subject, body string) error {
	return fmt.Errorf("email provider unavailable")
}
