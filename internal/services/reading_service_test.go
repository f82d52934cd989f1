package services

import (
	"context"
	"testing"
	"time"

	"github.com/aquawatch/aquawatch/internal/classifier"
	"github.com/aquawatch/aquawatch/internal/domain/alert"
	"github.com/aquawatch/aquawatch/internal/domain/reading"
	"github.com/aquawatch/aquawatch/internal/pkg/errors"
	"github.com/aquawatch/aquawatch/internal/pkg/logger"
	"github.com/aquawatch/aquawatch/internal/testutil"
)

func f64(v float64) *float64 { return &v }

func newTestReadingService(cls classifier.Classifier, alertRepo *testutil.MockAlertRepository) (reading.Service, *testutil.MockReadingRepository, *AlertService) {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	readingRepo := testutil.NewMockReadingRepository()
	notifier := &recordingNotifier{dispatched: make(chan *alert.Alert, 8)}
	alerts := NewAlertService(alertRepo, notifier, &testutil.MockBroadcaster{}, nil, time.Second, log)
	svc := NewReadingService(readingRepo, cls, alerts, nil, log)
	return svc, readingRepo, alerts
}

func normalInput() reading.Input {
	return reading.Input{
		StationID:       "STN001",
		PH:              f64(7.2),
		DissolvedOxygen: f64(8.5),
		Temperature:     f64(22.0),
		Turbidity:       f64(2.1),
		Conductivity:    f64(450.0),
	}
}

func TestReadingService_Ingest_Normal(t *testing.T) {
	cls := &testutil.MockClassifier{Result: classifier.Result{Score: f64(0.12), IsAnomaly: false}}
	alertRepo := testutil.NewMockAlertRepository()
	service, readingRepo, _ := newTestReadingService(cls, alertRepo)

	rec, err := service.Ingest(context.Background(), normalInput())
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if rec.ID == 0 {
		t.Error("reading not assigned an ID")
	}
	if rec.IsAnomaly {
		t.Error("IsAnomaly = true, want false")
	}
	if rec.AnomalyScore == nil || *rec.AnomalyScore != 0.12 {
		t.Errorf("AnomalyScore = %v, want 0.12", rec.AnomalyScore)
	}
	if len(readingRepo.Readings) != 1 {
		t.Errorf("persisted readings = %d, want 1", len(readingRepo.Readings))
	}
	if len(alertRepo.Alerts) != 0 {
		t.Errorf("alerts = %d, want none for a normal reading", len(alertRepo.Alerts))
	}
	if len(cls.Samples) != 1 || cls.Samples[0].PH != 7.2 {
		t.Errorf("classifier samples = %+v", cls.Samples)
	}
}

func TestReadingService_Ingest_SparseParameters(t *testing.T) {
	cls := &testutil.MockClassifier{Result: classifier.Result{}}
	service, _, _ := newTestReadingService(cls, testutil.NewMockAlertRepository())

	// Only pH supplied; absent parameters reach the classifier as zero.
	_, err := service.Ingest(context.Background(), reading.Input{StationID: "STN001", PH: f64(6.8)})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if len(cls.Samples) != 1 {
		t.Fatalf("classifier samples = %d, want 1", len(cls.Samples))
	}
	s := cls.Samples[0]
	if s.PH != 6.8 {
		t.Errorf("sample pH = %v, want 6.8", s.PH)
	}
	if s.DissolvedOxygen != 0 || s.Temperature != 0 || s.Turbidity != 0 || s.Conductivity != 0 {
		t.Errorf("absent parameters not zeroed: %+v", s)
	}
}

func TestReadingService_Ingest_Anomalous(t *testing.T) {
	cls := &testutil.MockClassifier{Result: classifier.Result{Score: f64(0.95), IsAnomaly: true}}
	alertRepo := testutil.NewMockAlertRepository()
	service, _, alerts := newTestReadingService(cls, alertRepo)

	in := normalInput()
	in.Recipients = []string{"ops@example.com"}

	rec, err := service.Ingest(context.Background(), in)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if !rec.IsAnomaly {
		t.Fatal("IsAnomaly = false, want true")
	}

	// The alert must exist before Ingest returns.
	if len(alertRepo.Alerts) != 1 {
		t.Fatalf("alerts = %d, want exactly 1", len(alertRepo.Alerts))
	}
	for _, a := range alertRepo.Alerts {
		if a.Status != alert.StatusTriggered {
			t.Errorf("alert status = %q, want %q", a.Status, alert.StatusTriggered)
		}
		if a.StationID != "STN001" {
			t.Errorf("alert station = %q, want STN001", a.StationID)
		}
		if len(a.Recipients) != 1 || a.Recipients[0] != "ops@example.com" {
			t.Errorf("alert recipients = %v", a.Recipients)
		}
	}

	dctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	alerts.Drain(dctx)
}

func TestReadingService_Ingest_ClassifierFailClosed(t *testing.T) {
	cls := &testutil.MockClassifier{Err: errors.ClassifierError(context.DeadlineExceeded)}
	alertRepo := testutil.NewMockAlertRepository()
	service, readingRepo, _ := newTestReadingService(cls, alertRepo)

	_, err := service.Ingest(context.Background(), normalInput())
	if err == nil {
		t.Fatal("Ingest() error = nil, want classifier error")
	}
	if len(readingRepo.Readings) != 0 {
		t.Error("reading persisted despite classifier failure")
	}
	if len(alertRepo.Alerts) != 0 {
		t.Error("alert created despite classifier failure")
	}
}

func TestReadingService_Ingest_ClassifierFailOpen(t *testing.T) {
	// Under fail-open the classifier reports no score and no anomaly
	// instead of an error.
	cls := &testutil.MockClassifier{Result: classifier.Result{}}
	alertRepo := testutil.NewMockAlertRepository()
	service, _, _ := newTestReadingService(cls, alertRepo)

	rec, err := service.Ingest(context.Background(), normalInput())
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if rec.IsAnomaly {
		t.Error("IsAnomaly = true, want false when unclassified")
	}
	if rec.AnomalyScore != nil {
		t.Errorf("AnomalyScore = %v, want nil when unclassified", rec.AnomalyScore)
	}
	if len(alertRepo.Alerts) != 0 {
		t.Errorf("alerts = %d, want none when unclassified", len(alertRepo.Alerts))
	}
}

func TestReadingService_Ingest_AlertFailureKeepsReading(t *testing.T) {
	cls := &testutil.MockClassifier{Result: classifier.Result{Score: f64(0.9), IsAnomaly: true}}
	alertRepo := testutil.NewMockAlertRepository()
	alertRepo.CreateError = errors.DatabaseError("insert failed", nil)
	service, readingRepo, _ := newTestReadingService(cls, alertRepo)

	rec, err := service.Ingest(context.Background(), normalInput())
	if err != nil {
		t.Fatalf("Ingest() error = %v, want nil despite alert failure", err)
	}
	if rec == nil || rec.ID == 0 {
		t.Fatal("reading not returned")
	}
	if len(readingRepo.Readings) != 1 {
		t.Errorf("persisted readings = %d, want 1", len(readingRepo.Readings))
	}
}

func TestReadingService_GetByID_Missing(t *testing.T) {
	cls := &testutil.MockClassifier{}
	service, _, _ := newTestReadingService(cls, testutil.NewMockAlertRepository())

	_, err := service.GetByID(context.Background(), 404)
	if !errors.IsNotFound(err) {
		t.Errorf("GetByID() error = %v, want not found", err)
	}
}
