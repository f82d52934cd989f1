package services

import (
	"context"

	"github.com/aquawatch/aquawatch/internal/cache"
	"github.com/aquawatch/aquawatch/internal/classifier"
	"github.com/aquawatch/aquawatch/internal/domain/alert"
	"github.com/aquawatch/aquawatch/internal/domain/reading"
	"github.com/aquawatch/aquawatch/internal/pkg/logger"
	"github.com/aquawatch/aquawatch/internal/pkg/metrics"
)

// ReadingService implements reading.Service: the ingestion pipeline of
// classify, persist, cache and alert.
type ReadingService struct {
	repo       reading.Repository
	classifier classifier.Classifier
	alerts     alert.Service
	latest     *cache.LatestReadings
	logger     *logger.Logger
}

// NewReadingService creates a new reading service
func NewReadingService(repo reading.Repository, cls classifier.Classifier, alerts alert.Service, latest *cache.LatestReadings, log *logger.Logger) reading.Service {
	return &ReadingService{
		repo:       repo,
		classifier: cls,
		alerts:     alerts,
		latest:     latest,
		logger:     log,
	}
}

// Ingest classifies and persists a reading. When the classifier flags an
// anomaly, a TRIGGERED alert is created before the reading is returned.
// Reading and alert are separate store writes; the reading survives an
// alert failure.
func (s *ReadingService) Ingest(ctx context.Context, in reading.Input) (*reading.Reading, error) {
	result, err := s.classifier.Classify(ctx, sampleFrom(in))
	if err != nil {
		// Fail-closed policy: the reading is rejected unclassified.
		return nil, err
	}

	rec := &reading.Reading{
		StationID:       in.StationID,
		PH:              in.PH,
		DissolvedOxygen: in.DissolvedOxygen,
		Temperature:     in.Temperature,
		Turbidity:       in.Turbidity,
		Conductivity:    in.Conductivity,
		Ammonia:         in.Ammonia,
		Nitrates:        in.Nitrates,
		ChlorophyllA:    in.ChlorophyllA,
		AnomalyScore:    result.Score,
		IsAnomaly:       result.IsAnomaly,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}

	metrics.RecordReadingIngested(rec.StationID, rec.IsAnomaly)
	s.latest.Set(ctx, rec)

	if rec.IsAnomaly {
		if _, err := s.alerts.CreateAnomalyAlert(ctx, rec.StationID, rec.ID, rec.AnomalyScore, in.Recipients); err != nil {
			// The reading is already committed; surfacing the alert
			// failure would misreport the ingestion.
			s.logger.WithFields(map[string]interface{}{
				"station_id": rec.StationID,
				"reading_id": rec.ID,
			}).ErrorWithErr(err, "Failed to create alert for anomalous reading")
		}
	}

	return rec, nil
}

// GetByID retrieves a reading by ID
func (s *ReadingService) GetByID(ctx context.Context, id int64) (*reading.Reading, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves readings matching the filter, newest first. When the
// filter asks for a single station's newest reading the cache is
// consulted first.
func (s *ReadingService) List(ctx context.Context, filter reading.Filter) ([]*reading.Reading, error) {
	if filter.StationID != "" && filter.Limit == 1 && filter.Offset == 0 && filter.StartDate == nil && filter.EndDate == nil {
		if rec := s.latest.Get(ctx, filter.StationID); rec != nil {
			return []*reading.Reading{rec}, nil
		}
	}
	return s.repo.List(ctx, filter)
}

func sampleFrom(in reading.Input) classifier.Sample {
	return classifier.Sample{
		PH:              deref(in.PH),
		DissolvedOxygen: deref(in.DissolvedOxygen),
		Temperature:     deref(in.Temperature),
		Turbidity:       deref(in.Turbidity),
		Conductivity:    deref(in.Conductivity),
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
