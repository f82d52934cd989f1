package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aquawatch/aquawatch/internal/config"
	"github.com/aquawatch/aquawatch/internal/pkg/errors"
	"github.com/aquawatch/aquawatch/internal/pkg/logger"
	"github.com/aquawatch/aquawatch/internal/pkg/metrics"
)

// Sample carries the five core parameters the scoring service consumes.
type Sample struct {
	PH              float64 `json:"ph"`
	DissolvedOxygen float64 `json:"dissolved_oxygen"`
	Temperature     float64 `json:"temperature"`
	Turbidity       float64 `json:"turbidity"`
	Conductivity    float64 `json:"conductivity"`
}

// Result is the classification outcome for a reading. Score is nil when
// no classification was obtained.
type Result struct {
	Score     *float64
	IsAnomaly bool
}

// Classifier scores a reading against the external anomaly model.
type Classifier interface {
	Classify(ctx context.Context, s Sample) (Result, error)
}

// Client calls the scoring service over HTTP with a bounded timeout.
// Classification is advisory: under the fail-open policy any failure is
// logged and reported as "no score, not anomalous" rather than returned.
type Client struct {
	baseURL    string
	failMode   string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new classifier client
func NewClient(cfg config.ClassifierConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		failMode: cfg.FailMode,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: log,
	}
}

type predictResponse struct {
	IsAnomaly    bool    `json:"is_anomaly"`
	AnomalyScore float64 `json:"anomaly_score"`
}

// Classify requests a classification for s. Under fail-open the returned
// error is always nil; under fail-closed any dependency failure is
// returned to the caller.
func (c *Client) Classify(ctx context.Context, s Sample) (Result, error) {
	start := time.Now()
	res, err := c.predict(ctx, s)
	if err != nil {
		metrics.RecordClassifierCall("failure", time.Since(start))
		if c.failMode == config.FailClosed {
			return Result{}, errors.ClassifierError(err)
		}
		c.logger.WithError(err).Warn("Classifier call failed, proceeding without score")
		return Result{}, nil
	}

	metrics.RecordClassifierCall("success", time.Since(start))
	score := res.AnomalyScore
	return Result{Score: &score, IsAnomaly: res.IsAnomaly}, nil
}

func (c *Client) predict(ctx context.Context, s Sample) (*predictResponse, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal classifier request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build classifier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode classifier response: %w", err)
	}

	return &out, nil
}
