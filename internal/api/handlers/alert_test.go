package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aquawatch/aquawatch/internal/pkg/logger"
	"github.com/aquawatch/aquawatch/internal/pkg/validator"
	"github.com/aquawatch/aquawatch/internal/services"
	"github.com/aquawatch/aquawatch/internal/testutil"
)

func TestAlertHandler_UpdateStatus(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	alertRepo := testutil.NewMockAlertRepository()
	service := services.NewAlertService(alertRepo, noopNotifier{}, &testutil.MockBroadcaster{}, nil, time.Second, log)
	handler := NewAlertHandler(service, log, validator.New())

	seeded, err := service.CreateAnomalyAlert(context.Background(), "STN001", 1, nil, []string{"ops@example.com"})
	if err != nil {
		t.Fatalf("seed alert: %v", err)
	}

	tests := []struct {
		name           string
		id             string
		body           string
		expectedStatus int
	}{
		{
			name:           "acknowledge",
			id:             "1",
			body:           `{"status":"ACKNOWLEDGED","notes":"on it"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "resolve",
			id:             "1",
			body:           `{"status":"RESOLVED"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid status",
			id:             "1",
			body:           `{"status":"ESCALATED"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing status",
			id:             "1",
			body:           `{"notes":"no status"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown alert",
			id:             "999",
			body:           `{"status":"RESOLVED"}`,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/v1/alerts/"+tt.id+"/status", bytes.NewBufferString(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rr := httptest.NewRecorder()

			handler.UpdateStatus(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d; body %s", rr.Code, tt.expectedStatus, rr.Body.String())
			}
		})
	}

	final, err := service.GetByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if final.AcknowledgedAt == nil || final.ResolvedAt == nil {
		t.Errorf("lifecycle timestamps not set: %+v", final)
	}

	dctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	service.Drain(dctx)
}
