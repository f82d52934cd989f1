package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aquawatch/aquawatch/internal/api/dto"
	"github.com/aquawatch/aquawatch/internal/domain/alert"
	"github.com/aquawatch/aquawatch/internal/pkg/errors"
	"github.com/aquawatch/aquawatch/internal/pkg/logger"
	"github.com/aquawatch/aquawatch/internal/pkg/utils"
	"github.com/aquawatch/aquawatch/internal/pkg/validator"
)

type AlertHandler struct {
	service   alert.Service
	logger    *logger.Logger
	validator *validator.Validator
}

func NewAlertHandler(service alert.Service, log *logger.Logger, val *validator.Validator) *AlertHandler {
	return &AlertHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// List returns a station's alerts, newest first
// @Summary List alerts for a station
// @Tags Alerts
// @Produce json
// @Param station_id query string true "Station ID"
// @Success 200 {object} utils.SuccessResponse{data=[]dto.AlertDTO} "Alerts"
// @Router /alerts [get]
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	stationID := r.URL.Query().Get("station_id")
	if stationID == "" {
		utils.WriteError(w, errors.BadRequest("station_id is required"))
		return
	}

	alerts, err := h.service.ListByStation(r.Context(), stationID)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to list alerts")
		utils.WriteAppError(w, err)
		return
	}

	dtos := make([]dto.AlertDTO, len(alerts))
	for i, a := range alerts {
		dtos[i] = dto.FromAlert(a)
	}

	utils.WriteSuccess(w, http.StatusOK, dtos)
}

// Get returns a single alert
// @Summary Get alert by ID
// @Tags Alerts
// @Produce json
// @Param id path int true "Alert ID"
// @Success 200 {object} dto.AlertDTO "Alert"
// @Failure 404 {object} utils.ErrorResponse "Alert not found"
// @Router /alerts/{id} [get]
func (h *AlertHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid alert ID"))
		return
	}

	a, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.FromAlert(a))
}

// UpdateStatus advances an alert through its lifecycle
// @Summary Update alert status
// @Description Transition an alert between TRIGGERED, ACKNOWLEDGED and RESOLVED
// @Tags Alerts
// @Accept json
// @Produce json
// @Param id path int true "Alert ID"
// @Param transition body dto.UpdateAlertStatusRequest true "Target status and optional notes"
// @Success 200 {object} dto.AlertDTO "Updated alert"
// @Failure 400 {object} utils.ErrorResponse "Invalid status"
// @Failure 404 {object} utils.ErrorResponse "Alert not found"
// @Router /alerts/{id}/status [put]
func (h *AlertHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid alert ID"))
		return
	}

	var req dto.UpdateAlertStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrors := h.validator.Validate(req); validationErrors != nil {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrors))
		return
	}

	a, err := h.service.UpdateStatus(r.Context(), id, req.Status, req.Notes)
	if err != nil {
		h.logger.With("alert_id", id).ErrorWithErr(err, "Failed to update alert status")
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.FromAlert(a))
}
