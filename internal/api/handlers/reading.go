package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aquawatch/aquawatch/internal/api/dto"
	"github.com/aquawatch/aquawatch/internal/domain/reading"
	"github.com/aquawatch/aquawatch/internal/pkg/errors"
	"github.com/aquawatch/aquawatch/internal/pkg/logger"
	"github.com/aquawatch/aquawatch/internal/pkg/utils"
	"github.com/aquawatch/aquawatch/internal/pkg/validator"
)

type ReadingHandler struct {
	service   reading.Service
	logger    *logger.Logger
	validator *validator.Validator
}

func NewReadingHandler(service reading.Service, log *logger.Logger, val *validator.Validator) *ReadingHandler {
	return &ReadingHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// Ingest accepts a sensor reading
// @Summary Ingest a water quality reading
// @Description Classify and persist a sensor reading; anomalous readings raise an alert
// @Tags Readings
// @Accept json
// @Produce json
// @Param reading body dto.IngestReadingRequest true "Sensor reading"
// @Success 201 {object} dto.ReadingDTO "Persisted reading"
// @Failure 400 {object} utils.ErrorResponse "Invalid payload"
// @Failure 409 {object} utils.ErrorResponse "Unknown station"
// @Failure 502 {object} utils.ErrorResponse "Classifier unavailable"
// @Router /water-quality [post]
func (h *ReadingHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req dto.IngestReadingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrors := h.validator.Validate(req); validationErrors != nil {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrors))
		return
	}

	rec, err := h.service.Ingest(r.Context(), req.ToInput())
	if err != nil {
		h.logger.With("station_id", req.StationID).ErrorWithErr(err, "Failed to ingest reading")
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, dto.FromReading(rec))
}

// Get returns a single reading
// @Summary Get reading by ID
// @Tags Readings
// @Produce json
// @Param id path int true "Reading ID"
// @Success 200 {object} dto.ReadingDTO "Reading"
// @Failure 404 {object} utils.ErrorResponse "Reading not found"
// @Router /water-quality/{id} [get]
func (h *ReadingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid reading ID"))
		return
	}

	rec, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.FromReading(rec))
}

// List returns readings, newest first
// @Summary List readings
// @Tags Readings
// @Produce json
// @Param station_id query string false "Filter by station"
// @Param start_date query string false "RFC 3339 lower bound"
// @Param end_date query string false "RFC 3339 upper bound"
// @Param limit query int false "Page size (default: 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} utils.SuccessResponse{data=[]dto.ReadingDTO} "Readings"
// @Router /water-quality [get]
func (h *ReadingHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := reading.Filter{
		StationID: r.URL.Query().Get("station_id"),
	}

	if v := r.URL.Query().Get("start_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.WriteError(w, errors.BadRequest("Invalid start_date, expected RFC 3339"))
			return
		}
		filter.StartDate = &t
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.WriteError(w, errors.BadRequest("Invalid end_date, expected RFC 3339"))
			return
		}
		filter.EndDate = &t
	}

	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	filter.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if filter.Limit < 0 || filter.Limit > 1000 {
		filter.Limit = 0
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	readings, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to list readings")
		utils.WriteAppError(w, err)
		return
	}

	dtos := make([]dto.ReadingDTO, len(readings))
	for i, rec := range readings {
		dtos[i] = dto.FromReading(rec)
	}

	utils.WriteSuccess(w, http.StatusOK, dtos)
}

// Latest returns a station's most recent reading
// @Summary Latest reading for a station
// @Tags Readings
// @Produce json
// @Param station_id query string true "Station ID"
// @Success 200 {object} dto.ReadingDTO "Latest reading"
// @Failure 404 {object} utils.ErrorResponse "No readings for station"
// @Router /water-quality/latest [get]
func (h *ReadingHandler) Latest(w http.ResponseWriter, r *http.Request) {
	stationID := r.URL.Query().Get("station_id")
	if stationID == "" {
		utils.WriteError(w, errors.BadRequest("station_id is required"))
		return
	}

	readings, err := h.service.List(r.Context(), reading.Filter{StationID: stationID, Limit: 1})
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	if len(readings) == 0 {
		utils.WriteError(w, errors.NotFound("Reading"))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.FromReading(readings[0]))
}
