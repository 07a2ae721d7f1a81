package intakes

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/units"
	"github.com/fdg312/health-diary/internal/validate"
	"github.com/google/uuid"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleCreateSupplement handles POST /v1/supplements
func (h *Handlers) HandleCreateSupplement(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.decodeSupplement(w, r)
	if !ok {
		return
	}

	if err := h.service.AddSupplement(r.Context(), entry); err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ToSupplementDTO(*entry))
}

// HandleListSupplements handles GET /v1/supplements?date=YYYY-MM-DD
func (h *Handlers) HandleListSupplements(w http.ResponseWriter, r *http.Request) {
	day, ok := h.dayParam(w, r)
	if !ok {
		return
	}

	list, err := h.service.SupplementsForDate(r.Context(), day)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := SupplementsResponse{Supplements: make([]SupplementDTO, 0, len(list))}
	for _, s := range list {
		resp.Supplements = append(resp.Supplements, ToSupplementDTO(s))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// HandleSupplementNames handles GET /v1/supplements/names
func (h *Handlers) HandleSupplementNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.SupplementNames(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(SupplementNamesResponse{Names: names})
}

// HandleUpdateSupplement handles PUT /v1/supplements/{id}
func (h *Handlers) HandleUpdateSupplement(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid supplement ID")
		return
	}

	entry, ok := h.decodeSupplement(w, r)
	if !ok {
		return
	}
	entry.ID = id

	if err := h.service.UpdateSupplement(r.Context(), entry); err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ToSupplementDTO(*entry))
}

// HandleDeleteSupplement handles DELETE /v1/supplements/{id}
func (h *Handlers) HandleDeleteSupplement(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid supplement ID")
		return
	}

	if err := h.service.DeleteSupplement(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAddWater handles POST /v1/intakes/water
func (h *Handlers) HandleAddWater(w http.ResponseWriter, r *http.Request) {
	var req AddWaterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	entry := &storage.WaterEntry{Amount: req.Amount, Unit: req.Unit}
	if req.TakenAt != nil {
		entry.Timestamp = *req.TakenAt
	}
	if err := h.service.AddWaterEntry(r.Context(), entry); err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ToWaterDTO(*entry))
}

// HandleRemoveLastWater handles DELETE /v1/intakes/water/last?date=YYYY-MM-DD
func (h *Handlers) HandleRemoveLastWater(w http.ResponseWriter, r *http.Request) {
	day, ok := h.dayParam(w, r)
	if !ok {
		return
	}

	removed, err := h.service.RemoveLastWater(r.Context(), day)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "water_not_found", "no water logged on this day")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteWater handles DELETE /v1/intakes/water/{id}
func (h *Handlers) HandleDeleteWater(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid water entry ID")
		return
	}

	if err := h.service.DeleteWater(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleGetIntakesDaily handles GET /v1/intakes/daily
func (h *Handlers) HandleGetIntakesDaily(w http.ResponseWriter, r *http.Request) {
	day, ok := h.dayParam(w, r)
	if !ok {
		return
	}

	daily, err := h.service.Daily(r.Context(), day)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := IntakesDailyResponse{
		Date:         codec.FormatDay(daily.Date),
		WaterTotalOz: units.Round(daily.WaterOz, 2),
		WaterCups:    units.Round(units.OzToCups(daily.WaterOz), 2),
		WaterEntries: make([]WaterIntakeDTO, 0, len(daily.Water)),
		Supplements:  make([]SupplementDTO, 0, len(daily.Supplements)),
		Nutrients:    []NutrientAmountDTO{},
	}
	for _, e := range daily.Water {
		resp.WaterEntries = append(resp.WaterEntries, ToWaterDTO(e))
	}
	for _, s := range daily.Supplements {
		resp.Supplements = append(resp.Supplements, ToSupplementDTO(s))
	}
	for _, a := range daily.SupplementNutrients.Amounts() {
		resp.Nutrients = append(resp.Nutrients, NutrientAmountDTO{
			Key:    a.Nutrient.Key(),
			Label:  a.Nutrient.Label(),
			Amount: units.Round(a.Value, 2),
			Unit:   a.Unit(),
		})
	}
	for _, k := range daily.SupplementNutrients.OtherKeys() {
		resp.Nutrients = append(resp.Nutrients, NutrientAmountDTO{
			Key:    k,
			Label:  k,
			Amount: units.Round(daily.SupplementNutrients.Other[k], 2),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func (h *Handlers) decodeSupplement(w http.ResponseWriter, r *http.Request) (*storage.SupplementEntry, bool) {
	var req CreateSupplementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return nil, false
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return nil, false
	}

	entry := &storage.SupplementEntry{
		Name:        req.Name,
		Brand:       req.Brand,
		ServingSize: req.ServingSize,
		ServingUnit: req.ServingUnit,
		Nutrients:   req.Nutrients,
		Notes:       req.Notes,
	}
	if req.Date != "" {
		d, err := codec.ParseDay(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
			return nil, false
		}
		entry.Date = codec.OnDay(d, h.service.now())
	}
	return entry, true
}

func (h *Handlers) dayParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	v := r.URL.Query().Get("date")
	if v == "" {
		return h.service.now(), true
	}
	day, err := codec.ParseDay(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}

func ToWaterDTO(e storage.WaterEntry) WaterIntakeDTO {
	return WaterIntakeDTO{
		ID:        e.ID,
		Amount:    e.Amount,
		Unit:      e.Unit,
		AmountOz:  units.Round(units.WaterToOz(e.Amount, e.Unit), 2),
		Timestamp: e.Timestamp,
	}
}

func ToSupplementDTO(s storage.SupplementEntry) SupplementDTO {
	return SupplementDTO{
		ID:          s.ID,
		Name:        s.Name,
		Brand:       s.Brand,
		Date:        s.Date,
		ServingSize: s.ServingSize,
		ServingUnit: s.ServingUnit,
		Nutrients:   s.Nutrients,
		Notes:       s.Notes,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidIntake):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, storage.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
