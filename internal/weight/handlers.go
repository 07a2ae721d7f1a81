package weight

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

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

// HandleCreate handles POST /v1/weights
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.decode(w, r)
	if !ok {
		return
	}
	if err := h.service.AddWeight(r.Context(), entry); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDTO(*entry))
}

// HandleList handles GET /v1/weights
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.History(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := WeightsResponse{Entries: make([]WeightDTO, 0, len(list))}
	for _, e := range list {
		resp.Entries = append(resp.Entries, toDTO(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleLatest handles GET /v1/weights/latest
func (h *Handlers) HandleLatest(w http.ResponseWriter, r *http.Request) {
	latest, err := h.service.Latest(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if latest == nil {
		writeError(w, http.StatusNotFound, "weight_not_found", "no weight logged yet")
		return
	}
	writeJSON(w, http.StatusOK, toDTO(*latest))
}

// HandleStats handles GET /v1/weights/stats
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Statistics(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	progress, err := h.service.MonthlyProgress(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	weekly, err := h.service.WeeklyAverage(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatsDTO{
		Current:         st.Current,
		Highest:         st.Highest,
		Lowest:          st.Lowest,
		Average:         units.Round(st.Average, 2),
		Count:           st.Count,
		MonthlyProgress: units.Round(progress, 2),
		WeeklyAverage:   units.Round(weekly, 2),
	})
}

// HandleTrend handles GET /v1/weights/trend?days=30
func (h *Handlers) HandleTrend(w http.ResponseWriter, r *http.Request) {
	days := defaultTrendDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 3650 {
			writeError(w, http.StatusBadRequest, "invalid_request", "days must be between 1 and 3650")
			return
		}
		days = n
	}
	points, err := h.service.Trend(r.Context(), days)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := TrendResponse{Days: days, Points: make([]PointDTO, 0, len(points))}
	for _, p := range points {
		resp.Points = append(resp.Points, PointDTO{Date: codec.FormatDay(p.Date), Weight: p.Weight})
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdate handles PUT /v1/weights/{id}
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid weight ID")
		return
	}
	entry, ok := h.decode(w, r)
	if !ok {
		return
	}
	entry.ID = id
	if entry.Date.IsZero() {
		entry.Date = h.service.now()
	}
	if err := h.service.UpdateWeight(r.Context(), entry); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDTO(*entry))
}

// HandleDelete handles DELETE /v1/weights/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid weight ID")
		return
	}
	if err := h.service.DeleteWeight(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request) (*storage.WeightEntry, bool) {
	var req CreateWeightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return nil, false
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return nil, false
	}
	entry := &storage.WeightEntry{Weight: req.Weight, Notes: req.Notes}
	if req.Unit == "lbs" {
		entry.Weight = units.Round(units.LbsToKg(req.Weight), 2)
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

func toDTO(e storage.WeightEntry) WeightDTO {
	return WeightDTO{
		ID:        e.ID,
		WeightKg:  e.Weight,
		WeightLbs: units.Round(units.KgToLbs(e.Weight), 1),
		Date:      codec.FormatDay(e.Date),
		Timestamp: e.Timestamp,
		Notes:     e.Notes,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidEntry):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, storage.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
