package exercise

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/validate"
	"github.com/google/uuid"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleCreate handles POST /v1/exercises
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.decode(w, r)
	if !ok {
		return
	}
	if err := h.service.AddExercise(r.Context(), entry); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ToDTO(*entry))
}

// HandleList handles GET /v1/exercises?date= or ?category=
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	var (
		list []storage.ExerciseEntry
		err  error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		list, err = h.service.ExercisesByCategory(r.Context(), category)
	} else {
		day, ok := dayParam(w, r, "date", h.service.now())
		if !ok {
			return
		}
		list, err = h.service.ExercisesForDate(r.Context(), day)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := ExercisesResponse{Exercises: make([]ExerciseDTO, 0, len(list))}
	for _, e := range list {
		resp.Exercises = append(resp.Exercises, ToDTO(e))
		resp.TotalMinutes += e.DurationMinutes
		resp.TotalCalories += e.CaloriesBurned
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdate handles PUT /v1/exercises/{id}
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid exercise ID")
		return
	}
	entry, ok := h.decode(w, r)
	if !ok {
		return
	}
	entry.ID = id
	if err := h.service.UpdateExercise(r.Context(), entry); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToDTO(*entry))
}

// HandleDelete handles DELETE /v1/exercises/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid exercise ID")
		return
	}
	if err := h.service.DeleteExercise(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleWeeklyStats handles GET /v1/exercises/stats/weekly?start=
func (h *Handlers) HandleWeeklyStats(w http.ResponseWriter, r *http.Request) {
	start, ok := dayParam(w, r, "start", h.service.now().AddDate(0, 0, -6))
	if !ok {
		return
	}
	stats, err := h.service.WeeklyStats(r.Context(), start)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := WeeklyStatsDTO{
		Start:        codec.FormatDay(stats.Start),
		Days:         make([]DayMinutesDTO, 0, len(stats.Days)),
		TotalMinutes: stats.TotalMinutes,
	}
	for _, d := range stats.Days {
		resp.Days = append(resp.Days, DayMinutesDTO{Date: codec.FormatDay(d.Date), Minutes: d.Minutes})
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleMonthlyStats handles GET /v1/exercises/stats/monthly?month=YYYY-MM
func (h *Handlers) HandleMonthlyStats(w http.ResponseWriter, r *http.Request) {
	month := h.service.now()
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := time.ParseInLocation("2006-01", v, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "month must be YYYY-MM")
			return
		}
		month = m
	}
	stats, err := h.service.MonthlyStats(r.Context(), month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MonthlyStatsDTO{
		Month:                    stats.Month.Format("2006-01"),
		TotalMinutes:             stats.TotalMinutes,
		TotalCalories:            stats.TotalCalories,
		TotalWorkouts:            stats.TotalWorkouts,
		AverageMinutesPerWorkout: stats.AverageMinutesPerWorkout,
	})
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request) (*storage.ExerciseEntry, bool) {
	var req CreateExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return nil, false
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return nil, false
	}
	entry := &storage.ExerciseEntry{
		Name:            req.Name,
		Category:        req.Category,
		Type:            req.Type,
		DurationMinutes: req.DurationMinutes,
		CaloriesBurned:  req.CaloriesBurned,
		Intensity:       req.Intensity,
		Notes:           req.Notes,
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

func dayParam(w http.ResponseWriter, r *http.Request, key string, fallback time.Time) (time.Time, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback, true
	}
	day, err := codec.ParseDay(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", key+" must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "exercise_not_found", err.Error())
	case errors.Is(err, storage.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, ErrInvalidEntry):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
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
