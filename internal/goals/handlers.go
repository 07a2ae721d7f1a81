package goals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
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

// HandleList handles GET /v1/goals?status=active|completed&type=
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	var (
		list []storage.Goal
		err  error
	)
	q := r.URL.Query()
	switch {
	case q.Get("type") != "":
		t := storage.GoalType(q.Get("type"))
		if !t.Valid() {
			writeError(w, http.StatusBadRequest, "invalid_request", "unknown goal type")
			return
		}
		list, err = h.service.GoalsByType(r.Context(), t)
	case q.Get("status") == "active":
		list, err = h.service.ActiveGoals(r.Context())
	case q.Get("status") == "completed":
		list, err = h.service.CompletedGoals(r.Context())
	case q.Get("status") == "":
		list, err = h.service.ListGoals(r.Context())
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "status must be active or completed")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalsResponse(list))
}

// HandleCreate handles POST /v1/goals
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	g, ok := decodeGoal(w, r)
	if !ok {
		return
	}
	if err := h.service.CreateGoal(r.Context(), g); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDTO(*g))
}

// HandleGet handles GET /v1/goals/{id}
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	g, err := h.service.GetGoal(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if g == nil {
		writeError(w, http.StatusNotFound, "goal_not_found", "goal not found")
		return
	}
	writeJSON(w, http.StatusOK, toDTO(*g))
}

// HandleUpdate handles PUT /v1/goals/{id}
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	g, ok := decodeGoal(w, r)
	if !ok {
		return
	}
	g.ID = id
	if err := h.service.UpdateGoal(r.Context(), g); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDTO(*g))
}

// HandleDelete handles DELETE /v1/goals/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteGoal(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleProgress handles POST /v1/goals/{id}/progress
func (h *Handlers) HandleProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req ProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := h.service.UpdateProgress(r.Context(), id, req.CurrentValue); err != nil {
		writeServiceError(w, err)
		return
	}
	h.writeGoal(w, r, id)
}

// HandleComplete handles POST /v1/goals/{id}/complete
func (h *Handlers) HandleComplete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.service.MarkComplete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	h.writeGoal(w, r, id)
}

// HandleReactivate handles POST /v1/goals/{id}/reactivate
func (h *Handlers) HandleReactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req ReactivateRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	deadline, err := optionalDay(req.Deadline)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "deadline must be YYYY-MM-DD")
		return
	}
	if err := h.service.Reactivate(r.Context(), id, deadline); err != nil {
		writeServiceError(w, err)
		return
	}
	h.writeGoal(w, r, id)
}

// HandleStats handles GET /v1/goals/stats
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Statistics(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleUpcoming handles GET /v1/goals/upcoming?days=7
func (h *Handlers) HandleUpcoming(w http.ResponseWriter, r *http.Request) {
	days := DefaultDeadlineWindow
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "days must be a positive integer")
			return
		}
		days = n
	}
	list, err := h.service.UpcomingDeadlines(r.Context(), days)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalsResponse(list))
}

// HandleTypes handles GET /v1/goals/types
func (h *Handlers) HandleTypes(w http.ResponseWriter, r *http.Request) {
	resp := GoalTypesResponse{Types: make([]GoalTypeDTO, 0, len(storage.GoalTypes))}
	for _, t := range storage.GoalTypes {
		resp.Types = append(resp.Types, GoalTypeDTO{Type: t, Presentation: PresentationFor(t)})
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeGoal responds with the stored goal; an absent goal is a 404 because
// the mutating calls above ignore unknown ids.
func (h *Handlers) writeGoal(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	g, err := h.service.GetGoal(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if g == nil {
		writeError(w, http.StatusNotFound, "goal_not_found", "goal not found")
		return
	}
	writeJSON(w, http.StatusOK, toDTO(*g))
}

func decodeGoal(w http.ResponseWriter, r *http.Request) (*storage.Goal, bool) {
	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return nil, false
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return nil, false
	}
	g := &storage.Goal{
		Type:         storage.GoalType(req.Type),
		Title:        req.Title,
		Description:  req.Description,
		TargetValue:  req.TargetValue,
		CurrentValue: req.CurrentValue,
		Unit:         req.Unit,
	}
	var err error
	if req.StartDate != "" {
		if g.StartDate, err = codec.ParseDay(req.StartDate); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "start_date must be YYYY-MM-DD")
			return nil, false
		}
	}
	if g.Deadline, err = optionalDay(req.Deadline); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "deadline must be YYYY-MM-DD")
		return nil, false
	}
	return g, true
}

func optionalDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := codec.ParseDay(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func formatOptionalDay(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := codec.FormatDay(*t)
	return &s
}

func toDTO(g storage.Goal) GoalDTO {
	return GoalDTO{
		ID:            g.ID,
		Type:          g.Type,
		Title:         g.Title,
		Description:   g.Description,
		TargetValue:   g.TargetValue,
		CurrentValue:  g.CurrentValue,
		Unit:          g.Unit,
		Progress:      g.Progress,
		StartDate:     codec.FormatDay(g.StartDate),
		Deadline:      formatOptionalDay(g.Deadline),
		IsActive:      g.IsActive,
		IsCompleted:   g.IsCompleted,
		CompletedDate: formatOptionalDay(g.CompletedDate),
		Presentation:  PresentationFor(g.Type),
		CreatedAt:     g.CreatedAt,
	}
}

func toGoalsResponse(list []storage.Goal) GoalsResponse {
	resp := GoalsResponse{Goals: make([]GoalDTO, 0, len(list))}
	for _, g := range list {
		resp.Goals = append(resp.Goals, toDTO(g))
	}
	return resp
}

func idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid goal ID")
		return uuid.Nil, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "goal_not_found", err.Error())
	case errors.Is(err, ErrInvalidGoal):
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
