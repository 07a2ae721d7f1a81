package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fdg312/health-diary/internal/foods"
	"github.com/fdg312/health-diary/internal/intakes"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/validate"
)

type Handlers struct {
	model *Model
}

func NewHandlers(model *Model) *Handlers {
	return &Handlers{model: model}
}

// HandleGet handles GET /v1/dashboard. Load failures are reported in the
// body's error field with the partial figures.
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	s, _ := h.model.Refresh(r.Context())
	writeJSON(w, http.StatusOK, toResponse(s))
}

// HandleAddWater handles POST /v1/dashboard/water
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

	s, err := h.model.AddWater(r.Context(), req.Amount, req.Unit)
	if err != nil {
		writeCommandError(w, err, s)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(s))
}

// HandleQuickFood handles POST /v1/dashboard/quick-food
func (h *Handlers) HandleQuickFood(w http.ResponseWriter, r *http.Request) {
	var req QuickFoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	s, err := h.model.LogQuickFood(r.Context(), req.Name, req.Calories, storage.MealType(req.MealType))
	if err != nil {
		writeCommandError(w, err, s)
		return
	}
	writeJSON(w, http.StatusCreated, toResponse(s))
}

// HandleStream handles GET /v1/dashboard/stream as server-sent events, one
// "state" event per dashboard update.
func (h *Handlers) HandleStream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	states, cancel := h.model.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case s, ok := <-states:
			if !ok {
				return
			}
			data, err := json.Marshal(toResponse(s))
			if err != nil {
				return
			}
			if _, err := fmt.Fprintf(w, "event: state\ndata: %s\n\n", data); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func writeCommandError(w http.ResponseWriter, err error, s State) {
	if errors.Is(err, intakes.ErrInvalidIntake) || errors.Is(err, foods.ErrInvalidEntry) {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", s.Error)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
