package nutrition

import (
	"encoding/json"
	"net/http"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/units"
)

// Handler handles HTTP requests for nutrition targets.
type Handler struct {
	service *Service
}

// NewHandler creates a new nutrition handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGetTargets handles GET /v1/nutrition/targets
func (h *Handler) HandleGetTargets(w http.ResponseWriter, r *http.Request) {
	targets, isDefault, err := h.service.Targets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get nutrition targets")
		return
	}

	writeJSON(w, http.StatusOK, GetTargetsResponse{Targets: targets, IsDefault: isDefault})
}

// HandleGetSummary handles GET /v1/nutrition/summary?date=YYYY-MM-DD
func (h *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	day := h.service.now()
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := codec.ParseDay(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
			return
		}
		day = d
	}

	sum, err := h.service.Summary(r.Context(), day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get nutrition summary")
		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(sum))
}

func macro(consumed, target float64) MacroDTO {
	return MacroDTO{
		Consumed: units.Round(consumed, 1),
		Target:   target,
		Percent:  Percent(consumed, target),
	}
}

func toSummaryResponse(sum Summary) SummaryResponse {
	resp := SummaryResponse{
		Date:              codec.FormatDay(sum.Date),
		Calories:          macro(sum.Consumed.Calories, sum.Targets.CaloriesKcal),
		Protein:           macro(sum.Consumed.Protein, sum.Targets.ProteinG),
		Carbs:             macro(sum.Consumed.Carbs, sum.Targets.CarbsG),
		Fat:               macro(sum.Consumed.Fat, sum.Targets.FatG),
		Water:             macro(sum.WaterOz, sum.Targets.WaterOz),
		RemainingCalories: units.Round(sum.RemainingCalories(), 1),
		Micronutrients:    []MicronutrientDTO{},
		Entries:           sum.Consumed.Entries,
	}
	for _, a := range sum.Consumed.Micronutrients.Amounts() {
		resp.Micronutrients = append(resp.Micronutrients, MicronutrientDTO{
			Key:    a.Nutrient.Key(),
			Label:  a.Nutrient.Label(),
			Amount: units.Round(a.Value, 2),
			Unit:   a.Unit(),
		})
	}
	return resp
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
