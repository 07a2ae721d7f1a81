package diary

import (
	"encoding/json"
	"net/http"

	"github.com/fdg312/health-diary/internal/codec"
)

type Handlers struct {
	model *Model
}

func NewHandlers(model *Model) *Handlers {
	return &Handlers{model: model}
}

// HandleGet handles GET /v1/diary?date=YYYY-MM-DD (default today). Read
// failures are reported in the body's error field.
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	day := h.model.now()
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := codec.ParseDay(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		day = d
	}

	s, _ := h.model.Load(r.Context(), day)
	writeJSON(w, http.StatusOK, toResponse(s))
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
