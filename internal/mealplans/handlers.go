package mealplans

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

// Handler handles HTTP requests for meal plans and grocery lists.
type Handler struct {
	service *Service
}

// NewHandler creates a new meal plans handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGetDay handles GET /v1/meal/plan?date=YYYY-MM-DD
func (h *Handler) HandleGetDay(w http.ResponseWriter, r *http.Request) {
	day, ok := h.dayParam(w, r)
	if !ok {
		return
	}

	plans, err := h.service.PlansForDate(r.Context(), day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get meal plan")
		return
	}

	resp := DayPlanResponse{Date: codec.FormatDay(day), Plans: toPlanDTOs(plans)}
	for _, p := range plans {
		resp.Calories += p.Calories
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGetRange handles GET /v1/meal/plan/range?from=&to=
func (h *Handler) HandleGetRange(w http.ResponseWriter, r *http.Request) {
	from, err := codec.ParseDay(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "from must be YYYY-MM-DD")
		return
	}
	to, err := codec.ParseDay(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "to must be YYYY-MM-DD")
		return
	}

	plans, err := h.service.PlansInRange(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RangePlanResponse{
		From:  codec.FormatDay(from),
		To:    codec.FormatDay(to),
		Plans: toPlanDTOs(plans),
	})
}

// HandleCreate handles POST /v1/meal/plan
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePlan(w, r)
	if !ok {
		return
	}
	if err := h.service.AddMealPlan(r.Context(), p); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlanDTO(*p))
}

// HandleUpdate handles PUT /v1/meal/plan/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "meal plan")
	if !ok {
		return
	}
	p, ok := decodePlan(w, r)
	if !ok {
		return
	}
	p.ID = id
	if err := h.service.UpdateMealPlan(r.Context(), p); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanDTO(*p))
}

// HandleDelete handles DELETE /v1/meal/plan/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "meal plan")
	if !ok {
		return
	}
	if err := h.service.DeleteMealPlan(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleClearDay handles DELETE /v1/meal/plan?date=YYYY-MM-DD
func (h *Handler) HandleClearDay(w http.ResponseWriter, r *http.Request) {
	day, ok := h.dayParam(w, r)
	if !ok {
		return
	}
	if err := h.service.ClearDate(r.Context(), day); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListGrocery handles GET /v1/meal/grocery?status=active|completed
func (h *Handler) HandleListGrocery(w http.ResponseWriter, r *http.Request) {
	var (
		lists []storage.GroceryList
		err   error
	)
	switch r.URL.Query().Get("status") {
	case "", "active":
		lists, err = h.service.ActiveGroceryLists(r.Context())
	case "completed":
		lists, err = h.service.CompletedGroceryLists(r.Context())
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "status must be active or completed")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := GroceryListsResponse{Lists: make([]GroceryListDTO, 0, len(lists))}
	for _, l := range lists {
		resp.Lists = append(resp.Lists, toListDTO(l))
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleCreateGrocery handles POST /v1/meal/grocery
func (h *Handler) HandleCreateGrocery(w http.ResponseWriter, r *http.Request) {
	l, ok := decodeList(w, r)
	if !ok {
		return
	}
	if err := h.service.CreateGroceryList(r.Context(), l); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toListDTO(*l))
}

// HandleGetGrocery handles GET /v1/meal/grocery/{id}
func (h *Handler) HandleGetGrocery(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "grocery list")
	if !ok {
		return
	}
	l, err := h.service.GetGroceryList(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if l == nil {
		writeError(w, http.StatusNotFound, "not_found", "grocery list not found")
		return
	}
	writeJSON(w, http.StatusOK, toListDTO(*l))
}

// HandleUpdateGrocery handles PUT /v1/meal/grocery/{id}
func (h *Handler) HandleUpdateGrocery(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "grocery list")
	if !ok {
		return
	}
	l, ok := decodeList(w, r)
	if !ok {
		return
	}
	l.ID = id
	if err := h.service.UpdateGroceryList(r.Context(), l); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListDTO(*l))
}

// HandleDeleteGrocery handles DELETE /v1/meal/grocery/{id}
func (h *Handler) HandleDeleteGrocery(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "grocery list")
	if !ok {
		return
	}
	if err := h.service.DeleteGroceryList(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleToggleGrocery handles POST /v1/meal/grocery/{id}/toggle
func (h *Handler) HandleToggleGrocery(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "grocery list")
	if !ok {
		return
	}
	l, err := h.service.ToggleGroceryList(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListDTO(*l))
}

// HandleGenerateGrocery handles POST /v1/meal/grocery/generate
func (h *Handler) HandleGenerateGrocery(w http.ResponseWriter, r *http.Request) {
	var req GenerateGroceryListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	from, _ := codec.ParseDay(req.From)
	to, _ := codec.ParseDay(req.To)

	l, err := h.service.GenerateGroceryList(r.Context(), req.Name, from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toListDTO(*l))
}

func decodePlan(w http.ResponseWriter, r *http.Request) (*storage.MealPlan, bool) {
	var req MealPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return nil, false
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return nil, false
	}
	day, err := codec.ParseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return nil, false
	}
	return &storage.MealPlan{
		Date:     day,
		MealType: storage.MealType(req.MealType),
		RecipeID: req.RecipeID,
		Name:     req.Name,
		Servings: req.Servings,
		Calories: req.Calories,
		Notes:    req.Notes,
	}, true
}

func decodeList(w http.ResponseWriter, r *http.Request) (*storage.GroceryList, bool) {
	var req GroceryListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return nil, false
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return nil, false
	}
	return &storage.GroceryList{Name: req.Name, Items: req.Items, IsCompleted: req.IsCompleted}, true
}

func (h *Handler) dayParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	v := r.URL.Query().Get("date")
	if v == "" {
		return codec.StartOfDay(h.service.now()), true
	}
	day, err := codec.ParseDay(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}

func idParam(w http.ResponseWriter, r *http.Request, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func toPlanDTO(p storage.MealPlan) MealPlanDTO {
	return MealPlanDTO{
		ID:        p.ID,
		Date:      codec.FormatDay(p.Date),
		MealType:  p.MealType,
		RecipeID:  p.RecipeID,
		Name:      p.Name,
		Servings:  p.Servings,
		Calories:  p.Calories,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
}

func toPlanDTOs(list []storage.MealPlan) []MealPlanDTO {
	out := make([]MealPlanDTO, 0, len(list))
	for _, p := range list {
		out = append(out, toPlanDTO(p))
	}
	return out
}

func toListDTO(l storage.GroceryList) GroceryListDTO {
	items := l.Items
	if items == nil {
		items = []string{}
	}
	return GroceryListDTO{
		ID:          l.ID,
		Name:        l.Name,
		Items:       items,
		IsCompleted: l.IsCompleted,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ErrInvalidPlan):
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

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
