package foods

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/nutrients"
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

// HandleCreate handles POST /v1/foods
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateFoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	entry, err := h.entryFromRequest(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.service.AddFood(r.Context(), entry); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ToEntryDTO(*entry))
}

// HandleListDay handles GET /v1/foods?date=YYYY-MM-DD
func (h *Handlers) HandleListDay(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r, h.service.now())
	if !ok {
		return
	}

	entries, err := h.service.FoodsForDate(r.Context(), day)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := DayResponse{
		Date:   codec.FormatDay(day),
		Meals:  make(map[storage.MealType][]FoodEntryDTO, len(storage.MealTypes)),
		Totals: ToTotalsDTO(ComputeTotals(entries)),
	}
	for meal, group := range GroupByMeal(entries) {
		dtos := make([]FoodEntryDTO, 0, len(group))
		for _, e := range group {
			dtos = append(dtos, ToEntryDTO(e))
		}
		resp.Meals[meal] = dtos
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleClearDay handles DELETE /v1/foods?date=YYYY-MM-DD
func (h *Handlers) HandleClearDay(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("date") == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "date is required")
		return
	}
	day, ok := dayParam(w, r, h.service.now())
	if !ok {
		return
	}
	if err := h.service.ClearDate(r.Context(), day); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGet handles GET /v1/foods/{id}
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	entry, err := h.service.GetFood(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "food_not_found", "food entry not found")
		return
	}
	writeJSON(w, http.StatusOK, ToEntryDTO(*entry))
}

// HandleUpdate handles PUT /v1/foods/{id}
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req CreateFoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	entry, err := h.entryFromRequest(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	entry.ID = id

	if err := h.service.UpdateFood(r.Context(), entry); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToEntryDTO(*entry))
}

// HandleDelete handles DELETE /v1/foods/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteFood(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSearchHistory handles GET /v1/foods/history?q=&limit=
func (h *Handlers) HandleSearchHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	names, err := h.service.SearchHistory(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Names: names})
}

// HandleLogCustom handles POST /v1/foods/from-custom
func (h *Handlers) HandleLogCustom(w http.ResponseWriter, r *http.Request) {
	var req LogCustomFoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.CustomFoodID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "custom_food_id is required")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var day time.Time
	if req.Date != "" {
		d, err := codec.ParseDay(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
			return
		}
		day = codec.OnDay(d, h.service.now())
	}

	entry, err := h.service.LogCustomFood(r.Context(), req.CustomFoodID, day, storage.MealType(req.MealType), req.ServingCount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ToEntryDTO(*entry))
}

// HandleListCustom handles GET /v1/custom-foods?q=
func (h *Handlers) HandleListCustom(w http.ResponseWriter, r *http.Request) {
	foods, err := h.service.SearchCustomFoods(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := CustomFoodsResponse{Foods: make([]CustomFoodDTO, 0, len(foods))}
	for _, f := range foods {
		resp.Foods = append(resp.Foods, toCustomDTO(f))
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleCreateCustom handles POST /v1/custom-foods
func (h *Handlers) HandleCreateCustom(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomFoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	food := customFromRequest(&req)
	if err := h.service.CreateCustomFood(r.Context(), food); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomDTO(*food))
}

// HandleGetCustom handles GET /v1/custom-foods/{id}
func (h *Handlers) HandleGetCustom(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	food, err := h.service.GetCustomFood(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if food == nil {
		writeError(w, http.StatusNotFound, "custom_food_not_found", "custom food not found")
		return
	}
	writeJSON(w, http.StatusOK, toCustomDTO(*food))
}

// HandleUpdateCustom handles PUT /v1/custom-foods/{id}
func (h *Handlers) HandleUpdateCustom(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req CreateCustomFoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	food := customFromRequest(&req)
	food.ID = id
	if err := h.service.UpdateCustomFood(r.Context(), food); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomDTO(*food))
}

// HandleDeleteCustom handles DELETE /v1/custom-foods/{id}
func (h *Handlers) HandleDeleteCustom(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteCustomFood(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleLookupBarcode handles GET /v1/custom-foods/barcode/{code}
func (h *Handlers) HandleLookupBarcode(w http.ResponseWriter, r *http.Request) {
	match, err := h.service.LookupBarcode(r.Context(), r.PathValue("code"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "barcode_not_found", "no product for this barcode")
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BarcodeResponse{Source: match.Source, Food: toCustomDTO(match.Food)})
}

// HandleImportBarcode handles POST /v1/custom-foods/barcode/{code}
func (h *Handlers) HandleImportBarcode(w http.ResponseWriter, r *http.Request) {
	food, err := h.service.ImportBarcode(r.Context(), r.PathValue("code"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "barcode_not_found", "no product for this barcode")
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomDTO(*food))
}

func (h *Handlers) entryFromRequest(req *CreateFoodRequest) (*storage.FoodEntry, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	entry := &storage.FoodEntry{
		Name:           req.Name,
		Brand:          req.Brand,
		Barcode:        req.Barcode,
		MealType:       storage.MealType(req.MealType),
		ServingSize:    req.ServingSize,
		ServingUnit:    req.ServingUnit,
		ServingCount:   1,
		Calories:       req.Calories,
		Protein:        req.Protein,
		Carbs:          req.Carbs,
		Fat:            req.Fat,
		Micronutrients: nutrients.FromMap(req.Micronutrients),
	}
	if req.ServingCount != nil {
		entry.ServingCount = *req.ServingCount
	}
	if req.Date != "" {
		d, err := codec.ParseDay(req.Date)
		if err != nil {
			return nil, err
		}
		entry.Date = codec.OnDay(d, h.service.now())
	}
	return entry, nil
}

func customFromRequest(req *CreateCustomFoodRequest) *storage.CustomFood {
	return &storage.CustomFood{
		Name:           req.Name,
		Brand:          req.Brand,
		Barcode:        req.Barcode,
		ServingSize:    req.ServingSize,
		ServingUnit:    req.ServingUnit,
		Calories:       req.Calories,
		Protein:        req.Protein,
		Carbs:          req.Carbs,
		Fat:            req.Fat,
		Micronutrients: nutrients.FromMap(req.Micronutrients),
	}
}

func dayParam(w http.ResponseWriter, r *http.Request, now time.Time) (time.Time, bool) {
	v := r.URL.Query().Get("date")
	if v == "" {
		return now, true
	}
	day, err := codec.ParseDay(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}

func idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid ID")
		return uuid.Nil, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
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
