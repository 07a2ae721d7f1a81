package recipes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

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

// HandleList handles GET /v1/recipes?q=&category=&favorites=true
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	var (
		list []storage.Recipe
		err  error
	)
	q := r.URL.Query()
	switch {
	case q.Get("favorites") == "true":
		list, err = h.service.Favorites(r.Context())
	case q.Get("category") != "":
		list, err = h.service.ByCategory(r.Context(), q.Get("category"))
	default:
		list, err = h.service.Search(r.Context(), q.Get("q"))
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RecipesResponse{Recipes: toDTOs(list)})
}

// HandleDiscover handles GET /v1/recipes/discover?category=&meal_plan=&limit=
func (h *Handlers) HandleDiscover(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dq := DiscoverQuery{Category: q.Get("category"), MealPlan: q.Get("meal_plan")}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 50 {
			writeError(w, http.StatusBadRequest, "invalid_request", "limit must be between 1 and 50")
			return
		}
		dq.Limit = n
	}

	d, err := h.service.Discover(r.Context(), dq)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DiscoverResponse{Recipes: toDTOs(d.Recipes), RemoteFetched: d.RemoteFetched})
}

// HandleCreate handles POST /v1/recipes
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	rec, ok := decodeRecipe(w, r)
	if !ok {
		return
	}
	if err := h.service.SaveRecipe(r.Context(), rec); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDTO(*rec))
}

// HandleGet handles GET /v1/recipes/{id}
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	rec, err := h.service.GetRecipe(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "recipe_not_found", "recipe not found")
		return
	}
	writeJSON(w, http.StatusOK, toDTO(*rec))
}

// HandleUpdate handles PUT /v1/recipes/{id}
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	rec, ok := decodeRecipe(w, r)
	if !ok {
		return
	}
	existing, err := h.service.GetRecipe(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "recipe_not_found", "recipe not found")
		return
	}
	rec.ID = id
	rec.CreatedAt = existing.CreatedAt
	if err := h.service.SaveRecipe(r.Context(), rec); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDTO(*rec))
}

// HandleDelete handles DELETE /v1/recipes/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteRecipe(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleToggleFavorite handles POST /v1/recipes/{id}/favorite
func (h *Handlers) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	fav, err := h.service.ToggleFavorite(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FavoriteResponse{ID: id, IsFavorite: fav})
}

func decodeRecipe(w http.ResponseWriter, r *http.Request) (*storage.Recipe, bool) {
	var req SaveRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return nil, false
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return nil, false
	}
	return &storage.Recipe{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Servings:     req.Servings,
		PrepMinutes:  req.PrepMinutes,
		CookMinutes:  req.CookMinutes,
		Calories:     req.Calories,
		Protein:      req.Protein,
		Carbs:        req.Carbs,
		Fat:          req.Fat,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Tags:         req.Tags,
		IsFavorite:   req.IsFavorite,
		Source:       req.Source,
		ImageURL:     req.ImageURL,
	}, true
}

func idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid recipe ID")
		return uuid.Nil, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "recipe_not_found", err.Error())
	case errors.Is(err, ErrInvalidRecipe):
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
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
