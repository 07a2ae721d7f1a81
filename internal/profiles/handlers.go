package profiles

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/units"
	"github.com/fdg312/health-diary/internal/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGet handles GET /v1/profile
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, isDefault, err := h.service.Profile(r.Context())
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to load profile")
		return
	}
	h.sendJSON(w, http.StatusOK, toDTO(p, isDefault))
}

// HandleSave handles PUT /v1/profile
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var req SaveProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}
	if err := validate.Struct(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	birth, err := codec.ParseDay(req.BirthDate)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_request", "birth_date must be YYYY-MM-DD")
		return
	}

	p := &storage.UserProfile{
		Name:             req.Name,
		HeightCm:         req.HeightCm,
		WeightKg:         req.WeightKg,
		GoalWeightKg:     req.GoalWeightKg,
		BirthDate:        birth,
		Gender:           req.Gender,
		ActivityLevel:    req.ActivityLevel,
		BMRFormula:       req.BMRFormula,
		DailyCalorieGoal: req.DailyCalorieGoal,
		DailyProteinGoal: req.DailyProteinGoal,
		DailyCarbsGoal:   req.DailyCarbsGoal,
		DailyFatGoal:     req.DailyFatGoal,
		DailyWaterCups:   req.DailyWaterCups,
	}
	if err := h.service.SaveProfile(r.Context(), p); err != nil {
		h.sendServiceError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, toDTO(*p, false))
}

// HandlePatch handles PATCH /v1/profile
func (h *Handler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	var req PatchProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}
	if err := validate.Struct(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	p, err := h.service.Patch(r.Context(), func(p *storage.UserProfile) {
		if req.DailyCalorieGoal != nil {
			p.DailyCalorieGoal = *req.DailyCalorieGoal
		}
		if req.GoalWeightKg != nil {
			p.GoalWeightKg = *req.GoalWeightKg
		}
		if req.ActivityLevel != nil {
			p.ActivityLevel = *req.ActivityLevel
		}
		if req.BMRFormula != nil {
			p.BMRFormula = *req.BMRFormula
		}
	})
	if err != nil {
		h.sendServiceError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, toDTO(p, false))
}

// HandleEnergy handles GET /v1/profile/energy
func (h *Handler) HandleEnergy(w http.ResponseWriter, r *http.Request) {
	e, p, err := h.service.Energy(r.Context())
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to load profile")
		return
	}
	h.sendJSON(w, http.StatusOK, EnergyResponse{
		Age:                e.Age,
		Formula:            e.Formula,
		BMR:                units.Round(e.BMR, 1),
		ActivityLevel:      p.ActivityLevel,
		ActivityMultiplier: e.Multiplier,
		TDEE:               units.Round(e.TDEE, 1),
	})
}

func toDTO(p storage.UserProfile, isDefault bool) ProfileDTO {
	return ProfileDTO{
		Name:             p.Name,
		HeightCm:         p.HeightCm,
		WeightKg:         p.WeightKg,
		GoalWeightKg:     p.GoalWeightKg,
		BirthDate:        codec.FormatDay(p.BirthDate),
		Gender:           p.Gender,
		ActivityLevel:    p.ActivityLevel,
		BMRFormula:       formulaName(p),
		DailyCalorieGoal: p.DailyCalorieGoal,
		DailyProteinGoal: p.DailyProteinGoal,
		DailyCarbsGoal:   p.DailyCarbsGoal,
		DailyFatGoal:     p.DailyFatGoal,
		DailyWaterCups:   p.DailyWaterCups,
		IsDefault:        isDefault,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (h *Handler) sendServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidProfile) {
		h.sendError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to save profile")
}

func (h *Handler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) sendError(w http.ResponseWriter, status int, code, message string) {
	h.sendJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
