package goals

import (
	"time"

	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

type CreateGoalRequest struct {
	Type         string  `json:"type" validate:"required,goaltype"`
	Title        string  `json:"title" validate:"required,max=200"`
	Description  string  `json:"description,omitempty" validate:"max=2000"`
	TargetValue  float64 `json:"target_value" validate:"gt=0"`
	CurrentValue float64 `json:"current_value" validate:"gte=0"`
	Unit         string  `json:"unit,omitempty" validate:"max=32"`
	StartDate    string  `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Deadline     string  `json:"deadline,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type ProgressRequest struct {
	CurrentValue float64 `json:"current_value" validate:"gte=0"`
}

type ReactivateRequest struct {
	Deadline string `json:"deadline,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type GoalDTO struct {
	ID            uuid.UUID        `json:"id"`
	Type          storage.GoalType `json:"type"`
	Title         string           `json:"title"`
	Description   string           `json:"description,omitempty"`
	TargetValue   float64          `json:"target_value"`
	CurrentValue  float64          `json:"current_value"`
	Unit          string           `json:"unit"`
	Progress      int              `json:"progress"`
	StartDate     string           `json:"start_date"`
	Deadline      *string          `json:"deadline,omitempty"`
	IsActive      bool             `json:"is_active"`
	IsCompleted   bool             `json:"is_completed"`
	CompletedDate *string          `json:"completed_date,omitempty"`
	Presentation  Presentation     `json:"presentation"`
	CreatedAt     time.Time        `json:"created_at"`
}

type GoalsResponse struct {
	Goals []GoalDTO `json:"goals"`
}

type GoalTypeDTO struct {
	Type storage.GoalType `json:"type"`
	Presentation
}

type GoalTypesResponse struct {
	Types []GoalTypeDTO `json:"types"`
}
