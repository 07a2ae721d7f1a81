package nutrition

import (
	"time"

	"github.com/fdg312/health-diary/internal/foods"
)

// Targets are the daily intake goals.
type Targets struct {
	CaloriesKcal float64 `json:"calories_kcal"`
	ProteinG     float64 `json:"protein_g"`
	CarbsG       float64 `json:"carbs_g"`
	FatG         float64 `json:"fat_g"`
	WaterOz      float64 `json:"water_oz"`
}

// Summary compares what was eaten and drunk on Date with the targets.
type Summary struct {
	Date     time.Time
	Targets  Targets
	Consumed foods.Totals
	WaterOz  float64
}

// RemainingCalories may be negative when the target was exceeded.
func (s Summary) RemainingCalories() float64 {
	return s.Targets.CaloriesKcal - s.Consumed.Calories
}

// GetTargetsResponse is the body of GET /v1/nutrition/targets.
type GetTargetsResponse struct {
	Targets   Targets `json:"targets"`
	IsDefault bool    `json:"is_default"`
}

type MacroDTO struct {
	Consumed float64 `json:"consumed"`
	Target   float64 `json:"target"`
	Percent  int     `json:"percent"`
}

type MicronutrientDTO struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// SummaryResponse is the body of GET /v1/nutrition/summary.
type SummaryResponse struct {
	Date              string             `json:"date"`
	Calories          MacroDTO           `json:"calories"`
	Protein           MacroDTO           `json:"protein"`
	Carbs             MacroDTO           `json:"carbs"`
	Fat               MacroDTO           `json:"fat"`
	Water             MacroDTO           `json:"water"`
	RemainingCalories float64            `json:"remaining_calories"`
	Micronutrients    []MicronutrientDTO `json:"micronutrients"`
	Entries           int                `json:"entries"`
}
