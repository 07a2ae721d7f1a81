package intakes

import (
	"time"

	"github.com/fdg312/health-diary/internal/nutrients"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

// CupOz is the size of one diary water cup.
const CupOz = 8.0

// Daily is everything ingested on one day besides food.
type Daily struct {
	Date                time.Time
	Water               []storage.WaterEntry
	WaterOz             float64
	Supplements         []storage.SupplementEntry
	SupplementNutrients nutrients.Panel
}

// AddWaterRequest is the body of POST /v1/intakes/water. An empty unit means oz.
type AddWaterRequest struct {
	Amount  float64    `json:"amount" validate:"gt=0,lte=5000"`
	Unit    string     `json:"unit" validate:"omitempty,waterunit"`
	TakenAt *time.Time `json:"taken_at,omitempty"`
}

type WaterIntakeDTO struct {
	ID        uuid.UUID `json:"id"`
	Amount    float64   `json:"amount"`
	Unit      string    `json:"unit"`
	AmountOz  float64   `json:"amount_oz"`
	Timestamp time.Time `json:"timestamp"`
}

// CreateSupplementRequest is used by both POST /v1/supplements and PUT /v1/supplements/{id}.
type CreateSupplementRequest struct {
	Name        string             `json:"name" validate:"required,max=200"`
	Brand       string             `json:"brand,omitempty"`
	Date        string             `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ServingSize float64            `json:"serving_size" validate:"gte=0"`
	ServingUnit string             `json:"serving_unit,omitempty"`
	Nutrients   map[string]float64 `json:"nutrients,omitempty" validate:"dive,keys,nutrientkey,endkeys,gte=0"`
	Notes       string             `json:"notes,omitempty" validate:"max=1000"`
}

type SupplementDTO struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Brand       string             `json:"brand,omitempty"`
	Date        time.Time          `json:"date"`
	ServingSize float64            `json:"serving_size"`
	ServingUnit string             `json:"serving_unit,omitempty"`
	Nutrients   map[string]float64 `json:"nutrients,omitempty"`
	Notes       string             `json:"notes,omitempty"`
}

type SupplementsResponse struct {
	Supplements []SupplementDTO `json:"supplements"`
}

type SupplementNamesResponse struct {
	Names []string `json:"names"`
}

type NutrientAmountDTO struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// IntakesDailyResponse is returned by GET /v1/intakes/daily.
type IntakesDailyResponse struct {
	Date         string              `json:"date"`
	WaterTotalOz float64             `json:"water_total_oz"`
	WaterCups    float64             `json:"water_cups"`
	WaterEntries []WaterIntakeDTO    `json:"water_entries"`
	Supplements  []SupplementDTO     `json:"supplements"`
	Nutrients    []NutrientAmountDTO `json:"nutrients"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
