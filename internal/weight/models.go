package weight

import (
	"time"

	"github.com/google/uuid"
)

// Stats summarizes every weigh-in. All values are zero when there are none.
type Stats struct {
	Current float64
	Highest float64
	Lowest  float64
	Average float64
	Count   int
}

// Point is one sample of the weight trend.
type Point struct {
	Date   time.Time
	Weight float64
}

type CreateWeightRequest struct {
	Weight float64 `json:"weight" validate:"gt=0,lte=700"`
	Unit   string  `json:"unit,omitempty" validate:"omitempty,oneof=kg lbs"`
	Date   string  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes  string  `json:"notes,omitempty" validate:"max=1000"`
}

type WeightDTO struct {
	ID        uuid.UUID `json:"id"`
	WeightKg  float64   `json:"weight_kg"`
	WeightLbs float64   `json:"weight_lbs"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

type WeightsResponse struct {
	Entries []WeightDTO `json:"entries"`
}

type StatsDTO struct {
	Current         float64 `json:"current"`
	Highest         float64 `json:"highest"`
	Lowest          float64 `json:"lowest"`
	Average         float64 `json:"average"`
	Count           int     `json:"count"`
	MonthlyProgress float64 `json:"monthly_progress"`
	WeeklyAverage   float64 `json:"weekly_average"`
}

type PointDTO struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

type TrendResponse struct {
	Days   int        `json:"days"`
	Points []PointDTO `json:"points"`
}
