package profiles

import (
	"strings"
	"time"

	"github.com/fdg312/health-diary/internal/storage"
)

const (
	FormulaMifflin        = "mifflin"
	FormulaHarrisBenedict = "harris_benedict"
)

// DefaultActivityMultiplier applies to unrecognized activity levels.
const DefaultActivityMultiplier = 1.55

var activityMultipliers = map[string]float64{
	"sedentary":         1.2,
	"light":             1.375,
	"lightly active":    1.375,
	"moderate":          1.55,
	"moderately active": 1.55,
	"active":            1.725,
	"very active":       1.9,
	"extra active":      1.9,
}

// ActivityMultiplier looks up level case-insensitively.
func ActivityMultiplier(level string) float64 {
	if m, ok := activityMultipliers[strings.ToLower(strings.TrimSpace(level))]; ok {
		return m
	}
	return DefaultActivityMultiplier
}

// KnownActivityLevel reports whether level has its own multiplier.
func KnownActivityLevel(level string) bool {
	_, ok := activityMultipliers[strings.ToLower(strings.TrimSpace(level))]
	return ok
}

// Age is the number of full years between birth and today.
func Age(birth, today time.Time) int {
	if birth.IsZero() || !birth.Before(today) {
		return 0
	}
	years := today.Year() - birth.Year()
	if today.Month() < birth.Month() || (today.Month() == birth.Month() && today.Day() < birth.Day()) {
		years--
	}
	return years
}

// Mifflin-St Jeor. Genders other than male and female use the average of the
// two constants.
func Mifflin(weightKg, heightCm float64, age int, gender string) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch strings.ToLower(gender) {
	case "male":
		return base + 5
	case "female":
		return base - 161
	}
	return base - 78
}

// HarrisBenedict is the revised (Roza-Shizgal) equation.
func HarrisBenedict(weightKg, heightCm float64, age int, gender string) float64 {
	a := float64(age)
	male := 88.362 + 13.397*weightKg + 4.799*heightCm - 5.677*a
	female := 447.593 + 9.247*weightKg + 3.098*heightCm - 4.330*a
	switch strings.ToLower(gender) {
	case "male":
		return male
	case "female":
		return female
	}
	return (male + female) / 2
}

// BMR computes the basal metabolic rate of p on today with the profile's
// formula (Mifflin-St Jeor unless harris_benedict is selected).
func BMR(p storage.UserProfile, today time.Time) float64 {
	age := Age(p.BirthDate, today)
	if p.BMRFormula == FormulaHarrisBenedict {
		return HarrisBenedict(p.WeightKg, p.HeightCm, age, p.Gender)
	}
	return Mifflin(p.WeightKg, p.HeightCm, age, p.Gender)
}

// TDEE is BMR scaled by the activity multiplier.
func TDEE(p storage.UserProfile, today time.Time) float64 {
	return BMR(p, today) * ActivityMultiplier(p.ActivityLevel)
}

func formulaName(p storage.UserProfile) string {
	if p.BMRFormula == FormulaHarrisBenedict {
		return FormulaHarrisBenedict
	}
	return FormulaMifflin
}
