package profiles

import (
	"math"
	"testing"
	"time"

	"github.com/fdg312/health-diary/internal/storage"
)

var testNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.Local)

func referenceProfile() storage.UserProfile {
	p := storage.DefaultProfile()
	p.Gender = "male"
	p.WeightKg = 75
	p.HeightCm = 180
	p.BirthDate = time.Date(1994, 3, 1, 0, 0, 0, 0, time.Local)
	p.ActivityLevel = "Moderate"
	return p
}

func TestAge(t *testing.T) {
	tests := []struct {
		name  string
		birth time.Time
		want  int
	}{
		{"birthday passed", time.Date(1994, 3, 1, 0, 0, 0, 0, time.Local), 30},
		{"birthday today", time.Date(1994, 3, 15, 0, 0, 0, 0, time.Local), 30},
		{"birthday tomorrow", time.Date(1994, 3, 16, 0, 0, 0, 0, time.Local), 29},
		{"zero", time.Time{}, 0},
		{"future", testNow.AddDate(1, 0, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Age(tt.birth, testNow); got != tt.want {
				t.Errorf("Age = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBMRMifflin(t *testing.T) {
	p := referenceProfile()

	if got := BMR(p, testNow); got != 1730 {
		t.Errorf("expected BMR 1730, got %v", got)
	}
	if got := TDEE(p, testNow); math.Abs(got-2681.5) > 1e-9 {
		t.Errorf("expected TDEE 2681.5, got %v", got)
	}

	p.Gender = "female"
	if got := BMR(p, testNow); got != 1564 {
		t.Errorf("expected female BMR 1564, got %v", got)
	}
	p.Gender = "other"
	if got := BMR(p, testNow); got != 1647 {
		t.Errorf("expected averaged BMR 1647, got %v", got)
	}
}

func TestBMRHarrisBenedict(t *testing.T) {
	p := referenceProfile()
	p.BMRFormula = FormulaHarrisBenedict

	if got := BMR(p, testNow); math.Abs(got-1786.6) > 1 {
		t.Errorf("expected BMR ~1786.6, got %v", got)
	}
	if got := TDEE(p, testNow); math.Abs(got-2769.2) > 1 {
		t.Errorf("expected TDEE ~2769.2, got %v", got)
	}
}

func TestActivityMultiplier(t *testing.T) {
	tests := map[string]float64{
		"Sedentary":         1.2,
		"light":             1.375,
		"Lightly Active":    1.375,
		"Moderate":          1.55,
		"Active":            1.725,
		"Very Active":       1.9,
		"couch":             DefaultActivityMultiplier,
		"":                  DefaultActivityMultiplier,
		" moderately active": 1.55,
	}
	for level, want := range tests {
		if got := ActivityMultiplier(level); got != want {
			t.Errorf("ActivityMultiplier(%q) = %v, want %v", level, got, want)
		}
	}
}
