package units

import (
	"math"
	"strings"
)

const (
	LbsPerKg    = 2.20462
	CmPerInch   = 2.54
	InchPerFoot = 12
	MlPerOz     = 29.5735
	MlPerCup    = 236.588
	OzPerCup    = 8.0
	MilesPerKm  = 0.621371
)

// Water units accepted on water entries.
const (
	WaterOz  = "oz"
	WaterMl  = "ml"
	WaterCup = "cup"
)

func KgToLbs(kg float64) float64 { return kg * LbsPerKg }
func LbsToKg(lbs float64) float64 { return lbs / LbsPerKg }

// CmToFeetInches splits a height into whole feet and remaining inches.
func CmToFeetInches(cm float64) (feet int, inches float64) {
	total := cm / CmPerInch
	feet = int(total / InchPerFoot)
	inches = total - float64(feet*InchPerFoot)
	return feet, inches
}

func FeetInchesToCm(feet int, inches float64) float64 {
	return (float64(feet*InchPerFoot) + inches) * CmPerInch
}

func MlToOz(ml float64) float64   { return ml / MlPerOz }
func OzToMl(oz float64) float64   { return oz * MlPerOz }
func MlToCups(ml float64) float64 { return ml / MlPerCup }
func CupsToMl(c float64) float64  { return c * MlPerCup }
func OzToCups(oz float64) float64 { return oz / OzPerCup }
func CupsToOz(c float64) float64  { return c * OzPerCup }

func KmToMiles(km float64) float64 { return km * MilesPerKm }
func MilesToKm(mi float64) float64 { return mi / MilesPerKm }

func CelsiusToFahrenheit(c float64) float64 { return c*9/5 + 32 }
func FahrenheitToCelsius(f float64) float64 { return (f - 32) * 5 / 9 }

// WaterToOz normalizes an amount in any supported water unit to ounces.
// Unknown units are treated as ounces.
func WaterToOz(amount float64, unit string) float64 {
	switch normalizeWaterUnit(unit) {
	case WaterMl:
		return MlToOz(amount)
	case WaterCup:
		return CupsToOz(amount)
	default:
		return amount
	}
}

// IsWaterUnit reports whether unit is one of the accepted water units.
func IsWaterUnit(unit string) bool {
	switch normalizeWaterUnit(unit) {
	case WaterOz, WaterMl, WaterCup:
		return true
	}
	return false
}

func normalizeWaterUnit(unit string) string {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "ml", "milliliter", "milliliters":
		return WaterMl
	case "cup", "cups":
		return WaterCup
	case "oz", "fl oz", "ounce", "ounces", "":
		return WaterOz
	}
	return unit
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
