package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/foods"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/fdg312/health-diary/internal/units"
	"github.com/jung-kurt/gofpdf"
)

type FoodTotals interface {
	TotalsForDate(ctx context.Context, day time.Time) (foods.Totals, error)
}

type WaterTotals interface {
	WaterOzForDate(ctx context.Context, day time.Time) (float64, error)
}

type ExerciseTotals interface {
	MinutesForDate(ctx context.Context, day time.Time) (int, error)
	CaloriesBurnedForDate(ctx context.Context, day time.Time) (float64, error)
}

type WeightHistory interface {
	History(ctx context.Context) ([]storage.WeightEntry, error)
}

// Generator renders diary exports from the per-day services.
type Generator struct {
	foods    FoodTotals
	water    WaterTotals
	exercise ExerciseTotals
	weights  WeightHistory
}

func NewGenerator(foods FoodTotals, water WaterTotals, exercise ExerciseTotals, weights WeightHistory) *Generator {
	return &Generator{foods: foods, water: water, exercise: exercise, weights: weights}
}

// Rows returns one row per day from from to to inclusive.
func (g *Generator) Rows(ctx context.Context, from, to time.Time) ([]DayRow, error) {
	history, err := g.weights.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}
	// history is newest first, so the first entry seen for a day is its last weigh-in
	weightByDay := make(map[string]float64)
	for _, w := range history {
		key := codec.FormatDay(w.Date)
		if _, ok := weightByDay[key]; !ok {
			weightByDay[key] = w.Weight
		}
	}

	var rows []DayRow
	for day := codec.StartOfDay(from); !day.After(to); day = day.AddDate(0, 0, 1) {
		totals, err := g.foods.TotalsForDate(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("food totals %s: %w", codec.FormatDay(day), err)
		}
		water, err := g.water.WaterOzForDate(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("water %s: %w", codec.FormatDay(day), err)
		}
		minutes, err := g.exercise.MinutesForDate(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("exercise %s: %w", codec.FormatDay(day), err)
		}
		burned, err := g.exercise.CaloriesBurnedForDate(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("exercise %s: %w", codec.FormatDay(day), err)
		}

		row := DayRow{
			Date:            day,
			Calories:        totals.Calories,
			Protein:         totals.Protein,
			Carbs:           totals.Carbs,
			Fat:             totals.Fat,
			WaterOz:         water,
			ExerciseMinutes: minutes,
			CaloriesBurned:  burned,
		}
		if w, ok := weightByDay[codec.FormatDay(day)]; ok {
			row.WeightKg = &w
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Summarize averages calories and protein over days with food logged and
// water over every day.
func Summarize(rows []DayRow) Summary {
	s := Summary{Days: len(rows)}
	var calories, protein, water float64
	var first, last *float64
	for _, r := range rows {
		if r.Calories > 0 || r.Protein > 0 {
			s.LoggedDays++
			calories += r.Calories
			protein += r.Protein
		}
		water += r.WaterOz
		s.ExerciseMinutes += r.ExerciseMinutes
		s.CaloriesBurned += r.CaloriesBurned
		if r.WeightKg != nil {
			if first == nil {
				first = r.WeightKg
			}
			last = r.WeightKg
		}
	}
	if s.LoggedDays > 0 {
		s.AvgCalories = units.Round(calories/float64(s.LoggedDays), 1)
		s.AvgProtein = units.Round(protein/float64(s.LoggedDays), 1)
	}
	if s.Days > 0 {
		s.AvgWaterOz = units.Round(water/float64(s.Days), 1)
	}
	if first != nil && last != nil {
		delta := units.Round(*last-*first, 2)
		s.WeightDelta = &delta
	}
	return s
}

// Generate renders the range in the given format.
func (g *Generator) Generate(ctx context.Context, format string, from, to time.Time) ([]byte, error) {
	rows, err := g.Rows(ctx, from, to)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatCSV:
		return renderCSV(rows)
	case FormatPDF:
		return renderPDF(from, to, rows)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}
}

var csvHeader = []string{
	"date", "calories", "protein_g", "carbs_g", "fat_g",
	"water_oz", "exercise_minutes", "calories_burned", "weight_kg",
}

func renderCSV(rows []DayRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		weight := ""
		if r.WeightKg != nil {
			weight = formatNumber(*r.WeightKg, 2)
		}
		record := []string{
			codec.FormatDay(r.Date),
			formatNumber(r.Calories, 1),
			formatNumber(r.Protein, 1),
			formatNumber(r.Carbs, 1),
			formatNumber(r.Fat, 1),
			formatNumber(r.WaterOz, 1),
			strconv.Itoa(r.ExerciseMinutes),
			formatNumber(r.CaloriesBurned, 1),
			weight,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Date", 24}, {"Calories", 20}, {"Protein", 18}, {"Carbs", 18}, {"Fat", 16},
	{"Water oz", 20}, {"Exercise", 20}, {"Burned", 20}, {"Weight", 20},
}

func renderPDF(from, to time.Time, rows []DayRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Health Diary Report", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Health Diary Report")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", codec.FormatDay(from), codec.FormatDay(to)))
	pdf.Ln(12)

	s := Summarize(rows)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	lines := []string{
		fmt.Sprintf("Days logged: %d of %d", s.LoggedDays, s.Days),
		fmt.Sprintf("Average calories: %s kcal", formatNumber(s.AvgCalories, 0)),
		fmt.Sprintf("Average protein: %s g", formatNumber(s.AvgProtein, 1)),
		fmt.Sprintf("Average water: %s oz (%s cups)", formatNumber(s.AvgWaterOz, 1),
			formatNumber(units.OzToCups(s.AvgWaterOz), 1)),
		fmt.Sprintf("Exercise: %d minutes, %s kcal burned", s.ExerciseMinutes, formatNumber(s.CaloriesBurned, 0)),
	}
	if s.WeightDelta != nil {
		lines = append(lines, fmt.Sprintf("Weight change: %+.1f kg", *s.WeightDelta))
	} else {
		lines = append(lines, "Weight change: no data")
	}
	for _, line := range lines {
		pdf.Cell(0, 6, line)
		pdf.Ln(5)
	}
	pdf.Ln(7)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Daily log")
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, c := range pdfColumns {
		ln := 0
		if i == len(pdfColumns)-1 {
			ln = 1
		}
		pdf.CellFormat(c.width, 6, c.title, "1", ln, "C", true, 0, "")
	}

	pdf.SetFont("Arial", "", 8)
	for _, r := range rows {
		weight := ""
		if r.WeightKg != nil {
			weight = formatNumber(*r.WeightKg, 1)
		}
		cells := []string{
			codec.FormatDay(r.Date),
			formatNumber(r.Calories, 0),
			formatNumber(r.Protein, 1),
			formatNumber(r.Carbs, 1),
			formatNumber(r.Fat, 1),
			formatNumber(r.WaterOz, 1),
			fmt.Sprintf("%d min", r.ExerciseMinutes),
			formatNumber(r.CaloriesBurned, 0),
			weight,
		}
		for i, text := range cells {
			ln := 0
			if i == len(cells)-1 {
				ln = 1
			}
			pdf.CellFormat(pdfColumns[i].width, 6, text, "1", ln, "C", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func formatNumber(v float64, places int) string {
	return strconv.FormatFloat(units.Round(v, places), 'f', -1, 64)
}
