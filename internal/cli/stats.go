package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fdg312/health-diary/internal/httpserver"
	"github.com/fdg312/health-diary/internal/profiles"
	"github.com/fdg312/health-diary/internal/units"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show derived statistics",
}

var (
	bmrWeightKg float64
	bmrHeightCm float64
	bmrAge      int
	bmrGender   string
	bmrActivity string
)

var statsBMRCmd = &cobra.Command{
	Use:   "bmr",
	Short: "Show BMR and TDEE with both formulas",
	Long: "Without flags the saved profile is used. Passing --weight-kg, --height-cm and --age\n" +
		"computes the numbers for those values instead.",
	RunE: func(cmd *cobra.Command, args []string) error {
		adHoc := cmd.Flags().Changed("weight-kg") || cmd.Flags().Changed("height-cm") || cmd.Flags().Changed("age")
		if adHoc {
			if bmrWeightKg <= 0 || bmrHeightCm <= 0 || bmrAge <= 0 {
				return errors.New("--weight-kg, --height-cm and --age must all be positive")
			}
			printEnergy(cmd.OutOrStdout(), bmrWeightKg, bmrHeightCm, bmrAge, bmrGender, bmrActivity, "")
			return nil
		}

		return withServices(cmd.Context(), func(svcs *httpserver.Services) error {
			p, saved, err := svcs.Profiles.Profile(cmd.Context())
			if err != nil {
				return err
			}
			if !saved {
				fmt.Fprintln(cmd.ErrOrStderr(), "no saved profile, showing defaults")
			}
			age := profiles.Age(p.BirthDate, time.Now())
			activity := p.ActivityLevel
			if cmd.Flags().Changed("activity") {
				activity = bmrActivity
			}
			printEnergy(cmd.OutOrStdout(), p.WeightKg, p.HeightCm, age, p.Gender, activity, p.BMRFormula)
			return nil
		})
	},
}

// printEnergy writes one row per formula; selected marks the profile's own.
func printEnergy(out io.Writer, weightKg, heightCm float64, age int, gender, activity, selected string) {
	multiplier := profiles.ActivityMultiplier(activity)
	if selected == "" {
		selected = profiles.FormulaMifflin
	}

	fmt.Fprintf(out, "weight=%.1fkg height=%.1fcm age=%d gender=%s activity=%q (x%.3f)\n",
		weightKg, heightCm, age, gender, activity, multiplier)
	fmt.Fprintln(out, "FORMULA\tBMR\tTDEE\tSELECTED")
	rows := []struct {
		name string
		bmr  float64
	}{
		{profiles.FormulaMifflin, profiles.Mifflin(weightKg, heightCm, age, gender)},
		{profiles.FormulaHarrisBenedict, profiles.HarrisBenedict(weightKg, heightCm, age, gender)},
	}
	for _, r := range rows {
		mark := ""
		if r.name == selected {
			mark = "*"
		}
		fmt.Fprintf(out, "%s\t%.0f\t%.0f\t%s\n", r.name, units.Round(r.bmr, 0), units.Round(r.bmr*multiplier, 0), mark)
	}
}

func init() {
	statsBMRCmd.Flags().Float64Var(&bmrWeightKg, "weight-kg", 0, "Body weight in kg")
	statsBMRCmd.Flags().Float64Var(&bmrHeightCm, "height-cm", 0, "Height in cm")
	statsBMRCmd.Flags().IntVar(&bmrAge, "age", 0, "Age in years")
	statsBMRCmd.Flags().StringVar(&bmrGender, "gender", "other", "male, female or other")
	statsBMRCmd.Flags().StringVar(&bmrActivity, "activity", "moderate", "Activity level, e.g. sedentary, light, moderate, active, very active")
	statsCmd.AddCommand(statsBMRCmd)
	rootCmd.AddCommand(statsCmd)
}
