package cli

import (
	"fmt"

	"github.com/fdg312/health-diary/internal/httpserver"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample diary once",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(svcs *httpserver.Services) error {
			res, err := svcs.Seed(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !res.Loaded {
				fmt.Fprintln(out, "Sample data already loaded")
				return nil
			}
			fmt.Fprintln(out, "KIND\tROWS")
			fmt.Fprintf(out, "foods\t%d\n", res.Foods)
			fmt.Fprintf(out, "water\t%d\n", res.Water)
			fmt.Fprintf(out, "exercise\t%d\n", res.Exercise)
			fmt.Fprintf(out, "weights\t%d\n", res.Weights)
			fmt.Fprintf(out, "supplements\t%d\n", res.Supplements)
			fmt.Fprintf(out, "goals\t%d\n", res.Goals)
			fmt.Fprintf(out, "recipes\t%d\n", res.Recipes)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
