package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/fdg312/health-diary/internal/auth"
	"github.com/fdg312/health-diary/internal/httpserver"
	"github.com/fdg312/health-diary/internal/reports"
	"github.com/spf13/cobra"
)

var (
	exportFrom   string
	exportTo     string
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the diary for a date range as CSV or PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		today := time.Now().Format("2006-01-02")
		req := reports.CreateReportRequest{From: exportFrom, To: exportTo, Format: exportFormat}
		if req.To == "" {
			req.To = today
		}
		if req.From == "" {
			req.From = time.Now().AddDate(0, 0, -6).Format("2006-01-02")
		}

		return withServices(cmd.Context(), func(svcs *httpserver.Services) error {
			report, err := svcs.Reports.CreateReport(auth.WithSubject(cmd.Context(), "cli"), req)
			if err != nil {
				return err
			}
			data, _, err := svcs.Reports.ReportData(cmd.Context(), report.ID)
			if err != nil {
				return err
			}

			if exportOut == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			path := exportOut
			if path == "" {
				path = fmt.Sprintf("diary_%s_%s.%s", req.From, req.To, req.Format)
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%d bytes, report %s)\n", path, len(data), report.ID)
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "First day YYYY-MM-DD (default: 6 days ago)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "Last day YYYY-MM-DD (default: today)")
	exportCmd.Flags().StringVar(&exportFormat, "format", reports.FormatCSV, "csv or pdf")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file, or - for stdout")
	rootCmd.AddCommand(exportCmd)
}
