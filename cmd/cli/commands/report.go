package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/logistica/presencas/pkg/core/services"
	"github.com/logistica/presencas/pkg/db"
	"github.com/logistica/presencas/pkg/export"
)

// ReportCmd creates the report command
func ReportCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export attendance rows as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			outDir, _ := cmd.Flags().GetString("out")

			var write func(io.Writer, []db.ReportRow) error
			switch format {
			case "csv":
				write = export.WriteCSV
			case "xlsx":
				write = export.WriteXLSX
			default:
				return fmt.Errorf("unknown format %q (csv or xlsx)", format)
			}

			filter, rows, err := loadReport(cmd, app)
			if err != nil {
				return err
			}

			path := filepath.Join(outDir, export.FileName(filter.Sector, filter.Shift, filter.Start, filter.End, format))
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			defer f.Close()

			if err := write(f, rows); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			app.Logger.Info("Report exported", zap.String("path", path), zap.Int("rows", len(rows)))
			fmt.Printf("\n✓ %d rows written to %s\n\n", len(rows), path)
			return nil
		},
	}

	addReportFlags(cmd)
	cmd.Flags().String("format", "csv", "csv or xlsx")
	cmd.Flags().String("out", ".", "Output directory")
	return cmd
}

// SummaryCmd creates the summary command
func SummaryCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print per-worker status totals and presence rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, rows, err := loadReport(cmd, app)
			if err != nil {
				return err
			}
			printSummary(os.Stdout, services.Summarize(rows))
			return nil
		},
	}

	addReportFlags(cmd)
	return cmd
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().String("sector", "", "Only this sector")
	cmd.Flags().String("shift", "", "Only this shift")
	cmd.Flags().String("start", "", "First date; defaults to the current period")
	cmd.Flags().String("end", "", "Last date; defaults to the current period")
}

func loadReport(cmd *cobra.Command, app *AppContext) (db.ReportFilter, []db.ReportRow, error) {
	sectorFlag, _ := cmd.Flags().GetString("sector")
	shift, _ := cmd.Flags().GetString("shift")
	startFlag, _ := cmd.Flags().GetString("start")
	endFlag, _ := cmd.Flags().GetString("end")

	var sector string
	if sectorFlag != "" {
		var err error
		if sector, err = resolveSector(sectorFlag); err != nil {
			return db.ReportFilter{}, nil, err
		}
	}
	start, end, err := app.dateRange(startFlag, endFlag)
	if err != nil {
		return db.ReportFilter{}, nil, err
	}

	filter := db.ReportFilter{Start: start, End: end, Sector: sector, Shift: shift}
	rows, err := services.Report(app.Ctx, app.Database, app.Logger, filter)
	if err != nil {
		return db.ReportFilter{}, nil, err
	}
	return filter, rows, nil
}

func printSummary(w io.Writer, summaries []services.WorkerSummary) {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "\nNo attendance recorded for this selection.")
		return
	}

	fmt.Fprintf(w, "\n%-40s %-14s %9s %8s %9s\n", "Colaborador", "Setor", "Registros", "Presente", "Presença")
	for _, s := range summaries {
		fmt.Fprintf(w, "%-40s %-14s %9d %8d %8s%%\n",
			s.Worker, s.Sector, s.Recorded, s.Present, s.PresenceRate.Shift(2).StringFixed(0))
	}
	fmt.Fprintln(w)
}
