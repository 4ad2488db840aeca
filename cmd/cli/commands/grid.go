package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/logistica/presencas/pkg/core/grid"
	"github.com/logistica/presencas/pkg/core/model"
	"github.com/logistica/presencas/pkg/core/services"
)

// GridCmd creates the grid command
func GridCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Show the attendance grid for a sector",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sectorFlag, _ := cmd.Flags().GetString("sector")
			shiftFlag, _ := cmd.Flags().GetString("shift")
			startFlag, _ := cmd.Flags().GetString("start")
			endFlag, _ := cmd.Flags().GetString("end")
			filterFlag, _ := cmd.Flags().GetString("filter")
			withShifts, _ := cmd.Flags().GetBool("show-shifts")

			sector, err := resolveSector(sectorFlag)
			if err != nil {
				return err
			}
			shift, err := resolveShiftFilter(shiftFlag)
			if err != nil {
				return err
			}
			filter, err := model.ParseWorkerFilter(filterFlag)
			if err != nil {
				return err
			}
			start, end, err := app.dateRange(startFlag, endFlag)
			if err != nil {
				return err
			}

			app.Logger.Debug("grid command",
				zap.String("sector", sector),
				zap.String("shift", shift),
				zap.Time("start", start),
				zap.Time("end", end))

			result, err := services.LoadGrid(app.Ctx, app.Database, app.Logger, services.LoadGridRequest{
				Sector:     sector,
				Shift:      shift,
				Start:      start,
				End:        end,
				Filter:     filter,
				WithShifts: withShifts || start.Equal(end),
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n%s, shift %s, %s to %s\n\n", sector, shift, start.Format("02/01/2006"), end.Format("02/01/2006"))
			if len(result.Grid.Rows) == 0 {
				fmt.Println("No active workers for this selection.")
				return nil
			}
			renderGrid(os.Stdout, result.Grid)
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("sector", "", "Sector to show (required)")
	cmd.Flags().String("shift", "-", "Shift to show, \"-\" for all shifts")
	cmd.Flags().String("start", "", "First date (YYYY-MM-DD or DD/MM/YYYY); defaults to the current period")
	cmd.Flags().String("end", "", "Last date; defaults to the current period")
	cmd.Flags().String("filter", "all", "Workers to show: all, own or third_party")
	cmd.Flags().Bool("show-shifts", false, "Show each worker's shift")
	cmd.MarkFlagRequired("sector")

	return cmd
}

// renderGrid writes the grid as aligned text columns. Empty cells print as ".".
func renderGrid(w io.Writer, g *grid.Grid) {
	nameWidth := utf8.RuneCountInString("Colaborador")
	cellWidth := utf8.RuneCountInString("dd/mm")
	for _, row := range g.Rows {
		nameWidth = max(nameWidth, utf8.RuneCountInString(row.Worker))
		for _, status := range row.Cells {
			cellWidth = max(cellWidth, utf8.RuneCountInString(status))
		}
	}

	var b strings.Builder
	b.WriteString(pad("Colaborador", nameWidth))
	if g.HasShift {
		b.WriteString("  " + pad("Turno", 13))
	}
	for _, d := range g.Dates {
		b.WriteString("  " + pad(d.Format("02/01"), cellWidth))
	}
	fmt.Fprintln(w, strings.TrimRight(b.String(), " "))

	for _, row := range g.Rows {
		b.Reset()
		b.WriteString(pad(row.Worker, nameWidth))
		if g.HasShift {
			b.WriteString("  " + pad(row.Shift, 13))
		}
		for _, d := range g.Dates {
			status := row.Cells[d.Format("2006-01-02")]
			if status == "" {
				status = "."
			}
			b.WriteString("  " + pad(status, cellWidth))
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
