package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/logistica/presencas/pkg/core/grid"
	"github.com/logistica/presencas/pkg/core/model"
	"github.com/logistica/presencas/pkg/core/period"
	"github.com/logistica/presencas/pkg/core/services"
)

// MarkCmd creates the mark command
func MarkCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mark <worker=STATUS>...",
		Short: "Record the day's status for workers of a sector",
		Long: `Record one day's attendance. Each argument is "Worker Name=STATUS";
an empty status ("Worker Name=") clears the day. Workers not named keep their
stored status.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sectorFlag, _ := cmd.Flags().GetString("sector")
			shiftFlag, _ := cmd.Flags().GetString("shift")
			dateFlag, _ := cmd.Flags().GetString("date")
			by, _ := cmd.Flags().GetString("by")

			sector, err := resolveSector(sectorFlag)
			if err != nil {
				return err
			}
			shift, err := resolveShiftFilter(shiftFlag)
			if err != nil {
				return err
			}
			date := app.today()
			if dateFlag != "" {
				if date, err = period.ParseDate(dateFlag); err != nil {
					return err
				}
			}
			if err := app.checkFillable(date); err != nil {
				return err
			}
			marks, err := parseMarks(args)
			if err != nil {
				return err
			}

			app.Logger.Debug("mark command",
				zap.String("sector", sector),
				zap.String("shift", shift),
				zap.Time("date", date),
				zap.Int("marks", len(marks)))

			current, err := services.LoadGrid(app.Ctx, app.Database, app.Logger, services.LoadGridRequest{
				Sector:     sector,
				Shift:      shift,
				Start:      date,
				End:        date,
				WithShifts: true,
			})
			if err != nil {
				return err
			}

			for _, m := range marks {
				if !current.Grid.Set(m.worker, date, m.status) {
					return fmt.Errorf("%q is not an active worker of %s (shift %s)", m.worker, sector, shift)
				}
			}
			newlyOnVacation := grid.NewlyMarked(current.Grid, current.Attendance, current.IDByName, date, model.StatusVacation)

			result, err := services.SaveGrid(app.Ctx, app.Database, app.Logger, services.SaveGridRequest{
				Grid:        current.Grid,
				IDByName:    current.IDByName,
				Start:       date,
				End:         date,
				Sector:      sector,
				Shift:       shift,
				SubmittedBy: by,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Saved %s for %s\n", date.Format("02/01/2006"), sector)
			fmt.Printf("  written: %d, unchanged: %d, cleared: %d\n\n", result.Written, result.Skipped, result.Deleted)
			if len(newlyOnVacation) > 0 {
				fmt.Printf("Newly on vacation: %s\n", strings.Join(newlyOnVacation, ", "))
				fmt.Printf("Use \"vacation --sector %q --start %s --end <date> <names>\" to mark the whole block.\n\n", sector, period.ISO(date))
			}
			return nil
		},
	}

	cmd.Flags().String("sector", "", "Sector (required)")
	cmd.Flags().String("shift", "-", "Shift being edited, \"-\" for all shifts")
	cmd.Flags().String("date", "", "Date to record (YYYY-MM-DD or DD/MM/YYYY); defaults to today")
	cmd.Flags().String("by", "", "Name of the leader submitting the statuses")
	cmd.MarkFlagRequired("sector")

	return cmd
}

type mark struct {
	worker string
	status string
}

// parseMarks splits "Name=STATUS" arguments. Statuses are matched case-insensitively.
func parseMarks(args []string) ([]mark, error) {
	marks := make([]mark, 0, len(args))
	for _, arg := range args {
		i := strings.LastIndex(arg, "=")
		if i < 0 {
			return nil, fmt.Errorf("invalid mark %q: expected \"Worker Name=STATUS\"", arg)
		}
		worker := strings.TrimSpace(arg[:i])
		if worker == "" {
			return nil, fmt.Errorf("invalid mark %q: missing worker name", arg)
		}
		status, err := parseStatus(arg[i+1:])
		if err != nil {
			return nil, err
		}
		marks = append(marks, mark{worker: worker, status: status})
	}
	return marks, nil
}

func parseStatus(s string) (string, error) {
	status := strings.ToUpper(strings.TrimSpace(s))
	if !model.IsValidStatus(status) {
		return "", fmt.Errorf("unknown status %q (one of %s)", s, strings.Join(model.Statuses[1:], ", "))
	}
	return status, nil
}
