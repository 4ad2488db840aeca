package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/logistica/presencas/pkg/core/grid"
	"github.com/logistica/presencas/pkg/core/model"
	"github.com/logistica/presencas/pkg/core/period"
	"github.com/logistica/presencas/pkg/core/services"
	"github.com/logistica/presencas/pkg/db"
)

// VacationCmd creates the vacation command
func VacationCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vacation <worker>...",
		Short: "Mark workers with one status over a date range (FÉRIAS by default)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sectorFlag, _ := cmd.Flags().GetString("sector")
			startFlag, _ := cmd.Flags().GetString("start")
			endFlag, _ := cmd.Flags().GetString("end")
			statusFlag, _ := cmd.Flags().GetString("status")
			fallbackFlag, _ := cmd.Flags().GetString("fallback-shift")
			by, _ := cmd.Flags().GetString("by")

			sector, err := resolveSector(sectorFlag)
			if err != nil {
				return err
			}
			status, err := parseStatus(statusFlag)
			if err != nil {
				return err
			}
			fallback, err := resolveShiftFilter(fallbackFlag)
			if err != nil {
				return err
			}
			start, err := period.ParseDate(startFlag)
			if err != nil {
				return err
			}
			end, err := period.ParseDate(endFlag)
			if err != nil {
				return err
			}
			if end.Before(start) {
				return fmt.Errorf("end date %s is before start date %s", period.ISO(end), period.ISO(start))
			}
			if err := app.checkFillable(start); err != nil {
				return err
			}

			workers, err := app.Database.ListWorkers(app.Ctx, db.WorkerQuery{Sector: sector, ActiveOnly: true})
			if err != nil {
				return fmt.Errorf("failed to list workers: %w", err)
			}
			ids := grid.IDByName(workers)
			for _, name := range args {
				if _, ok := ids[name]; !ok {
					return fmt.Errorf("%q is not an active worker of %s", name, sector)
				}
			}

			app.Logger.Debug("vacation command",
				zap.String("sector", sector),
				zap.String("status", status),
				zap.Strings("workers", args))

			result, err := services.ApplyStatusOverRange(app.Ctx, app.Database, app.Logger, services.ApplyRangeRequest{
				WorkerNames:   args,
				ShiftsByName:  grid.ShiftsByName(workers),
				IDByName:      ids,
				Start:         start,
				End:           end,
				Status:        status,
				Sector:        sector,
				FallbackShift: fallback,
				SubmittedBy:   by,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %s applied to %d workers from %s to %s\n", status, len(args), start.Format("02/01/2006"), end.Format("02/01/2006"))
			fmt.Printf("  written: %d, unchanged: %d\n\n", result.Written, result.Skipped)
			return nil
		},
	}

	cmd.Flags().String("sector", "", "Sector of the workers (required)")
	cmd.Flags().String("start", "", "First date (required)")
	cmd.Flags().String("end", "", "Last date (required)")
	cmd.Flags().String("status", model.StatusVacation, "Status to apply")
	cmd.Flags().String("fallback-shift", "-", "Shift recorded for workers without one")
	cmd.Flags().String("by", "", "Name of the leader submitting the statuses")
	cmd.MarkFlagRequired("sector")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")

	return cmd
}
