package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/logistica/presencas/pkg/core/model"
	"github.com/logistica/presencas/pkg/core/services"
)

// WorkersCmd creates the workers command and its subcommands
func WorkersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "Manage the worker roster",
	}

	cmd.AddCommand(listWorkersCmd(app))
	cmd.AddCommand(addWorkerCmd(app))
	cmd.AddCommand(setActiveCmd(app, "deactivate", "Deactivate workers by id", false))
	cmd.AddCommand(setActiveCmd(app, "activate", "Reactivate workers by id", true))
	cmd.AddCommand(updateShiftCmd(app))

	return cmd
}

func listWorkersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sectorFlag, _ := cmd.Flags().GetString("sector")
			shiftFlag, _ := cmd.Flags().GetString("shift")
			filterFlag, _ := cmd.Flags().GetString("filter")
			inactive, _ := cmd.Flags().GetBool("inactive")

			var sector string
			if sectorFlag != "" {
				var err error
				if sector, err = resolveSector(sectorFlag); err != nil {
					return err
				}
			}
			shift, err := resolveShiftFilter(shiftFlag)
			if err != nil {
				return err
			}
			filter, err := model.ParseWorkerFilter(filterFlag)
			if err != nil {
				return err
			}

			workers, err := services.ListWorkers(app.Ctx, app.Database, app.Logger, services.ListWorkersRequest{
				Sector:   sector,
				Shift:    shift,
				Inactive: inactive,
				Filter:   filter,
			})
			if err != nil {
				return err
			}

			state := "active"
			if inactive {
				state = "deactivated"
			}
			fmt.Printf("\nFound %d %s workers:\n\n", len(workers), state)
			for _, w := range workers {
				fmt.Printf("  %5d  %-40s %-14s %s\n", w.ID, w.Name, w.Sector, w.Shift)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("sector", "", "Only this sector")
	cmd.Flags().String("shift", "-", "Only this shift, \"-\" for all")
	cmd.Flags().String("filter", "all", "all, own or third_party")
	cmd.Flags().Bool("inactive", false, "List deactivated workers instead")
	return cmd
}

func addWorkerCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an active worker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sectorFlag, _ := cmd.Flags().GetString("sector")
			shift, _ := cmd.Flags().GetString("shift")

			sector, err := resolveSector(sectorFlag)
			if err != nil {
				return err
			}

			id, err := services.AddWorker(app.Ctx, app.Database, app.Logger, args[0], sector, shift)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Added %s to %s (id %d)\n\n", args[0], sector, id)
			return nil
		},
	}

	cmd.Flags().String("sector", "", "Sector (required)")
	cmd.Flags().String("shift", model.ShiftFirst, "Shift")
	cmd.MarkFlagRequired("sector")
	return cmd
}

func setActiveCmd(app *AppContext, use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			app.Logger.Debug("workers "+use+" command", zap.Int64s("ids", ids))

			var deactivate, activate []int64
			if active {
				activate = ids
			} else {
				deactivate = ids
			}
			if err := services.SetWorkersActive(app.Ctx, app.Database, app.Logger, deactivate, activate); err != nil {
				return err
			}

			fmt.Printf("\n✓ %d workers %sd\n\n", len(ids), use)
			return nil
		},
	}
}

func updateShiftCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "shift <id> <shift>",
		Short: "Move a worker to another shift",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args[:1])
			if err != nil {
				return err
			}

			if err := services.UpdateWorkerShift(app.Ctx, app.Database, app.Logger, ids[0], args[1]); err != nil {
				return err
			}

			fmt.Printf("\n✓ Worker %d moved to shift %s\n\n", ids[0], model.NormalizeShift(args[1]))
			return nil
		},
	}
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil || id < 1 {
			return nil, fmt.Errorf("worker id must be a positive integer, got: %s", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
