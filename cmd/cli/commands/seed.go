package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logistica/presencas/pkg/core/services"
)

// SeedCmd creates the seed command
func SeedCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Add workers from a sector → names YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, _ := cmd.Flags().GetString("shift")
			if shift == "" {
				shift = app.Cfg.Import.DefaultShift
			}

			seed, err := services.LoadSeedFile(args[0])
			if err != nil {
				return err
			}

			result, err := services.SeedWorkers(app.Ctx, app.Database, app.Logger, seed, shift)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Seed complete: %d added, %d already present\n\n", result.Added, result.Existing)
			return nil
		},
	}

	cmd.Flags().String("shift", "", "Shift for seeded workers (defaults to import.defaultShift)")
	return cmd
}
