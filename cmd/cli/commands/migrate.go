package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// MigrateCmd creates the migrate command. Migrations run at startup; this reports them.
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(app.AppliedMigrations) == 0 {
				fmt.Printf("\n✓ Schema is up to date\n\n")
				return nil
			}
			fmt.Printf("\n✓ Applied %d migrations:\n", len(app.AppliedMigrations))
			for _, f := range app.AppliedMigrations {
				fmt.Printf("  %s\n", f)
			}
			fmt.Println()
			return nil
		},
	}
}
