package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/logistica/presencas/pkg/postgres"
)

// DBCheckCmd creates the db-check command. It connects on its own so a failed
// connection is reported instead of aborting startup.
func DBCheckCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:         "db-check",
		Short:       "Show the resolved database target and test the connection",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{SkipDatabase: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.DBSettings
			fmt.Printf("\nDatabase: %s\n", s.Redacted())

			fields := make([]string, 0, len(s.Sources))
			for field := range s.Sources {
				fields = append(fields, field)
			}
			sort.Strings(fields)
			for _, field := range fields {
				fmt.Printf("  %-15s from %s\n", field, s.Sources[field])
			}

			database, err := postgres.NewDB(app.Ctx, s.ConnString())
			if err != nil {
				fmt.Printf("\n✗ Connection failed: %v\n\n", err)
				return err
			}
			defer database.Close()

			if err := database.Ping(app.Ctx); err != nil {
				fmt.Printf("\n✗ Connection check failed: %v\n\n", err)
				return err
			}
			fmt.Printf("\n✓ Connection OK\n\n")
			return nil
		},
	}
}
