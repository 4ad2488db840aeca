package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logistica/presencas/pkg/core/period"
)

// PeriodsCmd creates the periods command
func PeriodsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "periods",
		Short: "List recent pay periods (16th to 15th)",
		Args:  cobra.NoArgs,

		Annotations: map[string]string{SkipDatabase: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			n, _ := cmd.Flags().GetInt("count")

			periods, err := period.ListRecent(app.today(), n)
			if err != nil {
				return err
			}

			fmt.Printf("\nPay periods (editable from %s):\n\n", period.ISO(period.MinimumFillable(app.today())))
			for i, p := range periods {
				marker := " "
				if i == 0 {
					marker = "*"
				}
				fmt.Printf(" %s %s   (%s → %s)\n", marker, p.Label(), period.ISO(p.Start), period.ISO(p.End))
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().IntP("count", "n", 6, "Number of periods to list")
	return cmd
}
