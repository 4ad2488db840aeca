package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/logistica/presencas/pkg/clients/sheetsclient"
	"github.com/logistica/presencas/pkg/core/services"
	"github.com/logistica/presencas/pkg/importer"
)

// ImportCmd creates the import command
func ImportCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import worker shifts from an xlsx/csv file or a Google spreadsheet",
		Long: `Import worker shifts. Each sheet (or file) needs a NOME or NOME COMPLETO column and a
TURNO column. The sector comes from a SETOR column, the sheet or file name, or --sector.
Without a file the spreadsheet given by --sheet (or import.spreadsheetID) is read.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheetID, _ := cmd.Flags().GetString("sheet")
			sectorFlag, _ := cmd.Flags().GetString("sector")

			var defaultSector string
			if sectorFlag != "" {
				var err error
				if defaultSector, err = resolveSector(sectorFlag); err != nil {
					return err
				}
			}

			var tables []importer.Table
			var source string
			switch {
			case len(args) == 1:
				source = args[0]
				var err error
				if tables, err = importer.ReadFile(source); err != nil {
					return err
				}
			default:
				if sheetID == "" {
					sheetID = app.Cfg.Import.SpreadsheetID
				}
				if sheetID == "" {
					return fmt.Errorf("give a file or --sheet <spreadsheet id>")
				}
				source = "spreadsheet " + sheetID
				client, err := app.SheetsClient()
				if err != nil {
					return err
				}
				if tables, err = sheetsclient.ReadTables(app.Ctx, client, sheetID); err != nil {
					return fmt.Errorf("failed to read spreadsheet: %w", err)
				}
			}

			app.Logger.Debug("import command", zap.String("source", source), zap.Int("tables", len(tables)))

			result, err := services.ImportShifts(app.Ctx, app.Database, app.Logger, tables, defaultSector)
			if err != nil {
				return err
			}

			if result.Rows == 0 {
				fmt.Printf("\nNo shift rows recognised in %s\n\n", source)
				return nil
			}
			fmt.Printf("\n✓ Imported %d workers from %d tables of %s\n\n", result.Rows, result.Tables, source)
			return nil
		},
	}

	cmd.Flags().String("sheet", "", "Google spreadsheet id to read instead of a file")
	cmd.Flags().String("sector", "", "Sector for tables that name none")
	return cmd
}
