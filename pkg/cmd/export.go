package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tosih/ecux-analyzer/pkg/export"
)

var defaultExportSignals = "TIME,RPM,Calc Velocity,Calc WHP,Calc WTQ,BoostPressureActual (PSI)"

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <log>",
	Short: "Write raw and derived signals to a CSV file",
	Long: `
Write raw and derived signals to a CSV file that ecux can read back. For example:

ecux export pull.csv -o out/pull-power.csv --signals "TIME,RPM,Calc WHP" --ranges
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		list, _ := cmd.Flags().GetString("signals")
		rangesOnly, _ := cmd.Flags().GetBool("ranges")

		if output == "" {
			base := filepath.Base(args[0])
			output = strings.TrimSuffix(base, filepath.Ext(base)) + "-export.csv"
		}

		d, err := openLog(args[0])
		if err != nil {
			return err
		}

		spinner, _ := pterm.DefaultSpinner.Start("Exporting signals to CSV...")
		err = export.ExportSignalsToCSV(d, output, export.Options{
			Signals:    splitList(list),
			RangesOnly: rangesOnly,
			Source:     filepath.Base(args[0]),
		})
		if err != nil {
			spinner.Fail(fmt.Sprintf("Export failed: %v", err))
			return err
		}
		spinner.Success(fmt.Sprintf("Signals exported to %s", output))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "output file (default <log>-export.csv)")
	exportCmd.Flags().String("signals", defaultExportSignals, "comma separated signal ids")
	exportCmd.Flags().Bool("ranges", false, "only export samples inside the pulls")
}
