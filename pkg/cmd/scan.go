package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tosih/ecux-analyzer/pkg/logformat"
	"github.com/tosih/ecux-analyzer/pkg/scanner"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:    "scan [folder]",
	Short:  "Summarize the pulls of every log in a folder",
	Args:   cobra.MaximumNArgs(1),
	PreRun: func(cmd *cobra.Command, _ []string) { bindFATSFlags(cmd) },
	RunE: func(cmd *cobra.Command, args []string) error {
		folder := "."
		if len(args) > 0 {
			folder = args[0]
		}
		p, err := loadProfile()
		if err != nil {
			return err
		}
		dialect, err := logformat.ParseDialect(viper.GetString("dialect"))
		if err != nil {
			return err
		}

		from, to := viper.GetFloat64("fats.from"), viper.GetFloat64("fats.to")
		spinner, _ := pterm.DefaultSpinner.Start("Scanning logs...")
		results, err := scanner.ScanLogs(folder, dialect, p, from, to)
		if err != nil {
			spinner.Fail("Error reading folder")
			return err
		}
		spinner.Success(fmt.Sprintf("Scanned %s", folder))

		pterm.Println()
		pterm.DefaultSection.Println("Pulls by Log")
		scanner.DisplayResults(results, from, to)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	addFATSFlags(scanCmd)
}
