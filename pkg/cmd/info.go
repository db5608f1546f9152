package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tosih/ecux-analyzer/pkg/renderer"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <log>",
	Short: "Show the format, sample rate and pulls of a log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openLog(args[0])
		if err != nil {
			return err
		}
		renderer.RenderSummary(args[0], d)
		renderer.RenderRanges(d)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
