package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tosih/ecux-analyzer/pkg/models"
	"github.com/tosih/ecux-analyzer/pkg/renderer"
	"github.com/tosih/ecux-analyzer/pkg/signals"
)

// signalsCmd represents the signals command
var signalsCmd = &cobra.Command{
	Use:   "signals <log>",
	Short: "List the logged and derivable signals of a log",
	Long: `
List every column of a log with its unit and value range. With --derived the
signals that can be computed from the log are listed too. For example:

ecux signals pull.csv --derived --group Boost
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		derived, _ := cmd.Flags().GetBool("derived")
		group, _ := cmd.Flags().GetString("group")

		d, err := openLog(args[0])
		if err != nil {
			return err
		}
		if derived {
			d.Available()
		}

		cols := d.Columns()
		if cmd.Flags().Changed("group") {
			cols = filterGroup(cols, group)
		}
		renderer.RenderColumns(cols)
		return nil
	},
}

func filterGroup(cols []*models.Column, group string) []*models.Column {
	var out []*models.Column
	for _, c := range cols {
		if signals.Group(c.ID) == group {
			out = append(out, c)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(signalsCmd)
	signalsCmd.Flags().Bool("derived", false, "also compute every derived signal")
	signalsCmd.Flags().String("group", "", "only list one group (Calc, Fuel, Boost, Ignition, ...)")
}
