package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tosih/ecux-analyzer/pkg/renderer"
)

// fatsCmd represents the fats command
var fatsCmd = &cobra.Command{
	Use:    "fats <log>",
	Short:  "Time every pull between two RPM points",
	Args:   cobra.ExactArgs(1),
	PreRun: func(cmd *cobra.Command, _ []string) { bindFATSFlags(cmd) },
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openLog(args[0])
		if err != nil {
			return err
		}
		renderer.RenderRanges(d)
		renderer.RenderFATS(d, viper.GetFloat64("fats.from"), viper.GetFloat64("fats.to"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fatsCmd)
	addFATSFlags(fatsCmd)
}

// addFATSFlags adds the RPM span flags, shared with compare.
func addFATSFlags(c *cobra.Command) {
	c.Flags().Float64("from", 4200, "start RPM")
	c.Flags().Float64("to", 6500, "end RPM")
}

// bindFATSFlags binds the span flags of the running command. The span can
// also come from ECUX_FATS_FROM/ECUX_FATS_TO or a fats section in the config file.
func bindFATSFlags(c *cobra.Command) {
	viper.BindPFlag("fats.from", c.Flags().Lookup("from"))
	viper.BindPFlag("fats.to", c.Flags().Lookup("to"))
}
