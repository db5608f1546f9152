package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tosih/ecux-analyzer/pkg/compare"
	"github.com/tosih/ecux-analyzer/pkg/logformat"
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:    "compare <log A> <log B>",
	Short:  "Compare FATS and peak signals of two logs",
	Args:   cobra.ExactArgs(2),
	PreRun: func(cmd *cobra.Command, _ []string) { bindFATSFlags(cmd) },
	RunE: func(cmd *cobra.Command, args []string) error {
		list, _ := cmd.Flags().GetString("signals")

		p, err := loadProfile()
		if err != nil {
			return err
		}
		dialect, err := logformat.ParseDialect(viper.GetString("dialect"))
		if err != nil {
			return err
		}

		a, b, err := compare.LoadPair(args[0], args[1], dialect, p)
		if err != nil {
			return err
		}
		res := compare.Compare(args[0], args[1], a, b, splitList(list),
			viper.GetFloat64("fats.from"), viper.GetFloat64("fats.to"))
		compare.Display(res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	addFATSFlags(compareCmd)
	compareCmd.Flags().String("signals", "", "comma separated signal ids to compare peaks of")
}
