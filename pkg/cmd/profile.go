package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tosih/ecux-analyzer/pkg/reader"
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile [file]",
	Short: "Print the active profile, or write it to a file to edit",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProfile()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			if err := reader.WriteProfile(args[0], p); err != nil {
				return err
			}
			pterm.Success.Printf("Profile %q written to %s\n", p.Name, args[0])
			return nil
		}

		data, err := yaml.Marshal(p)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
