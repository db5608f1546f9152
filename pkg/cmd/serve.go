package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tosih/ecux-analyzer/pkg/logformat"
	"github.com/tosih/ecux-analyzer/pkg/web"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [folder]",
	Short: "Serve the logs of a folder as a JSON API",
	Long: `
Serve every .csv log of a folder over HTTP. Logs are reloaded when they change.

  GET /api/files
  GET /api/columns?file=
  GET /api/signal?file=&id=[&run=]
  GET /api/ranges?file=
  GET /api/fats?file=&from=&to=
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder := "."
		if len(args) > 0 {
			folder = args[0]
		}
		noBrowser, _ := cmd.Flags().GetBool("no-browser")

		p, err := loadProfile()
		if err != nil {
			return err
		}
		dialect, err := logformat.ParseDialect(viper.GetString("dialect"))
		if err != nil {
			return err
		}

		s, err := web.NewServer(folder, viper.GetInt("port"), dialect, p)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return s.Start(ctx, !noBrowser)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 8080, "port to listen on")
	serveCmd.Flags().Bool("no-browser", false, "do not open a browser")
	viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
}
