package cmd

import (
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tosih/ecux-analyzer/pkg/ecux"
	"github.com/tosih/ecux-analyzer/pkg/logformat"
	"github.com/tosih/ecux-analyzer/pkg/models"
	"github.com/tosih/ecux-analyzer/pkg/reader"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ecux",
	Short: "Analyze engine datalogs",
	Long: `ecux reads datalogs from ECUx, VCDS, ME7Logger, Zeitronix, EvoScan and the
Volvo logger, derives power, boost, fueling and timing signals, finds the
wide open throttle pulls and times them between two RPM points (FATS).`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ecux.yaml)")
	pf.StringP("profile", "p", "", "vehicle and filter profile (YAML)")
	pf.StringP("dialect", "d", "auto", "log format: auto, "+dialectList())
	pf.CountP("verbose", "v", "debug output, -vv for trace")
	for _, name := range []string{"profile", "dialect", "verbose"} {
		viper.BindPFlag(name, pf.Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".ecux")
	}

	viper.SetEnvPrefix("ECUX")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	setVerbosity(viper.GetInt("verbose"))
	if err == nil {
		pterm.DefaultLogger.Debug("using config file", pterm.DefaultLogger.Args("file", viper.ConfigFileUsed()))
	}
}

// setVerbosity maps -v counts to logger levels.
func setVerbosity(n int) {
	switch {
	case n >= 2:
		pterm.DefaultLogger.Level = pterm.LogLevelTrace
	case n == 1:
		pterm.DefaultLogger.Level = pterm.LogLevelDebug
	default:
		pterm.DefaultLogger.Level = pterm.LogLevelInfo
	}
}

func dialectList() string {
	names := make([]string, 0, len(logformat.Dialects()))
	for _, d := range logformat.Dialects() {
		names = append(names, d.String())
	}
	return strings.Join(names, ", ")
}

// loadProfile returns the configured profile, or the defaults.
func loadProfile() (models.Profile, error) {
	path := viper.GetString("profile")
	if path == "" {
		return models.DefaultProfile(), nil
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return models.Profile{}, err
	}
	return reader.ReadProfile(path)
}

// openLog reads a log using the global flags.
func openLog(filename string) (*ecux.Dataset, error) {
	p, err := loadProfile()
	if err != nil {
		return nil, err
	}
	dialect, err := logformat.ParseDialect(viper.GetString("dialect"))
	if err != nil {
		return nil, err
	}
	return reader.ReadLog(filename, dialect, p)
}

// splitList splits a comma separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
