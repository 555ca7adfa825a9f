// internal/cli/root.go
package metricview

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/metricview/internal/appconfig"
	"github.com/mwiater/metricview/internal/logging"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
)

// configKeys are the persistent flags that mirror appconfig.Config fields.
var configKeys = []string{
	"debug", "jsonMode", "logFile", "title", "output", "chartFormat",
	"chartWidth", "chartHeight", "addr", "watch", "store", "selectAll",
}

var rootCmd = &cobra.Command{
	Use:           "metricview",
	Short:         "metricview renders benchmark metric reports as synchronized tables and charts",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Load config (file or defaults)
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		// 2) If user did NOT set a flag, copy the config value into the flag so
		//    both pflags and viper reflect the same, final value.
		for _, name := range configKeys {
			flag := cmd.Flags().Lookup(name)
			if flag == nil || cmd.Flags().Changed(name) {
				continue
			}
			if viper.IsSet(name) {
				_ = cmd.Flags().Set(name, viper.GetString(name))
			}
		}

		// 3) Materialize the fully merged configuration into currentConfig
		//    (flags > config > defaults). This gives other packages a stable snapshot.
		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		cfg.ConfigPath = viper.ConfigFileUsed()
		currentConfig = &cfg

		return logging.Init(cfg.LogFilePath())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Close()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", failedResult("error:"), err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// --config (defaults to your existing path)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	// Persistent flags available to all commands
	pf := rootCmd.PersistentFlags()
	pf.Bool("debug", false, "enable debug logging (traces every render)")
	pf.Bool("jsonMode", false, "print machine-readable JSON results")
	pf.String("logFile", "", "also write logs to this file")
	pf.String("title", "", "report title (default from input, then \"metricview report\")")
	pf.StringP("output", "o", "", "HTML report output path (default report.html)")
	pf.String("chartFormat", "", "extra chart image: html (none), svg or png")
	pf.Int("chartWidth", 0, "chart width in pixels (default 960)")
	pf.Int("chartHeight", 0, "chart height in pixels (default 420)")
	pf.String("addr", "", "HTTP listen address (default :8080)")
	pf.Bool("watch", false, "reload the input when it changes (serve)")
	pf.String("store", "", "sqlite measurement store (default metricview.db)")
	pf.Bool("selectAll", false, "start with every metric selected")

	// Bind flags to Viper keys (flags override config)
	for _, name := range configKeys {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config and sets safe defaults.
func ensureConfigLoaded() error {
	viper.SetDefault("debug", false)
	viper.SetDefault("jsonMode", false)
	viper.SetDefault("watch", false)
	viper.SetDefault("selectAll", false)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfgFile != "" && cfgFile != appconfig.DefaultConfigPath {
			return nil
		}
		// The default path is missing; appconfig.Load also looks for the legacy file.
		legacy, err := appconfig.Load("")
		if errors.Is(err, appconfig.ErrNoConfig) {
			return nil
		}
		if err != nil {
			return err
		}
		viper.SetConfigFile(legacy.ConfigPath)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	return nil
}

// getConfig returns the loaded application configuration for other packages.
func getConfig() appconfig.Config {
	if currentConfig == nil {
		return appconfig.Config{}
	}
	return *currentConfig
}
