// internal/cli/show_config.go
package metricview

import (
	"io"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/metricview/internal/appconfig"
)

var showConfigDump bool

// showConfigCmd implements 'show config', which prints the merged configuration.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overriden by flags accordingly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), getConfig(), showConfigDump)
	},
}

func init() {
	showConfigCmd.Flags().BoolVar(&showConfigDump, "dump", false, "pretty-print the full config struct")
	showCmd.AddCommand(showConfigCmd)
}

func runShowConfig(out io.Writer, file string, cfg appconfig.Config, dump bool) error {
	if cfg.JSONMode {
		return printJSON(out, cfg)
	}
	if dump {
		_, err := pp.Fprintln(out, cfg)
		return err
	}
	appconfig.ShowConfig(out, file, &cfg, appconfig.Config{})
	return nil
}
