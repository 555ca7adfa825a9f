package metricview

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mwiater/metricview/internal/appconfig"
	"github.com/mwiater/metricview/internal/report"
)

var (
	validateInput  string
	validateStrict bool
)

// validateCmd implements 'validate', which checks a report input without rendering it.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a report input against the schema and tree rules",
	Long:  `The 'validate' command checks a report input: the JSON schema, tree ids and parents, series lengths against the timestamps, and leaves without data. Data problems are warnings unless --strict is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.OutOrStdout(), getConfig(), validateInput, validateStrict)
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "report input (.json, .yaml)")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "treat data warnings as errors")
	_ = validateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(validateCmd)
}

type validateResult struct {
	Input    string   `json:"input"`
	Nodes    int      `json:"nodes"`
	Leaves   int      `json:"leaves"`
	Warnings []string `json:"warnings"`
}

func runValidate(out io.Writer, cfg appconfig.Config, path string, strict bool) error {
	in, err := report.LoadInput(path)
	if err != nil {
		return err
	}
	tree, err := in.BuildTree()
	if err != nil {
		return fmt.Errorf("build metric tree: %w", err)
	}
	res := validateResult{
		Input:    path,
		Nodes:    tree.Len(),
		Leaves:   len(tree.Leaves()),
		Warnings: in.Issues(tree),
	}
	if res.Warnings == nil {
		res.Warnings = []string{}
	}

	if cfg.JSONMode {
		if err := printJSON(out, res); err != nil {
			return err
		}
	} else {
		for _, w := range res.Warnings {
			printWarn(out, "%s", w)
		}
		printOK(out, "%s: %d nodes, %d leaves, %d warnings", path, res.Nodes, res.Leaves, len(res.Warnings))
	}
	if strict && len(res.Warnings) > 0 {
		return fmt.Errorf("%s has %d warnings", path, len(res.Warnings))
	}
	return nil
}
