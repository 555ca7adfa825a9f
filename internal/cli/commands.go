package metricview

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// commandsCmd implements 'commands', which prints the command tree in two columns.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands and subcommands in two columns",
	Run: func(cmd *cobra.Command, args []string) {
		printCommands(cmd.OutOrStdout(), rootCmd)
	},
}

func init() {
	rootCmd.AddCommand(commandsCmd)
}

// commandInfo holds the path and description of a command for display.
type commandInfo struct {
	path        string
	description string
}

func printCommands(out io.Writer, root *cobra.Command) {
	rows := walkCommands(root, "", 0)
	width := 0
	for _, r := range rows {
		width = max(width, len(r.path))
	}
	fmt.Fprintln(out, "Commands and Subcommands:")
	for _, r := range rows {
		fmt.Fprintf(out, "  %-*s  %s\n", width, r.path, r.description)
	}
}

// walkCommands flattens the command tree depth first, indenting two spaces per level.
func walkCommands(cmd *cobra.Command, parent string, depth int) []commandInfo {
	if cmd.Hidden || cmd.Name() == "completion" || cmd.Name() == "help" {
		return nil
	}
	path := strings.TrimSpace(parent + " " + cmd.Name())
	out := []commandInfo{{path: strings.Repeat("  ", depth) + path, description: cmd.Short}}
	for _, sub := range cmd.Commands() {
		out = append(out, walkCommands(sub, path, depth+1)...)
	}
	return out
}
