package metricview

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"
)

var successfulResult = color.New(color.FgGreen).SprintFunc()
var failedResult = color.New(color.FgRed).SprintFunc()
var noticeResult = color.New(color.FgYellow).SprintFunc()

func printOK(out io.Writer, format string, args ...any) {
	fmt.Fprintf(out, "%s %s\n", successfulResult("ok"), fmt.Sprintf(format, args...))
}

func printWarn(out io.Writer, format string, args ...any) {
	fmt.Fprintf(out, "%s %s\n", noticeResult("warn"), fmt.Sprintf(format, args...))
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
