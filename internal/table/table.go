// Package table renders the report data table: a "Timestamps" header row followed by one
// row per selected leaf metric, one column per timestamp.
package table

import (
	"fmt"

	"github.com/mwiater/metricview/internal/dataset"
)

// HeaderLabel is the first cell of the header row.
const HeaderLabel = "Timestamps"

// Widget is a table surface the renderer writes into.
type Widget interface {
	// Clear drops the header and every row.
	Clear() error
	SetHeader(cells []string) error
	AppendRow(cells []string) error
}

// Render replaces the widget's content with the header row and one row per id in selected,
// in the order given. Ids missing from raw render as rows of empty cells.
func Render(w Widget, raw dataset.Payload, timestamps dataset.Timestamps, selected []string) error {
	if err := w.Clear(); err != nil {
		return fmt.Errorf("clear table: %w", err)
	}
	if err := w.SetHeader(HeaderRow(timestamps)); err != nil {
		return fmt.Errorf("write table header: %w", err)
	}
	for _, id := range selected {
		if err := w.AppendRow(Row(id, raw.Lookup(id, len(timestamps)))); err != nil {
			return fmt.Errorf("write table row %q: %w", id, err)
		}
	}
	return nil
}

// HeaderRow builds ["Timestamps", t0, ..., tN-1].
func HeaderRow(timestamps dataset.Timestamps) []string {
	out := make([]string, 0, len(timestamps)+1)
	out = append(out, HeaderLabel)
	return append(out, timestamps...)
}

// Row builds [id, v0, ..., vN-1] with absent values as empty strings.
func Row(id string, series dataset.Series) []string {
	out := make([]string, 0, len(series)+1)
	out = append(out, id)
	for _, v := range series {
		out = append(out, v.String())
	}
	return out
}
