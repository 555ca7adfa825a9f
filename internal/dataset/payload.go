package dataset

import (
	"errors"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
)

// ErrLengthMismatch is returned when a series does not have one value per timestamp.
var ErrLengthMismatch = errors.New("series length does not match timestamps")

// Timestamps are opaque x-axis labels. They define table column order and chart category order.
type Timestamps []string

// Payload maps a leaf metric id to its values.
type Payload map[string]Series

// Keys returns the metric ids in lexical order.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the series for id normalized to n values. Unknown ids yield n absent values.
func (p Payload) Lookup(id string, n int) Series {
	s, ok := p[id]
	if !ok {
		return AbsentSeries(n)
	}
	return s.Normalize(n)
}

// Has reports whether the payload carries data for id.
func (p Payload) Has(id string) bool {
	_, ok := p[id]
	return ok
}

// DecodePayload parses a `{"<id>": [v0, ...]}` document.
func DecodePayload(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode metrics payload: %w", err)
	}
	if p == nil {
		p = Payload{}
	}
	return p, nil
}

// Frame is a payload together with the timestamps its series are aligned to. Keys, when
// set, is the metric order of the source; otherwise metrics are taken in lexical order.
type Frame struct {
	Timestamps Timestamps `json:"timestamps" yaml:"timestamps"`
	Metrics    Payload    `json:"metrics" yaml:"metrics"`
	Keys       []string   `json:"keys,omitempty" yaml:"keys,omitempty"`
}

// MetricKeys returns Keys when set, else the payload keys in lexical order.
func (f Frame) MetricKeys() []string {
	if len(f.Keys) > 0 {
		return f.Keys
	}
	return f.Metrics.Keys()
}

// Validate checks that every series has exactly one value per timestamp.
func (f Frame) Validate() error {
	n := len(f.Timestamps)
	for _, id := range f.Metrics.Keys() {
		if got := len(f.Metrics[id]); got != n {
			return fmt.Errorf("%w: %q has %d values, want %d", ErrLengthMismatch, id, got, n)
		}
	}
	return nil
}
