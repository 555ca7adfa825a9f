// Package dataset holds the raw time-aligned metric data a report is rendered from.
package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ErrValue is returned when a payload cell is neither a number, a numeric string nor null.
var ErrValue = errors.New("invalid metric value")

// Value is a single measurement. The zero Value is Absent.
type Value struct {
	v     float64
	valid bool
}

// Num wraps a number. NaN and infinities are stored as Absent.
func Num(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{v: f, valid: true}
}

// Absent returns the "no value" marker.
func Absent() Value { return Value{} }

// Float returns the number and whether one is present.
func (v Value) Float() (float64, bool) { return v.v, v.valid }

// IsAbsent reports whether v carries no value.
func (v Value) IsAbsent() bool { return !v.valid }

// String renders the value as a table cell. Absent renders as the empty string.
func (v Value) String() string {
	if !v.valid {
		return ""
	}
	return strconv.FormatFloat(v.v, 'f', -1, 64)
}

// MarshalJSON encodes Absent as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v.v, 'g', -1, 64)), nil
}

// UnmarshalJSON accepts numbers, numeric strings and null.
func (v *Value) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*v = Absent()
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("%w: %s", ErrValue, raw)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*v = Absent()
			return nil
		}
		*v = Num(f)
		return nil
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if errors.Is(err, strconv.ErrRange) {
		// Overflow is treated like Inf; underflow parses to 0.
		if math.IsInf(f, 0) {
			*v = Absent()
			return nil
		}
		err = nil
	}
	if err != nil {
		return fmt.Errorf("%w: %s", ErrValue, raw)
	}
	*v = Num(f)
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML inputs, where "~" and empty are null.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Absent()
	case int:
		*v = Num(float64(x))
	case int64:
		*v = Num(float64(x))
	case uint64:
		*v = Num(float64(x))
	case float64:
		*v = Num(x)
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			*v = Absent()
			return nil
		}
		*v = Num(f)
	default:
		return fmt.Errorf("%w: %v", ErrValue, raw)
	}
	return nil
}

// Series is an ordered sequence of values, index-aligned with a report's timestamps.
type Series []Value

// UnmarshalYAML decodes a sequence element by element so null entries keep their index.
func (s *Series) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("%w: line %d: want a sequence", ErrValue, node.Line)
	}
	out := make(Series, len(node.Content))
	for i, item := range node.Content {
		if item.ShortTag() == "!!null" {
			continue
		}
		if err := out[i].UnmarshalYAML(item); err != nil {
			return err
		}
	}
	*s = out
	return nil
}

// FromFloats builds a fully populated series.
func FromFloats(xs ...float64) Series {
	out := make(Series, len(xs))
	for i, x := range xs {
		out[i] = Num(x)
	}
	return out
}

// AbsentSeries returns n absent values.
func AbsentSeries(n int) Series {
	if n < 0 {
		n = 0
	}
	return make(Series, n)
}

// Floats returns the series as float64s with NaN in place of absent values.
func (s Series) Floats() []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		if f, ok := v.Float(); ok {
			out[i] = f
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// Present returns only the values that are not absent.
func (s Series) Present() []float64 {
	out := make([]float64, 0, len(s))
	for _, v := range s {
		if f, ok := v.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// Normalize returns a copy of exactly n values, padding with Absent or truncating.
func (s Series) Normalize(n int) Series {
	out := AbsentSeries(n)
	copy(out, s)
	return out
}
