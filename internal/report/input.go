// Package report wires the metric tree, the selection tracker, the table and the chart into
// one report view, and renders that view as an HTML page.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/mwiater/metricview/internal/dataset"
	"github.com/mwiater/metricview/internal/metrictree"
)

// ErrNoMetrics is returned when an input has neither metrics nor a tree to derive leaves from.
var ErrNoMetrics = errors.New("report input has no metrics and no tree")

// InputSchema describes a report input document. The metrics object is checked separately
// against dataset.PayloadSchema.
const InputSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["timestamps"],
  "properties": {
    "title": {"type": "string"},
    "timestamps": {"type": "array", "items": {"type": "string"}},
    "metrics": {"type": "object"},
    "tree": {"type": "array", "items": {"$ref": "#/definitions/node"}},
    "flatTree": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "text": {"type": "string"},
          "parent": {"type": "string"}
        }
      }
    }
  },
  "definitions": {
    "node": {
      "type": "object",
      "required": ["id"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "text": {"type": "string"},
        "label": {"type": "string"},
        "children": {"type": "array", "items": {"$ref": "#/definitions/node"}}
      }
    }
  }
}`

// Input is everything one report view is rendered from. Tree wins over FlatTree; with
// neither, the tree is derived from the dotted metric keys.
type Input struct {
	Title      string                   `json:"title,omitempty" yaml:"title,omitempty"`
	Tree       []metrictree.Description `json:"tree,omitempty" yaml:"tree,omitempty"`
	FlatTree   []metrictree.FlatRecord  `json:"flatTree,omitempty" yaml:"flatTree,omitempty"`
	Timestamps dataset.Timestamps       `json:"timestamps" yaml:"timestamps"`
	Metrics    dataset.Payload          `json:"metrics" yaml:"metrics"`
}

// LoadInput reads a JSON or YAML report input from path.
func LoadInput(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report input: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}

// inputDocument is Input with the metrics payload kept raw.
type inputDocument struct {
	Title      string                   `json:"title"`
	Tree       []metrictree.Description `json:"tree"`
	FlatTree   []metrictree.FlatRecord  `json:"flatTree"`
	Timestamps dataset.Timestamps       `json:"timestamps"`
	Metrics    json.RawMessage          `json:"metrics"`
}

// DecodeJSON validates data against InputSchema, then validates and decodes the metrics
// payload on its own.
func DecodeJSON(data []byte) (*Input, error) {
	if err := dataset.ValidateJSON(InputSchema, data); err != nil {
		return nil, fmt.Errorf("report input: %w", err)
	}
	var doc inputDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode report input: %w", err)
	}
	in := Input{Title: doc.Title, Tree: doc.Tree, FlatTree: doc.FlatTree, Timestamps: doc.Timestamps}
	if len(doc.Metrics) > 0 {
		if err := dataset.ValidatePayload(doc.Metrics); err != nil {
			return nil, fmt.Errorf("report input metrics: %w", err)
		}
		metrics, err := dataset.DecodePayload(doc.Metrics)
		if err != nil {
			return nil, err
		}
		in.Metrics = metrics
	}
	return in.normalize()
}

// DecodeYAML converts a YAML document to JSON so it passes the same schema.
func DecodeYAML(data []byte) (*Input, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode report input: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert report input: %w", err)
	}
	return DecodeJSON(raw)
}

// normalize rejects an input without any leaves. Leaves without data are rendered as gaps.
func (in Input) normalize() (*Input, error) {
	if len(in.Metrics) == 0 && len(in.Tree) == 0 && len(in.FlatTree) == 0 {
		return nil, ErrNoMetrics
	}
	if in.Metrics == nil {
		in.Metrics = dataset.Payload{}
	}
	if in.Timestamps == nil {
		in.Timestamps = dataset.Timestamps{}
	}
	return &in, nil
}

// FromFrame wraps stored measurements as an input whose tree is grouped from the frame's
// keys in source order.
func FromFrame(title string, f dataset.Frame) (*Input, error) {
	in := Input{Title: title, Timestamps: f.Timestamps, Metrics: f.Metrics}
	if keys := f.MetricKeys(); len(keys) > 0 {
		tree, err := metrictree.FromKeys(keys)
		if err != nil {
			return nil, fmt.Errorf("group metric keys: %w", err)
		}
		in.FlatTree = tree.Flatten()
	}
	return in.normalize()
}

// BuildTree returns the tree for this input.
func (in *Input) BuildTree() (*metrictree.Tree, error) {
	switch {
	case len(in.Tree) > 0:
		return metrictree.New(in.Tree)
	case len(in.FlatTree) > 0:
		return metrictree.FromFlat(in.FlatTree)
	default:
		return metrictree.FromKeys(in.Metrics.Keys())
	}
}

// Issues lists data problems that rendering tolerates but a validator should report.
func (in *Input) Issues(tree *metrictree.Tree) []string {
	var issues []string
	if err := (dataset.Frame{Timestamps: in.Timestamps, Metrics: in.Metrics}).Validate(); err != nil {
		issues = append(issues, err.Error())
	}
	leaves := make(map[string]struct{})
	for _, id := range tree.Leaves() {
		leaves[id] = struct{}{}
		if !in.Metrics.Has(id) {
			issues = append(issues, fmt.Sprintf("leaf %q has no data", id))
		}
	}
	for _, id := range in.Metrics.Keys() {
		if _, ok := leaves[id]; !ok {
			issues = append(issues, fmt.Sprintf("metric %q is not a leaf of the tree", id))
		}
	}
	return issues
}

// Marshal encodes the input back to JSON.
func (in *Input) Marshal() ([]byte, error) {
	return json.MarshalIndent(in, "", "  ")
}
