package report

import (
	"errors"
	"fmt"

	"github.com/mwiater/metricview/internal/chart"
	"github.com/mwiater/metricview/internal/dataset"
	"github.com/mwiater/metricview/internal/logging"
	"github.com/mwiater/metricview/internal/metrictree"
	"github.com/mwiater/metricview/internal/selection"
	"github.com/mwiater/metricview/internal/table"
)

// State is derived from the selection after every event.
type State int

const (
	StateEmpty State = iota
	StatePopulated
)

func (s State) String() string {
	if s == StatePopulated {
		return "populated"
	}
	return "empty"
}

// MarshalText lets the state appear by name in JSON.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Options tune a controller.
type Options struct {
	// Trace logs every render pass.
	Trace bool
}

// Controller owns the immutable raw data of one report and keeps the table and chart in
// sync with the tree's checkboxes. It is not safe for concurrent use.
type Controller struct {
	opts       Options
	title      string
	raw        dataset.Payload
	timestamps dataset.Timestamps

	tree    *metrictree.Widget
	tracker *selection.Tracker
	table   table.Widget
	chart   *chart.Chart

	state   State
	lastErr error
}

// New builds the tree for in, binds the chart, renders the empty view, and subscribes to
// tree notifications.
func New(opts Options, in *Input, tw table.Widget, cw chart.Widget) (*Controller, error) {
	if in == nil {
		return nil, ErrNoMetrics
	}
	if tw == nil {
		return nil, errors.New("report needs a table widget")
	}
	tree, err := in.BuildTree()
	if err != nil {
		return nil, fmt.Errorf("build metric tree: %w", err)
	}
	ch, err := chart.Create(cw, in.Timestamps)
	if err != nil {
		return nil, err
	}
	c := &Controller{
		opts:       opts,
		title:      in.Title,
		raw:        in.Metrics,
		timestamps: in.Timestamps,
		tree:       metrictree.NewWidget(tree),
		tracker:    selection.NewTracker(tree),
		table:      tw,
		chart:      ch,
	}
	c.tree.OnChange(c.handle)
	if err := c.render(nil, "init"); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Controller) handle(ev metrictree.Event) {
	sel := c.tracker.Handle(ev)
	event := "uncheck"
	if ev.Checked {
		event = "check"
	}
	c.lastErr = c.render(sel, event+" "+ev.NodeID)
}

// render is the whole pipeline: table first, then chart, from the same selection.
func (c *Controller) render(sel []string, event string) error {
	if err := table.Render(c.table, c.raw, c.timestamps, sel); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	if err := c.chart.Update(c.Series(sel)); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	c.state = StateEmpty
	if len(sel) > 0 {
		c.state = StatePopulated
	}
	if c.opts.Trace {
		logging.LogRender("report", event, sel)
	}
	return nil
}

// Series returns the chart input for ids. Unknown ids become all-absent series.
func (c *Controller) Series(ids []string) []chart.Series {
	out := make([]chart.Series, 0, len(ids))
	for _, id := range ids {
		out = append(out, chart.Series{ID: id, Data: c.raw.Lookup(id, len(c.timestamps))})
	}
	return out
}

// Check checks id and its subtree and returns any render failure.
func (c *Controller) Check(id string) error { return c.apply(c.tree.Check, id) }

// Uncheck unchecks id and its subtree.
func (c *Controller) Uncheck(id string) error { return c.apply(c.tree.Uncheck, id) }

// Toggle flips id.
func (c *Controller) Toggle(id string) error { return c.apply(c.tree.Toggle, id) }

func (c *Controller) apply(op func(string) error, id string) error {
	c.lastErr = nil
	if err := op(id); err != nil {
		return err
	}
	return c.lastErr
}

// Select checks each id in turn.
func (c *Controller) Select(ids ...string) error {
	for _, id := range ids {
		if err := c.Check(id); err != nil {
			return err
		}
	}
	return nil
}

// SelectAll checks every root, which selects every leaf.
func (c *Controller) SelectAll() error {
	for _, n := range c.tree.Tree().Roots() {
		if err := c.Check(n.ID); err != nil {
			return err
		}
	}
	return nil
}

// Clear unchecks every node and renders the empty view: the header row and no datasets.
func (c *Controller) Clear() error {
	c.tree.Reset()
	c.tracker.Reset()
	c.lastErr = c.render(nil, "clear")
	return c.lastErr
}

// Teardown empties the selection and clears both widgets for a view that is going away.
func (c *Controller) Teardown() error {
	c.tracker.Reset()
	c.tree.Reset()
	c.state = StateEmpty
	if err := c.table.Clear(); err != nil {
		return fmt.Errorf("clear table: %w", err)
	}
	if err := c.chart.Update(nil); err != nil {
		return fmt.Errorf("clear chart: %w", err)
	}
	if c.opts.Trace {
		logging.LogRender("report", "teardown", nil)
	}
	return nil
}

// State reports whether anything is selected.
func (c *Controller) State() State { return c.state }

// Selection returns the selected leaf ids in display order.
func (c *Controller) Selection() []string { return c.tracker.Selection() }

// Tree returns the checkbox tree.
func (c *Controller) Tree() *metrictree.Widget { return c.tree }

// Chart returns the chart handle.
func (c *Controller) Chart() *chart.Chart { return c.chart }

// Table returns the table widget.
func (c *Controller) Table() table.Widget { return c.table }

// Title returns the report title.
func (c *Controller) Title() string { return c.title }

// Timestamps returns the x-axis labels.
func (c *Controller) Timestamps() dataset.Timestamps { return c.timestamps }

// Raw returns the raw metrics payload. Callers must not modify it.
func (c *Controller) Raw() dataset.Payload { return c.raw }

// MetricSummary pairs a selected metric with its statistics.
type MetricSummary struct {
	ID string `json:"id"`
	dataset.Summary
}

// Summaries returns statistics for the current selection.
func (c *Controller) Summaries() []MetricSummary {
	sel := c.Selection()
	out := make([]MetricSummary, 0, len(sel))
	for _, id := range sel {
		out = append(out, MetricSummary{ID: id, Summary: dataset.Summarize(c.raw.Lookup(id, len(c.timestamps)))})
	}
	return out
}
