// Package selection reduces checkbox-tree notifications into the ordered set of selected
// leaf metrics.
package selection

import "github.com/mwiater/metricview/internal/metrictree"

// Current returns the checked nodes that are leaves, in the order of nodes (display order).
// Categories never appear in the result.
func Current(nodes []*metrictree.Node, checked []string) []string {
	if len(checked) == 0 {
		return []string{}
	}
	set := make(map[string]struct{}, len(checked))
	for _, id := range checked {
		set[id] = struct{}{}
	}
	out := make([]string, 0, len(checked))
	for _, n := range nodes {
		if !n.IsLeaf() {
			continue
		}
		if _, ok := set[n.ID]; ok {
			out = append(out, n.ID)
		}
	}
	return out
}

// Tracker holds the selection derived from the latest notification.
type Tracker struct {
	tree    *metrictree.Tree
	current []string
}

// NewTracker returns an empty tracker for tree.
func NewTracker(tree *metrictree.Tree) *Tracker {
	return &Tracker{tree: tree, current: []string{}}
}

// Handle recomputes the selection from the event's full checked set. A category toggle
// can add or remove many leaves at once, so nothing is patched incrementally.
func (t *Tracker) Handle(ev metrictree.Event) []string {
	t.current = Current(t.tree.Nodes(), ev.CheckedIDs)
	return t.Selection()
}

// Selection returns a copy of the current selection.
func (t *Tracker) Selection() []string {
	out := make([]string, len(t.current))
	copy(out, t.current)
	return out
}

// Empty reports whether no leaf is selected.
func (t *Tracker) Empty() bool { return len(t.current) == 0 }

// Reset empties the selection.
func (t *Tracker) Reset() { t.current = []string{} }
