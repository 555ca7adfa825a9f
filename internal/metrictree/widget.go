package metrictree

import "fmt"

// Event is emitted on every check or uncheck. CheckedIDs holds every checked node,
// categories included, in display order.
type Event struct {
	NodeID     string
	Checked    bool
	CheckedIDs []string
}

// Listener receives selection-changed notifications.
type Listener func(Event)

// Widget is a checkbox tree over a Tree. Checking or unchecking a node applies the same
// state to every descendant; there is no indeterminate state.
type Widget struct {
	tree      *Tree
	checked   map[string]bool
	listeners []Listener
}

// Build constructs a tree from desc and wraps it in a widget.
func Build(desc []Description) (*Widget, error) {
	t, err := New(desc)
	if err != nil {
		return nil, err
	}
	return NewWidget(t), nil
}

// NewWidget wraps an existing tree. Nothing starts checked.
func NewWidget(t *Tree) *Widget {
	return &Widget{tree: t, checked: make(map[string]bool)}
}

// Tree returns the underlying hierarchy.
func (w *Widget) Tree() *Tree { return w.tree }

// OnChange registers a listener. Listeners run synchronously in registration order.
func (w *Widget) OnChange(l Listener) {
	if l != nil {
		w.listeners = append(w.listeners, l)
	}
}

// Check checks id and its whole subtree.
func (w *Widget) Check(id string) error { return w.SetChecked(id, true) }

// Uncheck unchecks id and its whole subtree.
func (w *Widget) Uncheck(id string) error { return w.SetChecked(id, false) }

// Toggle flips the checked state of id and applies it to its subtree.
func (w *Widget) Toggle(id string) error { return w.SetChecked(id, !w.checked[id]) }

// SetChecked applies state to id and all its descendants, then notifies listeners. A
// notification is emitted even if nothing changed.
func (w *Widget) SetChecked(id string, state bool) error {
	nodes, err := w.tree.Subtree(id)
	if err != nil {
		return fmt.Errorf("set checked: %w", err)
	}
	for _, n := range nodes {
		if state {
			w.checked[n.ID] = true
		} else {
			delete(w.checked, n.ID)
		}
	}
	w.emit(Event{NodeID: id, Checked: state, CheckedIDs: w.CheckedIDs()})
	return nil
}

// IsChecked reports the state of a single node.
func (w *Widget) IsChecked(id string) bool { return w.checked[id] }

// CheckedIDs lists checked nodes in display order.
func (w *Widget) CheckedIDs() []string {
	out := make([]string, 0, len(w.checked))
	for _, n := range w.tree.Nodes() {
		if w.checked[n.ID] {
			out = append(out, n.ID)
		}
	}
	return out
}

// Reset unchecks everything without notifying listeners.
func (w *Widget) Reset() {
	w.checked = make(map[string]bool)
}

func (w *Widget) emit(ev Event) {
	for _, l := range w.listeners {
		l(ev)
	}
}
