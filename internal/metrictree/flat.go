package metrictree

import (
	"fmt"
	"strings"
)

// RootParent marks a flat record as a top-level node.
const RootParent = "#"

// FlatRecord is the parent-linked node form used by jstree-style data sources.
type FlatRecord struct {
	ID     string `json:"id" yaml:"id"`
	Text   string `json:"text" yaml:"text"`
	Parent string `json:"parent" yaml:"parent"`
}

// FromFlat builds a tree from parent-linked records. Records keep their relative order
// among siblings. An empty parent is treated as RootParent.
func FromFlat(records []FlatRecord) (*Tree, error) {
	byID := make(map[string]FlatRecord, len(records))
	children := make(map[string][]string)
	var roots []string
	for _, r := range records {
		if r.ID == "" {
			return nil, ErrEmptyID
		}
		if _, dup := byID[r.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, r.ID)
		}
		byID[r.ID] = r
	}
	for _, r := range records {
		parent := r.Parent
		if parent == "" || parent == RootParent {
			roots = append(roots, r.ID)
			continue
		}
		if _, ok := byID[parent]; !ok {
			return nil, fmt.Errorf("%w: %q (parent of %q)", ErrUnknownParent, parent, r.ID)
		}
		children[parent] = append(children[parent], r.ID)
	}

	reached := 0
	visited := make(map[string]bool, len(records))
	var conv func(id string) Description
	conv = func(id string) Description {
		visited[id] = true
		reached++
		r := byID[id]
		d := Description{ID: r.ID, Text: r.Text}
		for _, c := range children[id] {
			if visited[c] {
				continue
			}
			d.Children = append(d.Children, conv(c))
		}
		return d
	}
	desc := make([]Description, 0, len(roots))
	for _, id := range roots {
		desc = append(desc, conv(id))
	}
	if reached != len(records) {
		return nil, fmt.Errorf("%w: %d of %d nodes unreachable from a root", ErrCycle, len(records)-reached, len(records))
	}
	return New(desc)
}

// Flatten converts the tree into parent-linked records in display order.
func (t *Tree) Flatten() []FlatRecord {
	out := make([]FlatRecord, 0, len(t.order))
	for _, n := range t.order {
		parent := RootParent
		if n.Parent != nil {
			parent = n.Parent.ID
		}
		out = append(out, FlatRecord{ID: n.ID, Text: n.Label, Parent: parent})
	}
	return out
}

// categorySuffix is appended to a category id that would collide with a leaf metric of the
// same name, e.g. keys "cpu" and "cpu.user".
const categorySuffix = ".*"

// FromKeys groups dotted metric keys into categories. "tg__0.xe0.rx" becomes the leaf
// "tg__0.xe0.rx" below categories "tg__0" and "tg__0.xe0". Leaf labels are the last key
// segment. First-seen key order is kept at every level.
func FromKeys(keys []string) (*Tree, error) {
	isLeaf := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k != "" {
			isLeaf[k] = true
		}
	}

	type building struct {
		desc     Description
		children []*building
	}
	byID := make(map[string]*building)
	var roots []*building
	seen := make(map[string]bool, len(keys))

	attach := func(parent *building, b *building) {
		if parent == nil {
			roots = append(roots, b)
			return
		}
		parent.children = append(parent.children, b)
	}

	for _, key := range keys {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		parts := strings.Split(key, ".")
		var parent *building
		for i := 0; i < len(parts)-1; i++ {
			prefix := strings.Join(parts[:i+1], ".")
			id := prefix
			if isLeaf[prefix] {
				id = prefix + categorySuffix
			}
			b, ok := byID[id]
			if !ok {
				b = &building{desc: Description{ID: id, Text: parts[i]}}
				byID[id] = b
				attach(parent, b)
			}
			parent = b
		}
		attach(parent, &building{desc: Description{ID: key, Text: parts[len(parts)-1]}})
	}

	var conv func(b *building) Description
	conv = func(b *building) Description {
		d := b.desc
		for _, c := range b.children {
			d.Children = append(d.Children, conv(c))
		}
		return d
	}
	desc := make([]Description, 0, len(roots))
	for _, r := range roots {
		desc = append(desc, conv(r))
	}
	return New(desc)
}
