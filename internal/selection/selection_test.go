package selection

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mwiater/metricview/internal/metrictree"
	"pgregory.net/rapid"
)

func exampleWidget(t *testing.T) *metrictree.Widget {
	t.Helper()
	w, err := metrictree.Build([]metrictree.Description{
		{ID: "net", Children: []metrictree.Description{{ID: "lat"}, {ID: "thr"}}},
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	return w
}

func TestCurrentUsesDisplayOrderNotClickOrder(t *testing.T) {
	w := exampleWidget(t)
	tracker := NewTracker(w.Tree())
	w.OnChange(func(ev metrictree.Event) { tracker.Handle(ev) })

	_ = w.Check("thr")
	_ = w.Check("lat")
	if diff := cmp.Diff([]string{"lat", "thr"}, tracker.Selection()); diff != "" {
		t.Fatalf("unexpected selection (-want +got):\n%s", diff)
	}
}

func TestCategoryCheckThenLeafUncheck(t *testing.T) {
	w := exampleWidget(t)
	tracker := NewTracker(w.Tree())
	w.OnChange(func(ev metrictree.Event) { tracker.Handle(ev) })

	_ = w.Check("net")
	if diff := cmp.Diff([]string{"lat", "thr"}, tracker.Selection()); diff != "" {
		t.Fatalf("unexpected selection after category check (-want +got):\n%s", diff)
	}
	_ = w.Uncheck("thr")
	if diff := cmp.Diff([]string{"lat"}, tracker.Selection()); diff != "" {
		t.Fatalf("unexpected selection after leaf uncheck (-want +got):\n%s", diff)
	}
	tracker.Reset()
	if !tracker.Empty() {
		t.Fatalf("expected empty selection after reset")
	}
}

func TestCurrentIgnoresUnknownIDs(t *testing.T) {
	w := exampleWidget(t)
	got := Current(w.Tree().Nodes(), []string{"ghost", "net", "thr"})
	if diff := cmp.Diff([]string{"thr"}, got); diff != "" {
		t.Fatalf("unexpected selection (-want +got):\n%s", diff)
	}
}

// genDescription draws a random tree with unique ids.
func genDescription(t *rapid.T) []metrictree.Description {
	next := 0
	var gen func(depth int) metrictree.Description
	gen = func(depth int) metrictree.Description {
		id := fmt.Sprintf("n%d", next)
		next++
		d := metrictree.Description{ID: id}
		if depth < 3 {
			kids := rapid.IntRange(0, 3).Draw(t, "kids")
			for i := 0; i < kids; i++ {
				d.Children = append(d.Children, gen(depth+1))
			}
		}
		return d
	}
	roots := rapid.IntRange(1, 3).Draw(t, "roots")
	out := make([]metrictree.Description, 0, roots)
	for i := 0; i < roots; i++ {
		out = append(out, gen(0))
	}
	return out
}

func TestSelectionOnlyEverContainsLeaves(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w, err := metrictree.Build(genDescription(t))
		if err != nil {
			t.Fatalf("Build error: %v", err)
		}
		tree := w.Tree()
		leaves := make(map[string]bool)
		for _, id := range tree.Leaves() {
			leaves[id] = true
		}
		tracker := NewTracker(tree)
		w.OnChange(func(ev metrictree.Event) { tracker.Handle(ev) })

		nodes := tree.Nodes()
		steps := rapid.IntRange(1, 20).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			n := nodes[rapid.IntRange(0, len(nodes)-1).Draw(t, "node")]
			if rapid.Bool().Draw(t, "check") {
				_ = w.Check(n.ID)
			} else {
				_ = w.Uncheck(n.ID)
			}
			for _, id := range tracker.Selection() {
				if !leaves[id] {
					t.Fatalf("selection contains non-leaf %q", id)
				}
			}
		}
	})
}

func TestCategoryCheckIsUnionAndIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w, err := metrictree.Build(genDescription(t))
		if err != nil {
			t.Fatalf("Build error: %v", err)
		}
		tree := w.Tree()
		tracker := NewTracker(tree)
		w.OnChange(func(ev metrictree.Event) { tracker.Handle(ev) })

		nodes := tree.Nodes()
		pre := rapid.IntRange(0, 5).Draw(t, "pre")
		for i := 0; i < pre; i++ {
			_ = w.Check(nodes[rapid.IntRange(0, len(nodes)-1).Draw(t, "preNode")].ID)
		}
		before := tracker.Selection()
		target := nodes[rapid.IntRange(0, len(nodes)-1).Draw(t, "target")]
		added, _ := tree.DescendantLeaves(target.ID)

		_ = w.Check(target.ID)
		once := tracker.Selection()
		_ = w.Check(target.ID)
		twice := tracker.Selection()

		want := make(map[string]bool)
		for _, id := range before {
			want[id] = true
		}
		for _, id := range added {
			want[id] = true
		}
		if len(once) != len(want) {
			t.Fatalf("expected %d selected leaves, got %v", len(want), once)
		}
		for _, id := range once {
			if !want[id] {
				t.Fatalf("unexpected leaf %q in selection", id)
			}
		}
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Fatalf("checking twice differs from once (-once +twice):\n%s", diff)
		}
	})
}
