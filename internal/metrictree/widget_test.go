package metrictree

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWidgetCategoryCheckCascades(t *testing.T) {
	w, err := Build(netTree())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	var events []Event
	w.OnChange(func(ev Event) { events = append(events, ev) })

	if err := w.Check("cpu"); err != nil {
		t.Fatalf("Check error: %v", err)
	}
	want := []string{"cpu", "cpu.user", "cpu.sys", "cpu.sys.irq"}
	if diff := cmp.Diff(want, w.CheckedIDs()); diff != "" {
		t.Fatalf("unexpected checked ids (-want +got):\n%s", diff)
	}
	if len(events) != 1 || events[0].NodeID != "cpu" || !events[0].Checked {
		t.Fatalf("expected one check event for cpu, got %+v", events)
	}
	if diff := cmp.Diff(want, events[0].CheckedIDs); diff != "" {
		t.Fatalf("event carries wrong checked set (-want +got):\n%s", diff)
	}

	if err := w.Uncheck("cpu.sys"); err != nil {
		t.Fatalf("Uncheck error: %v", err)
	}
	if diff := cmp.Diff([]string{"cpu", "cpu.user"}, w.CheckedIDs()); diff != "" {
		t.Fatalf("unexpected checked ids after uncheck (-want +got):\n%s", diff)
	}
	if len(events) != 2 || events[1].Checked {
		t.Fatalf("expected uncheck event, got %+v", events)
	}
}

func TestWidgetCheckTwiceEmitsTwiceSameState(t *testing.T) {
	w, _ := Build(netTree())
	count := 0
	w.OnChange(func(Event) { count++ })
	_ = w.Check("net")
	first := w.CheckedIDs()
	_ = w.Check("net")
	if count != 2 {
		t.Fatalf("expected 2 notifications, got %d", count)
	}
	if diff := cmp.Diff(first, w.CheckedIDs()); diff != "" {
		t.Fatalf("second check changed state (-first +second):\n%s", diff)
	}
}

func TestWidgetToggleAndReset(t *testing.T) {
	w, _ := Build(netTree())
	_ = w.Toggle("lat")
	if !w.IsChecked("lat") {
		t.Fatalf("expected lat checked after toggle")
	}
	_ = w.Toggle("lat")
	if w.IsChecked("lat") {
		t.Fatalf("expected lat unchecked after second toggle")
	}
	_ = w.Check("net")
	w.Reset()
	if len(w.CheckedIDs()) != 0 {
		t.Fatalf("expected no checked nodes after reset")
	}
}

func TestWidgetUnknownNode(t *testing.T) {
	w, _ := Build(netTree())
	called := false
	w.OnChange(func(Event) { called = true })
	if err := w.Check("ghost"); !errors.Is(err, ErrUnknownNode) {
		t.Fatalf("expected ErrUnknownNode, got %v", err)
	}
	if called {
		t.Fatalf("listener must not run for unknown nodes")
	}
}
