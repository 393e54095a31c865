package drag

import (
	"testing"

	"github.com/lowitz/planview/internal/record"
)

func TestAutoScrollAtEdges(t *testing.T) {
	e, _ := newTestEngine(nil)
	sc := &Scroller{ID: "col", Axis: AxisVertical, Bounds: Rect{X: 0, Y: 0, W: 10, H: 20}, Offset: 5, Max: 40}
	e.AddScroller(sc)

	e.Start(record.DragPayload{Kind: record.PayloadNew})

	// Hover near the bottom edge: offset walks forward one cell per tick.
	e.Move(5, 19)
	e.Tick()
	e.Tick()
	if sc.Offset != 7 {
		t.Errorf("offset = %d, want 7", sc.Offset)
	}

	// Hover near the top edge: offset walks back.
	e.Move(5, 0)
	e.Tick()
	if sc.Offset != 6 {
		t.Errorf("offset = %d, want 6", sc.Offset)
	}

	// Mid-container: no movement.
	e.Move(5, 10)
	e.Tick()
	if sc.Offset != 6 {
		t.Errorf("offset = %d, want 6 after mid-container move", sc.Offset)
	}
	e.Cancel()
}

func TestAutoScrollClamps(t *testing.T) {
	e, _ := newTestEngine(nil)
	sc := &Scroller{ID: "col", Axis: AxisVertical, Bounds: Rect{X: 0, Y: 0, W: 10, H: 20}, Max: 1}
	e.AddScroller(sc)

	e.Start(record.DragPayload{Kind: record.PayloadNew})
	e.Move(5, 19)
	for i := 0; i < 5; i++ {
		e.Tick()
	}
	if sc.Offset != 1 {
		t.Errorf("offset = %d, want clamp at Max", sc.Offset)
	}

	e.Move(5, 0)
	for i := 0; i < 5; i++ {
		e.Tick()
	}
	if sc.Offset != 0 {
		t.Errorf("offset = %d, want clamp at 0", sc.Offset)
	}
	e.Cancel()
}

func TestAutoScrollStopsWhenDragEnds(t *testing.T) {
	e, _ := newTestEngine(nil)
	sc := &Scroller{ID: "col", Axis: AxisVertical, Bounds: Rect{X: 0, Y: 0, W: 10, H: 20}, Max: 40}
	e.AddScroller(sc)

	e.Start(record.DragPayload{Kind: record.PayloadNew})
	e.Move(5, 19)
	e.Cancel()

	e.Tick()
	e.Tick()
	if sc.Offset != 0 {
		t.Errorf("offset = %d, ticks after drag end must be inert", sc.Offset)
	}
}

func TestTickIdleIsInert(t *testing.T) {
	e, _ := newTestEngine(nil)
	sc := &Scroller{ID: "col", Axis: AxisVertical, Bounds: Rect{X: 0, Y: 0, W: 10, H: 20}, Max: 40, velocity: 1}
	e.AddScroller(sc)

	e.Tick()
	if sc.Offset != 0 {
		t.Errorf("Tick while idle must not move offsets, got %d", sc.Offset)
	}
}
