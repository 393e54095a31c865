package drag

// Axis declares which way a scroll container moves during edge auto-scroll.
type Axis int

const (
	AxisVertical Axis = iota
	AxisHorizontal
)

// edgeThreshold is how close (in cells) the pointer must be to a container
// edge before auto-scroll engages.
const edgeThreshold = 2

// Scroller is a registered scroll container. The engine drives Offset while
// a drag hovers near its edges; the presentation layer reads Offset back.
type Scroller struct {
	ID     string
	Axis   Axis
	Bounds Rect
	Offset int
	Max    int

	velocity int
}

// AddScroller registers (or replaces) a scroll container.
func (e *Engine) AddScroller(sc *Scroller) {
	e.scrollers[sc.ID] = sc
}

// Scroller returns the registered container with the given id, or nil.
func (e *Engine) Scroller(id string) *Scroller {
	return e.scrollers[id]
}

// ScrollOffset returns the current offset for a registered container.
func (e *Engine) ScrollOffset(id string) int {
	if sc, ok := e.scrollers[id]; ok {
		return sc.Offset
	}
	return 0
}

// Tick advances auto-scroll by one step. It only has an effect while a drag
// is active; the presentation layer calls it on its animation tick.
func (e *Engine) Tick() {
	if e.state != StateDragging {
		return
	}
	for _, sc := range e.scrollers {
		if sc.velocity == 0 {
			continue
		}
		sc.Offset += sc.velocity
		if sc.Offset < 0 {
			sc.Offset = 0
		}
		if sc.Offset > sc.Max {
			sc.Offset = sc.Max
		}
	}
}

// updateAutoScroll recomputes each container's scroll velocity from the
// pointer position along the container's declared axis.
func (e *Engine) updateAutoScroll(x, y int) {
	for _, sc := range e.scrollers {
		if !sc.Bounds.Contains(x, y) {
			sc.velocity = 0
			continue
		}
		var pos, lead, trail int
		if sc.Axis == AxisVertical {
			pos, lead, trail = y, sc.Bounds.Y, sc.Bounds.Y+sc.Bounds.H-1
		} else {
			pos, lead, trail = x, sc.Bounds.X, sc.Bounds.X+sc.Bounds.W-1
		}
		switch {
		case pos-lead < edgeThreshold:
			sc.velocity = -1
		case trail-pos < edgeThreshold:
			sc.velocity = 1
		default:
			sc.velocity = 0
		}
	}
}

// stopAutoScroll halts every container. Called on every drag end, whatever
// branch ended it.
func (e *Engine) stopAutoScroll() {
	for _, sc := range e.scrollers {
		sc.velocity = 0
	}
}
