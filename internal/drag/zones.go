package drag

import (
	"time"

	"github.com/lowitz/planview/internal/record"
)

// TargetKind classifies what a drop zone resolves to.
type TargetKind int

const (
	TargetNone        TargetKind = iota
	TargetDate                   // a date-only bucket
	TargetDateTime               // a date-time bucket, rounded to the slot granularity
	TargetUnscheduled            // the unscheduled sentinel
	TargetDue                    // a due:<date> sentinel
)

// Target is the normalized destination a drag can resolve onto. Targets are
// derived from pointer position; they are never persisted.
type Target struct {
	Kind TargetKind
	Key  string // date or datetime value; empty for unscheduled
}

// Rect is a cell-grid rectangle.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Zone is a registered drop zone: screen bounds plus the target it stands
// for. Zones are re-registered whenever the layout changes.
type Zone struct {
	ID     string
	Bounds Rect
	Target Target
}

// RoundTime floors a datetime value to the slot granularity (in minutes).
// Date-only values pass through unchanged.
func RoundTime(key string, granularity int) string {
	if granularity <= 0 || record.DateOnly(key) {
		return key
	}
	ts, err := record.Parse(key)
	if err != nil {
		return key
	}
	ts = ts.Truncate(time.Duration(granularity) * time.Minute)
	return record.FormatDateTime(ts)
}
