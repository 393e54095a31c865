// Package record defines the data model shared by the scheduling core:
// task and event records, the in-flight drag payload, and ISO time helpers.
//
// Schedule values are ISO strings in one of two forms: a bare date
// ("2006-01-02") for all-day items, or a minute-precision local datetime
// ("2006-01-02T15:04") for timed items. Both forms compare correctly with
// plain string comparison once normalized via Normalize.
package record

import (
	"fmt"
	"time"
)

// Layouts for the two schedule value forms.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04"
)

// Kind classifies how an item is rendered in the timeline.
type Kind int

const (
	KindTask   Kind = iota // regular editable task row
	KindParent             // container for sub-tasks, rendered as a reference
	KindLink               // pointer to a note location, never editable inline
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindParent:
		return "parent"
	case KindLink:
		return "link"
	default:
		return "task"
	}
}

// KindFromString parses a wire kind name. Unknown names degrade to KindTask.
func KindFromString(s string) Kind {
	switch s {
	case "parent":
		return KindParent
	case "link":
		return KindLink
	default:
		return KindTask
	}
}

// Task is a single task record loaded from the host's task store.
// Records are replaced wholesale on reload; individual fields are only
// mutated through the store's patch gateway.
type Task struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Scheduled string   `json:"scheduled,omitempty"` // "" = unscheduled
	Due       string   `json:"due,omitempty"`       // "" = no deadline
	Completed bool     `json:"completed"`
	Area      string   `json:"area,omitempty"`
	Heading   string   `json:"heading,omitempty"`
	Path      string   `json:"path"`
	Position  int      `json:"position"` // ordinal within the source file
	ParentID  string   `json:"parent_id,omitempty"`
	Children  []string `json:"children,omitempty"` // derived, not authoritative
	Kind      Kind     `json:"kind"`
	Duration  int      `json:"duration,omitempty"` // minutes, 0 = none
}

// Event is a read-only calendar event from the event source.
// An all-day event carries a bare date with StartISO == EndISO.
type Event struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location,omitempty"`
	Notes    string `json:"notes,omitempty"`
	StartISO string `json:"start"`
	EndISO   string `json:"end"`
}

// AllDay reports whether the event is an all-day marker.
func (e Event) AllDay() bool {
	return e.StartISO == e.EndISO && DateOnly(e.StartISO)
}

// PayloadKind tags the variant of an in-flight drag payload.
type PayloadKind int

const (
	PayloadTask       PayloadKind = iota // a single task row
	PayloadTaskLength                    // the end-of-duration handle of a task
	PayloadGroup                         // a multi-task block moved as one unit
	PayloadEvent                         // a calendar event
	PayloadNew                           // a not-yet-created task from quick add
	PayloadDue                           // a task's due badge
	PayloadNewButton                     // the "+" affordance on a slot
)

// SpanKind describes the time form of the dragged item's origin slot.
type SpanKind int

const (
	SpanNone SpanKind = iota
	SpanDate
	SpanDateTime
)

// DragPayload describes what is being moved during a drag gesture. At most
// one instance exists system-wide, held in the record store's drag slot and
// always replaced as a whole value.
type DragPayload struct {
	Kind       PayloadKind
	TaskIDs    []string
	Event      *Event
	Origin     string // id of the container the drag started from
	OriginSpan SpanKind

	// Creation context for PayloadNew / PayloadNewButton.
	Path    string
	Heading string
	Text    string
}

// DateOnly reports whether an ISO value is a bare date.
func DateOnly(iso string) bool {
	return len(iso) == len(DateLayout)
}

// Normalize expands a bare date to its start-of-day datetime so that all
// schedule values compare lexically. Datetime values pass through trimmed
// to minute precision.
func Normalize(iso string) string {
	if iso == "" {
		return ""
	}
	if DateOnly(iso) {
		return iso + "T00:00"
	}
	if len(iso) > len(DateTimeLayout) {
		return iso[:len(DateTimeLayout)]
	}
	return iso
}

// DatePart returns the bare date of any schedule value.
func DatePart(iso string) string {
	if len(iso) >= len(DateLayout) {
		return iso[:len(DateLayout)]
	}
	return iso
}

// Parse converts a schedule value into a time.Time in the local zone.
func Parse(iso string) (time.Time, error) {
	if DateOnly(iso) {
		return time.ParseInLocation(DateLayout, iso, time.Local)
	}
	t, err := time.ParseInLocation(DateTimeLayout, Normalize(iso), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid schedule value %q: %w", iso, err)
	}
	return t, nil
}

// FormatDate renders t as a bare date value.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// FormatDateTime renders t as a minute-precision datetime value.
func FormatDateTime(t time.Time) string { return t.Format(DateTimeLayout) }
