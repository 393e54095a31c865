// Package timeline contains the pure projections of the scheduling core:
// bucketing records into a time-ordered day view and nesting flat item
// lists into area/heading/parent groups. Both are pure functions over the
// record tables; they never mutate their inputs and repeated calls on
// unchanged input yield identical output.
package timeline

import (
	"sort"

	"github.com/lowitz/planview/internal/record"
)

// Bucket holds the items whose effective time equals Key. Buckets are
// derived, never stored, and recomputed on every store or window change.
type Bucket struct {
	Key    string // normalized "2006-01-02T15:04"
	Tasks  []record.Task
	Events []record.Event
}

// DayView is the bucketed projection of one half-open window [Start, End).
type DayView struct {
	Start string
	End   string

	Due          []record.Task // due in window, not claimed by a scheduled group
	AllDay       []record.Task // scheduled exactly at window start (date-only)
	AllDayEvents []record.Event
	Buckets      []Bucket // timed items, keys strictly after Start, ascending
}

// BuildDay classifies the task and event tables into a day view for the
// window [startISO, endISO). today widens the scheduled test so overdue
// scheduled tasks are carried onto the current day.
//
// Classification priority per task: completed tasks are excluded; a task
// scheduled inside the window never falls back to the due group; a
// scheduled value strictly after window start is timed, otherwise all-day.
func BuildDay(tasks map[string]record.Task, events map[string]record.Event, startISO, endISO string, today bool) DayView {
	start := record.Normalize(startISO)
	end := record.Normalize(endISO)

	view := DayView{Start: start, End: end}

	var timed []record.Task
	timedIDs := make(map[string]bool)

	for _, id := range sortedTaskIDs(tasks) {
		t := tasks[id]
		if t.Completed {
			continue
		}

		if scheduledInWindow(t.Scheduled, start, end, today) {
			if record.Normalize(t.Scheduled) > start {
				timed = append(timed, t)
				timedIDs[t.ID] = true
			} else {
				view.AllDay = append(view.AllDay, t)
			}
			continue
		}

		if t.Due != "" && inWindow(t.Due, start, end, today) {
			view.Due = append(view.Due, t)
		}
	}

	// A task already shown in a timed bucket must not render again in the
	// all-day section, and neither may any of its descendants.
	view.AllDay = pruneAllDay(view.AllDay, timedIDs, tasks)

	buckets := make(map[string]*Bucket)
	for _, t := range timed {
		key := record.Normalize(t.Scheduled)
		b := buckets[key]
		if b == nil {
			b = &Bucket{Key: key}
			buckets[key] = b
		}
		b.Tasks = append(b.Tasks, t)
	}

	for _, id := range sortedEventIDs(events) {
		e := events[id]
		if e.AllDay() {
			if record.Normalize(e.StartISO) >= start && record.Normalize(e.StartISO) < end {
				view.AllDayEvents = append(view.AllDayEvents, e)
			}
			continue
		}
		key := record.Normalize(e.StartISO)
		if key <= start || key >= end {
			continue
		}
		b := buckets[key]
		if b == nil {
			b = &Bucket{Key: key}
			buckets[key] = b
		}
		b.Events = append(b.Events, e)
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		// Only keys strictly after window start form timed buckets.
		if key > start {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		b := buckets[key]
		sortTasks(b.Tasks)
		view.Buckets = append(view.Buckets, *b)
	}

	sortTasks(view.Due)
	sortTasks(view.AllDay)
	sort.Slice(view.AllDayEvents, func(i, j int) bool {
		a, b := view.AllDayEvents[i], view.AllDayEvents[j]
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})

	return view
}

// scheduledInWindow applies the window test for scheduled values: the value
// must fall before the window end, and unless the window covers today (in
// which case earlier, overdue values are pulled in) it must not precede the
// window start.
func scheduledInWindow(scheduled, start, end string, today bool) bool {
	if scheduled == "" {
		return false
	}
	return inWindow(scheduled, start, end, today)
}

func inWindow(value, start, end string, today bool) bool {
	v := record.Normalize(value)
	if v >= end {
		return false
	}
	return today || v >= start
}

func pruneAllDay(allDay []record.Task, timedIDs map[string]bool, table map[string]record.Task) []record.Task {
	out := allDay[:0:0]
	for _, t := range allDay {
		if timedIDs[t.ID] || ancestorTimed(t, timedIDs, table) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func ancestorTimed(t record.Task, timedIDs map[string]bool, table map[string]record.Task) bool {
	seen := map[string]bool{t.ID: true}
	for id := t.ParentID; id != "" && !seen[id]; {
		if timedIDs[id] {
			return true
		}
		seen[id] = true
		parent, ok := table[id]
		if !ok {
			return false
		}
		id = parent.ParentID
	}
	return false
}

func sortTasks(tasks []record.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.ID < b.ID
	})
}

func sortedTaskIDs(tasks map[string]record.Task) []string {
	ids := make([]string, 0, len(tasks))
	for id := range tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedEventIDs(events map[string]record.Event) []string {
	ids := make([]string, 0, len(events))
	for id := range events {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
