// Package drag implements the drag-to-reschedule state machine: gesture
// capture into the store's single drag slot, live drop-target tracking with
// edge auto-scroll, and on-release resolution into exactly one batched
// schedule mutation.
package drag

import (
	"fmt"
	"math"
	"time"

	"github.com/lowitz/planview/internal/record"
	"github.com/lowitz/planview/internal/store"
)

// State is the engine's gesture state. Resolved and cancelled drags return
// to idle within the same call, so only these two states are observable.
type State int

const (
	StateIdle State = iota
	StateDragging
)

// EventRescheduler receives the reschedule request computed for a dropped
// event payload. Persistence is the collaborator's concern.
type EventRescheduler interface {
	RescheduleEvent(id, startISO, endISO string) error
}

// TaskCreator materializes a task for the new / new-button payloads.
type TaskCreator interface {
	CreateTask(path, heading, schedule string) (record.Task, error)
}

// Resolution reports how a drop resolved.
type Resolution struct {
	Cancelled bool
	Target    Target
	Results   []store.PatchResult // per-id outcomes for task/group payloads
	Created   *record.Task        // set for new / new-button payloads
}

// Engine drives the idle → dragging → (resolved | cancelled) → idle cycle.
// It is single-threaded by design: the presentation layer feeds it pointer
// input from one update loop, mirroring the store's single mutation path.
type Engine struct {
	store     *store.Store
	events    EventRescheduler
	creator   TaskCreator
	slotMins  int // drop granularity in minutes
	zones     []Zone
	scrollers map[string]*Scroller

	state   State
	payload record.DragPayload
	hover   Target
}

// Option configures an Engine.
type Option func(*Engine)

// WithEvents installs the event-reschedule collaborator.
func WithEvents(er EventRescheduler) Option {
	return func(e *Engine) { e.events = er }
}

// WithCreator installs the task-creation collaborator.
func WithCreator(tc TaskCreator) Option {
	return func(e *Engine) { e.creator = tc }
}

// WithGranularity sets the slot rounding for date-time drops, in minutes.
func WithGranularity(minutes int) Option {
	return func(e *Engine) { e.slotMins = minutes }
}

// New creates an idle engine bound to the record store.
func New(st *store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:     st,
		slotMins:  15,
		scrollers: make(map[string]*Scroller),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current gesture state.
func (e *Engine) State() State { return e.state }

// Hover returns the drop target currently under the pointer.
func (e *Engine) Hover() Target { return e.hover }

// SetZones replaces the registered drop zones. Called whenever the layout
// is rebuilt.
func (e *Engine) SetZones(zones []Zone) { e.zones = zones }

// Start begins a drag, recording the payload into the store's drag slot.
// Starting while a drag is active is a broken state-machine invariant and
// fails loud.
func (e *Engine) Start(p record.DragPayload) {
	if e.state == StateDragging {
		panic("drag: Start called while a drag is already active")
	}
	e.state = StateDragging
	e.payload = p
	e.hover = Target{}
	e.store.SetDrag(&p)
}

// Move updates the tracked drop target and auto-scroll from the pointer
// position. No mutation happens while dragging.
func (e *Engine) Move(x, y int) Target {
	if e.state != StateDragging {
		return Target{}
	}
	e.hover = Target{}
	if z := e.zoneAt(x, y); z != nil {
		e.hover = z.Target
	}
	e.updateAutoScroll(x, y)
	return e.hover
}

// Drop resolves the drag at the release position. A release outside every
// zone cancels; otherwise the zone's target is translated into exactly one
// mutation. Whatever branch is taken, the drag slot is cleared and
// auto-scroll stops before Drop returns. Calling Drop with no active drag
// is a broken invariant and fails loud.
func (e *Engine) Drop(x, y int) (Resolution, error) {
	if e.state != StateDragging {
		panic("drag: Drop called with no active drag payload")
	}
	defer e.finish()

	zone := e.zoneAt(x, y)
	if zone == nil {
		return Resolution{Cancelled: true}, nil
	}
	return e.resolve(zone.Target)
}

// Cancel ends the drag with no mutation. Safe to call in any state, so an
// external reset (reload, host losing pointer capture) always lands on an
// idle engine with an empty slot.
func (e *Engine) Cancel() {
	e.finish()
}

func (e *Engine) finish() {
	e.state = StateIdle
	e.payload = record.DragPayload{}
	e.hover = Target{}
	e.stopAutoScroll()
	e.store.ClearDrag()
}

func (e *Engine) zoneAt(x, y int) *Zone {
	for i := range e.zones {
		if e.zones[i].Bounds.Contains(x, y) {
			return &e.zones[i]
		}
	}
	return nil
}

func (e *Engine) resolve(target Target) (Resolution, error) {
	if target.Kind == TargetDateTime {
		target.Key = RoundTime(target.Key, e.slotMins)
	}
	res := Resolution{Target: target}

	switch e.payload.Kind {
	case record.PayloadTask, record.PayloadGroup:
		res.Results = e.store.PatchTasks(e.payload.TaskIDs, e.taskPatch(target))

	case record.PayloadDue:
		res.Results = e.store.PatchTasks(e.payload.TaskIDs, duePatch(target))

	case record.PayloadTaskLength:
		res.Results = e.resolveLength(target)

	case record.PayloadEvent:
		if err := e.resolveEvent(target); err != nil {
			return res, err
		}

	case record.PayloadNew, record.PayloadNewButton:
		if e.creator == nil {
			return res, fmt.Errorf("drag: no task creator configured")
		}
		created, err := e.creator.CreateTask(e.payload.Path, e.payload.Heading, scheduleValue(target))
		if err != nil {
			return res, fmt.Errorf("create task from drop: %w", err)
		}
		res.Created = &created
	}

	return res, nil
}

// taskPatch computes the one shared patch for a task or group payload. The
// whole id set moves as one logical unit: a single delta is derived from
// the anchor (earliest scheduled member) and applied per record, so a
// multi-task block keeps its relative offsets.
func (e *Engine) taskPatch(target Target) store.TaskPatch {
	switch target.Kind {
	case TargetUnscheduled:
		sentinel := store.NoSchedule
		return store.TaskPatch{Scheduled: &sentinel}

	case TargetDue:
		due := record.DatePart(target.Key)
		return store.TaskPatch{Due: &due}

	case TargetDate:
		anchor := e.anchor()
		if anchor == "" {
			key := target.Key
			return store.TaskPatch{Scheduled: &key}
		}
		days := daysBetween(record.DatePart(anchor), target.Key)
		return store.TaskPatch{Shift: &store.Shift{
			Days:     days,
			DateOnly: true,
			Fallback: target.Key,
		}}

	default: // TargetDateTime
		anchor := e.anchor()
		if anchor == "" {
			key := target.Key
			return store.TaskPatch{Scheduled: &key}
		}
		return store.TaskPatch{Shift: &store.Shift{
			Minutes:  minutesBetween(anchor, target.Key),
			Fallback: target.Key,
		}}
	}
}

func duePatch(target Target) store.TaskPatch {
	if target.Kind == TargetUnscheduled {
		sentinel := store.NoSchedule
		return store.TaskPatch{Due: &sentinel}
	}
	due := record.DatePart(target.Key)
	return store.TaskPatch{Due: &due}
}

// resolveLength recomputes only the duration-derived end of a task: the
// drop position minus the task's own start.
func (e *Engine) resolveLength(target Target) []store.PatchResult {
	if target.Kind != TargetDateTime || len(e.payload.TaskIDs) == 0 {
		return nil
	}
	id := e.payload.TaskIDs[0]
	task, ok := e.store.Read(id)
	if !ok || task.Scheduled == "" {
		return []store.PatchResult{{ID: id, Skipped: true}}
	}
	mins := minutesBetween(task.Scheduled, target.Key)
	if mins < e.slotMins {
		mins = e.slotMins
	}
	return e.store.PatchTasks([]string{id}, store.TaskPatch{Duration: &mins})
}

// resolveEvent computes the event's new span (length preserved) and hands
// the reschedule request to the event collaborator.
func (e *Engine) resolveEvent(target Target) error {
	if e.events == nil || e.payload.Event == nil {
		return nil
	}
	ev := *e.payload.Event

	if target.Kind == TargetDate {
		// Dropping onto a date bucket converts the event to all-day.
		return e.events.RescheduleEvent(ev.ID, target.Key, target.Key)
	}
	if target.Kind != TargetDateTime {
		return nil
	}

	length := 60
	if !ev.AllDay() {
		length = minutesBetween(ev.StartISO, ev.EndISO)
	}
	start, err := record.Parse(target.Key)
	if err != nil {
		return fmt.Errorf("resolve event drop: %w", err)
	}
	end := start.Add(time.Duration(length) * time.Minute)
	return e.events.RescheduleEvent(ev.ID, record.FormatDateTime(start), record.FormatDateTime(end))
}

// anchor returns the earliest scheduled value among the payload's tasks
// that still exist in the table.
func (e *Engine) anchor() string {
	anchor := ""
	for _, id := range e.payload.TaskIDs {
		t, ok := e.store.Read(id)
		if !ok || t.Scheduled == "" {
			continue
		}
		n := record.Normalize(t.Scheduled)
		if anchor == "" || n < record.Normalize(anchor) {
			anchor = t.Scheduled
		}
	}
	return anchor
}

// scheduleValue maps a drop target to the schedule string a newly created
// task should carry.
func scheduleValue(target Target) string {
	switch target.Kind {
	case TargetDate, TargetDateTime:
		return target.Key
	default:
		return ""
	}
}

func daysBetween(fromDate, toDate string) int {
	a, errA := record.Parse(record.DatePart(fromDate))
	b, errB := record.Parse(record.DatePart(toDate))
	if errA != nil || errB != nil {
		return 0
	}
	return int(math.Round(b.Sub(a).Hours() / 24))
}

func minutesBetween(from, to string) int {
	a, errA := record.Parse(from)
	b, errB := record.Parse(to)
	if errA != nil || errB != nil {
		return 0
	}
	return int(b.Sub(a) / time.Minute)
}
