// Package store holds the process-wide record store: a reactive keyed table
// of task and event records plus the transient UI state (the single drag
// slot, the selection, collapsed group keys). All reads are against a
// snapshot and every write goes through one mutation gateway, so no partial
// state is ever observable mid-write.
package store

import (
	"sync"

	"github.com/lowitz/planview/internal/record"
)

// TaskWriter is the slice of the host's task store API the record store
// needs for write-through patches.
type TaskWriter interface {
	SaveTask(t record.Task) error
}

// Snapshot is an immutable copy of the full state tree.
type Snapshot struct {
	Tasks     map[string]record.Task
	Events    map[string]record.Event
	Drag      *record.DragPayload
	Collapsed map[string]bool
	Selected  string
}

// Store is the single source of truth. It is safe for use from multiple
// goroutines; the mutation gateway serializes all writes.
type Store struct {
	mu    sync.Mutex
	state Snapshot

	subs    map[int]func(Snapshot)
	nextSub int

	writer    TaskWriter
	chime     func()          // best-effort completion side effect
	collapsed *CollapsedStore // optional write-through persistence
}

// Option configures a Store.
type Option func(*Store)

// WithChime installs the side effect fired when a patch completes a task.
// It is invoked on a separate goroutine; failures are ignored.
func WithChime(fn func()) Option {
	return func(s *Store) { s.chime = fn }
}

// WithCollapsed attaches persisted collapsed-group state. The persisted map
// is loaded immediately; PatchCollapsed writes through.
func WithCollapsed(cs *CollapsedStore) Option {
	return func(s *Store) {
		s.collapsed = cs
		if cs != nil {
			s.state.Collapsed = cs.Load()
		}
	}
}

// New creates an empty store backed by the given task writer.
func New(writer TaskWriter, opts ...Option) *Store {
	s := &Store{
		state: Snapshot{
			Tasks:     make(map[string]record.Task),
			Events:    make(map[string]record.Event),
			Collapsed: make(map[string]bool),
		},
		subs:   make(map[int]func(Snapshot)),
		writer: writer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read returns the task record for id, if present.
func (s *Store) Read(id string) (record.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.state.Tasks[id]
	return t, ok
}

// ReadEvent returns the event record for id, if present.
func (s *Store) ReadEvent(id string) (record.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.state.Events[id]
	return e, ok
}

// Snapshot returns a deep copy of the current state tree.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySnapshot(s.state)
}

// Apply is the mutation gateway. The mutator runs against the live state
// under the store lock; subscribers are notified synchronously with the
// committed snapshot after the patch lands.
func (s *Store) Apply(mut func(*Snapshot)) {
	s.mu.Lock()
	mut(&s.state)
	snap := copySnapshot(s.state)
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// Subscribe registers fn to run after every committed patch. The returned
// function cancels the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// ReplaceTasks swaps in a freshly loaded task table and rebuilds the derived
// child lists. Used on every full reload from the task store API.
func (s *Store) ReplaceTasks(tasks []record.Task) {
	s.Apply(func(st *Snapshot) {
		st.Tasks = make(map[string]record.Task, len(tasks))
		for _, t := range tasks {
			t.Children = nil
			st.Tasks[t.ID] = t
		}
		// Children are derived from ParentID, never trusted from the wire.
		for _, t := range tasks {
			if t.ParentID == "" {
				continue
			}
			if parent, ok := st.Tasks[t.ParentID]; ok {
				parent.Children = append(parent.Children, t.ID)
				st.Tasks[t.ParentID] = parent
			}
		}
	})
}

// ReplaceEvents swaps in a freshly loaded event table.
func (s *Store) ReplaceEvents(events []record.Event) {
	s.Apply(func(st *Snapshot) {
		st.Events = make(map[string]record.Event, len(events))
		for _, e := range events {
			st.Events[e.ID] = e
		}
	})
}

// SetDrag replaces the single drag slot as a whole value. Passing nil
// clears it. The slot never holds two payloads: every write is a total
// replacement.
func (s *Store) SetDrag(p *record.DragPayload) {
	s.Apply(func(st *Snapshot) {
		if p == nil {
			st.Drag = nil
			return
		}
		cp := *p
		st.Drag = &cp
	})
}

// ClearDrag empties the drag slot.
func (s *Store) ClearDrag() { s.SetDrag(nil) }

// Drag returns the current drag payload, or nil when no drag is active.
func (s *Store) Drag() *record.DragPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Drag == nil {
		return nil
	}
	cp := *s.state.Drag
	return &cp
}

// Select records the focused item id (transient UI state).
func (s *Store) Select(id string) {
	s.Apply(func(st *Snapshot) { st.Selected = id })
}

// PatchCollapsed flips the collapsed flag for a group key and writes it
// through to persistence. Stale keys from previous layouts are harmless.
func (s *Store) PatchCollapsed(key string, collapsed bool) {
	s.Apply(func(st *Snapshot) { st.Collapsed[key] = collapsed })
	if s.collapsed != nil {
		s.collapsed.Set(key, collapsed)
	}
}

func copySnapshot(in Snapshot) Snapshot {
	out := Snapshot{
		Tasks:     make(map[string]record.Task, len(in.Tasks)),
		Events:    make(map[string]record.Event, len(in.Events)),
		Collapsed: make(map[string]bool, len(in.Collapsed)),
		Selected:  in.Selected,
	}
	for id, t := range in.Tasks {
		out.Tasks[id] = t
	}
	for id, e := range in.Events {
		out.Events[id] = e
	}
	for k, v := range in.Collapsed {
		out.Collapsed[k] = v
	}
	if in.Drag != nil {
		cp := *in.Drag
		out.Drag = &cp
	}
	return out
}
