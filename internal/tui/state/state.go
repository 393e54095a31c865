package state

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/lowitz/planview/internal/config"
	"github.com/lowitz/planview/internal/drag"
	"github.com/lowitz/planview/internal/host"
	"github.com/lowitz/planview/internal/record"
	"github.com/lowitz/planview/internal/store"
)

// EventSource loads calendar events for the visible window.
type EventSource interface {
	LoadEvents(startISO, endISO string) ([]record.Event, error)
}

// LastAction represents an undoable action.
type LastAction struct {
	Type    string // "complete"
	TaskIDs []string
}

// State holds the application state.
// All fields are exported to allow access from logic and ui packages.
type State struct {
	// Dependencies
	Store  *store.Store
	Host   *host.Client
	Events EventSource
	Engine *drag.Engine
	Config *config.Config

	// Snapshot of the record store, refreshed on every table change.
	Snap        store.Snapshot
	DataVersion int

	// Timeline window
	Anchor  time.Time // first visible day, midnight local
	NumDays int

	// Cursor
	DayCursor int // visible day column the cursor is on
	RowCursor int
	Selected  string // task id under the cursor

	// UI state
	Loading   bool
	Err       error
	StatusMsg string
	Width     int
	Height    int
	HostReady bool

	// Components
	Spinner spinner.Model

	// Quick add
	QuickAddInput textinput.Model
	IsQuickAdding bool

	// Undo
	LastAction *LastAction

	// Due notifications already sent this session.
	NotifiedTasks map[string]bool
}

// DayStart returns the ISO date of the i-th visible day column.
func (s *State) DayStart(i int) string {
	return record.FormatDate(s.Anchor.AddDate(0, 0, i))
}

// WindowEnd returns the exclusive ISO end of the visible window.
func (s *State) WindowEnd() string {
	return record.FormatDate(s.Anchor.AddDate(0, 0, s.NumDays))
}
