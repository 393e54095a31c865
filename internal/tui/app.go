// Package tui assembles the terminal scheduling view: the record store,
// drag engine, host client, and calendar source wired into one Bubble Tea
// model.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lowitz/planview/internal/config"
	"github.com/lowitz/planview/internal/drag"
	"github.com/lowitz/planview/internal/host"
	"github.com/lowitz/planview/internal/store"
	"github.com/lowitz/planview/internal/tui/logic"
	"github.com/lowitz/planview/internal/tui/state"
	"github.com/lowitz/planview/internal/tui/styles"
	"github.com/lowitz/planview/internal/tui/ui"
)

// App is the main Bubble Tea model for the application.
type App struct {
	handler *logic.Handler
	state   *state.State
}

// Options carries the collaborators assembled by the command layer.
type Options struct {
	Store   *store.Store
	Host    *host.Client
	Events  state.EventSource
	Engine  *drag.Engine
	Config  *config.Config
	NumDays int
}

// NewApp wires the shared state and the update handler together.
func NewApp(opts Options) *App {
	if opts.NumDays <= 0 {
		opts.NumDays = 3
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	now := time.Now()
	s := &state.State{
		Store:         opts.Store,
		Host:          opts.Host,
		Events:        opts.Events,
		Engine:        opts.Engine,
		Config:        opts.Config,
		Anchor:        time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local),
		NumDays:       opts.NumDays,
		Spinner:       sp,
		NotifiedTasks: make(map[string]bool),
	}
	s.Snap = opts.Store.Snapshot()

	return &App{
		handler: logic.NewHandler(s),
		state:   s,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.handler.Init()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.handler.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if a.handler.Layout == nil {
		return "loading..."
	}
	return ui.View(a.state, a.handler.Layout)
}

// SnapshotMsg converts a store snapshot into the message the update loop
// consumes. The command layer forwards store notifications through
// tea.Program.Send with this.
func SnapshotMsg(snap store.Snapshot) tea.Msg {
	return logic.SnapshotMsg(snap)
}
