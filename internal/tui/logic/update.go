// Package logic drives the TUI update loop: it owns the message handling,
// pointer-to-drag translation, and the commands that talk to the host and
// calendar collaborators.
package logic

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lowitz/planview/internal/drag"
	"github.com/lowitz/planview/internal/store"
	"github.com/lowitz/planview/internal/tui/state"
	"github.com/lowitz/planview/internal/tui/ui"
)

type Handler struct {
	*state.State
	Layout *ui.Layout
}

func NewHandler(s *state.State) *Handler {
	return &Handler{State: s}
}

func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return h.handleKeyMsg(msg)

	case tea.MouseMsg:
		return h.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		h.Width = msg.Width
		h.Height = msg.Height
		h.rebuildLayout()
		return nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		h.Spinner, cmd = h.Spinner.Update(msg)
		return cmd

	case hostReadyMsg:
		h.HostReady = true
		h.Loading = true
		h.StatusMsg = ""
		return h.loadInitialData()

	case hostNotReadyMsg:
		h.StatusMsg = "waiting for host…"
		return retryPingCmd()

	case retryPingMsg:
		return h.pingHost()

	case errMsg:
		h.Loading = false
		h.Err = msg.err
		return nil

	case statusMsg:
		h.StatusMsg = msg.msg
		return nil

	case dataLoadedMsg:
		return h.handleDataLoaded(msg)

	case eventsLoadedMsg:
		h.Store.ReplaceEvents(msg.events)
		return nil

	case snapshotMsg:
		h.Snap = msg.snap
		h.DataVersion++
		h.rebuildLayout()
		return nil

	case patchDoneMsg:
		return h.handlePatchDone(msg)

	case taskCreatedMsg:
		h.Loading = false
		h.StatusMsg = "Task added: " + msg.task.Text
		h.Store.Apply(func(snap *store.Snapshot) {
			snap.Tasks[msg.task.ID] = msg.task
		})
		return nil

	case clockTickMsg:
		return h.handleClockTick(time.Time(msg))

	case dragTickMsg:
		h.Engine.Tick()
		h.rebuildLayout()
		if h.Engine.State() != drag.StateDragging {
			return nil
		}
		return dragTickCmd()
	}

	// Forward non-key messages (like blink) to the quick-add input.
	if h.IsQuickAdding {
		var cmd tea.Cmd
		h.QuickAddInput, cmd = h.QuickAddInput.Update(msg)
		return cmd
	}

	return nil
}

func (h *Handler) handleDataLoaded(msg dataLoadedMsg) tea.Cmd {
	h.Loading = false
	h.Err = nil

	h.Store.ReplaceTasks(msg.tasks)
	if msg.events != nil {
		h.Store.ReplaceEvents(msg.events)
	}
	if msg.eventsErr != nil {
		h.StatusMsg = "calendar unavailable: " + msg.eventsErr.Error()
	}
	return nil
}

func (h *Handler) handlePatchDone(msg patchDoneMsg) tea.Cmd {
	h.Loading = false

	failed := 0
	for _, r := range msg.results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		h.StatusMsg = msg.action + " failed for some tasks"
		// Reload so the table reflects what the host actually holds.
		return h.refresh()
	}
	h.StatusMsg = msg.action + " done"
	return nil
}

// rebuildLayout recomputes the shared layout and re-registers the drop
// zones and scroll ranges with the drag engine.
func (h *Handler) rebuildLayout() {
	if h.Width == 0 {
		return
	}
	h.Layout = ui.Build(h.State)
	h.Engine.SetZones(h.Layout.Zones)
	h.registerScrollers()
}

func (h *Handler) refresh() tea.Cmd {
	h.Loading = true
	return h.loadInitialData()
}
