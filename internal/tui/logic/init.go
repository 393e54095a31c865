package logic

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lowitz/planview/internal/host"
	"github.com/lowitz/planview/internal/record"
	"github.com/lowitz/planview/internal/store"
)

// Init implements tea.Model.
func (h *Handler) Init() tea.Cmd {
	return tea.Batch(
		h.Spinner.Tick,
		h.pingHost(),
		clockTickCmd(),
	)
}

// pingHost probes the host API. Task data is not loaded until the host
// reports its file index ready; until then the probe retries on a timer.
func (h *Handler) pingHost() tea.Cmd {
	return func() tea.Msg {
		if err := h.Host.Ping(); err != nil {
			return hostNotReadyMsg{err}
		}
		return hostReadyMsg{}
	}
}

func retryPingCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return retryPingMsg{}
	})
}

// loadInitialData loads tasks and events concurrently.
func (h *Handler) loadInitialData() tea.Cmd {
	return func() tea.Msg {
		type taskResult struct {
			data []record.Task
			err  error
		}
		type eventResult struct {
			data []record.Event
			err  error
		}

		taskChan := make(chan taskResult)
		eventChan := make(chan eventResult)

		go func() {
			t, e := h.Host.LoadTasks(host.ScopeFilter{})
			if e == nil {
				if exclude, err := h.Host.ExcludePaths(); err == nil {
					t = filterExcluded(t, exclude)
				}
			}
			taskChan <- taskResult{data: t, err: e}
		}()

		go func() {
			if h.Events == nil {
				eventChan <- eventResult{}
				return
			}
			ev, e := h.Events.LoadEvents(h.DayStart(0), h.WindowEnd())
			eventChan <- eventResult{data: ev, err: e}
		}()

		tRes := <-taskChan
		if tRes.err != nil {
			return errMsg{tRes.err}
		}

		eRes := <-eventChan
		if eRes.err != nil {
			// Events are overlay data; a calendar failure must not block
			// the task timeline.
			return dataLoadedMsg{tasks: tRes.data, eventsErr: eRes.err}
		}

		return dataLoadedMsg{tasks: tRes.data, events: eRes.data}
	}
}

// filterExcluded drops tasks living under any excluded vault path.
func filterExcluded(tasks []record.Task, exclude []string) []record.Task {
	if len(exclude) == 0 {
		return tasks
	}
	out := tasks[:0:0]
	for _, t := range tasks {
		hidden := false
		for _, prefix := range exclude {
			if strings.HasPrefix(t.Path, prefix) {
				hidden = true
				break
			}
		}
		if !hidden {
			out = append(out, t)
		}
	}
	return out
}

// SnapshotMsg wraps a store snapshot for the update loop. The command
// layer forwards store subscription callbacks through tea.Program.Send
// with this, which keeps all state changes on the update goroutine.
func SnapshotMsg(snap store.Snapshot) tea.Msg {
	return snapshotMsg{snap: snap}
}

// Message types
type errMsg struct{ err error }
type statusMsg struct{ msg string }
type hostReadyMsg struct{}
type hostNotReadyMsg struct{ err error }
type retryPingMsg struct{}
type dataLoadedMsg struct {
	tasks     []record.Task
	events    []record.Event
	eventsErr error
}
type eventsLoadedMsg struct{ events []record.Event }
type snapshotMsg struct{ snap store.Snapshot }
type patchDoneMsg struct {
	action  string
	results []store.PatchResult
}
type taskCreatedMsg struct{ task record.Task }
type clockTickMsg time.Time
type dragTickMsg time.Time
