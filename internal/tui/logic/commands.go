package logic

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lowitz/planview/internal/store"
)

// patchCompleted flips the completed flag for a set of ids through the
// store's mutation gateway.
func (h *Handler) patchCompleted(ids []string, done bool, action string) tea.Cmd {
	return func() tea.Msg {
		results := h.Store.PatchTasks(ids, store.TaskPatch{Completed: &done})
		return patchDoneMsg{action: action, results: results}
	}
}

// quickAdd sends a free-text line to the host and folds the created task
// into the table.
func (h *Handler) quickAdd(text string) tea.Cmd {
	return func() tea.Msg {
		task, err := h.Host.QuickAdd("", "", text)
		if err != nil {
			return errMsg{err}
		}
		return taskCreatedMsg{task: task}
	}
}

// loadEvents reloads the calendar overlay for the visible window.
func (h *Handler) loadEvents() tea.Cmd {
	if h.Events == nil {
		return nil
	}
	start, end := h.DayStart(0), h.WindowEnd()
	return func() tea.Msg {
		events, err := h.Events.LoadEvents(start, end)
		if err != nil {
			return statusMsg{"calendar unavailable: " + err.Error()}
		}
		return eventsLoadedMsg{events: events}
	}
}
