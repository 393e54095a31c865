package logic

import (
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/lowitz/planview/internal/record"
)

// Debug logger
var debugLog *log.Logger

func init() {
	f, err := os.OpenFile("debug.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err == nil {
		debugLog = log.New(f, "NOTIF: ", log.Ltime|log.Lshortfile)
	}
}

func clockTickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

// handleClockTick re-buckets the visible window (so items slide as the
// clock advances) and fires desktop notifications for items that just came
// due.
func (h *Handler) handleClockTick(t time.Time) tea.Cmd {
	var cmds []tea.Cmd

	// Always schedule the next tick
	cmds = append(cmds, clockTickCmd())

	h.rebuildLayout()

	if h.Config.UI.Mute {
		return tea.Batch(cmds...)
	}

	if debugLog != nil {
		debugLog.Printf("Checking notifications at %v. Task count: %d", t, len(h.Snap.Tasks))
	}

	for id, task := range h.Snap.Tasks {
		if h.NotifiedTasks[id] || task.Completed || task.Scheduled == "" {
			continue
		}
		if record.DateOnly(task.Scheduled) {
			continue
		}

		dueTime, err := record.Parse(task.Scheduled)
		if err != nil {
			if debugLog != nil {
				debugLog.Printf("Unparseable schedule %q for task %s: %v", task.Scheduled, id, err)
			}
			continue
		}

		if t.Before(dueTime) {
			continue
		}

		// Avoid a notification storm on startup for items long past due.
		if t.Sub(dueTime) > 5*time.Minute {
			h.NotifiedTasks[id] = true
			continue
		}

		if debugLog != nil {
			debugLog.Printf("Notifying for task '%s'", task.Text)
		}
		h.NotifiedTasks[id] = true

		text := task.Text
		title := task.Area
		if title == "" {
			title = "planview"
		}
		cmds = append(cmds, func() tea.Msg {
			err := beeep.Notify(title, "Now: "+text, "")
			if err != nil && debugLog != nil {
				debugLog.Printf("Failed to send notification: %v", err)
			}
			return nil
		})
	}

	return tea.Batch(cmds...)
}
