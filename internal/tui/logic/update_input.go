package logic

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lowitz/planview/internal/drag"
	"github.com/lowitz/planview/internal/store"
	"github.com/lowitz/planview/internal/tui/state"
	"github.com/lowitz/planview/internal/tui/ui"
)

func (h *Handler) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if h.IsQuickAdding {
		return h.handleQuickAddKey(msg)
	}

	key := msg.String()
	if h.Config.UI.VimMode {
		// hjkl are aliases for the arrows, nothing more.
		switch key {
		case "h":
			key = "left"
		case "l":
			key = "right"
		case "j":
			key = "down"
		case "k":
			key = "up"
		}
	}

	switch key {
	case "ctrl+c", "q":
		return tea.Quit

	case "esc":
		if h.Engine.State() == drag.StateDragging {
			h.Engine.Cancel()
			h.StatusMsg = "drag cancelled"
			h.rebuildLayout()
		}
		return nil

	case "left":
		return h.shiftWindow(-1)

	case "right":
		return h.shiftWindow(1)

	case "tab":
		h.DayCursor = (h.DayCursor + 1) % (h.NumDays + 1)
		h.RowCursor = 0
		h.syncSelection()
		return nil

	case "down":
		h.moveRowCursor(1)
		return nil

	case "up":
		h.moveRowCursor(-1)
		return nil

	case "z":
		return h.toggleCollapse()

	case "x":
		return h.completeSelected()

	case "u":
		return h.undoLast()

	case "y":
		return h.copySelected()

	case "a":
		h.IsQuickAdding = true
		h.QuickAddInput = textinput.New()
		h.QuickAddInput.Placeholder = "task text, e.g. call bank tomorrow"
		h.QuickAddInput.Focus()
		h.QuickAddInput.Width = 50
		h.rebuildLayout()
		return textinput.Blink

	case "r":
		return h.refresh()
	}

	return nil
}

func (h *Handler) handleQuickAddKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		h.IsQuickAdding = false
		h.rebuildLayout()
		return nil
	case "enter":
		text := h.QuickAddInput.Value()
		h.IsQuickAdding = false
		h.rebuildLayout()
		if text == "" {
			return nil
		}
		h.Loading = true
		return h.quickAdd(text)
	}

	var cmd tea.Cmd
	h.QuickAddInput, cmd = h.QuickAddInput.Update(msg)
	return cmd
}

func (h *Handler) handleMouseMsg(msg tea.MouseMsg) tea.Cmd {
	if msg.Type == tea.MouseWheelUp || msg.Type == tea.MouseWheelDown {
		return h.handleMouseScroll(msg)
	}
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionMotion {
		return nil
	}
	if h.Layout == nil {
		return nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		return h.handlePress(msg.X, msg.Y)
	case tea.MouseActionMotion:
		if h.Engine.State() == drag.StateDragging {
			h.Engine.Move(msg.X, msg.Y)
			return dragTickCmd()
		}
		return nil
	case tea.MouseActionRelease:
		return h.handleRelease(msg.X, msg.Y)
	}
	return nil
}

func (h *Handler) handlePress(x, y int) tea.Cmd {
	_, _, row := h.Layout.RowAt(h.State, x, y)
	if row == nil {
		return nil
	}

	if row.Task != nil {
		h.Selected = row.Task.ID
		h.Store.Select(row.Task.ID)
	}

	if row.Payload == nil {
		if row.CollapseKey != "" {
			return h.toggleCollapseKey(row.CollapseKey, !row.Collapsed)
		}
		return nil
	}

	// External-reset contract: a press while a drag is somehow still
	// active ends the old gesture before the new one begins.
	if h.Engine.State() == drag.StateDragging {
		h.Engine.Cancel()
	}
	h.Engine.Start(*row.Payload)
	return dragTickCmd()
}

func (h *Handler) handleRelease(x, y int) tea.Cmd {
	if h.Engine.State() != drag.StateDragging {
		return nil
	}

	res, err := h.Engine.Drop(x, y)
	h.rebuildLayout()
	if err != nil {
		h.Err = err
		return h.refresh()
	}
	if res.Cancelled {
		h.StatusMsg = "drop cancelled"
		return nil
	}
	if res.Created != nil {
		h.StatusMsg = "Task added: " + res.Created.Text
		return nil
	}
	if res.Target.Kind == drag.TargetNone {
		return nil
	}
	if store.Failed(res.Results) {
		h.StatusMsg = "move failed for some tasks"
		return h.refresh()
	}
	h.StatusMsg = "moved"
	if h.Events != nil && res.Results == nil && res.Created == nil {
		// Only event payloads resolve without patch results; round-trip
		// through the calendar so the overlay shows the server's view.
		return h.loadEvents()
	}
	return nil
}

func (h *Handler) handleMouseScroll(msg tea.MouseMsg) tea.Cmd {
	if h.Layout == nil {
		return nil
	}
	for ci := range h.Layout.Columns {
		col := &h.Layout.Columns[ci]
		if msg.X < col.X || msg.X >= col.X+col.W {
			continue
		}
		delta := 3
		if msg.Type == tea.MouseWheelUp {
			delta = -3
		}
		h.scrollColumn(col, delta)
		break
	}
	h.rebuildLayout()
	return nil
}

func (h *Handler) scrollColumn(col *ui.Column, delta int) {
	sc := h.scroller(col)
	sc.Offset += delta
	if sc.Offset < 0 {
		sc.Offset = 0
	}
	if sc.Offset > sc.Max {
		sc.Offset = sc.Max
	}
}

// registerScrollers keeps one vertical scroller per column so edge
// auto-scroll works during drags across long columns.
func (h *Handler) registerScrollers() {
	for ci := range h.Layout.Columns {
		col := &h.Layout.Columns[ci]
		sc := h.scroller(col)
		sc.Bounds = drag.Rect{X: col.X, Y: 0, W: col.W, H: h.Layout.Height}
		sc.Max = len(col.Rows) - h.Layout.Height
		if sc.Max < 0 {
			sc.Max = 0
		}
		if sc.Offset > sc.Max {
			sc.Offset = sc.Max
		}
	}
}

func (h *Handler) scroller(col *ui.Column) *drag.Scroller {
	if sc := h.Engine.Scroller(col.ID); sc != nil {
		return sc
	}
	sc := &drag.Scroller{ID: col.ID, Axis: drag.AxisVertical}
	h.Engine.AddScroller(sc)
	return sc
}

func dragTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return dragTickMsg(t)
	})
}

func (h *Handler) shiftWindow(days int) tea.Cmd {
	h.Anchor = h.Anchor.AddDate(0, 0, days)
	h.rebuildLayout()
	return h.loadEvents()
}

// moveRowCursor walks the current column to the next selectable row.
func (h *Handler) moveRowCursor(delta int) {
	if h.Layout == nil || h.DayCursor >= len(h.Layout.Columns) {
		return
	}
	col := &h.Layout.Columns[h.DayCursor]
	next := h.RowCursor + delta
	for next >= 0 && next < len(col.Rows) {
		if col.Rows[next].Task != nil || col.Rows[next].CollapseKey != "" {
			h.RowCursor = next
			break
		}
		next += delta
	}
	h.syncSelection()
}

func (h *Handler) syncSelection() {
	if h.Layout == nil || h.DayCursor >= len(h.Layout.Columns) {
		return
	}
	col := &h.Layout.Columns[h.DayCursor]
	if h.RowCursor >= len(col.Rows) {
		h.RowCursor = 0
	}
	if h.RowCursor < len(col.Rows) && col.Rows[h.RowCursor].Task != nil {
		h.Selected = col.Rows[h.RowCursor].Task.ID
		h.Store.Select(h.Selected)
	}
}

func (h *Handler) cursorRow() *ui.Row {
	if h.Layout == nil || h.DayCursor >= len(h.Layout.Columns) {
		return nil
	}
	col := &h.Layout.Columns[h.DayCursor]
	if h.RowCursor < 0 || h.RowCursor >= len(col.Rows) {
		return nil
	}
	return &col.Rows[h.RowCursor]
}

func (h *Handler) toggleCollapse() tea.Cmd {
	row := h.cursorRow()
	if row == nil || row.CollapseKey == "" {
		return nil
	}
	return h.toggleCollapseKey(row.CollapseKey, !row.Collapsed)
}

func (h *Handler) toggleCollapseKey(key string, collapsed bool) tea.Cmd {
	h.Store.PatchCollapsed(key, collapsed)
	return nil
}

func (h *Handler) completeSelected() tea.Cmd {
	row := h.cursorRow()
	if row == nil || row.Payload == nil || len(row.Payload.TaskIDs) == 0 {
		return nil
	}
	ids := append([]string(nil), row.Payload.TaskIDs...)
	h.LastAction = &state.LastAction{Type: "complete", TaskIDs: ids}
	h.Loading = true
	return h.patchCompleted(ids, true, "complete")
}

func (h *Handler) undoLast() tea.Cmd {
	if h.LastAction == nil || h.LastAction.Type != "complete" {
		return nil
	}
	ids := h.LastAction.TaskIDs
	h.LastAction = nil
	h.Loading = true
	return h.patchCompleted(ids, false, "undo")
}

func (h *Handler) copySelected() tea.Cmd {
	row := h.cursorRow()
	if row == nil || row.Task == nil {
		return nil
	}
	text := row.Task.Text
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return statusMsg{"copy failed: " + err.Error()}
		}
		return statusMsg{"copied"}
	}
}
