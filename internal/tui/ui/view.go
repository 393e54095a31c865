package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/lowitz/planview/internal/drag"
	"github.com/lowitz/planview/internal/record"
	"github.com/lowitz/planview/internal/tui/state"
	"github.com/lowitz/planview/internal/tui/styles"
)

// View renders the full screen from the shared layout.
func View(s *state.State, l *Layout) string {
	if s.Width == 0 || s.Height == 0 {
		return "loading..."
	}

	var b strings.Builder
	lines := renderColumns(s, l)
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if s.IsQuickAdding {
		b.WriteString(styles.InputFocused.Render("add: "+s.QuickAddInput.View()) + "\n")
	}

	b.WriteString(statusBar(s))
	return b.String()
}

// renderColumns paints each column independently, then stitches them
// line by line so a screen row always maps to the same layout row.
func renderColumns(s *state.State, l *Layout) []string {
	height := l.Height
	if s.IsQuickAdding {
		height -= 3
	}

	lines := make([]string, height)
	hover := s.Engine.Hover()

	for ci := range l.Columns {
		col := &l.Columns[ci]
		offset := s.Engine.ScrollOffset(col.ID)

		for y := 0; y < height; y++ {
			ri := y + offset
			cell := strings.Repeat(" ", col.W)
			if ri >= 0 && ri < len(col.Rows) {
				cell = renderRow(s, col, ri, hover)
			}
			lines[y] += cell
		}
	}
	return lines
}

func renderRow(s *state.State, col *Column, ri int, hover drag.Target) string {
	row := &col.Rows[ri]
	text := row.Text

	var style lipgloss.Style
	switch row.Kind {
	case RowDayHeader:
		style = styles.Title
		if col.Today {
			text = "● " + text
		}
	case RowAreaHeader:
		style = styles.AreaHeader
	case RowGroupHeader:
		style = styles.GroupHeader
		if row.Collapsed {
			style = styles.GroupCollapsed
			text += " …"
		}
	case RowDueHeader:
		style = styles.Subtitle
	case RowSlotHeader:
		style = styles.SlotTime
	case RowEvent:
		style = styles.EventItem
	case RowTaskLength:
		style = styles.SlotTime
	case RowNewButton:
		style = styles.SlotTime
	case RowTask:
		style = taskStyle(s, row)
		text = taskText(row)
	default:
		style = styles.TaskItem
	}

	if row.Payload != nil && dragging(s, row) {
		style = styles.Dragged
	}
	if hoverHits(hover, col, row) {
		style = style.Inherit(styles.DropHover)
	}

	text = strings.Repeat("  ", row.Indent) + text
	text = runewidth.Truncate(text, col.W-1, "…")
	return style.Render(runewidth.FillRight(text, col.W))
}

func taskStyle(s *state.State, row *Row) lipgloss.Style {
	switch {
	case row.Task != nil && row.Task.ID == s.Selected:
		return styles.TaskSelected
	case row.Task != nil && row.Task.Completed:
		return styles.TaskCompleted
	case row.Task != nil && row.Payload == nil:
		// Undraggable rows are reference links back to the note.
		return styles.TaskLink
	case row.Task != nil && overdue(row.Task):
		return styles.TaskOverdue
	case row.Task != nil && row.Task.Due != "":
		return styles.TaskDue
	default:
		return styles.TaskItem
	}
}

// taskText builds the row text as plain runes; styling happens on the whole
// row so the width-based truncation never sees escape sequences.
func taskText(row *Row) string {
	t := row.Task
	if t == nil {
		return row.Text
	}
	box := styles.CheckboxUnchecked
	if t.Completed {
		box = styles.CheckboxChecked
	}
	text := box + " " + t.Text
	if t.Due != "" {
		text += " !" + record.DatePart(t.Due)
	}
	return text
}

func overdue(t *record.Task) bool {
	return t.Due != "" && t.Due < record.FormatDate(time.Now())
}

// dragging reports whether this row's item is the one in the drag slot.
func dragging(s *state.State, row *Row) bool {
	p := s.Snap.Drag
	if p == nil || row.Payload == nil {
		return false
	}
	if p.Kind != row.Payload.Kind {
		return false
	}
	if len(p.TaskIDs) > 0 && len(row.Payload.TaskIDs) > 0 {
		return p.TaskIDs[0] == row.Payload.TaskIDs[0]
	}
	if p.Event != nil && row.Payload.Event != nil {
		return p.Event.ID == row.Payload.Event.ID
	}
	return false
}

// hoverHits reports whether the current drop target corresponds to this
// row, for mid-drag highlighting.
func hoverHits(hover drag.Target, col *Column, row *Row) bool {
	switch hover.Kind {
	case drag.TargetDateTime:
		return row.Kind == RowSlotHeader && row.SlotKey == hover.Key
	case drag.TargetDue:
		return row.Kind == RowDueHeader && col.Date == hover.Key
	default:
		return false
	}
}

func statusBar(s *state.State) string {
	if s.Err != nil {
		return styles.StatusBarError.Render("error: " + s.Err.Error())
	}
	if s.Loading {
		return styles.StatusBar.Render(s.Spinner.View() + " loading…")
	}
	if s.StatusMsg != "" {
		return styles.StatusBar.Render(s.StatusMsg)
	}

	days, move := "←/→", "↑/↓"
	if s.Config.UI.VimMode {
		days, move = "h/l", "j/k"
	}
	hints := [][2]string{
		{days, "days"}, {move, "move"}, {"x", "done"}, {"u", "undo"},
		{"z", "fold"}, {"a", "add"}, {"y", "copy"}, {"r", "reload"}, {"q", "quit"},
	}
	parts := make([]string, 0, len(hints))
	for _, hint := range hints {
		parts = append(parts, styles.StatusBarKey.Render(hint[0])+" "+hint[1])
	}
	return styles.StatusBar.Render(strings.Join(parts, "  "))
}
