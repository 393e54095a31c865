// Package styles provides Lip Gloss styles for the TUI.
package styles

import "github.com/charmbracelet/lipgloss"

// Terminal-adaptive colors that work in both light and dark terminals.
var (
	// Subtle is a muted color for secondary text
	Subtle = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}

	// Highlight is the accent color for selected items
	Highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}

	ErrorColor   = lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF6666"}
	SuccessColor = lipgloss.AdaptiveColor{Light: "#00AA00", Dark: "#66FF66"}
	WarningColor = lipgloss.AdaptiveColor{Light: "#FFAA00", Dark: "#FFCC66"}
)

// Base styles
var (
	// Title is the style for the day column headers
	// NOTE: No margins - they break row counting for hit-testing
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Highlight)

	// Subtitle is for secondary headings
	Subtitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Subtle)
)

// Timeline styles
var (
	// SlotTime is the gutter time label of a slot row
	SlotTime = lipgloss.NewStyle().
			Foreground(Subtle).
			Faint(true)

	// Task row styles carry no padding: a rendered cell must stay exactly
	// the column width or the line-by-line stitching misaligns.

	// TaskItem is the base style for a task row
	TaskItem = lipgloss.NewStyle()

	// TaskSelected is the style for the row under the cursor
	TaskSelected = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#2A2A2A"})

	// TaskCompleted is the style for completed tasks
	TaskCompleted = lipgloss.NewStyle().
			Faint(true).
			Strikethrough(true)

	// TaskLink is for reference rows that open a note instead of editing
	TaskLink = lipgloss.NewStyle().
			Foreground(Highlight).
			Underline(true)

	// TaskDue is for rows carrying a deadline badge
	TaskDue = lipgloss.NewStyle().
			Foreground(WarningColor)

	// TaskOverdue is for rows whose deadline is already in the past
	TaskOverdue = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// EventItem is for calendar event rows
	EventItem = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#00AAAA", Dark: "#00CCCC"})

	// Dragged is for the item currently being dragged
	Dragged = lipgloss.NewStyle().
			Bold(true).
			Foreground(Highlight).
			Italic(true)

	// DropHover marks the zone the pointer is over mid-drag
	DropHover = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#EEE6FF", Dark: "#3A2A5A"})
)

// Grouping styles
var (
	// AreaHeader is for top-level area headings in the sidebar
	AreaHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(Highlight).
			Underline(true)

	// GroupHeader is for per-file heading groups
	// NOTE: No margins here - they add extra lines that break hit-testing
	GroupHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(Subtle)

	// GroupCollapsed is for collapsed group headers
	GroupCollapsed = lipgloss.NewStyle().
			Bold(true).
			Foreground(Subtle).
			Faint(true)
)

// StatusBar styles
var (
	StatusBar = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}).
			Background(lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#1F1F1F"}).
			Padding(0, 1)

	StatusBarKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(Highlight).
			Background(lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#1F1F1F"})

	StatusBarError = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Background(lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#1F1F1F"}).
			Bold(true)
)

// Input styles
var (
	InputFocused = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Highlight).
			Padding(0, 1)
)

// Spinner style
var (
	Spinner = lipgloss.NewStyle().
		Foreground(Highlight)
)

// Checkbox markers
const (
	CheckboxUnchecked = "[ ]"
	CheckboxChecked   = "[x]"
)
