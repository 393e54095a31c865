// Package ui renders the timeline and owns its geometry: the same layout
// that produces the visible rows also produces the drop zones and the
// press hit-testing, so what the user sees and what the pointer hits can
// never drift apart.
package ui

import (
	"fmt"
	"sort"
	"time"

	"github.com/lowitz/planview/internal/drag"
	"github.com/lowitz/planview/internal/record"
	"github.com/lowitz/planview/internal/timeline"
	"github.com/lowitz/planview/internal/tui/state"
)

// RowKind identifies what a layout row shows.
type RowKind int

const (
	RowDayHeader RowKind = iota
	RowAreaHeader
	RowGroupHeader
	RowDueHeader
	RowSlotHeader
	RowTask
	RowTaskLength
	RowEvent
	RowNewButton
	RowBlank
)

// Row is one renderable line of a column. Payload, when set, is what a
// pointer press on this row picks up.
type Row struct {
	Kind    RowKind
	Text    string
	Indent  int
	Task    *record.Task
	Event   *record.Event
	Payload *record.DragPayload

	// SlotKey is the ISO time of the slot a header row opens.
	SlotKey string

	// CollapseKey is set on group headers that can fold.
	CollapseKey string
	Collapsed   bool
}

// Column is one vertical strip: the unscheduled sidebar or a day.
type Column struct {
	ID    string
	Title string
	Date  string // "" for the sidebar
	Today bool
	X, W  int
	Rows  []Row
}

// Layout is the computed screen: columns of rows plus the drop zones
// derived from them.
type Layout struct {
	Columns []Column
	Zones   []drag.Zone
	Height  int // rows available for column content
}

const sidebarID = "unscheduled"

// Build projects the current snapshot into columns, rows, and drop zones.
func Build(s *state.State) *Layout {
	l := &Layout{Height: contentHeight(s.Height)}

	sidebarW := s.Width / 5
	if sidebarW < 24 {
		sidebarW = 24
	}
	dayW := 20
	if s.NumDays > 0 && s.Width > sidebarW {
		dayW = (s.Width - sidebarW) / s.NumDays
	}

	l.Columns = append(l.Columns, buildSidebar(s, 0, sidebarW))
	for i := 0; i < s.NumDays; i++ {
		x := sidebarW + i*dayW
		l.Columns = append(l.Columns, buildDayColumn(s, i, x, dayW))
	}

	l.buildZones(s)
	return l
}

// contentHeight reserves the status bar line.
func contentHeight(screen int) int {
	h := screen - 1
	if h < 5 {
		h = 5
	}
	return h
}

// RowAt resolves a screen position to its column and row, offset-adjusted.
func (l *Layout) RowAt(s *state.State, x, y int) (colIdx, rowIdx int, row *Row) {
	for ci := range l.Columns {
		col := &l.Columns[ci]
		if x < col.X || x >= col.X+col.W {
			continue
		}
		ri := y + s.Engine.ScrollOffset(col.ID)
		if ri < 0 || ri >= len(col.Rows) {
			return ci, -1, nil
		}
		return ci, ri, &col.Rows[ri]
	}
	return -1, -1, nil
}

// buildSidebar lists every unscheduled, uncompleted task grouped by
// area and heading.
func buildSidebar(s *state.State, x, w int) Column {
	col := Column{ID: sidebarID, Title: "Unscheduled", X: x, W: w}
	col.Rows = append(col.Rows, Row{Kind: RowDayHeader, Text: col.Title})

	var items []record.Task
	for _, id := range sortedIDs(s.Snap.Tasks) {
		t := s.Snap.Tasks[id]
		if !t.Completed && t.Scheduled == "" {
			items = append(items, t)
		}
	}

	groups := timeline.GroupItems(items, s.Snap.Tasks, timeline.BlockRoot, "")
	col.Rows = appendGroupRows(col.Rows, s, groups, "")
	return col
}

// buildDayColumn projects one visible day: due strip, all-day section,
// then the hour grid with timed buckets.
func buildDayColumn(s *state.State, dayIdx, x, w int) Column {
	date := s.DayStart(dayIdx)
	next := record.FormatDate(s.Anchor.AddDate(0, 0, dayIdx+1))
	today := date == record.FormatDate(time.Now())

	col := Column{ID: date, Date: date, Today: today, X: x, W: w}
	day, _ := record.Parse(date)
	col.Title = day.Format("Mon Jan 2")
	col.Rows = append(col.Rows, Row{Kind: RowDayHeader, Text: col.Title})

	view := timeline.BuildDay(s.Snap.Tasks, s.Snap.Events, date, next, today)

	if len(view.Due) > 0 {
		col.Rows = append(col.Rows, Row{Kind: RowDueHeader, Text: "Due"})
		for i := range view.Due {
			t := view.Due[i]
			col.Rows = append(col.Rows, Row{
				Kind: RowTask,
				Text: t.Text,
				Task: &view.Due[i],
				Payload: &record.DragPayload{
					Kind:    record.PayloadDue,
					TaskIDs: []string{t.ID},
					Origin:  date,
				},
			})
		}
	}

	for i := range view.AllDayEvents {
		e := view.AllDayEvents[i]
		col.Rows = append(col.Rows, Row{
			Kind:  RowEvent,
			Text:  e.Title,
			Event: &view.AllDayEvents[i],
			Payload: &record.DragPayload{
				Kind:       record.PayloadEvent,
				Event:      &view.AllDayEvents[i],
				Origin:     date,
				OriginSpan: record.SpanDate,
			},
		})
	}

	groups := timeline.GroupItems(view.AllDay, s.Snap.Tasks, timeline.BlockRoot, date)
	col.Rows = appendGroupRows(col.Rows, s, groups, date)

	col.Rows = appendHourGrid(col.Rows, s, view, date)

	col.Rows = append(col.Rows, Row{
		Kind: RowNewButton,
		Text: "+ new",
		Payload: &record.DragPayload{
			Kind:   record.PayloadNewButton,
			Origin: date,
		},
	})

	return col
}

// appendHourGrid emits one slot header per configured hour and nests the
// timed buckets under the hour they start in.
func appendHourGrid(rows []Row, s *state.State, view timeline.DayView, date string) []Row {
	startHour := s.Config.UI.DayStartHour
	endHour := s.Config.UI.DayEndHour
	if endHour <= startHour {
		startHour, endHour = 0, 24
	}

	bi := 0
	for h := startHour; h < endHour; h++ {
		slotKey := fmt.Sprintf("%sT%02d:00", date, h)
		nextKey := fmt.Sprintf("%sT%02d:00", date, h+1)
		rows = append(rows, Row{Kind: RowSlotHeader, Text: formatHour(s, h), SlotKey: slotKey})

		for bi < len(view.Buckets) && view.Buckets[bi].Key < nextKey {
			b := view.Buckets[bi]
			if b.Key < slotKey {
				bi++
				continue
			}
			rows = appendBucketRows(rows, s, b)
			bi++
		}
	}
	return rows
}

func appendBucketRows(rows []Row, s *state.State, b timeline.Bucket) []Row {
	groups := timeline.GroupItems(b.Tasks, s.Snap.Tasks, timeline.BlockSlot, b.Key)
	rows = appendGroupRows(rows, s, groups, b.Key)

	for i := range b.Events {
		e := b.Events[i]
		rows = append(rows, Row{
			Kind:   RowEvent,
			Text:   e.Title,
			Indent: 1,
			Event:  &b.Events[i],
			Payload: &record.DragPayload{
				Kind:       record.PayloadEvent,
				Event:      &b.Events[i],
				Origin:     b.Key,
				OriginSpan: record.SpanDateTime,
			},
		})
	}
	return rows
}

// appendGroupRows flattens area/heading/entry groups into rows, honoring
// the collapsed set from the snapshot. With headers hidden there is no row
// to expand a heading group from, so its collapsed state is ignored too.
func appendGroupRows(rows []Row, s *state.State, groups []timeline.AreaGroup, origin string) []Row {
	showHeaders := s.Config.UI.ShowHeaders
	for _, area := range groups {
		if area.Area != "" && showHeaders {
			rows = append(rows, Row{Kind: RowAreaHeader, Text: area.Area})
		}
		for _, hg := range area.Headings {
			if hg.Heading != "" && showHeaders {
				key := hg.Path + "#" + hg.Heading
				collapsed := s.Snap.Collapsed[key]
				rows = append(rows, Row{
					Kind:        RowGroupHeader,
					Text:        hg.Heading,
					CollapseKey: key,
					Collapsed:   collapsed,
				})
				if collapsed {
					continue
				}
			}
			for ei := range hg.Entries {
				rows = appendEntryRows(rows, s, &hg.Entries[ei], origin)
			}
		}
	}
	return rows
}

func appendEntryRows(rows []Row, s *state.State, e *timeline.Entry, origin string) []Row {
	ids := []string{e.Task.ID}
	for _, leaf := range e.Children {
		ids = append(ids, leaf.Task.ID)
	}

	kind := record.PayloadTask
	if len(e.Children) > 0 {
		kind = record.PayloadGroup
	}

	head := Row{
		Kind:        RowTask,
		Text:        e.Task.Text,
		Indent:      1,
		Task:        &e.Task,
		CollapseKey: e.Key(),
		Collapsed:   s.Snap.Collapsed[e.Key()],
	}
	if !e.AsLink && e.Kind == timeline.HeadReal {
		head.Payload = &record.DragPayload{Kind: kind, TaskIDs: ids, Origin: origin}
	}
	rows = append(rows, head)

	if head.Collapsed {
		return rows
	}

	for li := range e.Children {
		leaf := &e.Children[li]
		row := Row{
			Kind:   RowTask,
			Text:   leaf.Task.Text,
			Indent: 2,
			Task:   &leaf.Task,
		}
		if !leaf.AsLink {
			row.Payload = &record.DragPayload{
				Kind:    record.PayloadTask,
				TaskIDs: []string{leaf.Task.ID},
				Origin:  origin,
			}
		}
		rows = append(rows, row)
	}

	// A timed head with a duration gets an end handle for resizing.
	if e.Task.Duration > 0 && !record.DateOnly(e.Task.Scheduled) && e.Task.Scheduled != "" {
		if end, err := record.Parse(e.Task.Scheduled); err == nil {
			endAt := end.Add(time.Duration(e.Task.Duration) * time.Minute)
			rows = append(rows, Row{
				Kind:   RowTaskLength,
				Text:   "until " + endAt.Format("15:04"),
				Indent: 2,
				Task:   &e.Task,
				Payload: &record.DragPayload{
					Kind:    record.PayloadTaskLength,
					TaskIDs: []string{e.Task.ID},
					Origin:  origin,
				},
			})
		}
	}

	return rows
}

// buildZones derives the drop zones from the rows. Row-level zones come
// first so they win over the whole-column fallbacks.
func (l *Layout) buildZones(s *state.State) {
	for ci := range l.Columns {
		col := &l.Columns[ci]
		offset := s.Engine.ScrollOffset(col.ID)

		slotKey := ""
		for ri, row := range col.Rows {
			y := ri - offset
			if y < 0 || y >= l.Height {
				continue
			}
			bounds := drag.Rect{X: col.X, Y: y, W: col.W, H: 1}

			switch row.Kind {
			case RowSlotHeader:
				slotKey = row.SlotKey
				l.Zones = append(l.Zones, drag.Zone{
					ID:     fmt.Sprintf("%s/%d", col.ID, ri),
					Bounds: bounds,
					Target: drag.Target{Kind: drag.TargetDateTime, Key: slotKey},
				})
			case RowDueHeader:
				l.Zones = append(l.Zones, drag.Zone{
					ID:     fmt.Sprintf("%s/due", col.ID),
					Bounds: bounds,
					Target: drag.Target{Kind: drag.TargetDue, Key: col.Date},
				})
			case RowTask, RowEvent, RowTaskLength:
				// Rows below a slot header drop into that slot.
				if slotKey != "" {
					l.Zones = append(l.Zones, drag.Zone{
						ID:     fmt.Sprintf("%s/%d", col.ID, ri),
						Bounds: bounds,
						Target: drag.Target{Kind: drag.TargetDateTime, Key: slotKey},
					})
				}
			}
		}
	}

	// Whole-column fallbacks.
	for ci := range l.Columns {
		col := &l.Columns[ci]
		bounds := drag.Rect{X: col.X, Y: 0, W: col.W, H: l.Height}
		if col.Date == "" {
			l.Zones = append(l.Zones, drag.Zone{
				ID:     sidebarID,
				Bounds: bounds,
				Target: drag.Target{Kind: drag.TargetUnscheduled},
			})
			continue
		}
		l.Zones = append(l.Zones, drag.Zone{
			ID:     col.ID,
			Bounds: bounds,
			Target: drag.Target{Kind: drag.TargetDate, Key: col.Date},
		})
	}
}

func formatHour(s *state.State, h int) string {
	if s.Config.UI.TwentyFourHour {
		return fmt.Sprintf("%02d:00", h)
	}
	suffix := "am"
	display := h
	if h >= 12 {
		suffix = "pm"
		if h > 12 {
			display = h - 12
		}
	}
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d%s", display, suffix)
}

func sortedIDs(tasks map[string]record.Task) []string {
	ids := make([]string, 0, len(tasks))
	for id := range tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
