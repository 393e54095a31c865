package ui

import (
	"testing"
	"time"

	"github.com/lowitz/planview/internal/config"
	"github.com/lowitz/planview/internal/drag"
	"github.com/lowitz/planview/internal/record"
	"github.com/lowitz/planview/internal/store"
	"github.com/lowitz/planview/internal/tui/state"
)

func newTestState(tasks ...record.Task) *state.State {
	st := store.New(nil)
	st.ReplaceTasks(tasks)
	cfg := config.DefaultConfig()
	return &state.State{
		Store:   st,
		Engine:  drag.New(st),
		Config:  cfg,
		Snap:    st.Snapshot(),
		Anchor:  time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local),
		NumDays: 3,
		Width:   120,
		Height:  40,
	}
}

func TestBuildColumns(t *testing.T) {
	s := newTestState(
		record.Task{ID: "u1", Text: "Sort inbox", Path: "home.md"},
		record.Task{ID: "t1", Text: "Standup", Path: "work.md", Scheduled: "2024-03-04T09:00"},
	)

	l := Build(s)

	if len(l.Columns) != 4 {
		t.Fatalf("expected sidebar + 3 days, got %d columns", len(l.Columns))
	}
	if l.Columns[0].Date != "" {
		t.Errorf("first column must be the sidebar")
	}
	wantDates := []string{"2024-03-04", "2024-03-05", "2024-03-06"}
	for i, want := range wantDates {
		if l.Columns[i+1].Date != want {
			t.Errorf("column %d date = %q, want %q", i+1, l.Columns[i+1].Date, want)
		}
	}

	// Columns tile the width left to right with no gaps.
	for i := 1; i < len(l.Columns); i++ {
		prev, cur := l.Columns[i-1], l.Columns[i]
		if cur.X != prev.X+prev.W {
			t.Errorf("column %d starts at %d, want %d", i, cur.X, prev.X+prev.W)
		}
	}
}

func TestSidebarListsUnscheduledOnly(t *testing.T) {
	s := newTestState(
		record.Task{ID: "u1", Text: "Sort inbox", Path: "home.md"},
		record.Task{ID: "t1", Text: "Standup", Path: "work.md", Scheduled: "2024-03-04T09:00"},
		record.Task{ID: "d1", Text: "Old chore", Path: "home.md", Completed: true},
	)

	l := Build(s)

	var texts []string
	for _, row := range l.Columns[0].Rows {
		if row.Kind == RowTask {
			texts = append(texts, row.Text)
		}
	}
	if len(texts) != 1 || texts[0] != "Sort inbox" {
		t.Errorf("sidebar tasks = %v, want only the unscheduled one", texts)
	}
}

func TestTimedTaskLandsUnderItsHour(t *testing.T) {
	s := newTestState(
		record.Task{ID: "t1", Text: "Standup", Path: "work.md", Scheduled: "2024-03-04T09:30"},
	)

	l := Build(s)
	day := l.Columns[1]

	slot := ""
	found := ""
	for _, row := range day.Rows {
		if row.Kind == RowSlotHeader {
			slot = row.SlotKey
		}
		if row.Kind == RowTask && row.Text == "Standup" {
			found = slot
		}
	}
	if found != "2024-03-04T09:00" {
		t.Errorf("task filed under slot %q, want 2024-03-04T09:00", found)
	}
}

func TestRowPayloads(t *testing.T) {
	s := newTestState(
		record.Task{ID: "p", Text: "Trip", Path: "home.md", Scheduled: "2024-03-04T09:00"},
		record.Task{ID: "c1", Text: "Book flights", Path: "home.md", ParentID: "p", Scheduled: "2024-03-04T09:00"},
		record.Task{ID: "d1", Text: "Taxes", Path: "home.md", Due: "2024-03-04"},
	)

	l := Build(s)
	day := l.Columns[1]

	var group, due *record.DragPayload
	for _, row := range day.Rows {
		if row.Payload == nil {
			continue
		}
		switch {
		case row.Payload.Kind == record.PayloadGroup:
			group = row.Payload
		case row.Payload.Kind == record.PayloadDue:
			due = row.Payload
		}
	}
	if group == nil || len(group.TaskIDs) != 2 {
		t.Errorf("head with children must carry a group payload, got %+v", group)
	}
	if due == nil || due.TaskIDs[0] != "d1" {
		t.Errorf("due strip row must carry a due payload, got %+v", due)
	}
}

func TestCollapsedGroupHidesChildren(t *testing.T) {
	s := newTestState(
		record.Task{ID: "p", Text: "Trip", Path: "home.md", Scheduled: "2024-03-04T09:00"},
		record.Task{ID: "c1", Text: "Book flights", Path: "home.md", ParentID: "p", Scheduled: "2024-03-04T09:00"},
	)
	s.Snap.Collapsed = map[string]bool{"home.md#p": true}

	l := Build(s)

	for _, row := range l.Columns[1].Rows {
		if row.Kind == RowTask && row.Text == "Book flights" {
			t.Error("collapsed head must hide its children")
		}
	}
}

func TestHeadersHiddenWhenDisabled(t *testing.T) {
	s := newTestState(
		record.Task{ID: "t1", Text: "Standup", Path: "work.md", Area: "Work", Heading: "Meetings", Scheduled: "2024-03-04T09:00"},
		record.Task{ID: "u1", Text: "Sort inbox", Path: "home.md", Area: "Home"},
	)
	s.Config.UI.ShowHeaders = false

	l := Build(s)

	tasks := 0
	for _, col := range l.Columns {
		for _, row := range col.Rows {
			switch row.Kind {
			case RowAreaHeader, RowGroupHeader:
				t.Errorf("header row %q rendered with headers disabled", row.Text)
			case RowTask:
				tasks++
			}
		}
	}
	if tasks != 2 {
		t.Errorf("got %d task rows, want 2", tasks)
	}
}

func TestZoneOrderRowBeforeFallback(t *testing.T) {
	s := newTestState(
		record.Task{ID: "t1", Text: "Standup", Path: "work.md", Scheduled: "2024-03-04T09:00"},
	)

	l := Build(s)

	sawRowZone := false
	for _, z := range l.Zones {
		switch z.Target.Kind {
		case drag.TargetDateTime, drag.TargetDue:
			if !sawRowZone {
				sawRowZone = true
			}
		case drag.TargetDate, drag.TargetUnscheduled:
			if !sawRowZone {
				t.Fatal("column fallback registered before any row zone")
			}
		}
	}
	if !sawRowZone {
		t.Fatal("expected at least one row-level zone")
	}
}

func TestZonesCoverEveryColumn(t *testing.T) {
	s := newTestState()
	l := Build(s)

	kinds := map[string]drag.TargetKind{}
	for _, z := range l.Zones {
		kinds[z.ID] = z.Target.Kind
	}
	if kinds[sidebarID] != drag.TargetUnscheduled {
		t.Errorf("sidebar fallback missing")
	}
	for _, date := range []string{"2024-03-04", "2024-03-05", "2024-03-06"} {
		if kinds[date] != drag.TargetDate {
			t.Errorf("day fallback missing for %s", date)
		}
	}
}

func TestRowAt(t *testing.T) {
	s := newTestState(
		record.Task{ID: "t1", Text: "Standup", Path: "work.md", Scheduled: "2024-03-04T09:00"},
	)
	l := Build(s)
	day := l.Columns[1]

	_, ri, row := l.RowAt(s, day.X+1, 0)
	if row == nil || ri != 0 || row.Kind != RowDayHeader {
		t.Fatalf("top of a column must be its header, got %v / %+v", ri, row)
	}

	if _, ri, row := l.RowAt(s, day.X+1, len(day.Rows)+10); row != nil || ri != -1 {
		t.Errorf("position past the last row must miss")
	}

	if ci, _, _ := l.RowAt(s, s.Width+5, 0); ci != -1 {
		t.Errorf("position past the last column must miss")
	}
}

func TestRowAtHonorsScrollOffset(t *testing.T) {
	s := newTestState(
		record.Task{ID: "t1", Text: "Standup", Path: "work.md", Scheduled: "2024-03-04T09:00"},
	)
	l := Build(s)
	day := l.Columns[1]

	s.Engine.AddScroller(&drag.Scroller{ID: day.ID, Axis: drag.AxisVertical, Offset: 2, Max: 10})

	_, ri, row := l.RowAt(s, day.X+1, 0)
	if row == nil || ri != 2 {
		t.Errorf("scrolled column must resolve to the offset row, got %d", ri)
	}
}
