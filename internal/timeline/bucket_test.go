package timeline

import (
	"reflect"
	"testing"

	"github.com/lowitz/planview/internal/record"
)

func taskTable(tasks ...record.Task) map[string]record.Task {
	m := make(map[string]record.Task, len(tasks))
	for _, t := range tasks {
		m[t.ID] = t
	}
	return m
}

func eventTable(events ...record.Event) map[string]record.Event {
	m := make(map[string]record.Event, len(events))
	for _, e := range events {
		m[e.ID] = e
	}
	return m
}

func TestBuildDayClassification(t *testing.T) {
	tasks := taskTable(
		record.Task{ID: "timed", Text: "standup", Scheduled: "2024-03-04T09:00"},
		record.Task{ID: "allday", Text: "errands", Scheduled: "2024-03-04"},
		record.Task{ID: "due", Text: "report", Due: "2024-03-04"},
		record.Task{ID: "done", Text: "old", Scheduled: "2024-03-04T10:00", Completed: true},
		record.Task{ID: "other", Text: "next week", Scheduled: "2024-03-11"},
	)

	view := BuildDay(tasks, nil, "2024-03-04", "2024-03-05", false)

	if len(view.AllDay) != 1 || view.AllDay[0].ID != "allday" {
		t.Errorf("expected all-day [allday], got %v", view.AllDay)
	}
	if len(view.Due) != 1 || view.Due[0].ID != "due" {
		t.Errorf("expected due [due], got %v", view.Due)
	}
	if len(view.Buckets) != 1 || view.Buckets[0].Key != "2024-03-04T09:00" {
		t.Fatalf("expected one bucket at 09:00, got %v", view.Buckets)
	}
	if view.Buckets[0].Tasks[0].ID != "timed" {
		t.Errorf("expected timed task in bucket, got %v", view.Buckets[0].Tasks)
	}
}

func TestBuildDayScheduledWinsOverDue(t *testing.T) {
	tasks := taskTable(
		record.Task{ID: "both", Scheduled: "2024-03-04T14:00", Due: "2024-03-04"},
	)

	view := BuildDay(tasks, nil, "2024-03-04", "2024-03-05", false)

	if len(view.Due) != 0 {
		t.Errorf("scheduled task must not appear in due group, got %v", view.Due)
	}
	if len(view.Buckets) != 1 {
		t.Fatalf("expected one timed bucket, got %d", len(view.Buckets))
	}
}

func TestBuildDayTodayPullsOverdue(t *testing.T) {
	tasks := taskTable(
		record.Task{ID: "late", Scheduled: "2024-02-28"},
	)

	view := BuildDay(tasks, nil, "2024-03-04", "2024-03-05", true)
	if len(view.AllDay) != 1 {
		t.Fatalf("today window should carry overdue scheduled tasks, got %v", view.AllDay)
	}

	view = BuildDay(tasks, nil, "2024-03-04", "2024-03-05", false)
	if len(view.AllDay) != 0 {
		t.Errorf("non-today window must not carry overdue tasks, got %v", view.AllDay)
	}
}

func TestBuildDayAncestorSuppression(t *testing.T) {
	tasks := taskTable(
		record.Task{ID: "parent", Scheduled: "2024-03-04T09:00"},
		record.Task{ID: "child", Scheduled: "2024-03-04", ParentID: "parent"},
	)

	view := BuildDay(tasks, nil, "2024-03-04", "2024-03-05", false)

	if len(view.AllDay) != 0 {
		t.Errorf("child of a timed parent must not render all-day, got %v", view.AllDay)
	}
}

func TestBuildDayBucketOrderAndEvents(t *testing.T) {
	tasks := taskTable(
		record.Task{ID: "b", Scheduled: "2024-03-04T15:00"},
		record.Task{ID: "a", Scheduled: "2024-03-04T09:30"},
	)
	events := eventTable(
		record.Event{ID: "e1", Title: "sync", StartISO: "2024-03-04T09:30", EndISO: "2024-03-04T10:00"},
		record.Event{ID: "e2", Title: "offsite", StartISO: "2024-03-04", EndISO: "2024-03-04"},
	)

	view := BuildDay(tasks, events, "2024-03-04", "2024-03-05", false)

	var keys []string
	for _, b := range view.Buckets {
		keys = append(keys, b.Key)
	}
	want := []string{"2024-03-04T09:30", "2024-03-04T15:00"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("bucket keys = %v, want %v", keys, want)
	}

	if len(view.Buckets[0].Events) != 1 || view.Buckets[0].Events[0].ID != "e1" {
		t.Errorf("timed event should share the 09:30 bucket, got %v", view.Buckets[0].Events)
	}
	if len(view.AllDayEvents) != 1 || view.AllDayEvents[0].ID != "e2" {
		t.Errorf("all-day event misplaced, got %v", view.AllDayEvents)
	}
}

func TestBuildDayIdempotent(t *testing.T) {
	tasks := taskTable(
		record.Task{ID: "t1", Scheduled: "2024-03-04T09:00", Path: "work.md", Position: 2},
		record.Task{ID: "t2", Scheduled: "2024-03-04T09:00", Path: "work.md", Position: 1},
		record.Task{ID: "t3", Scheduled: "2024-03-04"},
		record.Task{ID: "t4", Due: "2024-03-04"},
	)

	first := BuildDay(tasks, nil, "2024-03-04", "2024-03-05", false)
	for i := 0; i < 10; i++ {
		again := BuildDay(tasks, nil, "2024-03-04", "2024-03-05", false)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first projection", i)
		}
	}

	got := first.Buckets[0].Tasks
	if got[0].ID != "t2" || got[1].ID != "t1" {
		t.Errorf("bucket tasks not ordered by position: %v", got)
	}
}
