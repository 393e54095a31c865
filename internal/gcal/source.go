package gcal

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/lowitz/planview/internal/record"
)

// Source provides calendar events for the timeline overlay.
type Source struct {
	srv        *calendar.Service
	calendarID string
}

// NewSource authenticates against Google Calendar and returns an event
// source for the given calendar id ("primary" for the default calendar).
func NewSource(ctx context.Context, credentialsFile, tokenFile, calendarID string) (*Source, error) {
	client, err := getClient(ctx, credentialsFile, tokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated client for Calendar API: %w", err)
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Google Calendar service: %w", err)
	}

	if calendarID == "" {
		calendarID = "primary"
	}
	return &Source{srv: srv, calendarID: calendarID}, nil
}

// LoadEvents returns the calendar's events overlapping [startISO, endISO),
// recurring events expanded into single instances.
func (s *Source) LoadEvents(startISO, endISO string) ([]record.Event, error) {
	start, err := record.Parse(startISO)
	if err != nil {
		return nil, err
	}
	end, err := record.Parse(endISO)
	if err != nil {
		return nil, err
	}

	call := s.srv.Events.List(s.calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")

	list, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve events from calendar: %w", err)
	}

	events := make([]record.Event, 0, len(list.Items))
	for _, item := range list.Items {
		if item.Status == "cancelled" {
			continue
		}
		events = append(events, eventFromGoogle(item))
	}
	return events, nil
}

// RescheduleEvent moves an event to a new span via a partial update.
// Matching bare-date values produce an all-day event; datetime values keep
// the event timed.
func (s *Source) RescheduleEvent(id, startISO, endISO string) error {
	// Google represents all-day spans with an exclusive end date.
	exclusiveEnd := record.DateOnly(startISO) && startISO == endISO

	patch := &calendar.Event{
		Start: eventDateTime(startISO, false),
		End:   eventDateTime(endISO, exclusiveEnd),
	}
	if _, err := s.srv.Events.Patch(s.calendarID, id, patch).Do(); err != nil {
		return fmt.Errorf("failed to reschedule event %s: %w", id, err)
	}
	return nil
}

func eventDateTime(iso string, shiftDay bool) *calendar.EventDateTime {
	if record.DateOnly(iso) {
		if shiftDay {
			if ts, err := record.Parse(iso); err == nil {
				iso = record.FormatDate(ts.AddDate(0, 0, 1))
			}
		}
		return &calendar.EventDateTime{Date: iso}
	}
	ts, err := record.Parse(iso)
	if err != nil {
		return &calendar.EventDateTime{Date: record.DatePart(iso)}
	}
	return &calendar.EventDateTime{DateTime: ts.Format(time.RFC3339)}
}

// eventFromGoogle converts a calendar API event into the local record
// shape. All-day events collapse to a single bare date with equal start
// and end.
func eventFromGoogle(item *calendar.Event) record.Event {
	ev := record.Event{
		ID:       item.Id,
		Title:    item.Summary,
		Location: item.Location,
		Notes:    item.Description,
	}

	if item.Start != nil && item.Start.Date != "" {
		ev.StartISO = item.Start.Date
		ev.EndISO = item.Start.Date
		return ev
	}

	if item.Start != nil {
		ev.StartISO = localDateTime(item.Start.DateTime)
	}
	if item.End != nil {
		ev.EndISO = localDateTime(item.End.DateTime)
	}
	return ev
}

func localDateTime(rfc3339 string) string {
	ts, err := time.Parse(time.RFC3339, rfc3339)
	if err != nil {
		return ""
	}
	return record.FormatDateTime(ts.In(time.Local))
}
