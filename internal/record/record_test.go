package record

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"2024-03-04", "2024-03-04T00:00"},
		{"2024-03-04T09:30", "2024-03-04T09:30"},
		{"2024-03-04T09:30:45", "2024-03-04T09:30"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeOrdersLexically(t *testing.T) {
	// A bare date sorts before any time on the same day.
	if Normalize("2024-03-04") >= Normalize("2024-03-04T09:00") {
		t.Error("date must normalize ahead of same-day times")
	}
	if Normalize("2024-03-04T23:59") >= Normalize("2024-03-05") {
		t.Error("late evening must normalize ahead of next day")
	}
}

func TestDateOnlyAndDatePart(t *testing.T) {
	if !DateOnly("2024-03-04") || DateOnly("2024-03-04T09:00") {
		t.Error("DateOnly misclassifies")
	}
	if DatePart("2024-03-04T09:00") != "2024-03-04" {
		t.Errorf("DatePart = %q", DatePart("2024-03-04T09:00"))
	}
	if DatePart("bad") != "bad" {
		t.Errorf("short values pass through, got %q", DatePart("bad"))
	}
}

func TestParse(t *testing.T) {
	ts, err := Parse("2024-03-04T09:30")
	if err != nil {
		t.Fatal(err)
	}
	if ts.Hour() != 9 || ts.Minute() != 30 || ts.Location() != time.Local {
		t.Errorf("parsed %v", ts)
	}

	day, err := Parse("2024-03-04")
	if err != nil {
		t.Fatal(err)
	}
	if day.Hour() != 0 || FormatDate(day) != "2024-03-04" {
		t.Errorf("bare date parsed to %v", day)
	}

	if _, err := Parse("tomorrow"); err == nil {
		t.Error("expected error for a non-ISO value")
	}
}

func TestEventAllDay(t *testing.T) {
	if !(Event{StartISO: "2024-03-04", EndISO: "2024-03-04"}).AllDay() {
		t.Error("matching bare dates are all-day")
	}
	if (Event{StartISO: "2024-03-04T09:00", EndISO: "2024-03-04T09:00"}).AllDay() {
		t.Error("matching datetimes are not all-day")
	}
}

func TestKindRoundTrip(t *testing.T) {
	for _, k := range []Kind{KindTask, KindParent, KindLink} {
		if KindFromString(k.String()) != k {
			t.Errorf("kind %v does not round-trip through %q", k, k.String())
		}
	}
	if KindFromString("mystery") != KindTask {
		t.Error("unknown kind names degrade to task")
	}
}
