package timetable

import (
	"testing"
	"time"

	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
)

func TestExtractSlot(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		wantDay   int
		wantStart string
		wantEnd   string
		wantDate  string
	}{
		{"lms format", "Thu 1 Jan 2026 11AM - 12PM", 4, "11:00", "12:00", "2026-01-01"},
		{"weekday name is ignored", "Mon 1 Jan 2026 11AM - 12PM", 4, "11:00", "12:00", "2026-01-01"},
		{"month first with minutes", "Jan 5, 2026 9:30AM to 10:45AM", 1, "09:30", "10:45", "2026-01-05"},
		{"midnight", "Fri 2 Jan 2026 12AM - 1AM", 5, "00:00", "01:00", "2026-01-02"},
		{"noon boundary", "Fri 2 Jan 2026 11:30AM - 12:30PM", 5, "11:30", "12:30", "2026-01-02"},
		{"full month and lowercase meridiem", "Tuesday 13 January 2026 2pm - 3:50pm", 2, "14:00", "15:50", "2026-01-13"},
		{"en dash", "Wed 14 Jan 2026 9AM – 10AM", 3, "09:00", "10:00", "2026-01-14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractSlot("C1", models.AttendanceRecord{Date: tt.date, Description: "  Lecture "})
			if !ok {
				t.Fatalf("Expected %q to parse", tt.date)
			}
			if got.CourseID != "C1" {
				t.Errorf("Expected course C1, got %s", got.CourseID)
			}
			if got.DayOfWeek != tt.wantDay {
				t.Errorf("Expected day %d, got %d", tt.wantDay, got.DayOfWeek)
			}
			if got.StartTime != tt.wantStart || got.EndTime != tt.wantEnd {
				t.Errorf("Expected %s-%s, got %s-%s", tt.wantStart, tt.wantEnd, got.StartTime, got.EndTime)
			}
			if got.Date != tt.wantDate {
				t.Errorf("Expected date %s, got %s", tt.wantDate, got.Date)
			}
			if got.Description != "Lecture" {
				t.Errorf("Expected trimmed description, got %q", got.Description)
			}
		})
	}
}

func TestExtractSlot_Unparseable(t *testing.T) {
	tests := []struct {
		name string
		date string
	}{
		{"empty", ""},
		{"no date", "11AM - 12PM"},
		{"no time", "Thu 1 Jan 2026"},
		{"end before start", "Thu 1 Jan 2026 2PM - 1PM"},
		{"zero length", "Thu 1 Jan 2026 2PM - 2PM"},
		{"impossible date", "31 Feb 2026 10AM - 11AM"},
		{"bad hour", "Thu 1 Jan 2026 10AM - 13PM"},
		{"bad minute", "Thu 1 Jan 2026 10:75AM - 11AM"},
		{"unknown month", "1 Foo 2026 10AM - 11AM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := ExtractSlot("C1", models.AttendanceRecord{Date: tt.date}); ok {
				t.Errorf("Expected %q to be rejected, got %+v", tt.date, got)
			}
		})
	}
}

func TestExtractSlot_RoundTrip(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	ranges := []struct {
		text       string
		start, end string
	}{
		{"8AM - 8:55AM", "08:00", "08:55"},
		{"12PM - 1:50PM", "12:00", "13:50"},
		{"5:15PM - 6PM", "17:15", "18:00"},
		{"12PM - 12:59PM", "12:00", "12:59"},
		{"11PM - 11:59PM", "23:00", "23:59"},
		{"12AM - 12:30AM", "00:00", "00:30"},
	}

	for i := 0; i < 14; i++ {
		day := start.AddDate(0, 0, i)
		for _, r := range ranges {
			rec := models.AttendanceRecord{Date: day.Format("Mon 2 Jan 2006") + " " + r.text}
			got, ok := ExtractSlot("C1", rec)
			if !ok {
				t.Fatalf("Expected %q to parse", rec.Date)
			}
			if got.DayOfWeek != int(day.Weekday()) || got.StartTime != r.start || got.EndTime != r.end {
				t.Errorf("Round trip of %q gave day %d %s-%s", rec.Date, got.DayOfWeek, got.StartTime, got.EndTime)
			}
		}
	}
}

func TestExtractCourse_CountsUnparseable(t *testing.T) {
	course := models.Course{
		ID: "C1",
		Records: []models.AttendanceRecord{
			{Date: "Thu 1 Jan 2026 11AM - 12PM"},
			{Date: "Cancelled"},
			{Date: "Fri 2 Jan 2026 3PM - 2PM"},
			{Date: "Fri 2 Jan 2026 2PM - 3PM"},
		},
	}

	candidates, unparseable := ExtractCourse(course)
	if len(candidates) != 2 {
		t.Errorf("Expected 2 candidates, got %d", len(candidates))
	}
	if unparseable != 2 {
		t.Errorf("Expected 2 unparseable records, got %d", unparseable)
	}
}

func TestInferSessionType(t *testing.T) {
	tests := []struct {
		name        string
		description string
		start, end  int
		want        models.SessionType
	}{
		{"lab keyword", "Physics Lab", 600, 655, models.SessionLab},
		{"lab keyword wins over tutorial", "lab tutorial", 600, 655, models.SessionLab},
		{"tutorial keyword", "Tutorial 3", 600, 655, models.SessionTutorial},
		{"long session", "", 600, 710, models.SessionLab},
		{"just under lab length", "", 600, 709, models.SessionRegular},
		{"lab inside another word", "Collaborative lecture", 600, 655, models.SessionRegular},
		{"tutorial keyword on long session", "Tutorial", 600, 720, models.SessionTutorial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferSessionType(tt.description, tt.start, tt.end, 110); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}
