package timetable

import (
	"time"

	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
)

// termStart is the Monday of ISO week 2026-W02.
var termStart = time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

// session formats an LMS attendance row held on day of the given term week.
func session(week int, day time.Weekday, timeRange string) models.AttendanceRecord {
	d := termStart.AddDate(0, 0, 7*week+int(day)-int(time.Monday))
	return models.AttendanceRecord{
		Date:   d.Format("Mon 2 Jan 2006") + " " + timeRange,
		Status: models.StatusPresent,
	}
}

func weeks(from, to int, day time.Weekday, timeRange string) []models.AttendanceRecord {
	var out []models.AttendanceRecord
	for w := from; w <= to; w++ {
		out = append(out, session(w, day, timeRange))
	}
	return out
}

func lmsCourse(id string, records ...[]models.AttendanceRecord) models.Course {
	c := models.Course{ID: id, Name: "Course " + id}
	for _, r := range records {
		c.Records = append(c.Records, r...)
	}
	return c
}

func extractAll(c models.Course) []ExtractedSlotCandidate {
	out, _ := ExtractCourse(c)
	return out
}

func findCandidate(cs []SlotCandidate, courseID string, day int, start, end string) (SlotCandidate, bool) {
	for _, c := range cs {
		if c.CourseID == courseID && c.DayOfWeek == day && c.StartTime == start && c.EndTime == end {
			return c, true
		}
	}
	return SlotCandidate{}, false
}

func findSlot(slots []models.TimetableSlot, courseID string, day int, start, end string) (models.TimetableSlot, bool) {
	for _, s := range slots {
		if s.CourseID == courseID && s.DayOfWeek == day && s.StartTime == start && s.EndTime == end {
			return s, true
		}
	}
	return models.TimetableSlot{}, false
}

func conflictTypes(cs []SlotConflict) []ConflictType {
	out := make([]ConflictType, len(cs))
	for i, c := range cs {
		out[i] = c.Type
	}
	return out
}
