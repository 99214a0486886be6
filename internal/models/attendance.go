package models

import "strings"

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "Present"
	StatusAbsent  AttendanceStatus = "Absent"
	StatusLate    AttendanceStatus = "Late"
	StatusExcused AttendanceStatus = "Excused"
	StatusUnknown AttendanceStatus = "Unknown"
)

// ParseAttendanceStatus maps an LMS status cell to a status. Anything it does
// not recognise becomes StatusUnknown.
func ParseAttendanceStatus(s string) AttendanceStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present", "p":
		return StatusPresent
	case "absent", "a":
		return StatusAbsent
	case "late", "l":
		return StatusLate
	case "excused", "e":
		return StatusExcused
	default:
		return StatusUnknown
	}
}

// AttendanceRecord is one row of a course's LMS attendance table.
type AttendanceRecord struct {
	Date        string           `json:"date"` // free text, e.g. "Thu 1 Jan 2026 11AM - 12PM"
	Description string           `json:"description,omitempty"`
	Status      AttendanceStatus `json:"status"`
	Points      string           `json:"points,omitempty"`
}

// Course is an LMS course together with its scraped attendance rows.
type Course struct {
	ID      string             `json:"course_id"`
	Name    string             `json:"course_name"`
	Records []AttendanceRecord `json:"records" hash:"set"`
}

// AttendanceSummary counts statuses for a course.
type AttendanceSummary struct {
	CourseID string
	Total    int
	Present  int
	Absent   int
	Late     int
	Excused  int
	Unknown  int
}

// Percentage returns the share of sessions attended, counting late as attended.
// Unknown rows are not counted as held sessions.
func (s AttendanceSummary) Percentage() float64 {
	held := s.Total - s.Unknown
	if held <= 0 {
		return 0
	}
	return float64(s.Present+s.Late+s.Excused) / float64(held) * 100
}

// Summarize tallies a course's records by status.
func Summarize(course Course) AttendanceSummary {
	sum := AttendanceSummary{CourseID: course.ID, Total: len(course.Records)}
	for _, r := range course.Records {
		switch r.Status {
		case StatusPresent:
			sum.Present++
		case StatusAbsent:
			sum.Absent++
		case StatusLate:
			sum.Late++
		case StatusExcused:
			sum.Excused++
		default:
			sum.Unknown++
		}
	}
	return sum
}
