package timetable

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Noelithub77/bunkialo2-sub002/internal/constants"
	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
	"github.com/Noelithub77/bunkialo2-sub002/internal/utils"
)

// ExtractedSlotCandidate is a single attendance record reduced to the weekly
// slot it was held in.
type ExtractedSlotCandidate struct {
	CourseID    string
	DayOfWeek   int    // 0=Sunday, derived from Date
	StartTime   string // HH:MM format
	EndTime     string // HH:MM format
	Date        string // YYYY-MM-DD format
	Description string
}

var (
	// "Thu 1 Jan 2026", "1st January, 2026"
	dayFirstDateRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+([a-z]{3,9})\.?,?\s+(\d{4})\b`)
	// "Jan 1, 2026", "January 01 2026"
	monthFirstDateRe = regexp.MustCompile(`(?i)\b([a-z]{3,9})\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
	// "11AM - 12PM", "9:30 a.m. to 10:45 p.m."
	timeRangeRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*([ap])\.?m\.?\s*(?:-|–|—|to)\s*(\d{1,2})(?::(\d{2}))?\s*([ap])\.?m\.?`)

	labKeywordRe      = regexp.MustCompile(`(?i)\blab`)
	tutorialKeywordRe = regexp.MustCompile(`(?i)\btutorial`)
)

var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// ParseSessionDate finds the calendar date inside an LMS date string. Any
// weekday word in the string is ignored; the weekday always comes from the date.
func ParseSessionDate(s string) (time.Time, bool) {
	for _, m := range dayFirstDateRe.FindAllStringSubmatch(s, -1) {
		if t, ok := buildDate(m[3], m[2], m[1]); ok {
			return t, true
		}
	}
	for _, m := range monthFirstDateRe.FindAllStringSubmatch(s, -1) {
		if t, ok := buildDate(m[3], m[1], m[2]); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func buildDate(yearStr, monthStr, dayStr string) (time.Time, bool) {
	month, ok := monthNames[strings.ToLower(monthStr)]
	if !ok {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalises 30 Feb into March
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

// ParseTimeRange finds a 12-hour time range and returns both bounds as minutes
// from midnight. The end must be after the start.
func ParseTimeRange(s string) (start, end int, ok bool) {
	m := timeRangeRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	start, ok = clockMinutes(m[1], m[2], m[3])
	if !ok {
		return 0, 0, false
	}
	end, ok = clockMinutes(m[4], m[5], m[6])
	if !ok || end <= start {
		return 0, 0, false
	}
	return start, end, true
}

// clockMinutes converts a 12-hour clock reading. 12AM is midnight and 12PM is noon.
func clockMinutes(hourStr, minuteStr, meridiem string) (int, bool) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 1 || hour > 12 {
		return 0, false
	}
	minute := 0
	if minuteStr != "" {
		minute, err = strconv.Atoi(minuteStr)
		if err != nil || minute > 59 {
			return 0, false
		}
	}
	hour %= 12
	if strings.EqualFold(meridiem, "p") {
		hour += 12
	}
	return hour*60 + minute, true
}

// ExtractSlot turns one attendance record into a slot candidate. It reports
// false when the record has no usable date or time range.
func ExtractSlot(courseID string, rec models.AttendanceRecord) (ExtractedSlotCandidate, bool) {
	date, ok := ParseSessionDate(rec.Date)
	if !ok {
		return ExtractedSlotCandidate{}, false
	}
	start, end, ok := ParseTimeRange(rec.Date)
	if !ok {
		return ExtractedSlotCandidate{}, false
	}
	return ExtractedSlotCandidate{
		CourseID:    courseID,
		DayOfWeek:   int(date.Weekday()),
		StartTime:   utils.FormatMinutes(start),
		EndTime:     utils.FormatMinutes(end),
		Date:        date.Format(constants.DateFormat),
		Description: strings.TrimSpace(rec.Description),
	}, true
}

// ExtractCourse extracts candidates from every record of a course. Records
// that cannot be parsed are skipped and counted.
func ExtractCourse(course models.Course) (candidates []ExtractedSlotCandidate, unparseable int) {
	for _, rec := range course.Records {
		c, ok := ExtractSlot(course.ID, rec)
		if !ok {
			unparseable++
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, unparseable
}

// InferSessionType classifies a session. Keywords in the description win over
// the duration heuristic.
func InferSessionType(description string, startMin, endMin, labMinMinutes int) models.SessionType {
	switch {
	case labKeywordRe.MatchString(description):
		return models.SessionLab
	case tutorialKeywordRe.MatchString(description):
		return models.SessionTutorial
	case endMin-startMin >= labMinMinutes:
		return models.SessionLab
	default:
		return models.SessionRegular
	}
}
