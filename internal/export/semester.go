// Package export writes the generated timetable as an iCalendar feed or an
// Excel workbook.
package export

import (
	"errors"
	"fmt"
	"time"

	"github.com/Noelithub77/bunkialo2-sub002/internal/constants"
	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
	"github.com/Noelithub77/bunkialo2-sub002/internal/utils"
)

var ErrNoSemesterStart = errors.New("semester start is not configured")

// Semester bounds the recurrence of exported events. Start and End are
// midnight of the first and last day in Location.
type Semester struct {
	Start    time.Time
	End      time.Time
	Location *time.Location
}

// SemesterFromSettings builds the semester from stored settings. Without an
// explicit end the semester runs SemesterWeeks weeks from the start.
func SemesterFromSettings(s models.Settings) (Semester, error) {
	if s.SemesterStart == "" {
		return Semester{}, ErrNoSemesterStart
	}
	loc, err := utils.LoadLocation(s.Timezone)
	if err != nil {
		return Semester{}, fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
	}
	start, err := time.ParseInLocation(constants.DateFormat, s.SemesterStart, loc)
	if err != nil {
		return Semester{}, fmt.Errorf("invalid semester start %q: %w", s.SemesterStart, err)
	}

	var end time.Time
	if s.SemesterEnd != "" {
		if end, err = time.ParseInLocation(constants.DateFormat, s.SemesterEnd, loc); err != nil {
			return Semester{}, fmt.Errorf("invalid semester end %q: %w", s.SemesterEnd, err)
		}
	} else {
		weeks := s.SemesterWeeks
		if weeks <= 0 {
			weeks = constants.DefaultSemesterWeeks
		}
		end = start.AddDate(0, 0, 7*weeks-1)
	}
	if end.Before(start) {
		return Semester{}, fmt.Errorf("semester end %s is before start %s", end.Format(constants.DateFormat), start.Format(constants.DateFormat))
	}
	return Semester{Start: start, End: end, Location: loc}, nil
}

// FirstOccurrence returns the first date on or after the semester start that
// falls on day (0=Sunday).
func (s Semester) FirstOccurrence(day int) time.Time {
	offset := (day - int(s.Start.Weekday()) + 7) % 7
	return s.Start.AddDate(0, 0, offset)
}

// at returns date at the HH:MM clock time in the semester's location.
func (s Semester) at(date time.Time, clock string) (time.Time, error) {
	minutes, err := utils.ParseTimeToMinutes(clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, s.Location), nil
}
