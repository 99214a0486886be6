package export

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/Noelithub77/bunkialo2-sub002/internal/constants"
	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
)

var icsWeekdays = [...]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// WriteICS writes one weekly recurring VEVENT per slot, from its first
// occurrence in the semester until the semester's last day. Slots whose
// first occurrence falls after the semester are skipped. The event UID is
// the slot ID.
func WriteICS(w io.Writer, slots []models.TimetableSlot, sem Semester, now time.Time) (int, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//" + constants.AppName + "//timetable " + constants.Version + "//EN")
	cal.SetXWRCalName("Timetable")
	cal.SetXWRTimezone(sem.Location.String())

	// inclusive end of the semester's last day
	until := sem.End.AddDate(0, 0, 1).Add(-time.Second).UTC().Format("20060102T150405Z")

	written := 0
	for _, slot := range slots {
		if slot.DayOfWeek < 0 || slot.DayOfWeek > 6 {
			return written, fmt.Errorf("slot %s has invalid day %d", slot.ID, slot.DayOfWeek)
		}
		date := sem.FirstOccurrence(slot.DayOfWeek)
		if date.After(sem.End) {
			continue
		}
		start, err := sem.at(date, slot.StartTime)
		if err != nil {
			return written, fmt.Errorf("slot %s: %w", slot.ID, err)
		}
		end, err := sem.at(date, slot.EndTime)
		if err != nil {
			return written, fmt.Errorf("slot %s: %w", slot.ID, err)
		}

		event := cal.AddEvent(slot.ID)
		event.SetDtStampTime(now.UTC())
		event.SetStartAt(start.UTC())
		event.SetEndAt(end.UTC())
		event.SetSummary(summary(slot))
		event.SetDescription(fmt.Sprintf("%s (%s slot)", slot.CourseID, slot.Provenance()))
		event.SetProperty(ics.ComponentPropertyCategories, string(slot.SessionType))
		event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s;UNTIL=%s", icsWeekdays[slot.DayOfWeek], until))
		written++
	}

	return written, cal.SerializeTo(w)
}

func summary(slot models.TimetableSlot) string {
	name := slot.CourseName
	if name == "" {
		name = slot.CourseID
	}
	if slot.SessionType != "" && slot.SessionType != models.SessionRegular {
		return fmt.Sprintf("%s (%s)", name, slot.SessionType)
	}
	return name
}
