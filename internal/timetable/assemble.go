package timetable

import (
	"sort"

	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
)

// Assemble builds the final timetable from manual slots, custom course slots
// and the accepted inferred slots. Manual and custom slots are copied as
// declared. courseNames resolves LMS course names for manual slots.
func Assemble(manual []models.ManualSlot, custom []models.CustomCourse, accepted []SlotCandidate, courseNames map[string]string) []models.TimetableSlot {
	slots := make([]models.TimetableSlot, 0, len(manual)+len(accepted))

	for _, m := range manual {
		id := m.ID
		if id == "" {
			id = SlotID("manual:"+m.CourseID, m.DayOfWeek, m.StartTime, m.EndTime)
		}
		name := courseNames[m.CourseID]
		if name == "" {
			name = m.CourseID
		}
		slots = append(slots, models.TimetableSlot{
			ID:          id,
			CourseID:    m.CourseID,
			CourseName:  name,
			DayOfWeek:   m.DayOfWeek,
			StartTime:   m.StartTime,
			EndTime:     m.EndTime,
			SessionType: sessionTypeOrDefault(m.SessionType),
			IsManual:    true,
		})
	}

	for _, cc := range custom {
		for _, s := range cc.Slots {
			id := s.ID
			if id == "" {
				id = SlotID("custom:"+cc.ID, s.DayOfWeek, s.StartTime, s.EndTime)
			}
			slots = append(slots, models.TimetableSlot{
				ID:             id,
				CourseID:       cc.ID,
				CourseName:     cc.Name,
				DayOfWeek:      s.DayOfWeek,
				StartTime:      s.StartTime,
				EndTime:        s.EndTime,
				SessionType:    sessionTypeOrDefault(s.SessionType),
				IsCustomCourse: true,
			})
		}
	}

	for _, a := range accepted {
		name := a.CourseName
		if name == "" {
			name = courseNames[a.CourseID]
		}
		slots = append(slots, models.TimetableSlot{
			ID:          SlotID(a.CourseID, a.DayOfWeek, a.StartTime, a.EndTime),
			CourseID:    a.CourseID,
			CourseName:  name,
			DayOfWeek:   a.DayOfWeek,
			StartTime:   a.StartTime,
			EndTime:     a.EndTime,
			SessionType: sessionTypeOrDefault(a.SessionType),
		})
	}

	SortSlots(slots)
	return slots
}

// SortSlots orders a timetable by day, start, end, course and ID.
func SortSlots(slots []models.TimetableSlot) {
	sort.Slice(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		if a.EndTime != b.EndTime {
			return a.EndTime < b.EndTime
		}
		if a.CourseID != b.CourseID {
			return a.CourseID < b.CourseID
		}
		return a.ID < b.ID
	})
}

func sessionTypeOrDefault(st models.SessionType) models.SessionType {
	if st == "" {
		return models.SessionRegular
	}
	return st
}
