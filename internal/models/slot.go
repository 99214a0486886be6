package models

import (
	"strings"
	"time"
)

type SessionType string

const (
	SessionRegular  SessionType = "regular"
	SessionLab      SessionType = "lab"
	SessionTutorial SessionType = "tutorial"
)

// ParseSessionType returns the session type for s, defaulting to regular.
func ParseSessionType(s string) SessionType {
	switch SessionType(strings.ToLower(strings.TrimSpace(s))) {
	case SessionLab:
		return SessionLab
	case SessionTutorial:
		return SessionTutorial
	default:
		return SessionRegular
	}
}

// ManualSlot is a recurring slot the user declared for an LMS course. It is
// authoritative and never scored.
type ManualSlot struct {
	ID          string      `json:"id" yaml:"id" db:"id"`
	CourseID    string      `json:"course_id" yaml:"course_id" validate:"required" db:"course_id"`
	DayOfWeek   int         `json:"day_of_week" yaml:"day_of_week" validate:"min=0,max=6" db:"day_of_week"`
	StartTime   string      `json:"start_time" yaml:"start_time" validate:"required,hhmm" db:"start_time"`
	EndTime     string      `json:"end_time" yaml:"end_time" validate:"required,hhmm,after_start" db:"end_time"`
	SessionType SessionType `json:"session_type" yaml:"session_type" validate:"omitempty,oneof=regular lab tutorial" db:"session_type"`
}

// CustomCourseSlot is a slot of a user-created course.
type CustomCourseSlot struct {
	ID          string      `json:"id" yaml:"id" db:"id"`
	DayOfWeek   int         `json:"day_of_week" yaml:"day_of_week" validate:"min=0,max=6" db:"day_of_week"`
	StartTime   string      `json:"start_time" yaml:"start_time" validate:"required,hhmm" db:"start_time"`
	EndTime     string      `json:"end_time" yaml:"end_time" validate:"required,hhmm,after_start" db:"end_time"`
	SessionType SessionType `json:"session_type" yaml:"session_type" validate:"omitempty,oneof=regular lab tutorial" db:"session_type"`
}

// CustomCourse is a course that does not exist on the LMS, created by the user
// together with its weekly slots.
type CustomCourse struct {
	ID    string             `json:"id" yaml:"id"`
	Name  string             `json:"name" yaml:"name" validate:"required"`
	Slots []CustomCourseSlot `json:"slots" yaml:"slots" validate:"dive" hash:"set"`
}

type Provenance string

const (
	ProvenanceManual Provenance = "manual"
	ProvenanceAuto   Provenance = "auto"
	ProvenanceCustom Provenance = "custom"
)

// TimetableSlot is one entry of the generated weekly timetable.
type TimetableSlot struct {
	ID             string      `json:"id" db:"id"`
	CourseID       string      `json:"course_id" db:"course_id"`
	CourseName     string      `json:"course_name" db:"course_name"`
	DayOfWeek      int         `json:"day_of_week" db:"day_of_week"` // 0=Sunday
	StartTime      string      `json:"start_time" db:"start_time"`   // HH:MM format
	EndTime        string      `json:"end_time" db:"end_time"`       // HH:MM format
	SessionType    SessionType `json:"session_type" db:"session_type"`
	IsManual       bool        `json:"is_manual" db:"is_manual"`
	IsCustomCourse bool        `json:"is_custom_course" db:"is_custom_course"`
}

// TimetableRun records one persisted generation.
type TimetableRun struct {
	ID              int64  `json:"id" db:"id"`
	GeneratedAt     string `json:"generated_at" db:"generated_at"` // RFC3339
	Fingerprint     string `json:"fingerprint" db:"fingerprint"`
	SlotCount       int    `json:"slot_count" db:"slot_count"`
	ConflictCount   int    `json:"conflict_count" db:"conflict_count"`
	UnresolvedCount int    `json:"unresolved_count" db:"unresolved_count"`
}

func (s TimetableSlot) Provenance() Provenance {
	switch {
	case s.IsManual:
		return ProvenanceManual
	case s.IsCustomCourse:
		return ProvenanceCustom
	default:
		return ProvenanceAuto
	}
}

func (s TimetableSlot) Weekday() time.Weekday {
	return time.Weekday(s.DayOfWeek)
}
