package storage

import (
	"errors"

	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// LMS courses and their attendance rows. SaveCourses replaces the
	// records of every course it is given.
	SaveCourses([]models.Course) error
	GetCourse(id string) (models.Course, error)
	GetAllCourses() ([]models.Course, error)
	DeleteCourse(id string) error

	// Manual slots
	AddManualSlot(models.ManualSlot) error
	GetManualSlot(id string) (models.ManualSlot, error)
	GetAllManualSlots() ([]models.ManualSlot, error)
	DeleteManualSlot(id string) error

	// Custom courses
	AddCustomCourse(models.CustomCourse) error
	AddCustomCourseSlot(courseID string, slot models.CustomCourseSlot) error
	GetCustomCourse(id string) (models.CustomCourse, error)
	GetAllCustomCourses() ([]models.CustomCourse, error)
	DeleteCustomCourse(id string) error
	DeleteCustomCourseSlot(id string) error

	// Conflict resolutions. SaveResolutions replaces every stored choice.
	GetResolutions() (models.Resolutions, error)
	SaveResolutions(models.Resolutions) error

	// Generated timetable. SaveTimetable replaces the previous timetable and
	// records the run.
	SaveTimetable(run models.TimetableRun, slots []models.TimetableSlot) error
	GetTimetable() ([]models.TimetableSlot, error)
	GetLatestRun() (models.TimetableRun, error)

	// Utils
	GetConfigPath() string
	Dialect() string
}
