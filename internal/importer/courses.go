package importer

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
)

// CourseConfig is the user-maintained YAML file of manual slots and custom
// courses.
//
//	manual_slots:
//	  - course_id: CS101
//	    day_of_week: 3
//	    start_time: "14:00"
//	    end_time: "15:00"
//	custom_courses:
//	  - name: Gym
//	    slots:
//	      - {day_of_week: 5, start_time: "07:00", end_time: "08:00"}
type CourseConfig struct {
	ManualSlots   []models.ManualSlot   `yaml:"manual_slots" validate:"dive"`
	CustomCourses []models.CustomCourse `yaml:"custom_courses" validate:"dive"`
}

// LoadCourseConfig reads and validates a course configuration file.
func LoadCourseConfig(path string) (CourseConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return CourseConfig{}, err
	}
	defer f.Close()
	return ParseCourseConfig(f)
}

// ParseCourseConfig decodes YAML, fills in missing IDs and session types,
// and validates the result. Unknown keys are rejected.
func ParseCourseConfig(r io.Reader) (CourseConfig, error) {
	var cfg CourseConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return CourseConfig{}, fmt.Errorf("invalid course config: %w", err)
	}

	for i := range cfg.ManualSlots {
		s := &cfg.ManualSlots[i]
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		if s.SessionType == "" {
			s.SessionType = models.SessionRegular
		}
	}
	for i := range cfg.CustomCourses {
		c := &cfg.CustomCourses[i]
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		for j := range c.Slots {
			s := &c.Slots[j]
			if s.ID == "" {
				s.ID = uuid.New().String()
			}
			if s.SessionType == "" {
				s.SessionType = models.SessionRegular
			}
		}
	}

	if err := describe(validate.Struct(cfg)); err != nil {
		return CourseConfig{}, fmt.Errorf("invalid course config: %w", err)
	}
	return cfg, nil
}
