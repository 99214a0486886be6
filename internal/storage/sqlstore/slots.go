package sqlstore

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
	"github.com/Noelithub77/bunkialo2-sub002/internal/storage"
)

func (s *Store) AddManualSlot(slot models.ManualSlot) error {
	if slot.SessionType == "" {
		slot.SessionType = models.SessionRegular
	}
	_, err := s.db.Exec(s.db.Rebind(`INSERT INTO manual_slots
		(id, course_id, day_of_week, start_time, end_time, session_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		slot.ID, slot.CourseID, slot.DayOfWeek, slot.StartTime, slot.EndTime, string(slot.SessionType), now())
	if err != nil {
		return fmt.Errorf("failed to add manual slot: %w", err)
	}
	return nil
}

func (s *Store) GetManualSlot(id string) (models.ManualSlot, error) {
	var slot models.ManualSlot
	err := s.db.Get(&slot, s.db.Rebind(`SELECT id, course_id, day_of_week, start_time, end_time, session_type
		FROM manual_slots WHERE id = ?`), id)
	if err != nil {
		return models.ManualSlot{}, notFound(err, "manual slot "+id)
	}
	return slot, nil
}

func (s *Store) GetAllManualSlots() ([]models.ManualSlot, error) {
	var slots []models.ManualSlot
	err := s.db.Select(&slots, `SELECT id, course_id, day_of_week, start_time, end_time, session_type
		FROM manual_slots ORDER BY day_of_week, start_time, course_id, id`)
	return slots, err
}

func (s *Store) DeleteManualSlot(id string) error {
	res, err := s.db.Exec(s.db.Rebind("DELETE FROM manual_slots WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return expectOne(res, "manual slot "+id)
}

type customSlotRow struct {
	CourseID string `db:"course_id"`
	models.CustomCourseSlot
}

func insertCustomSlot(tx *sqlx.Tx, courseID string, slot models.CustomCourseSlot) error {
	if slot.SessionType == "" {
		slot.SessionType = models.SessionRegular
	}
	_, err := tx.Exec(tx.Rebind(`INSERT INTO custom_course_slots
		(id, course_id, day_of_week, start_time, end_time, session_type)
		VALUES (?, ?, ?, ?, ?, ?)`),
		slot.ID, courseID, slot.DayOfWeek, slot.StartTime, slot.EndTime, string(slot.SessionType))
	if err != nil {
		return fmt.Errorf("failed to add slot %s: %w", slot.ID, err)
	}
	return nil
}

func (s *Store) AddCustomCourse(course models.CustomCourse) error {
	return s.inTx(func(tx *sqlx.Tx) error {
		_, err := tx.Exec(tx.Rebind("INSERT INTO custom_courses (id, name, created_at) VALUES (?, ?, ?)"),
			course.ID, course.Name, now())
		if err != nil {
			return fmt.Errorf("failed to add custom course: %w", err)
		}
		for _, slot := range course.Slots {
			if err := insertCustomSlot(tx, course.ID, slot); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) AddCustomCourseSlot(courseID string, slot models.CustomCourseSlot) error {
	return s.inTx(func(tx *sqlx.Tx) error {
		var n int
		if err := tx.Get(&n, tx.Rebind("SELECT COUNT(*) FROM custom_courses WHERE id = ?"), courseID); err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("custom course %s: %w", courseID, storage.ErrNotFound)
		}
		return insertCustomSlot(tx, courseID, slot)
	})
}

func (s *Store) GetCustomCourse(id string) (models.CustomCourse, error) {
	var row courseRow
	if err := s.db.Get(&row, s.db.Rebind("SELECT id, name FROM custom_courses WHERE id = ?"), id); err != nil {
		return models.CustomCourse{}, notFound(err, "custom course "+id)
	}
	var slots []models.CustomCourseSlot
	err := s.db.Select(&slots, s.db.Rebind(`SELECT id, day_of_week, start_time, end_time, session_type
		FROM custom_course_slots WHERE course_id = ? ORDER BY day_of_week, start_time, id`), id)
	if err != nil {
		return models.CustomCourse{}, err
	}
	return models.CustomCourse{ID: row.ID, Name: row.Name, Slots: slots}, nil
}

func (s *Store) GetAllCustomCourses() ([]models.CustomCourse, error) {
	var rows []courseRow
	if err := s.db.Select(&rows, "SELECT id, name FROM custom_courses ORDER BY name, id"); err != nil {
		return nil, err
	}
	var slots []customSlotRow
	err := s.db.Select(&slots, `SELECT course_id, id, day_of_week, start_time, end_time, session_type
		FROM custom_course_slots ORDER BY course_id, day_of_week, start_time, id`)
	if err != nil {
		return nil, err
	}

	byCourse := make(map[string][]models.CustomCourseSlot, len(rows))
	for _, sl := range slots {
		byCourse[sl.CourseID] = append(byCourse[sl.CourseID], sl.CustomCourseSlot)
	}
	courses := make([]models.CustomCourse, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, models.CustomCourse{ID: row.ID, Name: row.Name, Slots: byCourse[row.ID]})
	}
	return courses, nil
}

func (s *Store) DeleteCustomCourse(id string) error {
	return s.inTx(func(tx *sqlx.Tx) error {
		res, err := tx.Exec(tx.Rebind("DELETE FROM custom_courses WHERE id = ?"), id)
		if err != nil {
			return err
		}
		if err := expectOne(res, "custom course "+id); err != nil {
			return err
		}
		_, err = tx.Exec(tx.Rebind("DELETE FROM custom_course_slots WHERE course_id = ?"), id)
		return err
	})
}

func (s *Store) DeleteCustomCourseSlot(id string) error {
	res, err := s.db.Exec(s.db.Rebind("DELETE FROM custom_course_slots WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return expectOne(res, "custom course slot "+id)
}
