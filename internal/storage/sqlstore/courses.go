package sqlstore

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
)

type courseRow struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

type recordRow struct {
	CourseID    string `db:"course_id"`
	DateText    string `db:"date_text"`
	Description string `db:"description"`
	Status      string `db:"status"`
	Points      string `db:"points"`
}

func (r recordRow) toModel() models.AttendanceRecord {
	return models.AttendanceRecord{
		Date:        r.DateText,
		Description: r.Description,
		Status:      models.AttendanceStatus(r.Status),
		Points:      r.Points,
	}
}

func (s *Store) SaveCourses(courses []models.Course) error {
	importedAt := now()
	return s.inTx(func(tx *sqlx.Tx) error {
		upsert := tx.Rebind(`INSERT INTO courses (id, name, imported_at) VALUES (?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET name = excluded.name, imported_at = excluded.imported_at`)
		clearRecords := tx.Rebind("DELETE FROM attendance_records WHERE course_id = ?")
		insert := tx.Rebind(`INSERT INTO attendance_records (course_id, position, date_text, description, status, points)
			VALUES (?, ?, ?, ?, ?, ?)`)

		for _, c := range courses {
			if c.ID == "" {
				return fmt.Errorf("course %q has no id", c.Name)
			}
			if _, err := tx.Exec(upsert, c.ID, c.Name, importedAt); err != nil {
				return fmt.Errorf("failed to save course %s: %w", c.ID, err)
			}
			if _, err := tx.Exec(clearRecords, c.ID); err != nil {
				return fmt.Errorf("failed to clear records of %s: %w", c.ID, err)
			}
			for i, r := range c.Records {
				status := r.Status
				if status == "" {
					status = models.StatusUnknown
				}
				if _, err := tx.Exec(insert, c.ID, i, r.Date, r.Description, string(status), r.Points); err != nil {
					return fmt.Errorf("failed to save record %d of %s: %w", i, c.ID, err)
				}
			}
		}
		return nil
	})
}

func (s *Store) GetCourse(id string) (models.Course, error) {
	var row courseRow
	if err := s.db.Get(&row, s.db.Rebind("SELECT id, name FROM courses WHERE id = ?"), id); err != nil {
		return models.Course{}, notFound(err, "course "+id)
	}

	var records []recordRow
	err := s.db.Select(&records, s.db.Rebind(`SELECT course_id, date_text, description, status, points
		FROM attendance_records WHERE course_id = ? ORDER BY position`), id)
	if err != nil {
		return models.Course{}, err
	}

	course := models.Course{ID: row.ID, Name: row.Name}
	for _, r := range records {
		course.Records = append(course.Records, r.toModel())
	}
	return course, nil
}

func (s *Store) GetAllCourses() ([]models.Course, error) {
	var rows []courseRow
	if err := s.db.Select(&rows, "SELECT id, name FROM courses ORDER BY id"); err != nil {
		return nil, err
	}

	var records []recordRow
	err := s.db.Select(&records, `SELECT course_id, date_text, description, status, points
		FROM attendance_records ORDER BY course_id, position`)
	if err != nil {
		return nil, err
	}

	byCourse := make(map[string][]models.AttendanceRecord, len(rows))
	for _, r := range records {
		byCourse[r.CourseID] = append(byCourse[r.CourseID], r.toModel())
	}

	courses := make([]models.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, models.Course{ID: row.ID, Name: row.Name, Records: byCourse[row.ID]})
	}
	return courses, nil
}

// DeleteCourse removes an LMS course, its records and its manual slots.
func (s *Store) DeleteCourse(id string) error {
	return s.inTx(func(tx *sqlx.Tx) error {
		res, err := tx.Exec(tx.Rebind("DELETE FROM courses WHERE id = ?"), id)
		if err != nil {
			return err
		}
		if err := expectOne(res, "course "+id); err != nil {
			return err
		}
		if _, err := tx.Exec(tx.Rebind("DELETE FROM attendance_records WHERE course_id = ?"), id); err != nil {
			return err
		}
		_, err = tx.Exec(tx.Rebind("DELETE FROM manual_slots WHERE course_id = ?"), id)
		return err
	})
}
