package sqlstore

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Noelithub77/bunkialo2-sub002/internal/logger"
	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
)

const timetableColumns = "id, course_id, course_name, day_of_week, start_time, end_time, session_type, is_manual, is_custom_course"

// SaveTimetable replaces the stored timetable with slots and records run.
// GeneratedAt defaults to now and SlotCount always equals len(slots).
func (s *Store) SaveTimetable(run models.TimetableRun, slots []models.TimetableSlot) error {
	if run.GeneratedAt == "" {
		run.GeneratedAt = now()
	}
	return s.inTx(func(tx *sqlx.Tx) error {
		if _, err := tx.Exec("DELETE FROM timetable_slots"); err != nil {
			return err
		}
		insert := tx.Rebind("INSERT INTO timetable_slots (" + timetableColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")
		for _, sl := range slots {
			_, err := tx.Exec(insert, sl.ID, sl.CourseID, sl.CourseName, sl.DayOfWeek, sl.StartTime, sl.EndTime,
				string(sl.SessionType), sl.IsManual, sl.IsCustomCourse)
			if err != nil {
				return fmt.Errorf("failed to save slot %s: %w", sl.ID, err)
			}
		}

		var id int64
		err := tx.Get(&id, tx.Rebind(`INSERT INTO timetable_runs
			(generated_at, fingerprint, slot_count, conflict_count, unresolved_count)
			VALUES (?, ?, ?, ?, ?) RETURNING id`),
			run.GeneratedAt, run.Fingerprint, len(slots), run.ConflictCount, run.UnresolvedCount)
		if err != nil {
			return fmt.Errorf("failed to record timetable run: %w", err)
		}
		logger.Debug("Recorded timetable run", "id", id, "slots", len(slots))
		return nil
	})
}

func (s *Store) GetTimetable() ([]models.TimetableSlot, error) {
	var slots []models.TimetableSlot
	err := s.db.Select(&slots, "SELECT "+timetableColumns+
		" FROM timetable_slots ORDER BY day_of_week, start_time, end_time, course_id, id")
	return slots, err
}

func (s *Store) GetLatestRun() (models.TimetableRun, error) {
	var run models.TimetableRun
	err := s.db.Get(&run, `SELECT id, generated_at, fingerprint, slot_count, conflict_count, unresolved_count
		FROM timetable_runs ORDER BY id DESC LIMIT 1`)
	if err != nil {
		return models.TimetableRun{}, notFound(err, "timetable run")
	}
	return run, nil
}
