package imports

import (
	"context"
	"errors"
	"fmt"

	"github.com/Noelithub77/bunkialo2-sub002/internal/cli"
	"github.com/Noelithub77/bunkialo2-sub002/internal/importer"
	"github.com/Noelithub77/bunkialo2-sub002/internal/logger"
	"github.com/Noelithub77/bunkialo2-sub002/internal/storage"
	"github.com/Noelithub77/bunkialo2-sub002/internal/timetable"
)

type ImportCmd struct {
	Attendance ImportAttendanceCmd `cmd:"" help:"Import scraped LMS attendance (JSON file or directory)."`
	Courses    ImportCoursesCmd    `cmd:"" help:"Import manual slots and custom courses from YAML."`
}

type ImportAttendanceCmd struct {
	Path string `arg:"" type:"path" help:"Attendance JSON file or a directory of them."`
}

func (c *ImportAttendanceCmd) Run(ctx *cli.Context) error {
	courses, err := importer.LoadAttendance(context.Background(), c.Path)
	if err != nil {
		return fmt.Errorf("failed to read attendance: %w", err)
	}
	if len(courses) == 0 {
		ctx.Println("No courses found.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.SaveCourses(courses); err != nil {
		return fmt.Errorf("failed to save courses: %w", err)
	}

	records, unparseable := 0, 0
	for _, course := range courses {
		_, bad := timetable.ExtractCourse(course)
		records += len(course.Records)
		unparseable += bad
	}
	logger.Info("Imported attendance", "courses", len(courses), "records", records)

	ctx.Printf("%s Imported %d course(s) with %d attendance record(s)\n", cli.OK("✓"), len(courses), records)
	if unparseable > 0 {
		ctx.Println(cli.Warning(fmt.Sprintf("  %d record(s) have no recognisable date and time; they are kept but ignored for slot inference", unparseable)))
	}
	ctx.Println("Run 'bunkialo timetable generate' to rebuild the timetable.")
	return nil
}

type ImportCoursesCmd struct {
	Path string `arg:"" type:"existingfile" help:"Course configuration YAML."`
}

func (c *ImportCoursesCmd) Run(ctx *cli.Context) error {
	cfg, err := importer.LoadCourseConfig(c.Path)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	added, skipped := 0, 0
	for _, slot := range cfg.ManualSlots {
		exists, err := found(ctx.Store.GetManualSlot(slot.ID))
		if err != nil {
			return err
		}
		if exists {
			skipped++
			continue
		}
		if err := ctx.Store.AddManualSlot(slot); err != nil {
			return fmt.Errorf("failed to add manual slot for %s: %w", slot.CourseID, err)
		}
		added++
	}

	customAdded := 0
	for _, course := range cfg.CustomCourses {
		exists, err := found(ctx.Store.GetCustomCourse(course.ID))
		if err != nil {
			return err
		}
		if exists {
			skipped++
			continue
		}
		if err := ctx.Store.AddCustomCourse(course); err != nil {
			return fmt.Errorf("failed to add custom course %s: %w", course.Name, err)
		}
		customAdded++
	}

	ctx.Printf("%s Added %d manual slot(s) and %d custom course(s)\n", cli.OK("✓"), added, customAdded)
	if skipped > 0 {
		ctx.Println(cli.Muted(fmt.Sprintf("  %d entr(ies) already existed and were skipped", skipped)))
	}
	return nil
}

// found turns a lookup result into an existence flag.
func found[T any](_ T, err error) (bool, error) {
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
