package courses

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Noelithub77/bunkialo2-sub002/internal/cli"
	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
	"github.com/Noelithub77/bunkialo2-sub002/internal/storage"
	"github.com/Noelithub77/bunkialo2-sub002/internal/timetable"
)

type CourseCmd struct {
	List   CourseListCmd   `cmd:"" default:"1" help:"List imported LMS courses with attendance."`
	Delete CourseDeleteCmd `cmd:"" help:"Delete an LMS course with its attendance and manual slots."`
}

type CourseListCmd struct{}

func (c *CourseListCmd) Run(ctx *cli.Context) error {
	courses, err := ctx.Store.GetAllCourses()
	if err != nil {
		return fmt.Errorf("failed to get courses: %w", err)
	}
	if len(courses) == 0 {
		ctx.Println("No courses imported. Use 'bunkialo import attendance' to add some.")
		return nil
	}

	ctx.Printf("%-12s %-32s %8s %8s %8s %8s %8s\n", "ID", "Name", "Present", "Absent", "Late", "Unknown", "Rate")
	ctx.Println(strings.Repeat("-", 92))
	for _, course := range courses {
		sum := models.Summarize(course)
		_, unparseable := timetable.ExtractCourse(course)

		name := course.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		ctx.Printf("%-12s %-32s %8d %8d %8d %8d %7.1f%%\n",
			course.ID, name, sum.Present, sum.Absent, sum.Late, sum.Unknown, sum.Percentage())
		if unparseable > 0 {
			ctx.Println(cli.Muted(fmt.Sprintf("%12s %d of %d records could not be placed on the timetable", "", unparseable, sum.Total)))
		}
	}
	return nil
}

type CourseDeleteCmd struct {
	ID  string `arg:"" help:"Course ID."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *CourseDeleteCmd) Run(ctx *cli.Context) error {
	course, err := ctx.Store.GetCourse(c.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("course not found: %s", c.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to get course: %w", err)
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete %s (%s) with %d attendance record(s) and its manual slots?", course.Name, course.ID, len(course.Records)))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.DeleteCourse(c.ID); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	ctx.Printf("%s Deleted course: %s\n", cli.OK("✓"), course.Name)
	return nil
}
