package custom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Noelithub77/bunkialo2-sub002/internal/cli"
	"github.com/Noelithub77/bunkialo2-sub002/internal/importer"
	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
	"github.com/Noelithub77/bunkialo2-sub002/internal/storage"
	"github.com/Noelithub77/bunkialo2-sub002/internal/utils"
)

type CustomCmd struct {
	Add        CustomAddCmd        `cmd:"" help:"Create a course that is not on the LMS."`
	Slot       CustomSlotCmd       `cmd:"" help:"Add a weekly slot to a custom course."`
	List       CustomListCmd       `cmd:"" default:"1" help:"List custom courses and their slots."`
	Delete     CustomDeleteCmd     `cmd:"" help:"Delete a custom course and its slots."`
	SlotDelete CustomSlotDeleteCmd `cmd:"" name:"slot-delete" help:"Delete one slot of a custom course."`
}

type CustomAddCmd struct {
	Name string `arg:"" help:"Course name."`
}

func (c *CustomAddCmd) Run(ctx *cli.Context) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return fmt.Errorf("course name is required")
	}
	course := models.CustomCourse{ID: uuid.New().String(), Name: name}
	if err := ctx.Store.AddCustomCourse(course); err != nil {
		return fmt.Errorf("failed to add custom course: %w", err)
	}
	ctx.Printf("%s Added custom course %s (%s)\n", cli.OK("✓"), course.Name, course.ID)
	ctx.Printf("  Add slots with: bunkialo custom slot %s --day ... --start ... --end ...\n", course.ID)
	return nil
}

type CustomSlotCmd struct {
	CourseID string `arg:"" help:"Custom course ID."`
	Day      string `short:"d" required:"" help:"Day of week (name, abbreviation or 0-6 with 0=Sunday)."`
	Start    string `short:"s" required:"" help:"Start time (HH:MM)."`
	End      string `short:"e" required:"" help:"End time (HH:MM)."`
	Type     string `short:"t" enum:"regular,lab,tutorial" default:"regular" help:"Session type (regular|lab|tutorial)."`
}

func (c *CustomSlotCmd) Run(ctx *cli.Context) error {
	day, err := cli.ParseDay(c.Day)
	if err != nil {
		return err
	}
	slot := models.CustomCourseSlot{
		ID:          uuid.New().String(),
		DayOfWeek:   day,
		StartTime:   c.Start,
		EndTime:     c.End,
		SessionType: models.ParseSessionType(c.Type),
	}
	if err := importer.ValidateCustomCourseSlot(slot); err != nil {
		return err
	}
	if err := ctx.Store.AddCustomCourseSlot(c.CourseID, slot); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("custom course not found: %s", c.CourseID)
		}
		return fmt.Errorf("failed to add slot: %w", err)
	}
	ctx.Printf("%s Added %s %s-%s (%s)\n", cli.OK("✓"), utils.ShortWeekday(day), slot.StartTime, slot.EndTime, slot.ID)
	return nil
}

type CustomListCmd struct{}

func (c *CustomListCmd) Run(ctx *cli.Context) error {
	courses, err := ctx.Store.GetAllCustomCourses()
	if err != nil {
		return fmt.Errorf("failed to get custom courses: %w", err)
	}
	if len(courses) == 0 {
		ctx.Println("No custom courses.")
		return nil
	}

	for _, course := range courses {
		ctx.Printf("%s %s\n", cli.Header(course.Name), cli.Muted(course.ID))
		if len(course.Slots) == 0 {
			ctx.Println(cli.Muted("  (no slots)"))
		}
		for _, s := range course.Slots {
			ctx.Printf("  %-4s %s-%s  %-9s %s\n", utils.ShortWeekday(s.DayOfWeek), s.StartTime, s.EndTime, s.SessionType, cli.Muted(s.ID))
		}
	}
	return nil
}

type CustomDeleteCmd struct {
	ID string `arg:"" help:"Custom course ID."`
}

func (c *CustomDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.DeleteCustomCourse(c.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("custom course not found: %s", c.ID)
		}
		return fmt.Errorf("failed to delete custom course: %w", err)
	}
	ctx.Printf("%s Deleted custom course %s\n", cli.OK("✓"), c.ID)
	return nil
}

type CustomSlotDeleteCmd struct {
	ID string `arg:"" help:"Slot ID."`
}

func (c *CustomSlotDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.DeleteCustomCourseSlot(c.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("custom course slot not found: %s", c.ID)
		}
		return fmt.Errorf("failed to delete slot: %w", err)
	}
	ctx.Printf("%s Deleted slot %s\n", cli.OK("✓"), c.ID)
	return nil
}
