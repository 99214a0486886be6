package slots

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

type SlotCmd struct {
	Add    SlotAddCmd    `cmd:"" help:"Declare a weekly slot for an LMS course."`
	List   SlotListCmd   `cmd:"" default:"1" help:"List manual slots."`
	Delete SlotDeleteCmd `cmd:"" help:"Delete a manual slot."`
}

type SlotAddCmd struct {
	CourseID string `arg:"" help:"LMS course ID."`
	Day      string `short:"d" required:"" help:"Day of week (name, abbreviation or 0-6 with 0=Sunday)."`
	Start    string `short:"s" required:"" help:"Start time (HH:MM)."`
	End      string `short:"e" required:"" help:"End time (HH:MM)."`
	Type     string `short:"t" enum:"regular,lab,tutorial" default:"regular" help:"Session type (regular|lab|tutorial)."`
}

func (c *SlotAddCmd) Run(ctx *cli.Context) error {
	day, err := cli.ParseDay(c.Day)
	if err != nil {
		return err
	}
	slot := models.ManualSlot{
		ID:          uuid.New().String(),
		CourseID:    c.CourseID,
		DayOfWeek:   day,
		StartTime:   c.Start,
		EndTime:     c.End,
		SessionType: models.ParseSessionType(c.Type),
	}
	if err := importer.ValidateManualSlot(slot); err != nil {
		return err
	}

	course, err := ctx.Store.GetCourse(c.CourseID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		ctx.Println(cli.Warning(fmt.Sprintf("Warning: course %s has not been imported yet; the slot will apply once it is.", c.CourseID)))
	case err != nil:
		return fmt.Errorf("failed to get course: %w", err)
	}

	if err := ctx.Store.AddManualSlot(slot); err != nil {
		return fmt.Errorf("failed to add manual slot: %w", err)
	}
	name := course.Name
	if name == "" {
		name = c.CourseID
	}
	ctx.Printf("%s Added %s %s-%s for %s (%s)\n", cli.OK("✓"), utils.ShortWeekday(day), slot.StartTime, slot.EndTime, name, slot.ID)
	return nil
}

type SlotListCmd struct {
	Course string `short:"c" help:"Only show slots of this course."`
}

func (c *SlotListCmd) Run(ctx *cli.Context) error {
	all, err := ctx.Store.GetAllManualSlots()
	if err != nil {
		return fmt.Errorf("failed to get manual slots: %w", err)
	}
	var slots []models.ManualSlot
	for _, s := range all {
		if c.Course == "" || s.CourseID == c.Course {
			slots = append(slots, s)
		}
	}
	if len(slots) == 0 {
		ctx.Println("No manual slots.")
		return nil
	}

	ctx.Printf("%-36s %-12s %-4s %-11s %-9s\n", "ID", "Course", "Day", "Time", "Type")
	ctx.Println(strings.Repeat("-", 76))
	for _, s := range slots {
		ctx.Printf("%-36s %-12s %-4s %-11s %-9s\n",
			s.ID, s.CourseID, utils.ShortWeekday(s.DayOfWeek), s.StartTime+"-"+s.EndTime, s.SessionType)
	}
	return nil
}

type SlotDeleteCmd struct {
	ID string `arg:"" help:"Manual slot ID."`
}

func (c *SlotDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.DeleteManualSlot(c.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("manual slot not found: %s", c.ID)
		}
		return fmt.Errorf("failed to delete manual slot: %w", err)
	}
	ctx.Printf("%s Deleted manual slot %s\n", cli.OK("✓"), c.ID)
	return nil
}
