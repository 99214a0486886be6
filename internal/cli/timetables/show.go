package timetables

import (
	"errors"
	"fmt"

	"github.com/Noelithub77/bunkialo2-sub002/internal/cli"
	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
	"github.com/Noelithub77/bunkialo2-sub002/internal/storage"
)

// weekOrder lists days Monday first.
var weekOrder = []int{1, 2, 3, 4, 5, 6, 0}

type TimetableShowCmd struct {
	Day string `short:"d" help:"Only show this day (name, abbreviation or 0-6)."`
}

func (c *TimetableShowCmd) Run(ctx *cli.Context) error {
	day := -1
	if c.Day != "" {
		d, err := cli.ParseDay(c.Day)
		if err != nil {
			return err
		}
		day = d
	}

	slots, err := ctx.Store.GetTimetable()
	if err != nil {
		return fmt.Errorf("failed to get timetable: %w", err)
	}
	run, err := ctx.Store.GetLatestRun()
	if errors.Is(err, storage.ErrNotFound) {
		ctx.Println("No timetable yet. Run 'bunkialo timetable generate' first.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get last run: %w", err)
	}

	printSlots(ctx, slots, day)
	ctx.Println(cli.Muted(fmt.Sprintf("\nGenerated %s", run.GeneratedAt)))
	if run.UnresolvedCount > 0 {
		ctx.Println(cli.Warning(fmt.Sprintf("%d conflict(s) await a choice; see 'bunkialo conflicts list'.", run.UnresolvedCount)))
	}
	return nil
}

// printSlots prints slots grouped by weekday. A negative day prints the
// whole week.
func printSlots(ctx *cli.Context, slots []models.TimetableSlot, day int) {
	byDay := map[int][]models.TimetableSlot{}
	for _, s := range slots {
		byDay[s.DayOfWeek] = append(byDay[s.DayOfWeek], s)
	}

	printed := false
	for _, d := range weekOrder {
		if day >= 0 && d != day {
			continue
		}
		if len(byDay[d]) == 0 {
			continue
		}
		if printed {
			ctx.Println()
		}
		ctx.Println(cli.Header(models.TimetableSlot{DayOfWeek: d}.Weekday().String()))
		for _, s := range byDay[d] {
			ctx.Printf("  %s\n", cli.FormatSlot(s))
		}
		printed = true
	}
	if !printed {
		ctx.Println("No classes.")
	}
}
