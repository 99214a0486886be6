package timetables

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Noelithub77/bunkialo2-sub002/internal/cli"
	"github.com/Noelithub77/bunkialo2-sub002/internal/logger"
	"github.com/Noelithub77/bunkialo2-sub002/internal/storage"
	"github.com/Noelithub77/bunkialo2-sub002/internal/timetable"
	"github.com/Noelithub77/bunkialo2-sub002/internal/utils"
)

type TimetableCmd struct {
	Generate TimetableGenerateCmd `cmd:"" help:"Infer the weekly timetable from attendance and saved slots."`
	Show     TimetableShowCmd     `cmd:"" default:"1" help:"Show the saved timetable."`
}

type TimetableGenerateCmd struct {
	DryRun bool `help:"Print the result without saving it."`
	Force  bool `short:"f" help:"Save even when nothing changed since the last run."`
}

func (c *TimetableGenerateCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Generate()
	if err != nil {
		return err
	}
	fp, err := session.Fingerprint()
	if err != nil {
		return fmt.Errorf("failed to fingerprint input: %w", err)
	}

	if !c.Force && !c.DryRun {
		run, err := ctx.Store.GetLatestRun()
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("failed to get last run: %w", err)
		}
		if err == nil && run.Fingerprint == fp {
			ctx.Printf("Timetable unchanged since %s (%d slots, %d unresolved conflicts).\n",
				run.GeneratedAt, run.SlotCount, run.UnresolvedCount)
			return nil
		}
	}

	res := session.Result
	printSummary(ctx, res)

	if c.DryRun {
		ctx.Println()
		printSlots(ctx, res.Slots, -1)
		ctx.Println(cli.Muted("\nDry run: nothing was saved."))
		return nil
	}

	run, err := ctx.SaveTimetable(session)
	if err != nil {
		return err
	}
	logger.Info("Saved timetable", "slots", run.SlotCount, "fingerprint", run.Fingerprint)
	ctx.Printf("\n%s Saved timetable with %d slot(s).\n", cli.OK("✓"), run.SlotCount)
	if run.UnresolvedCount > 0 {
		ctx.Println("Review conflicts with 'bunkialo conflicts list' or 'bunkialo conflicts review'.")
	}
	return nil
}

func printSummary(ctx *cli.Context, res timetable.Result) {
	ctx.Println(cli.Header("Timetable generation"))
	ctx.Printf("  Inferred candidates: %d\n", len(res.Candidates))
	ctx.Printf("  Timetable slots:     %d\n", len(res.Slots))
	ctx.Printf("  Conflicts:           %d (%d awaiting a choice)\n", len(res.Conflicts), cli.Unresolved(res.Conflicts))

	if len(res.Suppressed) > 0 {
		ctx.Println()
		ctx.Println(cli.Header("Left out of the timetable"))
		for _, s := range res.Suppressed {
			ctx.Printf("  %s %s %-20s %s\n",
				utils.ShortWeekday(s.Slot.DayOfWeek), cli.FormatCandidate(&s.Slot), s.Reason, cli.Muted(s.ConflictID))
		}
	}

	if len(res.Unparseable) > 0 {
		ids := make([]string, 0, len(res.Unparseable))
		for id := range res.Unparseable {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		ctx.Println()
		ctx.Println(cli.Warning("Attendance rows without a recognisable date and time:"))
		for _, id := range ids {
			ctx.Printf("  %-12s %d\n", id, res.Unparseable[id])
		}
	}
}
