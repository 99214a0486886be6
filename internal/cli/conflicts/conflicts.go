package conflicts

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Noelithub77/bunkialo2-sub002/internal/cli"
	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
	"github.com/Noelithub77/bunkialo2-sub002/internal/timetable"
	"github.com/Noelithub77/bunkialo2-sub002/internal/utils"
)

type ConflictsCmd struct {
	List       ConflictListCmd       `cmd:"" default:"1" help:"List conflicts found by the last generation."`
	Resolve    ConflictResolveCmd    `cmd:"" help:"Answer one conflict."`
	ResolveAll ConflictResolveAllCmd `cmd:"" name:"resolve-all" help:"Answer every open competing-slot conflict at once."`
	Revert     ConflictRevertCmd     `cmd:"" help:"Forget a remembered choice."`
	Review     ConflictReviewCmd     `cmd:"" help:"Walk through open conflicts interactively."`
}

type ConflictListCmd struct {
	All bool `short:"a" help:"Include conflicts that need no answer."`
}

func (c *ConflictListCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Generate()
	if err != nil {
		return err
	}
	conflicts := session.Result.Conflicts
	if len(conflicts) == 0 {
		ctx.Println(cli.OK("No conflicts."))
		return nil
	}

	shown := 0
	for i, conflict := range conflicts {
		if !c.All && !conflict.Resolvable() {
			continue
		}
		printConflict(ctx, i+1, conflict)
		shown++
	}
	if shown == 0 {
		ctx.Println("No conflicts need an answer. Use --all to see manual overrides.")
		return nil
	}
	ctx.Printf("\n%d open, %d total. Answer with 'bunkialo conflicts resolve <#> <choice>'.\n",
		cli.Unresolved(conflicts), len(conflicts))
	return nil
}

func printConflict(ctx *cli.Context, n int, c timetable.SlotConflict) {
	ctx.Printf("%3d %s %s\n", n, cli.ConflictTag(c), c.Description)
	switch c.Type {
	case timetable.ConflictAutoAuto, timetable.ConflictTimeOverlap:
		ctx.Printf("      preferred:   %s %s\n", utils.ShortWeekday(c.DayOfWeek), cli.FormatCandidate(c.PreferredSlot))
		ctx.Printf("      alternative: %s %s\n", utils.ShortWeekday(c.DayOfWeek), cli.FormatCandidate(c.AlternativeSlot))
	case timetable.ConflictOutlier:
		ctx.Printf("      slot:        %s %s\n", utils.ShortWeekday(c.DayOfWeek), cli.FormatCandidate(c.Slot))
	}
	if c.ResolvedChoice != "" {
		ctx.Printf("      answered:    %s\n", c.ResolvedChoice)
	}
	ctx.Println(cli.Muted("      id: " + c.ConflictID))
}

type ConflictResolveCmd struct {
	Conflict string        `arg:"" help:"Conflict number from 'conflicts list' or its ID."`
	Choice   models.Choice `arg:"" enum:"preferred,alternative,keep,ignore" help:"preferred|alternative for competing slots, keep|ignore for outliers."`
}

func (c *ConflictResolveCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Generate()
	if err != nil {
		return err
	}

	if n, convErr := strconv.Atoi(c.Conflict); convErr == nil {
		err = session.Engine.ResolveConflict(n-1, c.Choice)
	} else {
		err = session.Engine.ResolveConflictByID(c.Conflict, c.Choice)
	}
	if err != nil {
		return explain(err)
	}

	if err := ctx.CommitResolutions(session); err != nil {
		return err
	}
	ctx.Printf("%s Recorded %s. Timetable now has %d slot(s), %d conflict(s) open.\n",
		cli.OK("✓"), c.Choice, len(session.Result.Slots), cli.Unresolved(session.Result.Conflicts))
	return nil
}

// explain adds what to do next to engine errors.
func explain(err error) error {
	switch {
	case errors.Is(err, timetable.ErrConflictNotResolvable):
		return fmt.Errorf("%w; delete the manual slot to use the inferred one", err)
	case errors.Is(err, timetable.ErrInvalidChoice):
		return fmt.Errorf("%w; competing slots take preferred|alternative, outliers take keep|ignore", err)
	case errors.Is(err, timetable.ErrConflictIndex):
		return fmt.Errorf("%w; see 'bunkialo conflicts list'", err)
	}
	return err
}

type ConflictResolveAllCmd struct {
	Choice models.Choice `short:"c" enum:"preferred,alternative" default:"preferred" help:"Choice applied to every open competing-slot conflict."`
}

func (c *ConflictResolveAllCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Generate()
	if err != nil {
		return err
	}
	n, err := session.Engine.ResolveAllAutoConflicts(c.Choice)
	if err != nil {
		return explain(err)
	}
	if n == 0 {
		ctx.Println("No open competing-slot conflicts.")
		return nil
	}
	if err := ctx.CommitResolutions(session); err != nil {
		return err
	}
	ctx.Printf("%s Recorded %s for %d conflict(s).\n", cli.OK("✓"), c.Choice, n)
	return nil
}

type ConflictRevertCmd struct {
	ConflictID string `arg:"" help:"Conflict ID whose answer should be forgotten."`
}

func (c *ConflictRevertCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Generate()
	if err != nil {
		return err
	}
	if !session.Engine.RevertAutoConflictResolution(c.ConflictID) &&
		!session.Engine.RevertOutlierResolution(c.ConflictID) {
		return fmt.Errorf("no remembered answer for conflict %s", c.ConflictID)
	}
	if err := ctx.CommitResolutions(session); err != nil {
		return err
	}
	ctx.Printf("%s Forgot the answer for %s.\n", cli.OK("✓"), c.ConflictID)
	return nil
}
