package conflicts

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/Noelithub77/bunkialo2-sub002/internal/cli"
	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
	"github.com/Noelithub77/bunkialo2-sub002/internal/timetable"
	"github.com/Noelithub77/bunkialo2-sub002/internal/utils"
)

// skip leaves a conflict unanswered during review.
const skip models.Choice = ""

// chooser asks for an answer to one conflict.
type chooser func(n, total int, c timetable.SlotConflict) (models.Choice, error)

type ConflictReviewCmd struct {
	choose chooser
}

func (c *ConflictReviewCmd) Run(ctx *cli.Context) error {
	choose := c.choose
	if choose == nil {
		choose = promptChoice
	}

	session, err := ctx.Generate()
	if err != nil {
		return err
	}
	var open []timetable.SlotConflict
	for _, conflict := range session.Result.Conflicts {
		if conflict.Resolvable() && conflict.ResolvedChoice == "" {
			open = append(open, conflict)
		}
	}
	if len(open) == 0 {
		ctx.Println(cli.OK("Nothing to review."))
		return nil
	}

	answered := 0
	for i, conflict := range open {
		choice, err := choose(i+1, len(open), conflict)
		if errors.Is(err, huh.ErrUserAborted) {
			ctx.Println("Review stopped.")
			break
		}
		if err != nil {
			return err
		}
		if choice == skip {
			continue
		}
		if err := session.Engine.ResolveConflictByID(conflict.ConflictID, choice); err != nil {
			return explain(err)
		}
		answered++
	}

	if answered == 0 {
		ctx.Println("No answers recorded.")
		return nil
	}
	if err := ctx.CommitResolutions(session); err != nil {
		return err
	}
	ctx.Printf("%s Recorded %d answer(s); %d conflict(s) still open.\n",
		cli.OK("✓"), answered, cli.Unresolved(session.Result.Conflicts))
	return nil
}

// options lists the answers a conflict accepts, best default first.
func options(c timetable.SlotConflict) []huh.Option[models.Choice] {
	day := utils.ShortWeekday(c.DayOfWeek)
	switch c.Type {
	case timetable.ConflictOutlier:
		return []huh.Option[models.Choice]{
			huh.NewOption("Keep "+day+" "+cli.FormatCandidate(c.Slot), models.ChoiceKeep),
			huh.NewOption("Ignore it", models.ChoiceIgnore),
			huh.NewOption("Decide later", skip),
		}
	default:
		return []huh.Option[models.Choice]{
			huh.NewOption("Use "+day+" "+cli.FormatCandidate(c.PreferredSlot), models.ChoicePreferred),
			huh.NewOption("Use "+day+" "+cli.FormatCandidate(c.AlternativeSlot), models.ChoiceAlternative),
			huh.NewOption("Decide later", skip),
		}
	}
}

func promptChoice(n, total int, c timetable.SlotConflict) (models.Choice, error) {
	var choice models.Choice
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.Choice]().
				Title(fmt.Sprintf("Conflict %d of %d: %s", n, total, c.Type)).
				Description(c.Description).
				Options(options(c)...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return skip, err
	}
	return choice, nil
}
