package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
	"github.com/Noelithub77/bunkialo2-sub002/internal/timetable"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	tagStyles = map[models.Provenance]lipgloss.Style{
		models.ProvenanceManual: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		models.ProvenanceAuto:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		models.ProvenanceCustom: lipgloss.NewStyle().Foreground(lipgloss.Color("170")),
	}
)

func Header(s string) string {
	return headerStyle.Render(s)
}

func Muted(s string) string {
	return mutedStyle.Render(s)
}

func Danger(s string) string {
	return dangerStyle.Render(s)
}

func Warning(s string) string {
	return warningStyle.Render(s)
}

func OK(s string) string {
	return okStyle.Render(s)
}

// ProvenanceTag renders a slot's origin as a short coloured tag.
func ProvenanceTag(p models.Provenance) string {
	return tagStyles[p].Render(fmt.Sprintf("[%s]", p))
}

// ConflictTag renders a conflict type, highlighting the ones awaiting a choice.
func ConflictTag(c timetable.SlotConflict) string {
	tag := fmt.Sprintf("[%s]", c.Type)
	switch {
	case !c.Resolvable():
		return mutedStyle.Render(tag)
	case c.ResolvedChoice == "":
		return warningStyle.Render(tag)
	default:
		return okStyle.Render(tag)
	}
}

// FormatSlot renders a timetable slot on one line.
func FormatSlot(s models.TimetableSlot) string {
	line := fmt.Sprintf("%s-%s  %s", s.StartTime, s.EndTime, s.CourseName)
	if s.SessionType != "" && s.SessionType != models.SessionRegular {
		line += fmt.Sprintf(" (%s)", s.SessionType)
	}
	return line + " " + ProvenanceTag(s.Provenance())
}

// FormatCandidate renders an inferred slot with its score.
func FormatCandidate(c *timetable.SlotCandidate) string {
	if c == nil {
		return "-"
	}
	return fmt.Sprintf("%s %s (score %.2f, %d sessions)", c.CourseID, c.Range(), c.Stats.Score, c.Stats.OccurrenceCount)
}
