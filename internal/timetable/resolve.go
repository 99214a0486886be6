package timetable

import (
	"errors"
	"fmt"

	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
)

var (
	ErrConflictIndex         = errors.New("conflict index out of range")
	ErrConflictNotResolvable = errors.New("manual slots always win over inferred slots")
	ErrInvalidChoice         = errors.New("invalid choice for conflict")
)

// Resolver holds the user's recorded conflict choices. Detection only reads
// it; Record, RecordAll and Revert are the explicit ways to change it.
type Resolver struct {
	resolutions models.Resolutions
}

// NewResolver copies res, so later changes to either side are not shared.
func NewResolver(res models.Resolutions) *Resolver {
	return &Resolver{resolutions: res.Clone()}
}

// Resolutions returns a copy of the recorded choices.
func (r *Resolver) Resolutions() models.Resolutions {
	return r.resolutions.Clone()
}

// KindOf maps a conflict type to the resolution map that remembers it.
func KindOf(t ConflictType) (models.ResolutionKind, bool) {
	switch t {
	case ConflictAutoAuto:
		return models.ResolutionAuto, true
	case ConflictTimeOverlap:
		return models.ResolutionTimeOverlap, true
	case ConflictOutlier:
		return models.ResolutionOutlier, true
	default:
		return "", false
	}
}

// ValidChoice reports whether choice answers a conflict of type t.
func ValidChoice(t ConflictType, choice models.Choice) bool {
	switch t {
	case ConflictAutoAuto, ConflictTimeOverlap:
		return choice == models.ChoicePreferred || choice == models.ChoiceAlternative
	case ConflictOutlier:
		return choice == models.ChoiceKeep || choice == models.ChoiceIgnore
	default:
		return false
	}
}

// Recorded returns the stored choice for c. Entries that are not valid for
// the conflict's type are treated as absent.
func (r *Resolver) Recorded(c SlotConflict) (models.Choice, bool) {
	kind, ok := KindOf(c.Type)
	if !ok {
		return "", false
	}
	choice, ok := r.resolutions.Map(kind)[c.ConflictID]
	if !ok || !ValidChoice(c.Type, choice) {
		return "", false
	}
	return choice, true
}

// Effective returns the choice detection applies: the recorded one, or the
// default of preferred for pairs and keep for outliers.
func (r *Resolver) Effective(c SlotConflict) models.Choice {
	if choice, ok := r.Recorded(c); ok {
		return choice
	}
	if c.Type == ConflictOutlier {
		return models.ChoiceKeep
	}
	return models.ChoicePreferred
}

// Record stores choice for c.
func (r *Resolver) Record(c SlotConflict, choice models.Choice) error {
	if c.Type == ConflictManualAuto {
		return ErrConflictNotResolvable
	}
	kind, ok := KindOf(c.Type)
	if !ok {
		return fmt.Errorf("unknown conflict type %q", c.Type)
	}
	if !ValidChoice(c.Type, choice) {
		return fmt.Errorf("%w: %q for %s", ErrInvalidChoice, choice, c.Type)
	}
	r.resolutions.Map(kind)[c.ConflictID] = choice
	return nil
}

// RecordAll applies choice to every auto-auto and time-overlap conflict that
// has no recorded choice yet and returns how many were recorded.
func (r *Resolver) RecordAll(conflicts []SlotConflict, choice models.Choice) (int, error) {
	if !ValidChoice(ConflictAutoAuto, choice) {
		return 0, fmt.Errorf("%w: %q for bulk resolution", ErrInvalidChoice, choice)
	}
	n := 0
	for _, c := range conflicts {
		if c.Type != ConflictAutoAuto && c.Type != ConflictTimeOverlap {
			continue
		}
		if _, ok := r.Recorded(c); ok {
			continue
		}
		if err := r.Record(c, choice); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Revert forgets the choice stored under conflictID in the given map. It
// reports whether anything was removed.
func (r *Resolver) Revert(kind models.ResolutionKind, conflictID string) bool {
	m := r.resolutions.Map(kind)
	if _, ok := m[conflictID]; !ok {
		return false
	}
	delete(m, conflictID)
	return true
}
