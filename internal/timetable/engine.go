// Package timetable infers a weekly class timetable from LMS attendance
// history and reconciles it with the user's manual and custom slots.
package timetable

import (
	"fmt"

	"github.com/Noelithub77/bunkialo2-sub002/internal/constants"
	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
)

// Options are the engine tunables.
type Options struct {
	MergeWindowMin   int     // start/end tolerance for near-duplicate ranges
	OutlierThreshold float64 // slots scoring below this become outlier conflicts
	LabMinMinutes    int     // untagged sessions at least this long are labs
}

func DefaultOptions() Options {
	return Options{
		MergeWindowMin:   constants.DefaultMergeWindowMin,
		OutlierThreshold: constants.DefaultOutlierThreshold,
		LabMinMinutes:    constants.DefaultLabMinMinutes,
	}
}

// OptionsFromSettings reads the tunables out of stored settings, falling back
// to defaults for unset values.
func OptionsFromSettings(s models.Settings) Options {
	models.ApplyDefaultSettings(&s)
	return Options{
		MergeWindowMin:   s.MergeWindowMin,
		OutlierThreshold: s.OutlierThreshold,
		LabMinMinutes:    s.LabMinMinutes,
	}
}

// Input is everything a generation reads apart from resolutions.
type Input struct {
	Courses       []models.Course       `hash:"set"`
	ManualSlots   []models.ManualSlot   `hash:"set"`
	CustomCourses []models.CustomCourse `hash:"set"`
}

// Result is the output of one generation.
type Result struct {
	Slots       []models.TimetableSlot
	Conflicts   []SlotConflict
	Candidates  []SlotCandidate // every aggregated slot before detection
	Suppressed  []Suppression
	Unparseable map[string]int // course ID -> records that could not be parsed
}

// Engine runs timetable generation and owns the user's conflict resolutions.
// Generation works on a snapshot of the resolutions; the Resolve and Revert
// methods are the only writers.
type Engine struct {
	opts     Options
	resolver *Resolver
	last     []SlotConflict
}

func NewEngine(opts Options, res models.Resolutions) *Engine {
	return &Engine{opts: opts, resolver: NewResolver(res)}
}

func (e *Engine) Options() Options {
	return e.opts
}

// Generate runs extraction, aggregation, detection and assembly. It is a pure
// function of in, the engine options and the current resolutions.
func (e *Engine) Generate(in Input) Result {
	snapshot := NewResolver(e.resolver.Resolutions())

	res := Result{Unparseable: map[string]int{}}
	courseNames := map[string]string{}
	var courses []CourseCandidates
	for _, course := range in.Courses {
		courseNames[course.ID] = course.Name
		extracted, bad := ExtractCourse(course)
		if bad > 0 {
			res.Unparseable[course.ID] += bad
		}
		cands := Aggregate(course.ID, course.Name, extracted, e.opts)
		res.Candidates = append(res.Candidates, cands...)
		courses = append(courses, CourseCandidates{CourseID: course.ID, CourseName: course.Name, Candidates: cands})
	}
	sortCandidates(res.Candidates)

	det := Detect(courses, in.ManualSlots, snapshot, e.opts)
	res.Conflicts = det.Conflicts
	res.Suppressed = det.Suppressed
	res.Slots = Assemble(in.ManualSlots, in.CustomCourses, det.Accepted, courseNames)

	e.last = append([]SlotConflict(nil), det.Conflicts...)
	return res
}

// Conflicts returns the conflicts of the most recent generation.
func (e *Engine) Conflicts() []SlotConflict {
	return append([]SlotConflict(nil), e.last...)
}

// Resolutions returns a copy of the current resolutions for persistence.
func (e *Engine) Resolutions() models.Resolutions {
	return e.resolver.Resolutions()
}

// ResolveConflict records choice for the conflict at index in the most recent
// generation's conflict list. Manual-auto conflicts cannot be resolved.
func (e *Engine) ResolveConflict(index int, choice models.Choice) error {
	if index < 0 || index >= len(e.last) {
		return fmt.Errorf("%w: %d", ErrConflictIndex, index)
	}
	c := e.last[index]
	if err := e.resolver.Record(c, choice); err != nil {
		return err
	}
	e.last[index].ResolvedChoice = choice
	return nil
}

// ResolveConflictByID records choice for the conflict with the given ID in the
// most recent generation.
func (e *Engine) ResolveConflictByID(conflictID string, choice models.Choice) error {
	for i, c := range e.last {
		if c.ConflictID == conflictID {
			return e.ResolveConflict(i, choice)
		}
	}
	return fmt.Errorf("%w: no conflict %q", ErrConflictIndex, conflictID)
}

// ResolveAllAutoConflicts records choice for every unresolved auto-auto and
// time-overlap conflict and returns how many it recorded.
func (e *Engine) ResolveAllAutoConflicts(choice models.Choice) (int, error) {
	n, err := e.resolver.RecordAll(e.last, choice)
	if err != nil {
		return n, err
	}
	for i, c := range e.last {
		if got, ok := e.resolver.Recorded(c); ok {
			e.last[i].ResolvedChoice = got
		}
	}
	return n, nil
}

// RevertAutoConflictResolution forgets an auto-auto or time-overlap choice.
// Unknown IDs are ignored.
func (e *Engine) RevertAutoConflictResolution(conflictID string) bool {
	removed := e.resolver.Revert(models.ResolutionAuto, conflictID)
	if e.resolver.Revert(models.ResolutionTimeOverlap, conflictID) {
		removed = true
	}
	if removed {
		e.clearResolved(conflictID)
	}
	return removed
}

// RevertOutlierResolution forgets an outlier choice. Unknown IDs are ignored.
func (e *Engine) RevertOutlierResolution(conflictID string) bool {
	removed := e.resolver.Revert(models.ResolutionOutlier, conflictID)
	if removed {
		e.clearResolved(conflictID)
	}
	return removed
}

func (e *Engine) clearResolved(conflictID string) {
	for i := range e.last {
		if e.last[i].ConflictID == conflictID {
			e.last[i].ResolvedChoice = ""
		}
	}
}
