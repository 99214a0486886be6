package timetable

import (
	"fmt"
	"sort"

	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
	"github.com/Noelithub77/bunkialo2-sub002/internal/utils"
)

type ConflictType string

const (
	ConflictManualAuto  ConflictType = "manual-auto"
	ConflictAutoAuto    ConflictType = "auto-auto"
	ConflictTimeOverlap ConflictType = "time-overlap"
	ConflictOutlier     ConflictType = "outlier-review"
)

// SlotConflict is a problem found while building the timetable. Which slot
// fields are set depends on Type:
//
//   - manual-auto: ManualSlot and AutoSlot
//   - auto-auto, time-overlap: PreferredSlot and AlternativeSlot
//   - outlier-review: Slot
type SlotConflict struct {
	Type            ConflictType       `json:"type"`
	ConflictID      string             `json:"conflict_id"`
	CourseID        string             `json:"course_id"`
	DayOfWeek       int                `json:"day_of_week"`
	ManualSlot      *models.ManualSlot `json:"manual_slot,omitempty"`
	AutoSlot        *SlotCandidate     `json:"auto_slot,omitempty"`
	PreferredSlot   *SlotCandidate     `json:"preferred_slot,omitempty"`
	AlternativeSlot *SlotCandidate     `json:"alternative_slot,omitempty"`
	Slot            *SlotCandidate     `json:"slot,omitempty"`
	ResolvedChoice  models.Choice      `json:"resolved_choice,omitempty"`
	Description     string             `json:"description"`
}

// Resolvable reports whether the user can answer this conflict.
func (c SlotConflict) Resolvable() bool {
	return c.Type != ConflictManualAuto
}

type SuppressionReason string

const (
	SuppressedByManual       SuppressionReason = "manual-override"
	SuppressedByAutoConflict SuppressionReason = "auto-conflict"
	SuppressedOutranked      SuppressionReason = "outranked"
	SuppressedByTimeOverlap  SuppressionReason = "time-overlap"
	SuppressedOutlier        SuppressionReason = "outlier-ignored"
)

// Suppression records an inferred slot left out of the timetable.
type Suppression struct {
	Slot       SlotCandidate     `json:"slot"`
	Reason     SuppressionReason `json:"reason"`
	ConflictID string            `json:"conflict_id"`
}

// CourseCandidates is the aggregated output for one LMS course.
type CourseCandidates struct {
	CourseID   string
	CourseName string
	Candidates []SlotCandidate
}

// Detection is the outcome of conflict detection: every conflict in phase
// order and the inferred slots that survived their resolutions.
type Detection struct {
	Conflicts  []SlotConflict
	Accepted   []SlotCandidate
	Suppressed []Suppression
}

type entry struct {
	slot   SlotCandidate
	span   span
	order  int
	alive  bool
	paired bool
}

type detector struct {
	opts     Options
	resolver *Resolver

	manualAuto  []SlotConflict
	autoAuto    []SlotConflict
	timeOverlap []SlotConflict
	outliers    []SlotConflict
	suppressed  []Suppression
	accepted    []*entry
}

// Detect runs the four detection phases in order: manual overrides, competing
// inferred slots within a course, overlaps across courses, and low-confidence
// outliers. Recorded resolutions decide each pair; unresolved pairs fall back
// to the preferred slot and unresolved outliers are kept. The resolver is only
// read.
func Detect(courses []CourseCandidates, manual []models.ManualSlot, resolver *Resolver, opts Options) Detection {
	if resolver == nil {
		resolver = NewResolver(models.NewResolutions())
	}
	d := &detector{opts: opts, resolver: resolver}

	sorted := append([]CourseCandidates(nil), courses...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CourseID < sorted[j].CourseID })
	manualByCourse := groupManualSlots(manual)

	remaining := make([][]SlotCandidate, len(sorted))
	for i, course := range sorted {
		cands := append([]SlotCandidate(nil), course.Candidates...)
		sortCandidates(cands)
		remaining[i] = d.manualPhase(course.CourseID, cands, manualByCourse[course.CourseID])
	}
	for i, course := range sorted {
		d.autoPhase(course.CourseID, remaining[i])
	}
	d.overlapPhase()
	d.outlierPhase()

	det := Detection{Suppressed: d.suppressed}
	det.Conflicts = append(det.Conflicts, d.manualAuto...)
	det.Conflicts = append(det.Conflicts, d.autoAuto...)
	det.Conflicts = append(det.Conflicts, d.timeOverlap...)
	det.Conflicts = append(det.Conflicts, d.outliers...)
	for _, e := range d.accepted {
		if e.alive {
			det.Accepted = append(det.Accepted, e.slot)
		}
	}
	sortCandidates(det.Accepted)
	return det
}

func groupManualSlots(manual []models.ManualSlot) map[string][]models.ManualSlot {
	out := map[string][]models.ManualSlot{}
	for _, m := range manual {
		out[m.CourseID] = append(out[m.CourseID], m)
	}
	for _, slots := range out {
		sort.Slice(slots, func(i, j int) bool {
			a, b := slots[i], slots[j]
			if a.DayOfWeek != b.DayOfWeek {
				return a.DayOfWeek < b.DayOfWeek
			}
			if a.StartTime != b.StartTime {
				return a.StartTime < b.StartTime
			}
			if a.EndTime != b.EndTime {
				return a.EndTime < b.EndTime
			}
			return a.ID < b.ID
		})
	}
	return out
}

func parseSpan(start, end string) (span, bool) {
	s, err := utils.ParseTimeToMinutes(start)
	if err != nil {
		return span{}, false
	}
	e, err := utils.ParseTimeToMinutes(end)
	if err != nil || e <= s {
		return span{}, false
	}
	return span{start: s, end: e}, true
}

// manualPhase drops every inferred slot that overlaps a manual slot of the
// same course on the same day, emitting one conflict per overlapping pair.
func (d *detector) manualPhase(courseID string, cands []SlotCandidate, manual []models.ManualSlot) []SlotCandidate {
	overridden := make([]bool, len(cands))
	for _, m := range manual {
		ms, ok := parseSpan(m.StartTime, m.EndTime)
		if !ok {
			continue
		}
		manualRange := m.StartTime + "-" + m.EndTime
		for i, c := range cands {
			if c.DayOfWeek != m.DayOfWeek {
				continue
			}
			cs, ok := parseSpan(c.StartTime, c.EndTime)
			if !ok || !ms.overlaps(cs) {
				continue
			}
			id := manualAutoID(courseID, m.DayOfWeek, manualRange, c.Range())
			manualSlot, autoSlot := m, c
			d.manualAuto = append(d.manualAuto, SlotConflict{
				Type:        ConflictManualAuto,
				ConflictID:  id,
				CourseID:    courseID,
				DayOfWeek:   m.DayOfWeek,
				ManualSlot:  &manualSlot,
				AutoSlot:    &autoSlot,
				Description: fmt.Sprintf("manual slot %s %s replaces inferred %s", utils.ShortWeekday(m.DayOfWeek), manualRange, c.Range()),
			})
			if !overridden[i] {
				overridden[i] = true
				d.suppress(c, SuppressedByManual, id)
			}
		}
	}

	var out []SlotCandidate
	for i, c := range cands {
		if !overridden[i] {
			out = append(out, c)
		}
	}
	return out
}

// autoPhase settles overlapping inferred slots of one course, day by day.
// The best ranked slot is paired with its strongest overlapping rival; the
// winner stays and anything else overlapping it is dropped.
func (d *detector) autoPhase(courseID string, cands []SlotCandidate) {
	byDay := map[int][]SlotCandidate{}
	var days []int
	for _, c := range cands {
		if _, ok := byDay[c.DayOfWeek]; !ok {
			days = append(days, c.DayOfWeek)
		}
		byDay[c.DayOfWeek] = append(byDay[c.DayOfWeek], c)
	}
	sort.Ints(days)

	for _, day := range days {
		pool := byDay[day]
		sort.SliceStable(pool, func(i, j int) bool { return outranks(pool[i], pool[j]) })

		for len(pool) > 0 {
			top := pool[0]
			topSpan, _ := parseSpan(top.StartTime, top.EndTime)
			rival := -1
			for j := 1; j < len(pool); j++ {
				if s, ok := parseSpan(pool[j].StartTime, pool[j].EndTime); ok && s.overlaps(topSpan) {
					rival = j
					break
				}
			}
			if rival < 0 {
				d.accept(top, false)
				pool = pool[1:]
				continue
			}

			preferred, alternative := top, pool[rival]
			c := SlotConflict{
				Type:            ConflictAutoAuto,
				ConflictID:      autoAutoID(courseID, day, preferred.Range(), alternative.Range()),
				CourseID:        courseID,
				DayOfWeek:       day,
				PreferredSlot:   &preferred,
				AlternativeSlot: &alternative,
				Description: fmt.Sprintf("%s %s (score %.2f) competes with %s (score %.2f)",
					utils.ShortWeekday(day), preferred.Range(), preferred.Stats.Score, alternative.Range(), alternative.Stats.Score),
			}
			c.ResolvedChoice, _ = d.resolver.Recorded(c)
			d.autoAuto = append(d.autoAuto, c)

			winner, loser := preferred, alternative
			if d.resolver.Effective(c) == models.ChoiceAlternative {
				winner, loser = alternative, preferred
			}
			d.accept(winner, true)
			d.suppress(loser, SuppressedByAutoConflict, c.ConflictID)

			winnerSpan, _ := parseSpan(winner.StartTime, winner.EndTime)
			var next []SlotCandidate
			for j, x := range pool {
				if j == 0 || j == rival {
					continue
				}
				if s, ok := parseSpan(x.StartTime, x.EndTime); ok && s.overlaps(winnerSpan) {
					d.suppress(x, SuppressedOutranked, c.ConflictID)
					continue
				}
				next = append(next, x)
			}
			pool = next
		}
	}
}

// overlapPhase compares accepted inferred slots of different courses pairwise.
// A slot that lost once stays out, even if its winner loses later.
func (d *detector) overlapPhase() {
	ordered := append([]*entry(nil), d.accepted...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.slot.DayOfWeek != b.slot.DayOfWeek {
			return a.slot.DayOfWeek < b.slot.DayOfWeek
		}
		if a.span.start != b.span.start {
			return a.span.start < b.span.start
		}
		if a.span.end != b.span.end {
			return a.span.end < b.span.end
		}
		return a.order < b.order
	})

	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			a, b := ordered[i], ordered[j]
			if !a.alive || !b.alive {
				continue
			}
			if a.slot.DayOfWeek != b.slot.DayOfWeek || a.slot.CourseID == b.slot.CourseID {
				continue
			}
			if !a.span.overlaps(b.span) {
				continue
			}

			preferred, alternative := a, b
			if b.slot.Stats.Score > a.slot.Stats.Score ||
				(b.slot.Stats.Score == a.slot.Stats.Score && b.order < a.order) {
				preferred, alternative = b, a
			}
			ps, as := preferred.slot, alternative.slot
			c := SlotConflict{
				Type:            ConflictTimeOverlap,
				ConflictID:      timeOverlapID(ps.DayOfWeek, ps, as),
				CourseID:        ps.CourseID,
				DayOfWeek:       ps.DayOfWeek,
				PreferredSlot:   &ps,
				AlternativeSlot: &as,
				Description: fmt.Sprintf("%s %s %s overlaps %s %s", utils.ShortWeekday(ps.DayOfWeek),
					ps.CourseID, ps.Range(), as.CourseID, as.Range()),
			}
			c.ResolvedChoice, _ = d.resolver.Recorded(c)
			d.timeOverlap = append(d.timeOverlap, c)

			winner, loser := preferred, alternative
			if d.resolver.Effective(c) == models.ChoiceAlternative {
				winner, loser = alternative, preferred
			}
			winner.paired = true
			loser.paired = true
			loser.alive = false
			d.suppress(loser.slot, SuppressedByTimeOverlap, c.ConflictID)
		}
	}
}

// outlierPhase flags low-scoring survivors that no pair conflict already
// adjudicated.
func (d *detector) outlierPhase() {
	ordered := append([]*entry(nil), d.accepted...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].slot, ordered[j].slot
		if a.CourseID != b.CourseID {
			return a.CourseID < b.CourseID
		}
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.EndTime < b.EndTime
	})

	for _, e := range ordered {
		if !e.alive || e.paired || e.slot.Stats.Score >= d.opts.OutlierThreshold {
			continue
		}
		s := e.slot
		c := SlotConflict{
			Type:       ConflictOutlier,
			ConflictID: outlierID(s),
			CourseID:   s.CourseID,
			DayOfWeek:  s.DayOfWeek,
			Slot:       &s,
			Description: fmt.Sprintf("%s %s seen in %d of %d weeks (score %.2f)", utils.ShortWeekday(s.DayOfWeek),
				s.Range(), s.Stats.DayActiveWeekCount, s.Stats.TotalWeekSpanCount, s.Stats.Score),
		}
		c.ResolvedChoice, _ = d.resolver.Recorded(c)
		d.outliers = append(d.outliers, c)

		if d.resolver.Effective(c) == models.ChoiceIgnore {
			e.alive = false
			d.suppress(s, SuppressedOutlier, c.ConflictID)
		}
	}
}

func (d *detector) accept(c SlotCandidate, paired bool) {
	s, _ := parseSpan(c.StartTime, c.EndTime)
	d.accepted = append(d.accepted, &entry{slot: c, span: s, order: len(d.accepted), alive: true, paired: paired})
}

func (d *detector) suppress(c SlotCandidate, reason SuppressionReason, conflictID string) {
	d.suppressed = append(d.suppressed, Suppression{Slot: c, Reason: reason, ConflictID: conflictID})
}

// outranks orders inferred slots by confidence: score, then occurrences,
// then recency, then earlier times.
func outranks(a, b SlotCandidate) bool {
	if a.Stats.Score != b.Stats.Score {
		return a.Stats.Score > b.Stats.Score
	}
	if a.Stats.OccurrenceCount != b.Stats.OccurrenceCount {
		return a.Stats.OccurrenceCount > b.Stats.OccurrenceCount
	}
	if a.Stats.LastSeen != b.Stats.LastSeen {
		return a.Stats.LastSeen > b.Stats.LastSeen
	}
	if a.StartTime != b.StartTime {
		return a.StartTime < b.StartTime
	}
	return a.EndTime < b.EndTime
}
