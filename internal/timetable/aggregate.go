package timetable

import (
	"sort"

	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
	"github.com/Noelithub77/bunkialo2-sub002/internal/utils"
)

// SlotKey identifies a weekly slot within one course.
type SlotKey struct {
	DayOfWeek int
	StartTime string
	EndTime   string
}

// SlotOccurrenceStats describes how consistently a slot was observed.
//
// OccurrenceCount <= DayObservationCount and DayActiveWeekCount <=
// TotalWeekSpanCount always hold. Score is DayActiveWeekCount over
// TotalWeekSpanCount and lies in [0, 1].
type SlotOccurrenceStats struct {
	OccurrenceCount     int     `json:"occurrence_count"`
	DayActiveWeekCount  int     `json:"day_active_week_count"`
	TotalWeekSpanCount  int     `json:"total_week_span_count"`
	DayObservationCount int     `json:"day_observation_count"`
	Score               float64 `json:"score"`
	LastSeen            string  `json:"last_seen"` // YYYY-MM-DD of the latest session
}

// SlotCandidate is an aggregated weekly slot inferred for an LMS course.
type SlotCandidate struct {
	CourseID    string              `json:"course_id"`
	CourseName  string              `json:"course_name"`
	DayOfWeek   int                 `json:"day_of_week"`
	StartTime   string              `json:"start_time"`
	EndTime     string              `json:"end_time"`
	SessionType models.SessionType  `json:"session_type"`
	Stats       SlotOccurrenceStats `json:"stats"`
}

func (c SlotCandidate) Key() SlotKey {
	return SlotKey{DayOfWeek: c.DayOfWeek, StartTime: c.StartTime, EndTime: c.EndTime}
}

// Range renders the slot as "HH:MM-HH:MM".
func (c SlotCandidate) Range() string {
	return c.StartTime + "-" + c.EndTime
}

type span struct {
	start, end int
}

func (s span) overlaps(o span) bool {
	return s.start < o.end && o.start < s.end
}

func (s span) near(o span, window int) bool {
	return abs(s.start-o.start) <= window && abs(s.end-o.end) <= window
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

type observation struct {
	day         int
	span        span
	date        string
	week        string
	description string
}

// Aggregate groups a course's extracted candidates into weekly slots and
// scores each one. Near-duplicate ranges on the same weekday collapse into the
// most frequently observed range. The result is ordered by day, start, end and
// does not depend on the order of candidates.
func Aggregate(courseID, courseName string, candidates []ExtractedSlotCandidate, opts Options) []SlotCandidate {
	observations := dedupe(toObservations(candidates))
	if len(observations) == 0 {
		return nil
	}

	for i, o := range mergeNearDuplicates(observations, opts.MergeWindowMin) {
		observations[i].span = o
	}
	observations = dedupe(observations)

	type tally struct {
		count    int
		weeks    map[string]bool
		lastSeen string
		types    map[models.SessionType]int
	}
	type slotRef struct {
		day  int
		span span
	}

	dayWeeks := map[int]map[string]bool{}
	dayObservations := map[int]int{}
	tallies := map[slotRef]*tally{}

	for _, o := range observations {
		if dayWeeks[o.day] == nil {
			dayWeeks[o.day] = map[string]bool{}
		}
		dayWeeks[o.day][o.week] = true
		dayObservations[o.day]++

		ref := slotRef{day: o.day, span: o.span}
		t, ok := tallies[ref]
		if !ok {
			t = &tally{weeks: map[string]bool{}, types: map[models.SessionType]int{}}
			tallies[ref] = t
		}
		t.count++
		t.weeks[o.week] = true
		if o.date > t.lastSeen {
			t.lastSeen = o.date
		}
		t.types[InferSessionType(o.description, o.span.start, o.span.end, opts.LabMinMinutes)]++
	}

	result := make([]SlotCandidate, 0, len(tallies))
	for ref, t := range tallies {
		total := len(dayWeeks[ref.day])
		active := len(t.weeks)
		result = append(result, SlotCandidate{
			CourseID:    courseID,
			CourseName:  courseName,
			DayOfWeek:   ref.day,
			StartTime:   utils.FormatMinutes(ref.span.start),
			EndTime:     utils.FormatMinutes(ref.span.end),
			SessionType: dominantSessionType(t.types),
			Stats: SlotOccurrenceStats{
				OccurrenceCount:     t.count,
				DayActiveWeekCount:  active,
				TotalWeekSpanCount:  total,
				DayObservationCount: dayObservations[ref.day],
				Score:               weekScore(active, total),
				LastSeen:            t.lastSeen,
			},
		})
	}

	sortCandidates(result)
	return result
}

func weekScore(active, total int) float64 {
	if total < 1 {
		total = 1
	}
	score := float64(active) / float64(total)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func toObservations(candidates []ExtractedSlotCandidate) []observation {
	out := make([]observation, 0, len(candidates))
	for _, c := range candidates {
		start, err := utils.ParseTimeToMinutes(c.StartTime)
		if err != nil {
			continue
		}
		end, err := utils.ParseTimeToMinutes(c.EndTime)
		if err != nil || end <= start {
			continue
		}
		date, err := utils.ParseDate(c.Date)
		if err != nil {
			continue
		}
		out = append(out, observation{
			day:         int(date.Weekday()),
			span:        span{start: start, end: end},
			date:        c.Date,
			week:        utils.WeekKey(date),
			description: c.Description,
		})
	}
	return out
}

// dedupe sorts observations canonically and drops repeats of the same session
// (same date and range). The lowest description wins so the outcome does not
// depend on input order.
func dedupe(obs []observation) []observation {
	sort.Slice(obs, func(i, j int) bool {
		a, b := obs[i], obs[j]
		if a.day != b.day {
			return a.day < b.day
		}
		if a.date != b.date {
			return a.date < b.date
		}
		if a.span.start != b.span.start {
			return a.span.start < b.span.start
		}
		if a.span.end != b.span.end {
			return a.span.end < b.span.end
		}
		return a.description < b.description
	})
	out := obs[:0]
	for i, o := range obs {
		if i > 0 && o.date == obs[i-1].date && o.span == obs[i-1].span {
			continue
		}
		out = append(out, o)
	}
	return out
}

// mergeNearDuplicates returns the representative range for every observation.
// Distinct ranges are visited most frequent first; each joins the first
// existing anchor within window minutes at both ends, or becomes an anchor.
func mergeNearDuplicates(obs []observation, window int) []span {
	type dayRange struct {
		day  int
		span span
	}
	counts := map[dayRange]int{}
	for _, o := range obs {
		counts[dayRange{o.day, o.span}]++
	}

	keys := make([]dayRange, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.day != b.day {
			return a.day < b.day
		}
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		if a.span.start != b.span.start {
			return a.span.start < b.span.start
		}
		return a.span.end < b.span.end
	})

	anchors := map[int][]span{}
	rep := map[dayRange]span{}
	for _, k := range keys {
		target := k.span
		for _, a := range anchors[k.day] {
			if k.span.near(a, window) {
				target = a
				break
			}
		}
		if target == k.span {
			anchors[k.day] = append(anchors[k.day], k.span)
		}
		rep[k] = target
	}

	out := make([]span, len(obs))
	for i, o := range obs {
		out[i] = rep[dayRange{o.day, o.span}]
	}
	return out
}

// dominantSessionType picks the most common type, preferring regular, then
// lab, then tutorial on ties.
func dominantSessionType(types map[models.SessionType]int) models.SessionType {
	best := models.SessionRegular
	bestCount := -1
	for _, st := range []models.SessionType{models.SessionRegular, models.SessionLab, models.SessionTutorial} {
		if types[st] > bestCount {
			best, bestCount = st, types[st]
		}
	}
	return best
}

func sortCandidates(cs []SlotCandidate) {
	sort.Slice(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
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
}
