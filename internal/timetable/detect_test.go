package timetable

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
)

func candidate(courseID string, day int, start, end string, score float64, occurrences int) SlotCandidate {
	return SlotCandidate{
		CourseID:    courseID,
		DayOfWeek:   day,
		StartTime:   start,
		EndTime:     end,
		SessionType: models.SessionRegular,
		Stats: SlotOccurrenceStats{
			OccurrenceCount:     occurrences,
			DayActiveWeekCount:  occurrences,
			TotalWeekSpanCount:  10,
			DayObservationCount: 10,
			Score:               score,
			LastSeen:            "2026-03-01",
		},
	}
}

func TestDetect_DisplacesThirdOverlappingCandidate(t *testing.T) {
	courses := []CourseCandidates{{
		CourseID: "C1",
		Candidates: []SlotCandidate{
			candidate("C1", 2, "10:50", "11:20", 0.3, 3),
			candidate("C1", 2, "12:00", "13:00", 0.8, 8),
			candidate("C1", 2, "10:30", "11:30", 0.5, 5),
			candidate("C1", 2, "10:00", "11:00", 0.9, 9),
		},
	}}

	tests := []struct {
		name         string
		choice       models.Choice
		wantAccepted []string
	}{
		{"default keeps preferred", "", []string{"10:00-11:00", "12:00-13:00"}},
		{"alternative swaps winner", models.ChoiceAlternative, []string{"10:30-11:30", "12:00-13:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := models.NewResolutions()
			if tt.choice != "" {
				res.Auto["auto-auto:C1:2:10:00-11:00|10:30-11:30"] = tt.choice
			}
			det := Detect(courses, nil, NewResolver(res), DefaultOptions())

			if len(det.Conflicts) != 1 || det.Conflicts[0].Type != ConflictAutoAuto {
				t.Fatalf("Expected a single auto-auto conflict, got %+v", det.Conflicts)
			}
			if len(det.Accepted) != len(tt.wantAccepted) {
				t.Fatalf("Expected %d accepted slots, got %+v", len(tt.wantAccepted), det.Accepted)
			}
			for i, want := range tt.wantAccepted {
				if got := det.Accepted[i].Range(); got != want {
					t.Errorf("Accepted[%d]: expected %s, got %s", i, want, got)
				}
			}
			if len(det.Suppressed) != 2 {
				t.Fatalf("Expected 2 suppressed slots, got %+v", det.Suppressed)
			}
			if det.Suppressed[1].Reason != SuppressedOutranked || det.Suppressed[1].Slot.Range() != "10:50-11:20" {
				t.Errorf("Expected 10:50-11:20 to be outranked, got %+v", det.Suppressed[1])
			}
		})
	}
}

func TestDetect_LeavesInputUntouched(t *testing.T) {
	cands := []SlotCandidate{
		candidate("C1", 1, "10:00", "11:00", 0.2, 2),
		candidate("C1", 1, "09:00", "10:00", 0.9, 9),
	}
	courses := []CourseCandidates{{CourseID: "C1", Candidates: cands}}
	res := models.NewResolutions()
	resolver := NewResolver(res)

	det := Detect(courses, nil, resolver, DefaultOptions())

	if cands[0].StartTime != "10:00" {
		t.Error("Expected caller's candidate slice to keep its order")
	}
	if resolver.Resolutions().Len() != 0 {
		t.Error("Expected detection not to record resolutions")
	}
	if len(det.Conflicts) != 1 || det.Conflicts[0].Type != ConflictOutlier {
		t.Errorf("Expected only the low scoring slot to be flagged, got %+v", det.Conflicts)
	}
}

func TestResolver_Record(t *testing.T) {
	r := NewResolver(models.NewResolutions())
	manual := SlotConflict{Type: ConflictManualAuto, ConflictID: "m"}
	pair := SlotConflict{Type: ConflictAutoAuto, ConflictID: "p"}
	outlier := SlotConflict{Type: ConflictOutlier, ConflictID: "o"}

	tests := []struct {
		name     string
		conflict SlotConflict
		choice   models.Choice
		wantErr  error
	}{
		{"manual is not resolvable", manual, models.ChoicePreferred, ErrConflictNotResolvable},
		{"pair rejects keep", pair, models.ChoiceKeep, ErrInvalidChoice},
		{"pair accepts alternative", pair, models.ChoiceAlternative, nil},
		{"outlier rejects alternative", outlier, models.ChoiceAlternative, ErrInvalidChoice},
		{"outlier accepts ignore", outlier, models.ChoiceIgnore, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Record(tt.conflict, tt.choice)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil {
				if got := r.Effective(tt.conflict); got != tt.choice {
					t.Errorf("Expected effective choice %s, got %s", tt.choice, got)
				}
			}
		})
	}
}

func TestNewResolver_CopiesInput(t *testing.T) {
	res := models.NewResolutions()
	r := NewResolver(res)
	res.Auto["later"] = models.ChoiceAlternative

	if _, ok := r.Recorded(SlotConflict{Type: ConflictAutoAuto, ConflictID: "later"}); ok {
		t.Error("Expected resolver to hold its own copy")
	}
}

func TestConflictType_WireNames(t *testing.T) {
	tests := []struct {
		conflictType ConflictType
		want         string
	}{
		{ConflictManualAuto, "manual-auto"},
		{ConflictAutoAuto, "auto-auto"},
		{ConflictTimeOverlap, "time-overlap"},
		{ConflictOutlier, "outlier-review"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			data, err := json.Marshal(SlotConflict{Type: tt.conflictType})
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if !strings.Contains(string(data), `"type":"`+tt.want+`"`) {
				t.Errorf("Expected type %q in %s", tt.want, data)
			}
		})
	}

	s := candidate("C3", 4, "08:00", "09:00", 0.1, 1)
	if id := outlierID(s); !strings.HasPrefix(id, "outlier-review:") {
		t.Errorf("Expected outlier IDs to carry the type name, got %q", id)
	}
}

func TestDetect_TimeOverlapDisplacementIsFinal(t *testing.T) {
	courses := []CourseCandidates{
		{CourseID: "A", Candidates: []SlotCandidate{candidate("A", 1, "09:00", "10:00", 0.8, 8)}},
		{CourseID: "B", Candidates: []SlotCandidate{candidate("B", 1, "09:30", "10:30", 1.0, 10)}},
		{CourseID: "C", Candidates: []SlotCandidate{candidate("C", 1, "10:15", "11:15", 0.9, 9)}},
	}
	res := models.NewResolutions()
	res.TimeOverlap["time-overlap:1:B@09:30-10:30|C@10:15-11:15"] = models.ChoiceAlternative

	det := Detect(courses, nil, NewResolver(res), DefaultOptions())

	if got := conflictTypes(det.Conflicts); len(got) != 2 || got[0] != ConflictTimeOverlap || got[1] != ConflictTimeOverlap {
		t.Fatalf("Expected two time-overlap conflicts, got %+v", det.Conflicts)
	}
	if len(det.Accepted) != 1 || det.Accepted[0].CourseID != "C" {
		t.Fatalf("Expected only C to survive, got %+v", det.Accepted)
	}
	if len(det.Suppressed) != 2 {
		t.Fatalf("Expected A and B to be suppressed, got %+v", det.Suppressed)
	}
	for i, want := range []string{"A", "B"} {
		got := det.Suppressed[i]
		if got.Slot.CourseID != want || got.Reason != SuppressedByTimeOverlap {
			t.Errorf("Suppressed[%d]: expected %s by time overlap, got %+v", i, want, got)
		}
	}
}
