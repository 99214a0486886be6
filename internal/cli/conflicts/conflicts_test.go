package conflicts

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/Noelithub77/bunkialo2-sub002/internal/cli"
	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
	"github.com/Noelithub77/bunkialo2-sub002/internal/storage/sqlstore"
	"github.com/Noelithub77/bunkialo2-sub002/internal/timetable"
)

const labConflictID = "auto-auto:C1:2:10:00-10:55|10:00-11:50"

func tuesdays(from, to int, timeRange string) []models.AttendanceRecord {
	first := time.Date(2026, time.January, 6, 0, 0, 0, 0, time.UTC)
	var out []models.AttendanceRecord
	for w := from; w <= to; w++ {
		d := first.AddDate(0, 0, 7*w)
		out = append(out, models.AttendanceRecord{Date: d.Format("Mon 2 Jan 2006") + " " + timeRange, Status: models.StatusPresent})
	}
	return out
}

// setupTestDB stores a course whose Tuesday lecture competes with a one-off
// lab at the same start time.
func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlstore.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	course := models.Course{ID: "C1", Name: "Physics"}
	course.Records = append(tuesdays(0, 7, "10AM - 10:55AM"), tuesdays(8, 8, "10AM - 11:50AM")...)
	if err := store.SaveCourses([]models.Course{course}); err != nil {
		t.Fatalf("failed to save course: %v", err)
	}

	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out}, out
}

func storedSlots(t *testing.T, ctx *cli.Context) []models.TimetableSlot {
	t.Helper()
	slots, err := ctx.Store.GetTimetable()
	if err != nil {
		t.Fatalf("failed to get timetable: %v", err)
	}
	return slots
}

func TestConflictListCmd(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&ConflictListCmd{}).Run(ctx); err != nil {
		t.Fatalf("conflicts list failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"[auto-auto]", "10:00-10:55", "10:00-11:50", labConflictID, "1 open, 1 total"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in output:\n%s", want, got)
		}
	}
}

func TestConflictResolveCmd(t *testing.T) {
	tests := []struct {
		name     string
		conflict string
		choice   models.Choice
		wantErr  error
		wantEnd  string
	}{
		{"by number", "1", models.ChoiceAlternative, nil, "11:50"},
		{"by id", labConflictID, models.ChoicePreferred, nil, "10:55"},
		{"out of range", "2", models.ChoicePreferred, timetable.ErrConflictIndex, ""},
		{"wrong choice for type", "1", models.ChoiceKeep, timetable.ErrInvalidChoice, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestDB(t)

			err := (&ConflictResolveCmd{Conflict: tt.conflict, Choice: tt.choice}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("conflicts resolve failed: %v", err)
			}

			res, err := ctx.Store.GetResolutions()
			if err != nil {
				t.Fatalf("failed to get resolutions: %v", err)
			}
			if res.Auto[labConflictID] != tt.choice {
				t.Errorf("Expected %s to be stored, got %+v", tt.choice, res.Auto)
			}
			slots := storedSlots(t, ctx)
			if len(slots) != 1 || slots[0].EndTime != tt.wantEnd {
				t.Errorf("Expected saved timetable ending %s, got %+v", tt.wantEnd, slots)
			}
		})
	}
}

func TestConflictResolveAllAndRevert(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&ConflictResolveAllCmd{Choice: models.ChoiceAlternative}).Run(ctx); err != nil {
		t.Fatalf("resolve-all failed: %v", err)
	}
	if !strings.Contains(out.String(), "for 1 conflict(s)") {
		t.Errorf("Expected one conflict resolved, got %q", out.String())
	}

	out.Reset()
	if err := (&ConflictResolveAllCmd{Choice: models.ChoicePreferred}).Run(ctx); err != nil {
		t.Fatalf("second resolve-all failed: %v", err)
	}
	if !strings.Contains(out.String(), "No open competing-slot conflicts.") {
		t.Errorf("Expected answered conflicts to be left alone, got %q", out.String())
	}

	if err := (&ConflictRevertCmd{ConflictID: labConflictID}).Run(ctx); err != nil {
		t.Fatalf("revert failed: %v", err)
	}
	res, err := ctx.Store.GetResolutions()
	if err != nil {
		t.Fatalf("failed to get resolutions: %v", err)
	}
	if res.Len() != 0 {
		t.Errorf("Expected no stored resolutions, got %+v", res)
	}
	if slots := storedSlots(t, ctx); len(slots) != 1 || slots[0].EndTime != "10:55" {
		t.Errorf("Expected preferred slot after revert, got %+v", slots)
	}

	if err := (&ConflictRevertCmd{ConflictID: labConflictID}).Run(ctx); err == nil {
		t.Error("Expected error reverting an unknown answer")
	}
}

func TestConflictReviewCmd(t *testing.T) {
	ctx, out := setupTestDB(t)

	asked := 0
	cmd := &ConflictReviewCmd{choose: func(n, total int, c timetable.SlotConflict) (models.Choice, error) {
		asked++
		if n != 1 || total != 1 || c.ConflictID != labConflictID {
			t.Errorf("Unexpected prompt %d/%d for %s", n, total, c.ConflictID)
		}
		return models.ChoiceAlternative, nil
	}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if asked != 1 {
		t.Errorf("Expected one prompt, got %d", asked)
	}
	if slots := storedSlots(t, ctx); len(slots) != 1 || slots[0].SessionType != models.SessionLab {
		t.Errorf("Expected the lab to be chosen, got %+v", slots)
	}

	out.Reset()
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("second review failed: %v", err)
	}
	if !strings.Contains(out.String(), "Nothing to review.") {
		t.Errorf("Expected nothing left to review, got %q", out.String())
	}
}

func TestConflictReviewCmd_SkipAndAbort(t *testing.T) {
	tests := []struct {
		name   string
		choice models.Choice
		err    error
	}{
		{"skip", skip, nil},
		{"abort", skip, huh.ErrUserAborted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := setupTestDB(t)
			cmd := &ConflictReviewCmd{choose: func(int, int, timetable.SlotConflict) (models.Choice, error) {
				return tt.choice, tt.err
			}}
			if err := cmd.Run(ctx); err != nil {
				t.Fatalf("review failed: %v", err)
			}
			if !strings.Contains(out.String(), "No answers recorded.") {
				t.Errorf("Expected nothing recorded, got %q", out.String())
			}
		})
	}
}

func TestOptions(t *testing.T) {
	slot := &timetable.SlotCandidate{CourseID: "C1", DayOfWeek: 4, StartTime: "08:00", EndTime: "09:00"}
	outlier := timetable.SlotConflict{Type: timetable.ConflictOutlier, DayOfWeek: 4, Slot: slot}

	opts := options(outlier)
	if len(opts) != 3 || opts[0].Value != models.ChoiceKeep || opts[1].Value != models.ChoiceIgnore {
		t.Errorf("Unexpected outlier options: %+v", opts)
	}
}
