package slots

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Noelithub77/bunkialo2-sub002/internal/cli"
	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
	"github.com/Noelithub77/bunkialo2-sub002/internal/storage/sqlstore"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlstore.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.SaveCourses([]models.Course{{ID: "CS101", Name: "Algorithms"}}); err != nil {
		t.Fatalf("failed to save course: %v", err)
	}

	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out}, out
}

func TestSlotAddCmd(t *testing.T) {
	tests := []struct {
		name    string
		cmd     SlotAddCmd
		wantErr bool
		wantDay int
	}{
		{"weekday name", SlotAddCmd{CourseID: "CS101", Day: "wednesday", Start: "14:00", End: "15:00", Type: "regular"}, false, 3},
		{"numeric day", SlotAddCmd{CourseID: "CS101", Day: "0", Start: "08:00", End: "09:50", Type: "lab"}, false, 0},
		{"unknown day", SlotAddCmd{CourseID: "CS101", Day: "someday", Start: "14:00", End: "15:00"}, true, 0},
		{"end before start", SlotAddCmd{CourseID: "CS101", Day: "mon", Start: "15:00", End: "14:00"}, true, 0},
		{"bad time", SlotAddCmd{CourseID: "CS101", Day: "mon", Start: "2pm", End: "15:00"}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestDB(t)

			err := tt.cmd.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SlotAddCmd error = %v, wantErr %v", err, tt.wantErr)
			}
			slots, err := ctx.Store.GetAllManualSlots()
			if err != nil {
				t.Fatalf("failed to list slots: %v", err)
			}
			if tt.wantErr {
				if len(slots) != 0 {
					t.Errorf("Expected no slot to be stored, got %d", len(slots))
				}
				return
			}
			if len(slots) != 1 || slots[0].DayOfWeek != tt.wantDay {
				t.Fatalf("Expected one slot on day %d, got %+v", tt.wantDay, slots)
			}
			if slots[0].SessionType != models.ParseSessionType(tt.cmd.Type) {
				t.Errorf("Expected session type %s, got %s", tt.cmd.Type, slots[0].SessionType)
			}
		})
	}
}

func TestSlotAddCmd_UnknownCourseWarns(t *testing.T) {
	ctx, out := setupTestDB(t)

	cmd := &SlotAddCmd{CourseID: "MA201", Day: "fri", Start: "10:00", End: "11:00", Type: "regular"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("slot add failed: %v", err)
	}
	if !strings.Contains(out.String(), "has not been imported yet") {
		t.Errorf("Expected warning, got %q", out.String())
	}
}

func TestSlotListAndDelete(t *testing.T) {
	ctx, out := setupTestDB(t)
	for _, s := range []models.ManualSlot{
		{ID: "m1", CourseID: "CS101", DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00", SessionType: models.SessionRegular},
		{ID: "m2", CourseID: "MA201", DayOfWeek: 2, StartTime: "11:00", EndTime: "12:00", SessionType: models.SessionRegular},
	} {
		if err := ctx.Store.AddManualSlot(s); err != nil {
			t.Fatalf("failed to add slot: %v", err)
		}
	}

	if err := (&SlotListCmd{Course: "CS101"}).Run(ctx); err != nil {
		t.Fatalf("slot list failed: %v", err)
	}
	if !strings.Contains(out.String(), "m1") || strings.Contains(out.String(), "m2") {
		t.Errorf("Expected only CS101 slots, got:\n%s", out.String())
	}

	if err := (&SlotDeleteCmd{ID: "m1"}).Run(ctx); err != nil {
		t.Fatalf("slot delete failed: %v", err)
	}
	if err := (&SlotDeleteCmd{ID: "m1"}).Run(ctx); err == nil {
		t.Error("Expected error deleting a missing slot")
	}
}
