package system

import (
	"strings"
	"testing"

	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
)

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, _, out := setupTestDB(t, true)

	// missing backups and an ungenerated timetable are warnings only
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "Backups present: WARNING") {
		t.Errorf("Expected backup warning, got:\n%s", out.String())
	}
}

func TestDoctorCmd_UninitializedDB(t *testing.T) {
	ctx, _, out := setupTestDB(t, false)

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("Expected doctor to fail without a database")
	}
	if !strings.Contains(out.String(), "Schema version: SKIPPED") {
		t.Errorf("Expected database checks to be skipped, got:\n%s", out.String())
	}
}

func TestDoctorCmd_BrokenSchema(t *testing.T) {
	ctx, store, out := setupTestDB(t, true)

	if _, err := store.DB().Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to corrupt schema version: %v", err)
	}
	if _, err := store.DB().Exec("INSERT INTO schema_version (version) VALUES (999)"); err != nil {
		t.Fatalf("failed to corrupt schema version: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Errorf("Expected doctor to fail on a future schema version:\n%s", out.String())
	}
}

func TestDoctorCmd_InvalidSlot(t *testing.T) {
	ctx, store, out := setupTestDB(t, true)

	// storage does not validate, so a bad slot can only come from an old import
	bad := models.ManualSlot{ID: "m1", CourseID: "C1", DayOfWeek: 1, StartTime: "11:00", EndTime: "10:00"}
	if err := store.AddManualSlot(bad); err != nil {
		t.Fatalf("failed to add manual slot: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("Expected doctor to fail on an invalid slot")
	}
	if !strings.Contains(out.String(), "Slot validation: FAIL") {
		t.Errorf("Expected slot validation failure, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Manual slot courses: WARNING") {
		t.Errorf("Expected warning about unknown course, got:\n%s", out.String())
	}
}
