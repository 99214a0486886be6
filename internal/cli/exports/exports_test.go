package exports

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Noelithub77/bunkialo2-sub002/internal/cli"
	apperrors "github.com/Noelithub77/bunkialo2-sub002/internal/errors"
	"github.com/Noelithub77/bunkialo2-sub002/internal/export"
	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
	"github.com/Noelithub77/bunkialo2-sub002/internal/storage/sqlstore"
)

func setupTestDB(t *testing.T, withTimetable bool) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlstore.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if withTimetable {
		slots := []models.TimetableSlot{
			{ID: "s1", CourseID: "CS101", CourseName: "Algorithms", DayOfWeek: 1, StartTime: "09:00", EndTime: "09:55", SessionType: models.SessionRegular},
			{ID: "s2", CourseID: "gym", CourseName: "Gym", DayOfWeek: 5, StartTime: "07:00", EndTime: "08:00", SessionType: models.SessionRegular, IsCustomCourse: true},
		}
		if err := store.SaveTimetable(models.TimetableRun{Fingerprint: "fp"}, slots); err != nil {
			t.Fatalf("failed to save timetable: %v", err)
		}
	}

	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out}, out
}

func setSemester(t *testing.T, ctx *cli.Context) {
	t.Helper()
	s, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	s.SemesterStart = "2026-01-05"
	s.SemesterEnd = "2026-04-30"
	s.Timezone = "UTC"
	if err := ctx.Store.SaveSettings(s); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}
}

func TestExportICSCmd(t *testing.T) {
	ctx, out := setupTestDB(t, true)
	setSemester(t, ctx)

	if err := (&ExportICSCmd{Out: "-"}).Run(ctx); err != nil {
		t.Fatalf("ics export failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"BEGIN:VCALENDAR", "UID:s1", "UID:s2", "RRULE:FREQ=WEEKLY;BYDAY=MO;UNTIL=20260430T235959Z"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in calendar:\n%s", want, got)
		}
	}
}

func TestExportICSCmd_NeedsSemesterStart(t *testing.T) {
	ctx, _ := setupTestDB(t, true)

	err := (&ExportICSCmd{Out: filepath.Join(t.TempDir(), "out.ics")}).Run(ctx)
	if !errors.Is(err, export.ErrNoSemesterStart) {
		t.Fatalf("Expected ErrNoSemesterStart, got %v", err)
	}
	var hinted *apperrors.HintError
	if !errors.As(err, &hinted) {
		t.Errorf("Expected a hint, got %v", err)
	}
}

func TestExportCmd_EmptyTimetable(t *testing.T) {
	ctx, _ := setupTestDB(t, false)
	setSemester(t, ctx)

	if err := (&ExportICSCmd{Out: "-"}).Run(ctx); err == nil {
		t.Error("Expected error exporting an empty timetable")
	}
	if err := (&ExportXLSXCmd{Out: "-"}).Run(ctx); err == nil {
		t.Error("Expected error exporting an empty timetable")
	}
}

func TestExportXLSXCmd(t *testing.T) {
	ctx, out := setupTestDB(t, true)
	path := filepath.Join(t.TempDir(), "timetable.xlsx")

	if err := (&ExportXLSXCmd{Out: path}).Run(ctx); err != nil {
		t.Fatalf("xlsx export failed: %v", err)
	}
	if !strings.Contains(out.String(), "Wrote 2 slot(s)") {
		t.Errorf("Unexpected output %q", out.String())
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected workbook at %s: %v", path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()
	name, err := f.GetCellValue("Timetable", "D2")
	if err != nil {
		t.Fatalf("failed to read cell: %v", err)
	}
	if name != "Algorithms" {
		t.Errorf("Expected first course in D2, got %q", name)
	}
}
