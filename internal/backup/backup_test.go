package backup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
	"github.com/Noelithub77/bunkialo2-sub002/internal/storage/sqlstore"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "bunkialo.db")

	store := sqlstore.NewSQLite(dbPath)
	store.SetMigrationLogger(func(string) {})
	if err := store.Init(); err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer store.Close()

	slot := models.ManualSlot{ID: "m1", CourseID: "CS101", DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"}
	if err := store.AddManualSlot(slot); err != nil {
		t.Fatalf("failed to insert test data: %v", err)
	}
	return dbPath
}

// fixedClock returns a clock that advances by step on every call.
func fixedClock(start time.Time, step time.Duration) func() time.Time {
	next := start
	return func() time.Time {
		t := next
		next = next.Add(step)
		return t
	}
}

func countManualSlots(t *testing.T, path string) int {
	t.Helper()
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.Get(&n, "SELECT COUNT(*) FROM manual_slots"); err != nil {
		t.Fatalf("failed to query database: %v", err)
	}
	return n
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if filepath.Dir(backupPath) != mgr.GetBackupDir() {
		t.Errorf("Expected backup in %s, got %s", mgr.GetBackupDir(), backupPath)
	}
	if n := countManualSlots(t, backupPath); n != 1 {
		t.Errorf("Expected 1 manual slot in backup, got %d", n)
	}
}

func TestCreateBackup_MissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("Expected ErrNoDatabase, got %v", err)
	}
}

func TestCreateBackup_UniqueNames(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = func() time.Time { return time.Date(2026, 1, 5, 9, 30, 15, 0, time.Local) }

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		p, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup failed: %v", err)
		}
		if seen[p] {
			t.Fatalf("Expected unique backup path, got %s twice", p)
		}
		seen[p] = true
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Errorf("Expected 3 backups, got %d", len(backups))
	}
}

func TestRotateBackups(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.maxBackups = 3
	mgr.now = fixedClock(time.Date(2026, 1, 5, 9, 0, 0, 0, time.Local), time.Hour)

	for i := 0; i < 5; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup failed: %v", err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("Expected 3 backups after rotation, got %d", len(backups))
	}
	if want := time.Date(2026, 1, 5, 13, 0, 0, 0, time.Local); !backups[0].Timestamp.Equal(want) {
		t.Errorf("Expected newest backup at %v, got %v", want, backups[0].Timestamp)
	}
	if want := time.Date(2026, 1, 5, 11, 0, 0, 0, time.Local); !backups[2].Timestamp.Equal(want) {
		t.Errorf("Expected oldest kept backup at %v, got %v", want, backups[2].Timestamp)
	}
}

func TestListBackups_IgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "bunkialo-latest.db", "other-20260105-0900.db"} {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), "bunkialo-20260105-090000-2.db"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("Expected only the well-formed backup, got %+v", backups)
	}
}

func TestListBackups_NoDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "bunkialo.db"))
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("Expected no backups, got %d", len(backups))
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2026, 1, 5, 9, 0, 0, 0, time.Local), time.Minute)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	store := sqlstore.NewSQLite(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	extra := models.ManualSlot{ID: "m2", CourseID: "CS101", DayOfWeek: 2, StartTime: "09:00", EndTime: "10:00"}
	if err := store.AddManualSlot(extra); err != nil {
		t.Fatalf("failed to modify database: %v", err)
	}
	store.Close()

	previous, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if n := countManualSlots(t, dbPath); n != 1 {
		t.Errorf("Expected restored database to have 1 slot, got %d", n)
	}
	if n := countManualSlots(t, previous); n != 2 {
		t.Errorf("Expected pre-restore backup to keep 2 slots, got %d", n)
	}
}

func TestRestoreBackup_RejectsForeignDatabase(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	foreign := filepath.Join(t.TempDir(), "other.db")
	db, err := sqlx.Open("sqlite", foreign)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("CREATE TABLE things (id INTEGER)"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	if _, err := mgr.RestoreBackup(foreign); err == nil {
		t.Error("Expected restore of a foreign database to fail")
	}
	if _, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("Expected restore of a missing file to fail")
	}
	if n := countManualSlots(t, dbPath); n != 1 {
		t.Errorf("Expected database to be untouched, got %d slots", n)
	}
}
