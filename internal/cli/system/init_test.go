package system

import (
	"os"
	"testing"

	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
)

func TestInitCmd_Success(t *testing.T) {
	ctx, store, _ := setupTestDB(t, false)

	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	if _, err := os.Stat(store.GetConfigPath()); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", store.GetConfigPath())
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _, _ := setupTestDB(t, false)

	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("second init failed: %v", err)
	}
}

func TestInitCmd_ForceRecreates(t *testing.T) {
	ctx, store, _ := setupTestDB(t, true)

	if err := store.SaveCourses([]models.Course{{ID: "C1", Name: "Algorithms"}}); err != nil {
		t.Fatalf("failed to save course: %v", err)
	}

	cmd := &InitCmd{Force: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("forced init failed: %v", err)
	}

	courses, err := store.GetAllCourses()
	if err != nil {
		t.Fatalf("failed to list courses: %v", err)
	}
	if len(courses) != 0 {
		t.Errorf("Expected a fresh database, got %d courses", len(courses))
	}
}
