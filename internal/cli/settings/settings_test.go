package settings

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Noelithub77/bunkialo2-sub002/internal/cli"
	"github.com/Noelithub77/bunkialo2-sub002/internal/config"
	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
	"github.com/Noelithub77/bunkialo2-sub002/internal/storage/sqlstore"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlstore.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out}, out
}

func TestSettingsShowCmd(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&SettingsShowCmd{}).Run(ctx); err != nil {
		t.Fatalf("settings show failed: %v", err)
	}
	if !strings.Contains(out.String(), "5 min") {
		t.Errorf("Expected default merge window in output, got:\n%s", out.String())
	}
}

func TestSettingsShowCmd_ConfigOverride(t *testing.T) {
	ctx, out := setupTestDB(t)
	ctx.Config = &config.Config{Timezone: "UTC"}

	if err := (&SettingsShowCmd{}).Run(ctx); err != nil {
		t.Fatalf("settings show failed: %v", err)
	}
	if !strings.Contains(out.String(), "UTC") {
		t.Errorf("Expected config timezone to win, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "overridden") {
		t.Errorf("Expected override notice, got:\n%s", out.String())
	}
}

func TestSettingsSetCmd(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		check   func(models.Settings) bool
	}{
		{"merge window", "merge_window_min", "10", false, func(s models.Settings) bool { return s.MergeWindowMin == 10 }},
		{"outlier threshold", "outlier_threshold", "0.3", false, func(s models.Settings) bool { return s.OutlierThreshold == 0.3 }},
		{"semester start", "semester_start", "2026-01-05", false, func(s models.Settings) bool { return s.SemesterStart == "2026-01-05" }},
		{"unknown key", "day_start", "09:00", true, nil},
		{"not a number", "lab_min_minutes", "long", true, nil},
		{"threshold out of range", "outlier_threshold", "1.5", true, nil},
		{"bad date", "semester_end", "2026-13-01", true, nil},
		{"bad timezone", "timezone", "Mars/Olympus", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestDB(t)

			err := (&SettingsSetCmd{Key: tt.key, Value: tt.value}).Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SettingsSetCmd error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			s, err := ctx.Store.GetSettings()
			if err != nil {
				t.Fatalf("failed to get settings: %v", err)
			}
			if !tt.check(s) {
				t.Errorf("setting %s was not applied: %+v", tt.key, s)
			}
		})
	}
}

func TestValidate_SemesterOrder(t *testing.T) {
	s := models.DefaultSettings()
	s.SemesterStart = "2026-05-01"
	s.SemesterEnd = "2026-01-01"

	if err := Validate(s); err == nil {
		t.Error("Expected error when semester ends before it starts")
	}

	s.SemesterEnd = "2026-05-01"
	if err := Validate(s); err != nil {
		t.Errorf("Expected a one-day semester to be valid, got %v", err)
	}
}
