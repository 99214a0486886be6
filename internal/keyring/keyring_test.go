package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	testConnStr := "postgres://testuser@localhost:5432/bunkialo?sslmode=disable"
	if err := SetConnectionString("", testConnStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	retrieved, err := GetConnectionString("default")
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if retrieved != testConnStr {
		t.Errorf("GetConnectionString() = %q, want %q", retrieved, testConnStr)
	}
}

func TestProfilesAreSeparate(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("work", "postgres://work@db/bunkialo"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	if _, err := GetConnectionString(""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected default profile to be empty, got %v", err)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("", ""); err == nil {
		t.Error("SetConnectionString with empty value should return an error")
	}
}

func TestDeleteConnectionString(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("", "postgres://testuser@localhost/bunkialo"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	if err := DeleteConnectionString(""); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}
	if err := DeleteConnectionString(""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Second delete error = %v, want %v", err, ErrNotFound)
	}
}

func TestResolveDSN(t *testing.T) {
	gokeyring.MockInit()
	if err := SetConnectionString("work", "postgres://work@db/bunkialo"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	tests := []struct {
		name    string
		dsn     string
		want    string
		wantErr bool
	}{
		{"sqlite path passes through", "/tmp/bunkialo.db", "/tmp/bunkialo.db", false},
		{"postgres url passes through", "postgres://localhost/x", "postgres://localhost/x", false},
		{"named profile", "keyring:work", "postgres://work@db/bunkialo", false},
		{"missing default profile", "keyring", "", true},
		{"lookalike path", "keyrings.db", "keyrings.db", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDSN(tt.dsn)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveDSN(%q) error = %v, wantErr %v", tt.dsn, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveDSN(%q) = %q, want %q", tt.dsn, got, tt.want)
			}
		})
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("Expected mock keyring to be available")
	}
}
