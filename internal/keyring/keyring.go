package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/Noelithub77/bunkialo2-sub002/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// DSNPrefix marks a storage DSN that must be looked up in the keyring.
// "keyring" uses the default profile, "keyring:work" the profile "work".
const DSNPrefix = "keyring"

func account(profile string) string {
	if profile == "" || profile == "default" {
		return constants.DefaultKeyringUser
	}
	return constants.DefaultKeyringUser + ":" + profile
}

// GetConnectionString retrieves the database connection string stored for
// profile. Returns ErrNotFound if nothing is stored.
func GetConnectionString(profile string) (string, error) {
	connStr, err := keyring.Get(constants.AppName, account(profile))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

// SetConnectionString stores the database connection string for profile.
func SetConnectionString(profile, connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, account(profile), connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// DeleteConnectionString removes the connection string stored for profile.
func DeleteConnectionString(profile string) error {
	err := keyring.Delete(constants.AppName, account(profile))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable is a best-effort check that the OS keyring can be read.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// IsKeyringDSN reports whether dsn refers to a keyring profile.
func IsKeyringDSN(dsn string) bool {
	return dsn == DSNPrefix || strings.HasPrefix(dsn, DSNPrefix+":")
}

// ResolveDSN returns dsn unchanged unless it names a keyring profile, in which
// case the stored connection string is returned.
func ResolveDSN(dsn string) (string, error) {
	if !IsKeyringDSN(dsn) {
		return dsn, nil
	}
	profile := strings.TrimPrefix(strings.TrimPrefix(dsn, DSNPrefix), ":")
	connStr, err := GetConnectionString(profile)
	if err != nil {
		return "", fmt.Errorf("reading %q from keyring: %w", dsn, err)
	}
	return connStr, nil
}
