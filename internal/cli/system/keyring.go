package system

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/Noelithub77/bunkialo2-sub002/internal/cli"
	"github.com/Noelithub77/bunkialo2-sub002/internal/keyring"
	"github.com/Noelithub77/bunkialo2-sub002/internal/storage/sqlstore"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	Status KeyringStatusCmd `cmd:"" help:"Check keyring availability."`
}

// KeyringSetCmd stores database connection credentials in the OS keyring
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
	Profile          string `help:"Keyring profile name." default:"default"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if !sqlstore.IsPostgresDSN(cmd.ConnectionString) {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if err := sqlstore.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, sqlstore.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// the keyring is encrypted, so a password is acceptable here
		ctx.Println(cli.Warning("Warning: connection string contains a password; it will be stored as-is in the OS keyring."))
	}

	if err := keyring.SetConnectionString(cmd.Profile, cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	ctx.Println(cli.OK("✓ Connection string stored in OS keyring"))
	ctx.Printf("  Use it with: BUNKIALO_STORAGE_DSN=%s\n", dsnFor(cmd.Profile))
	return nil
}

// KeyringGetCmd retrieves database connection credentials from the OS keyring
type KeyringGetCmd struct {
	Profile string `help:"Keyring profile name." default:"default"`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString(cmd.Profile)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring. Use 'bunkialo keyring set' to store one")
		}
		return fmt.Errorf("failed to retrieve connection string from keyring: %w", err)
	}
	ctx.Println(maskPassword(connStr))
	return nil
}

// KeyringDeleteCmd removes database connection credentials from the OS keyring
type KeyringDeleteCmd struct {
	Profile string `help:"Keyring profile name." default:"default"`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(cmd.Profile); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	ctx.Println(cli.OK("✓ Connection string deleted from OS keyring"))
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct {
	Profile string `help:"Keyring profile name." default:"default"`
}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println(cli.Danger("❌ OS keyring is not available on this system"))
		return errors.New("keyring unavailable")
	}
	ctx.Println(cli.OK("✓ OS keyring is available"))
	if _, err := keyring.GetConnectionString(cmd.Profile); err == nil {
		ctx.Println(cli.OK("✓ Connection string is stored in keyring"))
	} else if errors.Is(err, keyring.ErrNotFound) {
		ctx.Println("ℹ No connection string stored in keyring")
	}
	return nil
}

func dsnFor(profile string) string {
	if profile == "" || profile == "default" {
		return keyring.DSNPrefix
	}
	return keyring.DSNPrefix + ":" + profile
}

var dsnPassword = regexp.MustCompile(`(?i)(password=)(\S+)`)

// maskPassword hides the password of a URI or key/value connection string.
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil || u.User == nil {
			return connStr
		}
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "****")
			return strings.Replace(u.String(), "%2A%2A%2A%2A", "****", 1)
		}
		return connStr
	}
	return dsnPassword.ReplaceAllString(connStr, "${1}****")
}
