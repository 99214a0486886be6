package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/Noelithub77/bunkialo2-sub002/internal/cli"
	"github.com/Noelithub77/bunkialo2-sub002/internal/cli/backups"
	"github.com/Noelithub77/bunkialo2-sub002/internal/cli/conflicts"
	"github.com/Noelithub77/bunkialo2-sub002/internal/cli/courses"
	"github.com/Noelithub77/bunkialo2-sub002/internal/cli/custom"
	"github.com/Noelithub77/bunkialo2-sub002/internal/cli/exports"
	"github.com/Noelithub77/bunkialo2-sub002/internal/cli/imports"
	"github.com/Noelithub77/bunkialo2-sub002/internal/cli/settings"
	"github.com/Noelithub77/bunkialo2-sub002/internal/cli/slots"
	"github.com/Noelithub77/bunkialo2-sub002/internal/cli/system"
	"github.com/Noelithub77/bunkialo2-sub002/internal/cli/timetables"
	"github.com/Noelithub77/bunkialo2-sub002/internal/config"
	"github.com/Noelithub77/bunkialo2-sub002/internal/constants"
	apperrors "github.com/Noelithub77/bunkialo2-sub002/internal/errors"
	"github.com/Noelithub77/bunkialo2-sub002/internal/keyring"
	"github.com/Noelithub77/bunkialo2-sub002/internal/logger"
	"github.com/Noelithub77/bunkialo2-sub002/internal/storage"
	"github.com/Noelithub77/bunkialo2-sub002/internal/storage/sqlstore"
)

type CLI struct {
	Version    kong.VersionFlag
	ConfigFile string `help:"Path to config.yaml (default: ~/.config/bunkialo/config.yaml)." type:"path"`
	DSN        string `help:"SQLite path, PostgreSQL connection string without password, or keyring[:profile]. Overrides storage.dsn." env:"BUNKIALO_STORAGE_DSN"`
	Debug      bool   `help:"Log debug output to stderr."`

	Init      system.InitCmd          `cmd:"" help:"Initialize bunkialo storage."`
	Migrate   system.MigrateCmd       `cmd:"" help:"Run database migrations."`
	Doctor    system.DoctorCmd        `cmd:"" help:"Run health checks and diagnostics."`
	Import    imports.ImportCmd       `cmd:"" help:"Import attendance and course configuration."`
	Course    courses.CourseCmd       `cmd:"" help:"Manage LMS courses."`
	Slot      slots.SlotCmd           `cmd:"" help:"Manage manual slots."`
	Custom    custom.CustomCmd        `cmd:"" help:"Manage custom courses."`
	Timetable timetables.TimetableCmd `cmd:"" help:"Generate and show the weekly timetable." default:"1"`
	Conflicts conflicts.ConflictsCmd  `cmd:"" help:"Review and answer timetable conflicts."`
	Export    exports.ExportCmd       `cmd:"" help:"Export the timetable."`
	Settings  settings.SettingsCmd    `cmd:"" help:"Manage engine and semester settings."`
	Backup    backups.BackupCmd       `cmd:"" help:"Manage database backups."`
	Keyring   system.KeyringCmd       `cmd:"" help:"Manage PostgreSQL credentials in the OS keyring."`
}

// Commands that open the store themselves or do not need it.
var selfLoading = map[string]bool{"init": true, "migrate": true, "doctor": true, "keyring": true}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stdin); err != nil {
		apperrors.Fatal(err)
	}
}

func run(args []string, out io.Writer, in io.Reader) error {
	var app CLI
	parser, err := kong.New(&app,
		kong.Name(constants.AppName),
		kong.Description("Infers your weekly class timetable from LMS attendance history"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
		kong.Writers(out, os.Stderr),
	)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(app.ConfigFile)
	if err != nil {
		return err
	}
	if app.DSN != "" {
		cfg.Storage.DSN = app.DSN
	}
	if app.Debug {
		cfg.Log.Debug = true
	}
	if err := logger.Init(logger.Config{
		Debug:     cfg.Log.Debug,
		ConfigDir: cfg.ConfigDir,
		Dir:       cfg.Log.Dir,
		JSON:      cfg.Log.JSON,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	command := strings.Fields(ctx.Command())[0]
	appCtx := &cli.Context{Config: cfg, Out: out, In: in}
	if command != "keyring" {
		store, err := openStore(cfg.Storage.DSN)
		if err != nil {
			return err
		}
		defer store.Close()
		appCtx.Store = store

		if !selfLoading[command] {
			if err := store.Load(); err != nil {
				return err
			}
		}
	}

	logger.Debug("Running command", "command", ctx.Command())
	return ctx.Run(appCtx)
}

// openStore picks the backend from dsn. PostgreSQL connection strings may
// only carry a password when they come from the keyring.
func openStore(dsn string) (storage.Provider, error) {
	fromKeyring := keyring.IsKeyringDSN(dsn)
	resolved, err := keyring.ResolveDSN(dsn)
	if err != nil {
		return nil, apperrors.WithHint(err, "store one with 'bunkialo keyring set <connection-string>'")
	}

	if !sqlstore.IsPostgresDSN(resolved) {
		return sqlstore.NewSQLite(resolved), nil
	}
	if err := sqlstore.ValidateConnString(resolved); err != nil {
		if !errors.Is(err, sqlstore.ErrEmbeddedCredentials) || !fromKeyring {
			return nil, apperrors.WithHint(err,
				"keep the password in ~/.pgpass or PGPASSWORD, or store the full string with 'bunkialo keyring set' and use --dsn keyring")
		}
	}
	return sqlstore.NewPostgres(resolved), nil
}
