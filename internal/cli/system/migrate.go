package system

import (
	"fmt"

	"github.com/Noelithub77/bunkialo2-sub002/internal/cli"
)

// migrator is implemented by stores with embedded schema migrations.
type migrator interface {
	SetMigrationLogger(func(string))
	Migrate() (int, error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	m, ok := ctx.Store.(migrator)
	if !ok {
		return fmt.Errorf("migrate is not supported by this storage backend")
	}
	m.SetMigrationLogger(func(msg string) { ctx.Println(msg) })

	count, err := m.Migrate()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
