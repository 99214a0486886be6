package exports

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Noelithub77/bunkialo2-sub002/internal/cli"
	apperrors "github.com/Noelithub77/bunkialo2-sub002/internal/errors"
	"github.com/Noelithub77/bunkialo2-sub002/internal/export"
	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
)

type ExportCmd struct {
	ICS  ExportICSCmd  `cmd:"" name:"ics" help:"Export the timetable as a recurring iCalendar feed."`
	XLSX ExportXLSXCmd `cmd:"" name:"xlsx" help:"Export the timetable as an Excel workbook."`
}

func savedTimetable(ctx *cli.Context) ([]models.TimetableSlot, error) {
	slots, err := ctx.Store.GetTimetable()
	if err != nil {
		return nil, fmt.Errorf("failed to get timetable: %w", err)
	}
	if len(slots) == 0 {
		return nil, apperrors.WithHint(errors.New("timetable is empty"), "run 'bunkialo timetable generate' first")
	}
	return slots, nil
}

// writeTo writes to path, or to the command output when path is "-".
func writeTo(ctx *cli.Context, path string, fn func(io.Writer) error) error {
	if path == "-" {
		if ctx.Out == nil {
			return fn(os.Stdout)
		}
		return fn(ctx.Out)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type ExportICSCmd struct {
	Out string `arg:"" help:"Output .ics file, or - for stdout."`
}

func (c *ExportICSCmd) Run(ctx *cli.Context) error {
	slots, err := savedTimetable(ctx)
	if err != nil {
		return err
	}
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	sem, err := export.SemesterFromSettings(settings)
	if errors.Is(err, export.ErrNoSemesterStart) {
		return apperrors.WithHint(err, "set it with 'bunkialo settings set semester_start YYYY-MM-DD'")
	}
	if err != nil {
		return err
	}

	var written int
	err = writeTo(ctx, c.Out, func(w io.Writer) error {
		n, err := export.WriteICS(w, slots, sem, time.Now())
		written = n
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to export calendar: %w", err)
	}
	if c.Out != "-" {
		ctx.Printf("%s Wrote %d weekly event(s) from %s to %s into %s\n", cli.OK("✓"), written,
			sem.Start.Format("2006-01-02"), sem.End.Format("2006-01-02"), c.Out)
	}
	return nil
}

type ExportXLSXCmd struct {
	Out string `arg:"" help:"Output .xlsx file."`
}

func (c *ExportXLSXCmd) Run(ctx *cli.Context) error {
	slots, err := savedTimetable(ctx)
	if err != nil {
		return err
	}
	if err := writeTo(ctx, c.Out, func(w io.Writer) error { return export.WriteXLSX(w, slots) }); err != nil {
		return fmt.Errorf("failed to export workbook: %w", err)
	}
	if c.Out != "-" {
		ctx.Printf("%s Wrote %d slot(s) into %s\n", cli.OK("✓"), len(slots), c.Out)
	}
	return nil
}
