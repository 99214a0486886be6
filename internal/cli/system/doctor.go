package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/Noelithub77/bunkialo2-sub002/internal/backup"
	"github.com/Noelithub77/bunkialo2-sub002/internal/cli"
	"github.com/Noelithub77/bunkialo2-sub002/internal/importer"
	"github.com/Noelithub77/bunkialo2-sub002/internal/storage"
	"github.com/Noelithub77/bunkialo2-sub002/internal/timetable"
	"github.com/Noelithub77/bunkialo2-sub002/internal/utils"
)

type DoctorCmd struct{}

// schemaVersioner is implemented by stores that track migrations.
type schemaVersioner interface {
	SchemaVersion() (current, latest int, err error)
}

type check struct {
	name     string
	warnOnly bool
	needsDB  bool
	run      func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Slot validation", needsDB: true, run: checkSlots},
	{name: "Manual slot courses", warnOnly: true, needsDB: true, run: checkManualSlotCourses},
	{name: "Attendance parsing", warnOnly: true, needsDB: true, run: checkAttendanceParsing},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Timetable freshness", warnOnly: true, needsDB: true, run: checkTimetableFresh},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("%s Database reachable: FAIL\n", cli.Danger("❌"))
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("%s Database reachable: OK\n", cli.OK("✓"))
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("%s %s: OK\n", cli.OK("✓"), c.name)
		case c.warnOnly:
			ctx.Printf("%s %s: WARNING\n", cli.Warning("⚠"), c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("%s %s: FAIL\n", cli.Danger("❌"), c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sv, ok := ctx.Store.(schemaVersioner)
	if !ok {
		return nil
	}
	current, latest, err := sv.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if ctx.Store.Dialect() != "sqlite" {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'bunkialo backup create'")
	}
	return nil
}

func checkSlots(ctx *cli.Context) error {
	manual, err := ctx.Store.GetAllManualSlots()
	if err != nil {
		return err
	}
	var errs []error
	for _, s := range manual {
		if err := importer.ValidateManualSlot(s); err != nil {
			errs = append(errs, fmt.Errorf("manual slot %s: %w", s.ID, err))
		}
	}
	custom, err := ctx.Store.GetAllCustomCourses()
	if err != nil {
		return err
	}
	for _, c := range custom {
		for _, s := range c.Slots {
			if err := importer.ValidateCustomCourseSlot(s); err != nil {
				errs = append(errs, fmt.Errorf("custom slot %s of %s: %w", s.ID, c.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}

func checkManualSlotCourses(ctx *cli.Context) error {
	manual, err := ctx.Store.GetAllManualSlots()
	if err != nil {
		return err
	}
	var missing []string
	for _, s := range manual {
		if _, err := ctx.Store.GetCourse(s.CourseID); errors.Is(err, storage.ErrNotFound) {
			missing = append(missing, s.CourseID)
		} else if err != nil {
			return err
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("manual slots reference courses that were never imported: %v", missing)
	}
	return nil
}

func checkAttendanceParsing(ctx *cli.Context) error {
	courses, err := ctx.Store.GetAllCourses()
	if err != nil {
		return err
	}
	var poor []string
	for _, c := range courses {
		_, bad := timetable.ExtractCourse(c)
		if len(c.Records) > 0 && bad*2 > len(c.Records) {
			poor = append(poor, fmt.Sprintf("%s (%d/%d unparseable)", c.ID, bad, len(c.Records)))
		}
	}
	if len(poor) > 0 {
		return fmt.Errorf("most attendance dates could not be parsed for: %v", poor)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Store == nil {
		return nil
	}
	if settings, err := ctx.Settings(); err == nil && !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("unknown timezone %q", settings.Timezone)
	}
	return nil
}

func checkTimetableFresh(ctx *cli.Context) error {
	run, err := ctx.Store.GetLatestRun()
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no timetable generated yet - run 'bunkialo timetable generate'")
	}
	if err != nil {
		return err
	}
	session, err := ctx.Generate()
	if err != nil {
		return err
	}
	fp, err := session.Fingerprint()
	if err != nil {
		return err
	}
	if fp != run.Fingerprint {
		return fmt.Errorf("stored timetable is out of date - run 'bunkialo timetable generate'")
	}
	return nil
}
