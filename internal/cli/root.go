package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Noelithub77/bunkialo2-sub002/internal/backup"
	"github.com/Noelithub77/bunkialo2-sub002/internal/config"
	"github.com/Noelithub77/bunkialo2-sub002/internal/logger"
	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
	"github.com/Noelithub77/bunkialo2-sub002/internal/storage"
	"github.com/Noelithub77/bunkialo2-sub002/internal/timetable"
	"github.com/Noelithub77/bunkialo2-sub002/internal/utils"
)

type Context struct {
	Store  storage.Provider
	Config *config.Config
	// Out receives command output; defaults to stdout.
	Out io.Writer
	// In answers confirmation prompts; defaults to stdin.
	In io.Reader
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

// Confirm asks a yes/no question and reports whether the answer was yes.
func (c *Context) Confirm(prompt string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors.
// Only SQLite databases are backed up.
func (c *Context) PerformAutomaticBackup() {
	if c.Store.Dialect() != "sqlite" {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Settings returns the stored settings with config file overrides applied.
func (c *Context) Settings() (models.Settings, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	if c.Config != nil {
		c.Config.ApplyTo(&settings)
	}
	return settings, nil
}

// LoadInput reads everything timetable generation needs from storage.
func (c *Context) LoadInput() (timetable.Input, error) {
	courses, err := c.Store.GetAllCourses()
	if err != nil {
		return timetable.Input{}, fmt.Errorf("failed to get courses: %w", err)
	}
	manual, err := c.Store.GetAllManualSlots()
	if err != nil {
		return timetable.Input{}, fmt.Errorf("failed to get manual slots: %w", err)
	}
	custom, err := c.Store.GetAllCustomCourses()
	if err != nil {
		return timetable.Input{}, fmt.Errorf("failed to get custom courses: %w", err)
	}
	return timetable.Input{Courses: courses, ManualSlots: manual, CustomCourses: custom}, nil
}

// Session is one loaded generation: the engine, its input and the result.
type Session struct {
	Engine *timetable.Engine
	Input  timetable.Input
	Result timetable.Result
}

// Generate builds an engine from stored settings and resolutions and runs it.
func (c *Context) Generate() (*Session, error) {
	settings, err := c.Settings()
	if err != nil {
		return nil, err
	}
	res, err := c.Store.GetResolutions()
	if err != nil {
		return nil, fmt.Errorf("failed to get resolutions: %w", err)
	}
	in, err := c.LoadInput()
	if err != nil {
		return nil, err
	}
	engine := timetable.NewEngine(timetable.OptionsFromSettings(settings), res)
	result := engine.Generate(in)
	logger.Debug("Generated timetable", "slots", len(result.Slots), "conflicts", len(result.Conflicts))
	return &Session{Engine: engine, Input: in, Result: result}, nil
}

// Fingerprint identifies the session's input, resolutions and options.
func (s *Session) Fingerprint() (string, error) {
	return timetable.Fingerprint(s.Input, s.Engine.Resolutions(), s.Engine.Options())
}

// Regenerate reruns the engine on the same input, e.g. after a resolution.
func (s *Session) Regenerate() {
	s.Result = s.Engine.Generate(s.Input)
}

// Unresolved counts the resolvable conflicts without a recorded choice.
func Unresolved(conflicts []timetable.SlotConflict) int {
	n := 0
	for _, c := range conflicts {
		if c.Resolvable() && c.ResolvedChoice == "" {
			n++
		}
	}
	return n
}

// SaveTimetable persists the session's slots and records the run.
func (c *Context) SaveTimetable(s *Session) (models.TimetableRun, error) {
	fp, err := s.Fingerprint()
	if err != nil {
		return models.TimetableRun{}, fmt.Errorf("failed to fingerprint input: %w", err)
	}
	run := models.TimetableRun{
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		Fingerprint:     fp,
		SlotCount:       len(s.Result.Slots),
		ConflictCount:   len(s.Result.Conflicts),
		UnresolvedCount: Unresolved(s.Result.Conflicts),
	}
	if err := c.Store.SaveTimetable(run, s.Result.Slots); err != nil {
		return models.TimetableRun{}, fmt.Errorf("failed to save timetable: %w", err)
	}
	return run, nil
}

// CommitResolutions backs up the database, stores the engine's resolutions
// and saves the regenerated timetable.
func (c *Context) CommitResolutions(s *Session) error {
	c.PerformAutomaticBackup()
	if err := c.Store.SaveResolutions(s.Engine.Resolutions()); err != nil {
		return fmt.Errorf("failed to save resolutions: %w", err)
	}
	s.Regenerate()
	_, err := c.SaveTimetable(s)
	return err
}

// ParseDay accepts a weekday name, abbreviation or number (0=Sunday).
func ParseDay(s string) (int, error) {
	wd, err := utils.ParseWeekday(s)
	if err != nil {
		return 0, err
	}
	return int(wd), nil
}
