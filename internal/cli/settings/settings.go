package settings

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Noelithub77/bunkialo2-sub002/internal/cli"
	"github.com/Noelithub77/bunkialo2-sub002/internal/constants"
	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
	"github.com/Noelithub77/bunkialo2-sub002/internal/utils"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" default:"1" help:"Show current settings."`
	Set  SettingsSetCmd  `cmd:"" help:"Change a setting."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	stored, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	effective, err := ctx.Settings()
	if err != nil {
		return err
	}

	ctx.Println(cli.Header("Engine Settings:"))
	ctx.Printf("  Merge Window:          %d min\n", effective.MergeWindowMin)
	ctx.Printf("  Outlier Threshold:     %.2f\n", effective.OutlierThreshold)
	ctx.Printf("  Lab Minimum:           %d min\n", effective.LabMinMinutes)
	ctx.Println()
	ctx.Println(cli.Header("Semester Settings:"))
	ctx.Printf("  Start:                 %s\n", orUnset(effective.SemesterStart))
	ctx.Printf("  End:                   %s\n", orUnset(effective.SemesterEnd))
	ctx.Printf("  Weeks:                 %d\n", effective.SemesterWeeks)
	ctx.Printf("  Timezone:              %s\n", effective.Timezone)

	if stored != effective {
		ctx.Println()
		ctx.Println(cli.Muted("Some values are overridden by the config file or environment."))
	}
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return cli.Muted("(not set)")
	}
	return s
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting name, e.g. merge_window_min."`
	Value string `arg:"" help:"New value. An empty string clears semester dates."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	values := models.SettingsToMap(settings)
	if _, ok := values[c.Key]; !ok {
		return fmt.Errorf("unknown setting %q (known: %v)", c.Key, knownKeys(values))
	}
	values[c.Key] = c.Value

	updated, err := models.MapToSettings(values)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", c.Key, err)
	}
	if err := Validate(updated); err != nil {
		return err
	}

	if err := ctx.Store.SaveSettings(updated); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Printf("Updated %s to %q\n", c.Key, c.Value)
	return nil
}

func knownKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks setting ranges and semester dates.
func Validate(s models.Settings) error {
	var errs []error
	if s.MergeWindowMin < 0 || s.MergeWindowMin > 60 {
		errs = append(errs, fmt.Errorf("%s must be between 0 and 60", constants.SettingMergeWindowMin))
	}
	if s.OutlierThreshold < 0 || s.OutlierThreshold > 1 {
		errs = append(errs, fmt.Errorf("%s must be between 0 and 1", constants.SettingOutlierThreshold))
	}
	if s.LabMinMinutes < 1 || s.LabMinMinutes > 24*60 {
		errs = append(errs, fmt.Errorf("%s must be between 1 and 1440", constants.SettingLabMinMinutes))
	}
	if s.SemesterWeeks < 1 || s.SemesterWeeks > 52 {
		errs = append(errs, fmt.Errorf("%s must be between 1 and 52", constants.SettingSemesterWeeks))
	}
	if !utils.ValidateTimezone(s.Timezone) {
		errs = append(errs, fmt.Errorf("%s: unknown timezone %q", constants.SettingTimezone, s.Timezone))
	}

	var start, end string
	if s.SemesterStart != "" {
		if _, err := utils.ParseDate(s.SemesterStart); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", constants.SettingSemesterStart, err))
		} else {
			start = s.SemesterStart
		}
	}
	if s.SemesterEnd != "" {
		if _, err := utils.ParseDate(s.SemesterEnd); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", constants.SettingSemesterEnd, err))
		} else {
			end = s.SemesterEnd
		}
	}
	// YYYY-MM-DD compares lexically
	if start != "" && end != "" && end < start {
		errs = append(errs, fmt.Errorf("%s must not be before %s", constants.SettingSemesterEnd, constants.SettingSemesterStart))
	}
	return errors.Join(errs...)
}
