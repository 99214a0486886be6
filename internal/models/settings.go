package models

import (
	"fmt"
	"strconv"

	"github.com/Noelithub77/bunkialo2-sub002/internal/constants"
)

// Settings holds the engine tunables and semester bounds stored in the database.
type Settings struct {
	MergeWindowMin   int     `json:"merge_window_min"`  // start/end tolerance for near-duplicate slots
	OutlierThreshold float64 `json:"outlier_threshold"` // slots scoring below this are flagged for review
	LabMinMinutes    int     `json:"lab_min_minutes"`   // spans at least this long are labs
	SemesterWeeks    int     `json:"semester_weeks"`    // used when SemesterEnd is empty
	SemesterStart    string  `json:"semester_start"`    // YYYY-MM-DD, optional
	SemesterEnd      string  `json:"semester_end"`      // YYYY-MM-DD, optional
	Timezone         string  `json:"timezone"`          // IANA timezone name or "Local"
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingMergeWindowMin:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.MergeWindowMin = n
		case constants.SettingOutlierThreshold:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.OutlierThreshold = f
		case constants.SettingLabMinMinutes:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.LabMinMinutes = n
		case constants.SettingSemesterWeeks:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.SemesterWeeks = n
		case constants.SettingSemesterStart:
			settings.SemesterStart = value
		case constants.SettingSemesterEnd:
			settings.SemesterEnd = value
		case constants.SettingTimezone:
			settings.Timezone = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingMergeWindowMin:   strconv.Itoa(settings.MergeWindowMin),
		constants.SettingOutlierThreshold: strconv.FormatFloat(settings.OutlierThreshold, 'f', -1, 64),
		constants.SettingLabMinMinutes:    strconv.Itoa(settings.LabMinMinutes),
		constants.SettingSemesterWeeks:    strconv.Itoa(settings.SemesterWeeks),
		constants.SettingSemesterStart:    settings.SemesterStart,
		constants.SettingSemesterEnd:      settings.SemesterEnd,
		constants.SettingTimezone:         settings.Timezone,
	}
}

// DefaultSettings returns settings populated with the default values.
func DefaultSettings() Settings {
	s := Settings{}
	ApplyDefaultSettings(&s)
	return s
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.MergeWindowMin <= 0 {
		settings.MergeWindowMin = constants.DefaultMergeWindowMin
	}
	if settings.OutlierThreshold <= 0 {
		settings.OutlierThreshold = constants.DefaultOutlierThreshold
	}
	if settings.LabMinMinutes <= 0 {
		settings.LabMinMinutes = constants.DefaultLabMinMinutes
	}
	if settings.SemesterWeeks <= 0 {
		settings.SemesterWeeks = constants.DefaultSemesterWeeks
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}
