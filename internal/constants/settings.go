package constants

const (
	// Engine settings
	SettingMergeWindowMin   = "merge_window_min"
	SettingOutlierThreshold = "outlier_threshold"
	SettingLabMinMinutes    = "lab_min_minutes"
	SettingSemesterWeeks    = "semester_weeks"
	SettingSemesterStart    = "semester_start"
	SettingSemesterEnd      = "semester_end"
	SettingTimezone         = "timezone"

	// Default Settings Values
	//
	// The merge window and outlier threshold were tuned against scraped LMS
	// exports; they are settings rather than fixed rules.
	DefaultMergeWindowMin   = 5
	DefaultOutlierThreshold = 0.5
	DefaultLabMinMinutes    = 110
	DefaultSemesterWeeks    = 16
	DefaultTimezone         = "Local"
)
