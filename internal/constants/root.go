package constants

const (
	AppName            = "bunkialo"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/bunkialo"
	DefaultDBPath      = "~/.config/bunkialo/bunkialo.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "bunkialo-"
	BackupFileSuffix = ".db"

	// EnvPrefix is the prefix for environment overrides read by the config loader
	EnvPrefix = "BUNKIALO"
)
