// Package config loads process-level configuration: where the database
// lives, logging, and semester bounds used by exports.
//
// Precedence: environment (BUNKIALO_*) > config.yaml > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Noelithub77/bunkialo2-sub002/internal/constants"
	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
	"github.com/Noelithub77/bunkialo2-sub002/internal/utils"
)

type Config struct {
	// ConfigDir holds config.yaml, the default database, logs and backups.
	ConfigDir string         `mapstructure:"-"`
	Storage   StorageConfig  `mapstructure:"storage"`
	Log       LogConfig      `mapstructure:"log"`
	Semester  SemesterConfig `mapstructure:"semester"`
	Timezone  string         `mapstructure:"timezone"`
}

type StorageConfig struct {
	// DSN is a SQLite path, a PostgreSQL URI/DSN, or "keyring[:profile]".
	DSN string `mapstructure:"dsn"`
}

type LogConfig struct {
	Debug bool   `mapstructure:"debug"`
	Dir   string `mapstructure:"dir"`
	JSON  bool   `mapstructure:"json"`
}

// SemesterConfig overrides the semester bounds stored in settings.
type SemesterConfig struct {
	Start string `mapstructure:"start"` // YYYY-MM-DD
	End   string `mapstructure:"end"`   // YYYY-MM-DD
}

// Load reads configuration. When path is empty config.yaml is looked up in
// the config directory; a missing file is not an error.
func Load(path string) (*Config, error) {
	configDir, err := ExpandPath(constants.DefaultConfigDir)
	if err != nil {
		return nil, err
	}
	if dir := os.Getenv(constants.EnvPrefix + "_CONFIG_DIR"); dir != "" {
		if configDir, err = ExpandPath(dir); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetDefault("storage.dsn", filepath.Join(configDir, filepath.Base(constants.DefaultDBPath)))
	v.SetDefault("log.debug", false)
	v.SetDefault("log.dir", "")
	v.SetDefault("log.json", false)
	v.SetDefault("semester.start", "")
	v.SetDefault("semester.end", "")
	v.SetDefault("timezone", "")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir)
	}

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{ConfigDir: configDir}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Storage.DSN, err = ExpandPath(cfg.Storage.DSN); err != nil {
		return nil, err
	}
	if cfg.Log.Dir, err = ExpandPath(cfg.Log.Dir); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values Load cannot coerce.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.DSN) == "" {
		return errors.New("config: storage.dsn cannot be empty")
	}
	for key, value := range map[string]string{"semester.start": c.Semester.Start, "semester.end": c.Semester.End} {
		if value == "" {
			continue
		}
		if _, err := utils.ParseDate(value); err != nil {
			return fmt.Errorf("config: %s must be YYYY-MM-DD, got %q", key, value)
		}
	}
	if c.Semester.Start != "" && c.Semester.End != "" && c.Semester.End < c.Semester.Start {
		return fmt.Errorf("config: semester.end %s is before semester.start %s", c.Semester.End, c.Semester.Start)
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("config: unknown timezone %q", c.Timezone)
	}
	return nil
}

// ApplyTo overlays the configured semester bounds and timezone on settings.
func (c *Config) ApplyTo(s *models.Settings) {
	if c.Semester.Start != "" {
		s.SemesterStart = c.Semester.Start
	}
	if c.Semester.End != "" {
		s.SemesterEnd = c.Semester.End
	}
	if c.Timezone != "" {
		s.Timezone = c.Timezone
	}
}

// ExpandPath replaces a leading ~ with the user's home directory. Other
// values, including connection strings, are returned unchanged.
func ExpandPath(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
