// Package config resolves runtime configuration from defaults, an optional
// YAML file and POMODO_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const appName = "pomodo"

// RuntimeConfig is consulted once at startup. WorkMinutes and BreakMinutes
// only seed the settings record on first run.
type RuntimeConfig struct {
	WorkMinutes          int
	BreakMinutes         int
	DBPath               string
	LogFile              string
	DesktopNotifications bool
}

type fileConfig struct {
	WorkMinutes          int    `mapstructure:"work_minutes"`
	BreakMinutes         int    `mapstructure:"break_minutes"`
	DBPath               string `mapstructure:"db_path"`
	LogFile              string `mapstructure:"log_file"`
	DesktopNotifications *bool  `mapstructure:"desktop_notifications"`
}

func Default() RuntimeConfig {
	return RuntimeConfig{
		WorkMinutes:          25,
		BreakMinutes:         5,
		DBPath:               defaultDataPath("pomodo.db"),
		DesktopNotifications: true,
	}
}

// Load applies the config file (POMODO_CONFIG or the user config dir) and
// then the environment on top of the defaults. A missing file is not an
// error.
func Load() (RuntimeConfig, error) {
	cfg := Default()
	path := strings.TrimSpace(os.Getenv("POMODO_CONFIG"))
	if path == "" {
		path = defaultDataPath("config.yaml")
	}
	loaded, err := LoadFile(path, cfg)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if err == nil {
		cfg = loaded
	}
	return FromEnv(cfg), nil
}

// LoadFile overlays the YAML file at path onto base. Non-positive durations
// and blank paths in the file are ignored.
func LoadFile(path string, base RuntimeConfig) (RuntimeConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return base, err
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return base, fmt.Errorf("read config %s: %w", path, err)
	}
	var file fileConfig
	if err := v.Unmarshal(&file); err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := base
	if file.WorkMinutes > 0 {
		cfg.WorkMinutes = file.WorkMinutes
	}
	if file.BreakMinutes > 0 {
		cfg.BreakMinutes = file.BreakMinutes
	}
	if p := strings.TrimSpace(file.DBPath); p != "" {
		cfg.DBPath = p
	}
	if p := strings.TrimSpace(file.LogFile); p != "" {
		cfg.LogFile = p
	}
	if file.DesktopNotifications != nil {
		cfg.DesktopNotifications = *file.DesktopNotifications
	}
	return cfg, nil
}

func FromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvInt("POMODO_WORK_MINUTES"); ok && v > 0 {
		cfg.WorkMinutes = v
	}
	if v, ok := getEnvInt("POMODO_BREAK_MINUTES"); ok && v > 0 {
		cfg.BreakMinutes = v
	}
	if v := strings.TrimSpace(os.Getenv("POMODO_DB")); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("POMODO_LOG_FILE")); v != "" {
		cfg.LogFile = v
	}
	if v, ok := getEnvBool("POMODO_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	return cfg
}

func defaultDataPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, appName, name)
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
