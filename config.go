package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Backend names accepted in the config file.
const (
	BackendDBus   = "dbus"
	BackendHelper = "helper"
)

// DBusConfig locates the screen sharing service on the bus.
type DBusConfig struct {
	Bus       string `yaml:"bus"` // "system" | "session"
	Service   string `yaml:"service"`
	Path      string `yaml:"path"`
	Interface string `yaml:"interface"`
}

// HelperConfig locates the helper socket.
type HelperConfig struct {
	Socket string `yaml:"socket"`
}

// Config holds the optional settings read from config.yaml.
type Config struct {
	Backend  string        `yaml:"backend"`
	Timeout  time.Duration `yaml:"timeout"`
	LogLevel string        `yaml:"log_level"`
	DBus     DBusConfig    `yaml:"dbus"`
	Helper   HelperConfig  `yaml:"helper"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Backend:  BackendDBus,
		LogLevel: "warn",
		DBus: DBusConfig{
			Bus:       "system",
			Service:   "org.sidecar.DisplayManager",
			Path:      "/org/sidecar/DisplayManager",
			Interface: "org.sidecar.DisplayManager1",
		},
		Helper: HelperConfig{Socket: defaultSocketPath()},
	}
}

func defaultSocketPath() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = "/tmp"
	}
	return filepath.Join(dir, "sidecarctl.sock")
}

func configPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "sidecarctl", "config.yaml")
}

// loadConfig reads path, or the default location when path is empty. A
// missing file yields DefaultConfig; nothing is written.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = configPath()
	}
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	var err error
	switch c.Backend {
	case BackendDBus:
		if c.DBus.Bus != "system" && c.DBus.Bus != "session" {
			err = multierr.Append(err, fmt.Errorf("dbus.bus must be system or session, got %q", c.DBus.Bus))
		}
		if c.DBus.Service == "" {
			err = multierr.Append(err, errors.New("dbus.service is empty"))
		}
		if !strings.HasPrefix(c.DBus.Path, "/") {
			err = multierr.Append(err, fmt.Errorf("dbus.path %q is not an object path", c.DBus.Path))
		}
		if c.DBus.Interface == "" {
			err = multierr.Append(err, errors.New("dbus.interface is empty"))
		}
	case BackendHelper:
		if c.Helper.Socket == "" {
			err = multierr.Append(err, errors.New("helper.socket is empty"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("backend must be %s or %s, got %q", BackendDBus, BackendHelper, c.Backend))
	}
	if c.Timeout < 0 {
		err = multierr.Append(err, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	if _, lerr := parseLogLevel(c.LogLevel); lerr != nil {
		err = multierr.Append(err, lerr)
	}
	return err
}

func parseLogLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
