// Package config reads server settings from the environment. A .env file in
// the working directory is loaded first when present.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type Config struct {
	Port      string
	Store     string // memory | sqlite
	DBPath    string
	Locale    string
	Timezone  string
	MinAge    int
	LogLevel  string
	LogFormat string // text | json
}

// Load reads .env (if any) and the environment. Missing variables fall back
// to defaults; malformed ones are errors.
func Load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
	return FromEnv(os.Getenv)
}

// LoadDotEnv loads the given env files (".env" when none) into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:      orDefault(getenv("PORT"), "8080"),
		Store:     strings.ToLower(orDefault(getenv("STORE"), StoreMemory)),
		DBPath:    orDefault(getenv("DB_PATH"), ":memory:"),
		Locale:    orDefault(getenv("LOCALE"), "fi-FI"),
		Timezone:  orDefault(getenv("TZ_NAME"), "Europe/Helsinki"),
		MinAge:    13,
		LogLevel:  strings.ToLower(orDefault(getenv("LOG_LEVEL"), "info")),
		LogFormat: strings.ToLower(orDefault(getenv("LOG_FORMAT"), "text")),
	}
	if v := getenv("MIN_AGE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("MIN_AGE must be a positive integer, got %q", v)
		}
		cfg.MinAge = n
	}
	switch cfg.Store {
	case StoreMemory, StoreSQLite:
	default:
		return nil, fmt.Errorf("STORE must be %q or %q, got %q", StoreMemory, StoreSQLite, cfg.Store)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TZ_NAME %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Logger builds the process logger from LogLevel and LogFormat.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}
