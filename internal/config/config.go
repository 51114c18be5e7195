// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ukaji3/expivot-go/pkg/expivot"
)

// Config holds web server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// MaxUploadBytes caps the size of an uploaded workbook.
	MaxUploadBytes int64
	// MaxRows caps the data rows of a loaded sheet.
	MaxRows int
	// PreviewRows is the number of source rows shown above the pivot form.
	PreviewRows int
	// MaxUploads bounds the number of workbooks kept in memory.
	MaxUploads int
	// UploadTTL is how long an uploaded workbook stays available.
	UploadTTL time.Duration
	// TextColumns are forced to text when loading a sheet.
	TextColumns []string
}

// ConfigError reports an invalid environment variable.
type ConfigError struct {
	Key   string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s=%q: %v", e.Key, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:           ":8080",
		MaxUploadBytes: 20 << 20,
		MaxRows:        200000,
		PreviewRows:    50,
		MaxUploads:     32,
		UploadTTL:      time.Hour,
		TextColumns:    append([]string(nil), expivot.DefaultTextColumns...),
	}
}

// Load reads an optional .env file and then the EXPIVOT_* environment variables.
func Load() (Config, error) {
	// A missing .env file is fine; the process environment still applies.
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, starting from Default.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := getenv("EXPIVOT_ADDR"); v != "" {
		cfg.Addr = v
	}

	mb, err := intVar(getenv, "EXPIVOT_MAX_UPLOAD_MB", int(cfg.MaxUploadBytes>>20))
	if err != nil {
		return cfg, err
	}
	cfg.MaxUploadBytes = int64(mb) << 20

	if cfg.MaxRows, err = intVar(getenv, "EXPIVOT_MAX_ROWS", cfg.MaxRows); err != nil {
		return cfg, err
	}
	if cfg.PreviewRows, err = intVar(getenv, "EXPIVOT_PREVIEW_ROWS", cfg.PreviewRows); err != nil {
		return cfg, err
	}
	if cfg.MaxUploads, err = intVar(getenv, "EXPIVOT_MAX_UPLOADS", cfg.MaxUploads); err != nil {
		return cfg, err
	}

	if v := getenv("EXPIVOT_UPLOAD_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err == nil && ttl <= 0 {
			err = fmt.Errorf("must be positive")
		}
		if err != nil {
			return cfg, &ConfigError{Key: "EXPIVOT_UPLOAD_TTL", Value: v, Err: err}
		}
		cfg.UploadTTL = ttl
	}

	if v, ok := lookup(getenv, "EXPIVOT_TEXT_COLUMNS"); ok {
		cfg.TextColumns = SplitList(v)
	}

	return cfg, nil
}

// SplitList splits a comma-separated list, trimming blanks.
// It returns an empty non-nil slice for an empty list.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func intVar(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err == nil && n < 0 {
		err = fmt.Errorf("must not be negative")
	}
	if err != nil {
		return def, &ConfigError{Key: key, Value: v, Err: err}
	}
	return n, nil
}

// lookup distinguishes an unset variable from one set to "-".
// EXPIVOT_TEXT_COLUMNS=- disables the default text columns.
func lookup(getenv func(string) string, key string) (string, bool) {
	v := getenv(key)
	if v == "" {
		return "", false
	}
	if v == "-" {
		return "", true
	}
	return v, true
}
