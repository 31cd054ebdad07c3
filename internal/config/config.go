package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"dario.cat/mergo"

	"github.com/dshills/fermicfg/internal/logging"
)

// Config represents the fermicfg tool settings. It does not hold analysis
// options; those live in the documents fermicfg resolves.
type Config struct {
	// Format is the default output format of resolved configurations.
	Format string `json:"format"`
	// DocFormat is the default format of schema reference tables.
	DocFormat string `json:"docFormat"`
	LogLevel  string `json:"logLevel"`
	LogJSON   bool   `json:"logJSON,omitempty"`
	// Strict rejects unknown sections and options. When false they are
	// dropped with a warning.
	Strict   *bool          `json:"strict,omitempty"`
	Snapshot SnapshotConfig `json:"snapshot"`
	Watch    WatchConfig    `json:"watch"`
}

// SnapshotConfig controls the snapshot store.
type SnapshotConfig struct {
	Enabled    *bool  `json:"enabled,omitempty"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// WatchConfig controls the document watcher.
type WatchConfig struct {
	DebounceMs int `json:"debounceMs"`
}

func boolPtr(b bool) *bool { return &b }

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Format:    "yaml",
		DocFormat: "markdown",
		LogLevel:  "warn",
		Strict:    boolPtr(true),
		Snapshot: SnapshotConfig{
			Enabled:    boolPtr(true),
			TTLSeconds: 30 * 86400,
		},
		Watch: WatchConfig{DebounceMs: 200},
	}
}

// IsStrict reports whether unknown keys are rejected.
func (c Config) IsStrict() bool {
	return c.Strict == nil || *c.Strict
}

// SnapshotsEnabled reports whether resolutions may be persisted.
func (c Config) SnapshotsEnabled() bool {
	return c.Snapshot.Enabled == nil || *c.Snapshot.Enabled
}

// ConfigDir returns the platform-appropriate config directory for fermicfg.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fermicfg"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "fermicfg"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "fermicfg"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "fermicfg"), nil
	default:
		return filepath.Join(home, ".config", "fermicfg"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	if err := mergeFile(&cfg, fileCfg); err != nil {
		return Config{}, err
	}
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// explicitBools lets a file value of false replace a default of true. The
// file decodes unset booleans as nil pointers, which mergo skips.
type explicitBools struct{}

func (explicitBools) Transformer(typ reflect.Type) func(dst, src reflect.Value) error {
	if typ != reflect.TypeOf((*bool)(nil)) {
		return nil
	}
	return func(dst, src reflect.Value) error {
		if !src.IsNil() && dst.CanSet() {
			dst.Set(src)
		}
		return nil
	}
}

func mergeFile(dst *Config, src Config) error {
	if err := mergo.Merge(dst, src, mergo.WithOverride, mergo.WithTransformers(explicitBools{})); err != nil {
		return fmt.Errorf("merging config file: %w", err)
	}
	return nil
}

func mergeEnv(cfg *Config) error {
	if v := os.Getenv("FERMICFG_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("FERMICFG_DOC_FORMAT"); v != "" {
		cfg.DocFormat = v
	}
	if v := os.Getenv("FERMICFG_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("FERMICFG_SNAPSHOT_DIR"); v != "" {
		cfg.Snapshot.Dir = v
	}
	if v := os.Getenv("FERMICFG_STRICT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("FERMICFG_STRICT must be a boolean: %w", err)
		}
		cfg.Strict = &b
	}
	if v := os.Getenv("FERMICFG_SNAPSHOTS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("FERMICFG_SNAPSHOTS must be a boolean: %w", err)
		}
		cfg.Snapshot.Enabled = &b
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for _, key := range []string{"format", "docFormat", "logLevel", "strict", "snapshot.dir"} {
		if v, ok := overrides[key]; ok && v != "" {
			if err := SetField(cfg, key, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Keys lists the settings accepted by SetField.
var Keys = []string{
	"format", "docFormat", "logLevel", "logJSON", "strict",
	"snapshot.enabled", "snapshot.dir", "snapshot.ttlSeconds",
	"watch.debounceMs",
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "format":
		cfg.Format = value
	case "docFormat":
		cfg.DocFormat = value
	case "logLevel":
		cfg.LogLevel = value
	case "logJSON":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("logJSON must be a boolean: %w", err)
		}
		cfg.LogJSON = b
	case "strict":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("strict must be a boolean: %w", err)
		}
		cfg.Strict = &b
	case "snapshot.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("snapshot.enabled must be a boolean: %w", err)
		}
		cfg.Snapshot.Enabled = &b
	case "snapshot.dir":
		cfg.Snapshot.Dir = value
	case "snapshot.ttlSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("snapshot.ttlSeconds must be an integer: %w", err)
		}
		cfg.Snapshot.TTLSeconds = n
	case "watch.debounceMs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("watch.debounceMs must be an integer: %w", err)
		}
		cfg.Watch.DebounceMs = n
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// EnvVars maps settings keys to the environment variables that override
// them.
var EnvVars = map[string]string{
	"format":           "FERMICFG_FORMAT",
	"docFormat":        "FERMICFG_DOC_FORMAT",
	"logLevel":         "FERMICFG_LOG_LEVEL",
	"strict":           "FERMICFG_STRICT",
	"snapshot.enabled": "FERMICFG_SNAPSHOTS",
	"snapshot.dir":     "FERMICFG_SNAPSHOT_DIR",
}

// IsKey reports whether key names a setting.
func IsKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Field returns the value of a setting formatted the way SetField accepts it.
func Field(cfg Config, key string) (string, error) {
	switch key {
	case "format":
		return cfg.Format, nil
	case "docFormat":
		return cfg.DocFormat, nil
	case "logLevel":
		return cfg.LogLevel, nil
	case "logJSON":
		return strconv.FormatBool(cfg.LogJSON), nil
	case "strict":
		return strconv.FormatBool(cfg.IsStrict()), nil
	case "snapshot.enabled":
		return strconv.FormatBool(cfg.SnapshotsEnabled()), nil
	case "snapshot.dir":
		return cfg.Snapshot.Dir, nil
	case "snapshot.ttlSeconds":
		return strconv.Itoa(cfg.Snapshot.TTLSeconds), nil
	case "watch.debounceMs":
		return strconv.Itoa(cfg.Watch.DebounceMs), nil
	}
	return "", fmt.Errorf("unknown config key: %s", key)
}

// Set updates one setting in the settings file. The key is checked before
// the file is read, and the file is only written when the settings it
// yields on top of the defaults still validate.
func Set(key, value string) (Config, error) {
	if !IsKey(key) {
		return Config{}, fmt.Errorf("unknown config key: %s (valid keys: %s)", key, strings.Join(Keys, ", "))
	}
	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	if err := SetField(&fileCfg, key, value); err != nil {
		return Config{}, err
	}
	effective := Default()
	if err := mergeFile(&effective, fileCfg); err != nil {
		return Config{}, err
	}
	if err := Validate(effective); err != nil {
		return Config{}, err
	}
	if err := Save(fileCfg); err != nil {
		return Config{}, fmt.Errorf("saving config: %w", err)
	}
	return effective, nil
}

// Validate checks that enumerated settings hold known values.
func Validate(cfg Config) error {
	switch cfg.Format {
	case "yaml", "json", "toml", "text":
	default:
		return fmt.Errorf("format must be one of yaml, json, toml, text; got %q", cfg.Format)
	}
	switch cfg.DocFormat {
	case "markdown", "rst", "csv", "term":
	default:
		return fmt.Errorf("docFormat must be one of markdown, rst, csv, term; got %q", cfg.DocFormat)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("logLevel: %w", err)
	}
	if cfg.Snapshot.TTLSeconds < 0 {
		return fmt.Errorf("snapshot.ttlSeconds must not be negative")
	}
	if cfg.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounceMs must not be negative")
	}
	return nil
}
