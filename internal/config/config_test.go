package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Format != "yaml" {
		t.Errorf("Default format = %q, want %q", cfg.Format, "yaml")
	}
	if cfg.DocFormat != "markdown" {
		t.Errorf("Default docFormat = %q, want %q", cfg.DocFormat, "markdown")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Default logLevel = %q, want %q", cfg.LogLevel, "warn")
	}
	if !cfg.IsStrict() {
		t.Error("Default should be strict")
	}
	if !cfg.SnapshotsEnabled() {
		t.Error("Default snapshots should be enabled")
	}
	if cfg.Watch.DebounceMs != 200 {
		t.Errorf("Default debounceMs = %d, want 200", cfg.Watch.DebounceMs)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Default config is invalid: %v", err)
	}
}

func TestDefault_FreshPointers(t *testing.T) {
	a, b := Default(), Default()
	*a.Strict = false
	if !b.IsStrict() {
		t.Error("Default configs share boolean pointers")
	}
}

func TestMergeEnv(t *testing.T) {
	t.Setenv("FERMICFG_FORMAT", "json")
	t.Setenv("FERMICFG_DOC_FORMAT", "rst")
	t.Setenv("FERMICFG_LOG_LEVEL", "debug")
	t.Setenv("FERMICFG_SNAPSHOT_DIR", "/tmp/snaps")
	t.Setenv("FERMICFG_STRICT", "false")
	t.Setenv("FERMICFG_SNAPSHOTS", "0")

	cfg := Default()
	if err := mergeEnv(&cfg); err != nil {
		t.Fatalf("mergeEnv error: %v", err)
	}

	if cfg.Format != "json" {
		t.Errorf("Format = %q, want %q", cfg.Format, "json")
	}
	if cfg.DocFormat != "rst" {
		t.Errorf("DocFormat = %q, want %q", cfg.DocFormat, "rst")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.Snapshot.Dir != "/tmp/snaps" {
		t.Errorf("Snapshot.Dir = %q, want %q", cfg.Snapshot.Dir, "/tmp/snaps")
	}
	if cfg.IsStrict() {
		t.Error("Strict should be false")
	}
	if cfg.SnapshotsEnabled() {
		t.Error("Snapshots should be disabled")
	}
}

func TestMergeEnv_InvalidStrict(t *testing.T) {
	t.Setenv("FERMICFG_STRICT", "sometimes")

	cfg := Default()
	if err := mergeEnv(&cfg); err == nil {
		t.Error("Expected error for invalid FERMICFG_STRICT")
	}
}

func TestMergeOverrides(t *testing.T) {
	cfg := Default()
	err := mergeOverrides(&cfg, map[string]string{
		"format":       "toml",
		"logLevel":     "4",
		"strict":       "false",
		"snapshot.dir": "/var/snaps",
		"docFormat":    "",
	})
	if err != nil {
		t.Fatalf("mergeOverrides error: %v", err)
	}
	if cfg.Format != "toml" {
		t.Errorf("Format = %q, want %q", cfg.Format, "toml")
	}
	if cfg.LogLevel != "4" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "4")
	}
	if cfg.IsStrict() {
		t.Error("Strict should be false")
	}
	if cfg.Snapshot.Dir != "/var/snaps" {
		t.Errorf("Snapshot.Dir = %q, want %q", cfg.Snapshot.Dir, "/var/snaps")
	}
	if cfg.DocFormat != "markdown" {
		t.Errorf("Empty override changed DocFormat to %q", cfg.DocFormat)
	}
}

func TestMergeOverrides_Nil(t *testing.T) {
	cfg := Default()
	if err := mergeOverrides(&cfg, nil); err != nil {
		t.Fatalf("mergeOverrides error: %v", err)
	}
	if cfg.Format != "yaml" {
		t.Errorf("Format changed with nil overrides")
	}
}

func TestSetField(t *testing.T) {
	cfg := Default()

	tests := []struct {
		key   string
		value string
	}{
		{"format", "json"},
		{"docFormat", "csv"},
		{"logLevel", "info"},
		{"logJSON", "true"},
		{"strict", "false"},
		{"snapshot.enabled", "false"},
		{"snapshot.dir", "/tmp/s"},
		{"snapshot.ttlSeconds", "60"},
		{"watch.debounceMs", "500"},
	}

	for _, tt := range tests {
		if err := SetField(&cfg, tt.key, tt.value); err != nil {
			t.Errorf("SetField(%q, %q) error: %v", tt.key, tt.value, err)
		}
	}

	if cfg.Format != "json" {
		t.Errorf("Format = %q, want %q", cfg.Format, "json")
	}
	if !cfg.LogJSON {
		t.Error("LogJSON should be true")
	}
	if cfg.SnapshotsEnabled() {
		t.Error("Snapshots should be disabled")
	}
	if cfg.Snapshot.TTLSeconds != 60 {
		t.Errorf("TTLSeconds = %d, want 60", cfg.Snapshot.TTLSeconds)
	}
	if cfg.Watch.DebounceMs != 500 {
		t.Errorf("DebounceMs = %d, want 500", cfg.Watch.DebounceMs)
	}
	if len(Keys) != len(tests) {
		t.Errorf("Keys lists %d settings, test covers %d", len(Keys), len(tests))
	}
}

func TestSetField_Errors(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"nonexistent", "value"},
		{"strict", "maybe"},
		{"snapshot.ttlSeconds", "soon"},
		{"watch.debounceMs", "1.5"},
	}
	for _, tt := range tests {
		cfg := Default()
		if err := SetField(&cfg, tt.key, tt.value); err == nil {
			t.Errorf("SetField(%q, %q) expected error", tt.key, tt.value)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"format", func(c *Config) { c.Format = "sarif" }},
		{"docFormat", func(c *Config) { c.DocFormat = "html" }},
		{"logLevel", func(c *Config) { c.LogLevel = "loud" }},
		{"ttl", func(c *Config) { c.Snapshot.TTLSeconds = -1 }},
		{"debounce", func(c *Config) { c.Watch.DebounceMs = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := Validate(cfg); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestMergeFile_BoolFields(t *testing.T) {
	// A file that explicitly sets false must override true defaults.
	dst := Default()
	src := Config{
		Format:   "json",
		Strict:   boolPtr(false),
		Snapshot: SnapshotConfig{Enabled: boolPtr(false)},
	}
	if err := mergeFile(&dst, src); err != nil {
		t.Fatalf("mergeFile error: %v", err)
	}

	if dst.IsStrict() {
		t.Error("Strict should be false when file explicitly sets it")
	}
	if dst.SnapshotsEnabled() {
		t.Error("Snapshot.Enabled should be false when file explicitly sets it")
	}
	if dst.Format != "json" {
		t.Errorf("Format = %q, want %q", dst.Format, "json")
	}
}

func TestMergeFile_EmptyFile(t *testing.T) {
	dst := Default()
	if err := mergeFile(&dst, Config{}); err != nil {
		t.Fatalf("mergeFile error: %v", err)
	}
	if !dst.IsStrict() || !dst.SnapshotsEnabled() {
		t.Error("Booleans should keep their defaults when file is empty")
	}
	if dst.Format != "yaml" || dst.Watch.DebounceMs != 200 {
		t.Errorf("Defaults changed by empty file: %+v", dst)
	}
}

func TestMergeFile_AllFields(t *testing.T) {
	dst := Default()
	src := Config{
		Format:    "toml",
		DocFormat: "rst",
		LogLevel:  "debug",
		LogJSON:   true,
		Snapshot:  SnapshotConfig{Dir: "/tmp/snaps", TTLSeconds: 3600},
		Watch:     WatchConfig{DebounceMs: 50},
	}
	if err := mergeFile(&dst, src); err != nil {
		t.Fatalf("mergeFile error: %v", err)
	}
	if dst.Format != "toml" || dst.DocFormat != "rst" || dst.LogLevel != "debug" || !dst.LogJSON {
		t.Errorf("Scalar fields not merged: %+v", dst)
	}
	if dst.Snapshot.Dir != "/tmp/snaps" || dst.Snapshot.TTLSeconds != 3600 {
		t.Errorf("Snapshot = %+v", dst.Snapshot)
	}
	if dst.Watch.DebounceMs != 50 {
		t.Errorf("DebounceMs = %d, want 50", dst.Watch.DebounceMs)
	}
	if !dst.SnapshotsEnabled() {
		t.Error("Snapshot.Enabled should keep its default")
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg-test/fermicfg" {
		t.Errorf("ConfigDir = %q, want %q", dir, "/tmp/xdg-test/fermicfg")
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath error: %v", err)
	}
	if path != "/tmp/xdg-test/fermicfg/config.json" {
		t.Errorf("ConfigPath = %q, want %q", path, "/tmp/xdg-test/fermicfg/config.json")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("FERMICFG_FORMAT", "")
	t.Setenv("FERMICFG_STRICT", "")

	cfg := Default()
	cfg.Format = "text"
	cfg.Strict = boolPtr(false)
	if err := Save(cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "fermicfg", "config.json")); err != nil {
		t.Fatalf("Config file not written: %v", err)
	}

	loaded, err := Load(nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Format != "text" {
		t.Errorf("Format = %q, want %q", loaded.Format, "text")
	}
	if loaded.IsStrict() {
		t.Error("Strict = true, want false from file")
	}

	// Env beats file, flags beat env.
	t.Setenv("FERMICFG_FORMAT", "json")
	loaded, err = Load(map[string]string{"strict": "true"})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Format != "json" {
		t.Errorf("Format = %q, want %q from env", loaded.Format, "json")
	}
	if !loaded.IsStrict() {
		t.Error("Strict = false, want true from flags")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg.Format != "" {
		t.Errorf("Expected zero Config, got %+v", cfg)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	if err := os.MkdirAll(filepath.Join(tmpDir, "fermicfg"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "fermicfg", "config.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(nil); err == nil {
		t.Error("Expected error for malformed config file")
	}
}

func TestSet_WritesOnlyTheChangedKey(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	effective, err := Set("snapshot.enabled", "false")
	if err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if effective.SnapshotsEnabled() {
		t.Error("SnapshotsEnabled() = true after setting snapshot.enabled=false")
	}
	if effective.Format != "yaml" {
		t.Errorf("Format = %q, want default %q", effective.Format, "yaml")
	}

	fileCfg, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if fileCfg.Format != "" {
		t.Errorf("file Format = %q, want unset", fileCfg.Format)
	}
	if fileCfg.Snapshot.Enabled == nil || *fileCfg.Snapshot.Enabled {
		t.Error("file snapshot.enabled not written as false")
	}
}

func TestSet_RejectsBeforeWriting(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "provider", "openai"},
		{"bad format", "format", "xml"},
		{"bad bool", "strict", "maybe"},
		{"negative ttl", "snapshot.ttlSeconds", "-5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Setenv("XDG_CONFIG_HOME", tmpDir)
			if _, err := Set(tt.key, tt.value); err == nil {
				t.Fatalf("Set(%q, %q) should fail", tt.key, tt.value)
			}
			if _, err := os.Stat(filepath.Join(tmpDir, "fermicfg", "config.json")); !os.IsNotExist(err) {
				t.Errorf("config file written after rejected Set: %v", err)
			}
		})
	}
}

func TestField_RoundTripsSetField(t *testing.T) {
	cfg := Default()
	for _, key := range Keys {
		value, err := Field(cfg, key)
		if err != nil {
			t.Fatalf("Field(%q) error: %v", key, err)
		}
		next := Default()
		if err := SetField(&next, key, value); err != nil {
			t.Errorf("SetField(%q, %q) error: %v", key, value, err)
		}
		got, _ := Field(next, key)
		if got != value {
			t.Errorf("Field(%q) after SetField = %q, want %q", key, got, value)
		}
	}
	if _, err := Field(cfg, "provider"); err == nil {
		t.Error("Field with unknown key should fail")
	}
}
