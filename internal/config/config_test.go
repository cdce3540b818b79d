package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	errs "github.com/matzehuels/narrative/pkg/errors"
	"github.com/matzehuels/narrative/pkg/store"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "narrative.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// isolate points every lookup location at empty temp directories.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(EnvPath, "")
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	t.Chdir(dir)
	return dir
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Store.Backend != store.BackendFile || cfg.Store.Format != "json" {
		t.Errorf("default store = %+v", cfg.Store)
	}
	if !cfg.Render.Cache {
		t.Error("render cache should default to on")
	}
}

func TestLoadNoFile(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty", cfg.Source)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[store]
backend = "sqlite"
sqlite_path = "/tmp/n.db"
format = "yaml"

[log]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Backend != store.BackendSQLite || cfg.Store.SQLitePath != "/tmp/n.db" || cfg.Store.Format != "yaml" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Store.RedisPrefix != "narrative:" || !cfg.Render.Cache {
		t.Errorf("defaults lost: %+v %+v", cfg.Store, cfg.Render)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[store\nbackend=", "parse config"},
		{"unknown key", "[store]\nbackend = \"file\"\ncolour = \"red\"\n", "unknown keys: store.colour"},
		{"unknown backend", "[store]\nbackend = \"etcd\"\n", "unknown store backend"},
		{"bad format", "[store]\nformat = \"xml\"\n", "invalid store format"},
		{"bad level", "[log]\nlevel = \"loud\"\n", "unknown log level"},
		{"postgres without url", "[store]\nbackend = \"postgres\"\n", "requires store.postgres_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Fatalf("Load() error = %v, want INVALID_CONFIG", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("Load(missing) error = %v, want INVALID_CONFIG", err)
	}
}

func TestLookupOrder(t *testing.T) {
	dir := isolate(t)

	if got := Lookup(); got != "" {
		t.Errorf("Lookup() = %q, want none", got)
	}

	user, err := UserPath()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(user), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(user, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Lookup(); got != user {
		t.Errorf("Lookup() = %q, want user config %q", got, user)
	}

	if err := os.WriteFile(filepath.Join(dir, LocalFile), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Lookup(); got != LocalFile {
		t.Errorf("Lookup() = %q, want %q", got, LocalFile)
	}

	t.Setenv(EnvPath, "/explicit.toml")
	if got := Lookup(); got != "/explicit.toml" {
		t.Errorf("Lookup() = %q, want env path", got)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = store.BackendRedis
	cfg.Store.RedisDB = 3

	var buf bytes.Buffer
	if err := cfg.Write(&buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if strings.Contains(buf.String(), "Source") {
		t.Error("Source should not be encoded")
	}

	back, err := Load(writeConfig(t, buf.String()))
	if err != nil {
		t.Fatalf("Load(written) error = %v", err)
	}
	if back.Store != cfg.Store || back.Render != cfg.Render || back.Log != cfg.Log {
		t.Errorf("round trip = %+v, want %+v", back, cfg)
	}
}
