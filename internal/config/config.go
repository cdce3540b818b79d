// Package config loads the narrative CLI configuration from a TOML file.
//
// The file is looked up in order: $NARRATIVE_CONFIG, ./narrative.toml,
// ~/.config/narrative/config.toml. A missing file yields the defaults.
package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/narrative/pkg/errors"
	"github.com/matzehuels/narrative/pkg/graph"
	"github.com/matzehuels/narrative/pkg/store"
)

const (
	// EnvPath names the environment variable holding an explicit config path.
	EnvPath = "NARRATIVE_CONFIG"

	// LocalFile is the config file looked up in the working directory.
	LocalFile = "narrative.toml"

	appName = "narrative"
)

// Config is the full CLI configuration.
type Config struct {
	Store  StoreConfig  `toml:"store"`
	Render RenderConfig `toml:"render"`
	Log    LogConfig    `toml:"log"`

	// Source is the file the config was read from, empty for defaults.
	Source string `toml:"-"`
}

// StoreConfig selects and configures the record store.
type StoreConfig struct {
	Backend string `toml:"backend"`

	// file backend
	Dir    string `toml:"dir"`
	Format string `toml:"format"`

	// sqlite backend
	SQLitePath string `toml:"sqlite_path"`

	// redis backend
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`

	// mongo backend
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`

	// postgres backend
	PostgresURL string `toml:"postgres_url"`
}

// RenderConfig controls the render command.
type RenderConfig struct {
	Cache    bool   `toml:"cache"`
	CacheDir string `toml:"cache_dir"`
}

// LogConfig sets the default log level ("debug", "info", "warn", "error").
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:         store.BackendFile,
			Format:          string(graph.FormatJSON),
			RedisAddr:       "localhost:6379",
			RedisPrefix:     "narrative:",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   appName,
			MongoCollection: "records",
		},
		Render: RenderConfig{Cache: true},
		Log:    LogConfig{Level: "info"},
	}
}

// UserPath returns ~/.config/narrative/config.toml.
func UserPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// Lookup returns the first existing config file in lookup order, or "" when
// none exists. An explicit $NARRATIVE_CONFIG is returned even if missing so
// that Load reports it.
func Lookup() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	candidates := []string{LocalFile}
	if p, err := UserPath(); err == nil {
		candidates = append(candidates, p)
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads the config at path over the defaults. An empty path uses
// [Lookup]; if that finds nothing the defaults are returned. The result is
// validated.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Lookup()
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "config file %s does not exist", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "open config %s", path)
	}
	defer f.Close()

	if err := cfg.decode(f); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	cfg.Source = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	md, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New("unknown keys: " + strings.Join(keys, ", "))
	}
	return nil
}

// Validate rejects unknown backends, formats and log levels.
func (c *Config) Validate() error {
	if !slices.Contains(store.Backends(), c.Store.Backend) {
		return errs.New(errs.ErrCodeInvalidConfig, "unknown store backend %q (use %s)",
			c.Store.Backend, strings.Join(store.Backends(), ", "))
	}
	if _, err := graph.ParseFormat(c.Store.Format); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid store format %q", c.Store.Format)
	}
	if err := errs.ValidateFormat(c.Log.Level, "debug", "info", "warn", "error"); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "unknown log level %q", c.Log.Level)
	}
	if c.Store.Backend == store.BackendPostgres && c.Store.PostgresURL == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "postgres backend requires store.postgres_url")
	}
	return nil
}

// Write encodes c as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
