// Package cli implements the narrative command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/narrative/internal/config"
	"github.com/matzehuels/narrative/pkg/buildinfo"
	"github.com/matzehuels/narrative/pkg/cache"
	"github.com/matzehuels/narrative/pkg/codec"
	"github.com/matzehuels/narrative/pkg/graph"
	"github.com/matzehuels/narrative/pkg/store"
	mongostore "github.com/matzehuels/narrative/pkg/store/mongo"
	pgstore "github.com/matzehuels/narrative/pkg/store/postgres"
	redisstore "github.com/matzehuels/narrative/pkg/store/redis"
	"github.com/matzehuels/narrative/pkg/store/sqlite"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "narrative"

	// sqliteFile is the database file name used when sqlite_path is unset.
	sqliteFile = "narrative.db"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string // --config
	backend    string // --store, overrides the config file
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Narrative edits and stores branching dialogue graphs",
		Long:          `Narrative is a CLI for authoring branching dialogue: create nodes, wire choices between them, and save the graph as a named record in a file, database or key-value store.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $NARRATIVE_CONFIG, ./narrative.toml, ~/.config/narrative/config.toml)")
	root.PersistentFlags().StringVar(&c.backend, "store", "", "record store backend: file, memory, sqlite, redis, mongo, postgres")

	// Register all subcommands
	root.AddCommand(c.newCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.deleteCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.nodeCommand())
	root.AddCommand(c.choiceCommand())
	root.AddCommand(c.linkCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and applies flag overrides.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.backend != "" {
		cfg.Store.Backend = c.backend
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	c.Config = cfg

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = LogInfo
	}
	if c.verbose {
		level = LogDebug
		registerLogHooks(c.Logger)
	}
	c.SetLogLevel(level)
	if cfg.Source != "" {
		c.Logger.Debug("loaded config", "path", cfg.Source)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Store & Codec Factory
// =============================================================================

// openStore connects to the configured backend and instruments it.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	sc := c.Config.Store
	var (
		s   store.Store
		err error
	)

	switch sc.Backend {
	case store.BackendMemory:
		c.Logger.Warn("memory store does not outlive this command")
		s = store.NewMemoryStore()
	case store.BackendFile:
		format, ferr := graph.ParseFormat(sc.Format)
		if ferr != nil {
			return nil, ferr
		}
		s, err = store.NewFileStore(sc.Dir, format)
	case store.BackendSQLite:
		path, perr := sqlitePath(sc.SQLitePath)
		if perr != nil {
			return nil, perr
		}
		s, err = sqlite.New(path)
	case store.BackendRedis:
		s, err = redisstore.New(ctx, redisstore.Config{
			Addr:     sc.RedisAddr,
			Password: sc.RedisPassword,
			DB:       sc.RedisDB,
			Prefix:   sc.RedisPrefix,
		})
	case store.BackendMongo:
		s, err = mongostore.New(ctx, mongostore.Config{
			URI:        sc.MongoURI,
			Database:   sc.MongoDatabase,
			Collection: sc.MongoCollection,
		})
	case store.BackendPostgres:
		s, err = pgstore.Connect(ctx, sc.PostgresURL)
	default:
		return nil, fmt.Errorf("unknown store backend %q", sc.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", sc.Backend, err)
	}

	c.Logger.Debug("opened store", "backend", sc.Backend)
	return store.Instrument(s, sc.Backend, c.Logger), nil
}

// newCodec opens the store and returns a codec over it. The caller closes
// the store.
func (c *CLI) newCodec(ctx context.Context) (*codec.Codec, store.Store, error) {
	s, err := c.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	return codec.New(s, c.Logger), s, nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || !c.Config.Render.Cache {
		return cache.NewNullCache(), nil
	}
	dir := c.Config.Render.CacheDir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/narrative/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// sqlitePath returns path, or narrative.db next to the default record
// directory. The parent directory is created.
func sqlitePath(path string) (string, error) {
	if path == "" {
		dir, err := store.DefaultDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(filepath.Dir(dir), sqliteFile)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	return path, nil
}
