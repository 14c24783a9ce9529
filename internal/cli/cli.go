// Package cli implements the pfannkuchen command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pfannkuchen/pkg/buildinfo"
	"github.com/matzehuels/pfannkuchen/pkg/cache"
	"github.com/matzehuels/pfannkuchen/pkg/config"
	"github.com/matzehuels/pfannkuchen/pkg/pipeline"
	"github.com/matzehuels/pfannkuchen/pkg/runs"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "pfannkuchen"

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

	// Config is loaded before any command runs.
	Config *config.Config

	// ConfigPath overrides the default config location (--config).
	ConfigPath string
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
		Use:   appName,
		Short: "Pfannkuchen computes the fannkuch-redux benchmark",
		Long: `Pfannkuchen computes the fannkuch-redux benchmark: for every permutation
of 0..n-1 it counts the prefix reversals needed to bring 0 to the front, and
reports the maximum flip count together with a parity-signed checksum.

Work is split into chunks of the permutation index space and run on a pool
of workers. Results are cached and every run is recorded in the history.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/pfannkuchen/config.toml)")

	// Register all subcommands
	root.AddCommand(c.runCommand())
	root.AddCommand(c.benchCommand())
	root.AddCommand(c.traceCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	path := c.ConfigPath
	if path == "" {
		var err error
		if path, err = config.Path(); err != nil {
			c.Config = config.Default()
			return nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache and
// history store.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	rc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	store, err := c.newStore(ctx)
	if err != nil {
		_ = rc.Close()
		return nil, err
	}
	runner := pipeline.NewRunner(rc, nil, store, c.Logger)
	runner.ResultTTL = c.Config.Cache.TTL.Duration
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		// NewRedisCache already retries its PING with cache.DefaultRetry.
		rc, err := cache.NewRedisCache(ctx, c.Config.Cache.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		return rc, nil
	default:
		dir, err := c.Config.ResolvedCacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

func (c *CLI) newStore(ctx context.Context) (runs.Store, error) {
	switch c.Config.History.Backend {
	case config.HistoryNone:
		return runs.NullStore{}, nil
	case config.HistoryMemory:
		return runs.NewMemoryStore(), nil
	case config.HistoryMongo:
		store, err := runs.NewMongoStore(ctx, c.Config.History.MongoURI, c.Config.History.Database)
		if err != nil {
			return nil, fmt.Errorf("connect run history: %w", err)
		}
		return store, nil
	default:
		dir, err := c.Config.ResolvedHistoryDir()
		if err != nil {
			return nil, fmt.Errorf("get history dir: %w", err)
		}
		return runs.NewFileStore(dir)
	}
}

// =============================================================================
// Options Helpers
// =============================================================================

// computeOptions merges flags over the [compute] config section.
func (c *CLI) computeOptions(n, chunks, workers int, refresh bool) pipeline.Options {
	if chunks == 0 {
		chunks = c.Config.Compute.Chunks
	}
	if workers == 0 {
		workers = c.Config.Compute.Workers
	}
	return pipeline.Options{
		N:       n,
		Chunks:  chunks,
		Workers: workers,
		Refresh: refresh,
		Logger:  c.Logger,
	}
}
