// Package cli implements the floorplan command-line interface.
//
// The CLI is built with cobra and logs through charmbracelet/log. Every
// command works on one project (--project, default "mye") whose designs are
// listed in input/<project>/<project>.csv.
//
// # Commands
//
//   - edit: interactive terminal editor, one design after another
//   - designs: list the designs of the project
//   - shapes: list the shape catalog of a design
//   - snapshot: write the grid snapshot of the saved placement
//   - check: verify that the saved placement still fits catalog and grid
//   - clear: delete the saved placement
//   - completion: shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context. While the editor owns the terminal, logs go
// to the project log file instead of stderr.
package cli

import (
	"context"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorplan/pkg/buildinfo"
	"github.com/matzehuels/floorplan/pkg/catalog"
	"github.com/matzehuels/floorplan/pkg/config"
	ferrors "github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/observability"
	"github.com/matzehuels/floorplan/pkg/session"
	"github.com/matzehuels/floorplan/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "floorplan"

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

	configPath string
	project    string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Floorplan places chip blocks on a grid",
		Long:         `Floorplan is an interactive floorplanner: place, move, rotate, duplicate and swap blocks on a design grid and save the placement.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultFile+" if present)")
	root.PersistentFlags().StringVarP(&c.project, "project", "p", session.DefaultProject, "project name")

	root.AddCommand(c.editCommand())
	root.AddCommand(c.designsCommand())
	root.AddCommand(c.shapesCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.clearCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Setup
// =============================================================================

func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// openStore opens the configured store. Network backends may retry for a
// few seconds, so a spinner is shown while they connect.
func (c *CLI) openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	opts := cfg.StoreOptions()
	switch opts.Backend {
	case store.BackendRedis, store.BackendMongo:
		s := newSpinner(ctx, os.Stderr, "Connecting to "+opts.Backend+"...")
		s.Start()
		st, err := store.Open(ctx, opts)
		if err != nil {
			s.StopWithError("Could not connect to " + opts.Backend)
			return nil, err
		}
		s.StopWithSuccess("Connected to " + opts.Backend)
		return st, nil
	}
	return store.Open(ctx, opts)
}

// designNames returns the designs to process: the one given, or every
// design of the manifest in file order.
func (c *CLI) designNames(cfg config.Config, design string) ([]string, error) {
	designs, err := session.Designs(cfg, c.project)
	if err != nil {
		return nil, err
	}
	if design == "" {
		names := make([]string, len(designs))
		for i, d := range designs {
			names[i] = d.Name
		}
		return names, nil
	}
	if _, ok := catalog.Find(designs, design); !ok {
		return nil, ferrors.New(ferrors.ErrCodeMissingConfig, "design %q is not listed in %s", design, cfg.ManifestPath(c.project))
	}
	return []string{design}, nil
}

// eachDesign opens a session per design and calls fn. A design whose
// catalog cannot be loaded is reported and skipped; other errors stop.
func (c *CLI) eachDesign(ctx context.Context, design string, fn func(*session.Session) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	names, err := c.designNames(cfg, design)
	if err != nil {
		return err
	}
	st, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	logger := loggerFromContext(ctx)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		sess, err := session.Open(ctx, st, session.Options{
			Project: c.project,
			Design:  name,
			Config:  cfg,
			Logger:  logger,
		})
		if ferrors.Is(err, ferrors.ErrCodeMissingConfig) {
			printError("%s/%s: %s", c.project, name, ferrors.UserMessage(err))
			logger.Debug("skipping design", "design", name, "err", err)
			continue
		}
		if err != nil {
			return err
		}
		if err := fn(sess); err != nil {
			return err
		}
	}
	return nil
}

// designCompletion completes --design from the project manifest.
func (c *CLI) designCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names, err := c.designNames(cfg, "")
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return slices.DeleteFunc(names, func(n string) bool {
		return !strings.HasPrefix(n, toComplete)
	}), cobra.ShellCompDirectiveNoFileComp
}

// addDesignFlag registers --design/-d with manifest completion.
func (c *CLI) addDesignFlag(cmd *cobra.Command, target *string, usage string) {
	cmd.Flags().StringVarP(target, "design", "d", "", usage)
	_ = cmd.RegisterFlagCompletionFunc("design", c.designCompletion)
}

// setHooks routes edit and store events to logger at debug level.
func setHooks(logger *log.Logger) {
	h := &logHooks{logger: logger}
	observability.SetEditHooks(h)
	observability.SetStoreHooks(h)
}
