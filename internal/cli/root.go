// Package cli implements the doitlater command line: one-shot task
// commands, import and export, and the interactive terminal UI.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nhle/do-it-later/internal/app"
	"github.com/nhle/do-it-later/internal/model"
	"github.com/nhle/do-it-later/internal/rollover"
	"github.com/nhle/do-it-later/internal/session"
	"github.com/nhle/do-it-later/internal/store"
)

// CLI holds the process-wide dependencies of every command. The zero
// value is not usable; call New.
type CLI struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Now defaults to time.Now.
	Now func() time.Time

	// Clipboard defaults to the system clipboard.
	Clipboard app.Clipboard

	// OpenStore, when set, replaces the configured store.
	OpenStore func(ctx context.Context) (store.Store, error)

	configPath string
	dataPath   string
	logLevel   string
	ephemeral  bool

	cfg    *model.AppConfig
	logger *log.Logger
}

// New returns a CLI wired to the process's standard streams.
func New() *CLI {
	return &CLI{
		In:        os.Stdin,
		Out:       os.Stdout,
		Err:       os.Stderr,
		Now:       time.Now,
		Clipboard: app.SystemClipboard(),
	}
}

// Command builds the root cobra command.
func (c *CLI) Command() *cobra.Command {
	root := &cobra.Command{
		Use:   "doitlater",
		Short: "Do It (Later) - a today/later task tracker",
		Long: `Do It (Later) keeps two lists: Today and Later.

Unfinished tasks roll over every morning, completed ones are cleared,
and anything that waited a week in Later moves to Today on its own.
Run without a subcommand to open the interactive view.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		RunE:              c.runTUI,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", model.DefaultConfigPath(), "config file")
	flags.StringVar(&c.dataPath, "data", "", "SQLite database file (overrides storage.path)")
	flags.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&c.ephemeral, "ephemeral", false, "keep tasks in memory only")

	root.AddCommand(
		c.addCmd(),
		c.listCmd(),
		c.doneCmd(),
		c.importantCmd(),
		c.moveCmd(),
		c.deleteCmd(),
		c.editCmd(),
		c.deadlineCmd(),
		c.exportCmd(),
		c.importCmd(),
		c.qrCmd(),
		c.restoreCmd(),
		c.rolloverCmd(),
		c.configCmd(),
		c.tuiCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := model.LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	if c.dataPath != "" {
		cfg.Storage.Path = c.dataPath
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	c.cfg = cfg

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	c.logger = log.NewWithOptions(c.Err, log.Options{
		Level:           level,
		Prefix:          "doitlater",
		ReportTimestamp: level <= log.DebugLevel,
		TimeFormat:      time.Kitchen,
	})
	return nil
}

func (c *CLI) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	if c.OpenStore != nil {
		return c.OpenStore(ctx)
	}
	if c.ephemeral {
		return store.NewMemoryStore(), nil
	}

	path := c.cfg.Storage.Path
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
		}
	}
	c.logger.Debug("opening store", "path", path)
	return store.NewSQLiteStore(path)
}

// withSession opens the store and a session around fn, then flushes and
// closes both. A rollover that happened on open is reported on stderr.
func (c *CLI) withSession(ctx context.Context, redraw func(), fn func(ctx context.Context, s *session.Session, opened rollover.Report) error) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	loc, err := c.cfg.Location()
	if err != nil {
		return err
	}

	s, opened := session.Open(ctx, session.Options{
		Store:        st,
		Logger:       c.logger,
		Now:          c.now,
		Location:     loc,
		SaveDebounce: c.cfg.SaveDebounce(),
		Redraw:       redraw,
	})

	fnErr := fn(ctx, s, opened)
	if err := s.Close(ctx); err != nil {
		c.logger.Error("saving tasks failed", "err", err)
		if fnErr == nil {
			fnErr = fmt.Errorf("saving tasks: %w", err)
		}
	}
	return fnErr
}

func (c *CLI) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

// announce writes the rollover summary, if any, to stderr.
func (c *CLI) announce(r rollover.Report) {
	if summary := r.Summary(); summary != "" {
		fmt.Fprintln(c.Err, summary)
	}
}

// parseListFlag maps a --list value to a List; empty means def.
func parseListFlag(value string, def model.List) (model.List, error) {
	if strings.TrimSpace(value) == "" {
		return def, nil
	}
	return model.ParseList(value)
}
