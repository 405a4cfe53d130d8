package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nhle/do-it-later/internal/app"
	"github.com/nhle/do-it-later/internal/rollover"
	"github.com/nhle/do-it-later/internal/session"
)

func (c *CLI) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive view (the default)",
		Args:  cobra.NoArgs,
		RunE:  c.runTUI,
	}
}

func (c *CLI) runTUI(cmd *cobra.Command, _ []string) error {
	// Log lines would tear the alternate screen, so the TUI logs to a
	// file next to the config, or nowhere.
	closeLog, err := c.redirectLog()
	if err != nil {
		return err
	}
	defer closeLog()

	redrawer := app.NewRedrawer()
	return c.withSession(cmd.Context(), redrawer.Notify, func(ctx context.Context, s *session.Session, opened rollover.Report) error {
		theme := s.Theme(ctx)
		if theme == "" {
			theme = c.cfg.Display.Theme
		}

		m := app.New(app.Options{
			Session:   s,
			Redrawer:  redrawer,
			Clipboard: c.Clipboard,
			Theme:     theme,
			Opened:    opened,
		})

		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running TUI: %w", err)
		}
		return nil
	})
}

func (c *CLI) redirectLog() (func(), error) {
	if c.logger.GetLevel() > log.DebugLevel {
		c.logger.SetOutput(io.Discard)
		return func() {}, nil
	}

	path := filepath.Join(filepath.Dir(c.configPath), "debug.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	c.logger.SetOutput(f)
	return func() { f.Close() }, nil
}
