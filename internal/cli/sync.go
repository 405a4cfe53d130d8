package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"github.com/nhle/do-it-later/internal/model"
	"github.com/nhle/do-it-later/internal/rollover"
	"github.com/nhle/do-it-later/internal/session"
	"github.com/nhle/do-it-later/internal/sync"
)

// Export format names accepted by --format.
const (
	exportText = "text"
	exportSync = "sync"
	exportJSON = "json"
)

// qrPNGSize is the edge length in pixels of --png output.
const qrPNGSize = 512

func encode(s *session.Session, format string) (string, error) {
	switch strings.ToLower(format) {
	case exportText:
		return sync.EncodeText(s.Set(), s.Now()), nil
	case exportSync, "compact":
		return sync.EncodeSync(s.Set()), nil
	case exportJSON:
		return sync.EncodeJSON(s.Set())
	default:
		return "", fmt.Errorf("unknown export format %q, use text, sync or json: %w", format, model.ErrValidation)
	}
}

func (c *CLI) exportCmd() *cobra.Command {
	var format, output string
	var toClipboard bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks as text, a sync code or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), nil, func(ctx context.Context, s *session.Session, opened rollover.Report) error {
				c.announce(opened)
				payload, err := encode(s, format)
				if err != nil {
					return err
				}

				switch {
				case toClipboard:
					if err := c.Clipboard.WriteAll(payload); err != nil {
						return fmt.Errorf("copying to clipboard: %w", err)
					}
					fmt.Fprintln(c.Err, "Copied to clipboard")
				case output != "":
					if err := os.WriteFile(output, []byte(payload+"\n"), 0o644); err != nil {
						return fmt.Errorf("writing %s: %w", output, err)
					}
					fmt.Fprintf(c.Err, "Wrote %s\n", output)
				default:
					c.printf("%s\n", payload)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", exportText, "text, sync or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	cmd.Flags().BoolVarP(&toClipboard, "clipboard", "c", false, "copy to the clipboard")
	return cmd
}

func (c *CLI) importCmd() *cobra.Command {
	var modeName string
	var fromClipboard bool
	cmd := &cobra.Command{
		Use:   "import [file|-]",
		Short: "Import tasks from a text export, sync code or JSON",
		Long: `Import reads a payload from a file, from stdin ("-" or no argument)
or from the clipboard, detects its format and merges it into the current
tasks. With --mode replace the current tasks are swapped out; run
"doitlater restore" to undo that.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := sync.ParseMergeMode(modeName)
			if err != nil {
				return err
			}
			payload, err := c.readPayload(args, fromClipboard)
			if err != nil {
				return err
			}

			return c.withSession(cmd.Context(), nil, func(ctx context.Context, s *session.Session, opened rollover.Report) error {
				c.announce(opened)
				before := s.Set().Len()
				format, err := s.Import(ctx, payload, mode)
				if err != nil {
					return err
				}
				c.printf("Imported %s payload (%s): %d tasks before, %d now\n", format, mode, before, s.Set().Len())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&modeName, "mode", "m", string(sync.ModeMerge), "merge or replace")
	cmd.Flags().BoolVarP(&fromClipboard, "clipboard", "c", false, "read from the clipboard")
	return cmd
}

func (c *CLI) readPayload(args []string, fromClipboard bool) (string, error) {
	if fromClipboard {
		text, err := c.Clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("reading clipboard: %w", err)
		}
		return text, nil
	}

	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(c.In)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}

	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(b), nil
}

func (c *CLI) qrCmd() *cobra.Command {
	var png string
	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Show the sync code as a QR code",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), nil, func(ctx context.Context, s *session.Session, opened rollover.Report) error {
				c.announce(opened)
				payload := sync.EncodeSync(s.Set())
				if payload == "" {
					return fmt.Errorf("no open tasks to share: %w", model.ErrValidation)
				}

				if png != "" {
					if err := qrcode.WriteFile(payload, qrcode.Medium, qrPNGSize, png); err != nil {
						return fmt.Errorf("writing QR code to %s: %w", png, err)
					}
					fmt.Fprintf(c.Err, "Wrote %s\n", png)
					return nil
				}

				code, err := qrcode.New(payload, qrcode.Low)
				if err != nil {
					return fmt.Errorf("rendering QR code: %w", err)
				}
				c.printf("%s", code.ToSmallString(false))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&png, "png", "", "write a PNG image instead of printing")
	return cmd
}

func (c *CLI) restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Undo the most recent replace import",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), nil, func(ctx context.Context, s *session.Session, _ rollover.Report) error {
				if err := s.Restore(ctx); err != nil {
					return err
				}
				c.printf("Restored %d tasks\n", s.Set().Len())
				return nil
			})
		},
	}
}

func (c *CLI) rolloverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rollover",
		Short: "Run the daily rollover now if the day has changed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), nil, func(ctx context.Context, s *session.Session, opened rollover.Report) error {
				if !opened.Rolled {
					c.printf("Already up to date for %s\n", opened.Date)
					return nil
				}
				if summary := opened.Summary(); summary != "" {
					c.printf("%s\n", summary)
				} else {
					c.printf("Rolled over from %s to %s, nothing to clean up\n", opened.Previous, opened.Date)
				}
				return nil
			})
		},
	}
}
