package cli

import (
	"github.com/spf13/cobra"

	"github.com/nhle/do-it-later/internal/model"
)

func (c *CLI) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.printf("%s\n", c.configPath)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := model.SaveConfig(c.configPath, c.cfg); err != nil {
				return err
			}
			c.printf("Wrote %s\n", c.configPath)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.printf("storage.path: %s\n", c.cfg.Storage.Path)
			c.printf("storage.save_debounce_ms: %d\n", c.cfg.Storage.SaveDebounceMS)
			c.printf("display.theme: %s\n", c.cfg.Display.Theme)
			c.printf("log.level: %s\n", c.cfg.Log.Level)
			c.printf("rollover.timezone: %s\n", c.cfg.Rollover.Timezone)
			return nil
		},
	})
	return cmd
}
