package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/narrative/internal/config"
)

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the active configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file in use and the lookup order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.Source != "" {
				printKeyValue("active", c.Config.Source)
			} else {
				printKeyValue("active", StyleDim.Render("(defaults)"))
			}
			printKeyValue("env", "$"+config.EnvPath)
			printKeyValue("local", config.LocalFile)
			if user, err := config.UserPath(); err == nil {
				printKeyValue("user", user)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.Config.Write(os.Stdout); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return nil
		},
	})

	return cmd
}
