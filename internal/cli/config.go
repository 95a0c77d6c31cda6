package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cogbalance/pkg/config"
)

// configCommand creates the config command with its subcommands.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.Config.Encode()
			if err != nil {
				return err
			}
			_, err = stdout.Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			if p := config.ResolvePath(c.configPath); p != "" {
				fmt.Fprintln(stdout, p)
				return nil
			}
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			printKeyValue("Path", p)
			printDetail("no file there yet, built-in defaults are in use")
			printNextStep("Start from the defaults", "cogbalance config show > "+p)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "env",
		Short: "List the recognized environment variables",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.EnvNames() {
				value, set := os.LookupEnv(name)
				if !set {
					fmt.Fprintln(stdout, StyleDim.Render(name))
					continue
				}
				if strings.Contains(strings.ToLower(name), "password") {
					value = "********"
				}
				printKeyValue(name, value)
			}
		},
	})

	return cmd
}
