package config

import (
	"fmt"
	"os"

	"github.com/marmos91/dirsnap/internal/cli/prompt"
	"github.com/marmos91/dirsnap/pkg/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample dirsnap configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/dirsnap/config.yaml.
Use --config to specify a custom path. An existing file is only replaced
after confirmation, or when --force is given.

Examples:
  # Initialize with default location
  dirsnap config init

  # Initialize with custom path
  dirsnap config init --config /etc/dirsnap/config.yaml

  # Overwrite without asking
  dirsnap config init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := configPath(cmd)
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	force := initForce
	if _, err := os.Stat(path); err == nil && !force {
		ok, err := prompt.ConfirmWithForce(fmt.Sprintf("%s already exists. Overwrite", path), false)
		if err != nil {
			if prompt.IsAborted(err) {
				return fmt.Errorf("%w: %s (use --force to overwrite)", config.ErrConfigExists, path)
			}
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
		force = true
	}

	if err := config.InitConfigToPath(path, force); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file created at: %s\n", path)
	_, _ = fmt.Fprintln(out, "\nNext steps:")
	_, _ = fmt.Fprintln(out, "  1. Set scan.allowed_roots to the directories the API may list")
	_, _ = fmt.Fprintln(out, "  2. Start the server with: dirsnap serve")
	_, _ = fmt.Fprintf(out, "  3. Or specify custom config: dirsnap serve --config %s\n", path)
	return nil
}
