package config

import (
	"github.com/marmos91/dirsnap/internal/cli/output"
	"github.com/marmos91/dirsnap/pkg/config"
	"github.com/spf13/cobra"
)

var showFormat = output.FormatYAML

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Print the configuration after defaults and DIRSNAP_* environment
overrides have been applied.

Examples:
  # Effective configuration as YAML
  dirsnap config show

  # As JSON
  dirsnap config show -o json`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().VarP(&showFormat, "output", "o", "Output format (yaml|json)")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath(cmd))
	if err != nil {
		return err
	}

	format := showFormat
	if format == output.FormatTable {
		format = output.FormatYAML
	}
	return output.NewPrinter(cmd.OutOrStdout(), format, false).Print(cfg)
}
