package config

import (
	"fmt"
	"os"

	"github.com/marmos91/dirsnap/pkg/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the dirsnap configuration file.

Checks for syntax errors, invalid values and allowed roots that cannot be
scanned.

Examples:
  # Validate default config
  dirsnap config validate

  # Validate specific config file
  dirsnap config validate --config /etc/dirsnap/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := configPath(cmd)

	cfg, err := config.MustLoad(path)
	if err != nil {
		return err
	}

	displayPath := path
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	var warnings []string
	if len(cfg.Scan.AllowedRoots) == 0 {
		warnings = append(warnings, "scan.allowed_roots is empty - the API can list any readable directory")
	}
	for _, root := range cfg.Scan.AllowedRoots {
		if err := checkRoot(root); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Port == cfg.Server.Port {
		warnings = append(warnings, "metrics.port equals server.port - metrics are served by the API listener")
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file: %s\n", displayPath)
	_, _ = fmt.Fprintln(out, "Validation: OK")

	if len(warnings) > 0 {
		_, _ = fmt.Fprintln(out, "\nWarnings:")
		for _, w := range warnings {
			_, _ = fmt.Fprintf(out, "  - %s\n", w)
		}
	}

	_, _ = fmt.Fprintf(out, "\nConfiguration summary:\n")
	_, _ = fmt.Fprintf(out, "  API address:     %s:%d\n", cfg.Server.Host, cfg.Server.Port)
	_, _ = fmt.Fprintf(out, "  Allowed roots:   %d\n", len(cfg.Scan.AllowedRoots))
	_, _ = fmt.Fprintf(out, "  Buffer size:     %s\n", cfg.Scan.BufferSize)
	_, _ = fmt.Fprintf(out, "  Log level:       %s\n", cfg.Logging.Level)

	return nil
}

// checkRoot reports an allowed root that is missing or not a directory.
func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("allowed root %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("allowed root %s is not a directory", root)
	}
	return nil
}
