// Package commands implements the dirsnap command line interface.
package commands

import (
	"github.com/marmos91/dirsnap/cmd/dirsnap/commands/config"
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "dirsnap",
	Short: "dirsnap - point-in-time directory listings",
	Long: `dirsnap captures the entries of a directory in a single pass, either
as bare names or together with each entry's metadata (type, permissions,
size, timestamps, ownership), without following symbolic links.

It can be used directly from the command line or run as an HTTP service.

Use "dirsnap [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/dirsnap/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(namesCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(config.Cmd)
	rootCmd.AddCommand(completionCmd)

	// Hide the default completion command (we provide our own)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// GetConfigFile returns the config file path from the global flag.
func GetConfigFile() string {
	return cfgFile
}
