package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/marmos91/dirsnap/internal/cli/output"
	"github.com/marmos91/dirsnap/pkg/apiclient"
	"github.com/spf13/cobra"
)

var statusOpts struct {
	server  string
	format  output.Format
	timeout time.Duration
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the readiness of a running dirsnap server",
	Long: `Query the readiness probe of a running dirsnap server and report whether
each allowed root can be scanned.

Exits with an error when the server is unreachable or not ready.

Examples:
  # Local server on the configured port
  dirsnap status

  # Remote server as JSON
  dirsnap status --server http://files:8080 -o json`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusOpts.format = output.FormatTable
	statusCmd.Flags().StringVar(&statusOpts.server, "server", "", "Server URL (default: http://localhost:<server.port> from config)")
	statusCmd.Flags().VarP(&statusOpts.format, "output", "o", "Output format (table|json|yaml)")
	statusCmd.Flags().DurationVar(&statusOpts.timeout, "timeout", 5*time.Second, "Request timeout")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	server := statusOpts.server
	if server == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		server = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}

	client := apiclient.New(server).WithTimeout(statusOpts.timeout)
	ready, err := client.Ready(cmd.Context())

	var apiErr *apiclient.APIError
	if err != nil && !errors.As(err, &apiErr) {
		return fmt.Errorf("server %s unreachable: %w", server, err)
	}

	printer := output.NewPrinter(cmd.OutOrStdout(), statusOpts.format, false)
	if statusOpts.format != output.FormatTable {
		if perr := printer.Print(ready); perr != nil {
			return perr
		}
	} else {
		table := output.NewTableData("ROOT", "STATUS")
		for _, root := range ready.Roots {
			table.AddRow(root.Path, root.Status)
		}
		table.SetFooter(fmt.Sprintf("%s roots checked in %s", output.FormatCount(len(ready.Roots)), ready.Latency))
		if perr := printer.Print(table); perr != nil {
			return perr
		}
		for _, msg := range ready.Errors {
			printer.Warning(msg)
		}
	}

	if err != nil {
		return fmt.Errorf("server %s not ready: %w", server, err)
	}
	return nil
}
