package commands

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/marmos91/dirsnap/internal/bytesize"
	"github.com/marmos91/dirsnap/internal/cli/output"
	"github.com/marmos91/dirsnap/pkg/apiclient"
	"github.com/marmos91/dirsnap/pkg/scan"
	"github.com/spf13/cobra"
)

// listOptions holds the flags shared by names and ls.
type listOptions struct {
	format   output.Format
	timeout  time.Duration
	sortBy   string
	relative bool
	server   string
}

// scanner is satisfied by both the local scan service and the API client.
type scanner interface {
	Scan(ctx context.Context, op scan.Operation, path string) (*scan.Result, error)
}

var (
	namesOpts = listOptions{format: output.FormatTable}
	lsOpts    = listOptions{format: output.FormatTable}
)

var namesCmd = &cobra.Command{
	Use:   "names PATH...",
	Short: "List the entry names of directories",
	Long: `List the names of the entries of one or more directories.

Entries are reported in the order the filesystem returns them; "." and ".."
are never included. Every path is attempted even when an earlier one fails.

Examples:
  # List names
  dirsnap names /var/log

  # Several directories, sorted, as JSON
  dirsnap names /etc /srv --sort name -o json

  # Ask a running server instead of reading locally
  dirsnap names /srv/data --server http://files:8080`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, scan.OperationNames, args, &namesOpts)
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls PATH...",
	Short: "List directory entries with their metadata",
	Long: `List the entries of one or more directories together with their
metadata. Symbolic links are described, never followed. Entries removed
while the listing is taken are skipped and counted as vanished.

Examples:
  # Long listing
  dirsnap ls /var/log

  # Largest first, as YAML
  dirsnap ls /var/log --sort size -o yaml

  # Ask a running server instead of reading locally
  dirsnap ls /srv/data --server http://files:8080`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, scan.OperationContents, args, &lsOpts)
	},
}

func init() {
	namesCmd.Flags().VarP(&namesOpts.format, "output", "o", "Output format (table|json|yaml)")
	namesCmd.Flags().DurationVar(&namesOpts.timeout, "timeout", 0, "Abort each listing after this long (default: scan.timeout from config)")
	namesCmd.Flags().StringVar(&namesOpts.sortBy, "sort", "none", "Sort entries by: none, name")
	namesCmd.Flags().StringVar(&namesOpts.server, "server", "", "List through a dirsnap server at this URL")

	lsCmd.Flags().VarP(&lsOpts.format, "output", "o", "Output format (table|json|yaml)")
	lsCmd.Flags().DurationVar(&lsOpts.timeout, "timeout", 0, "Abort each listing after this long (default: scan.timeout from config)")
	lsCmd.Flags().StringVar(&lsOpts.sortBy, "sort", "none", "Sort entries by: none, name, size, mtime")
	lsCmd.Flags().BoolVar(&lsOpts.relative, "relative", false, "Show modification times relative to now")
	lsCmd.Flags().StringVar(&lsOpts.server, "server", "", "List through a dirsnap server at this URL")
}

func runList(cmd *cobra.Command, op scan.Operation, paths []string, opts *listOptions) error {
	less, err := entryOrder(op, opts.sortBy)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Keep stdout for the listing itself.
	if cfg.Logging.Output == "stdout" {
		cfg.Logging.Output = "stderr"
	}
	if err := InitLogger(cfg); err != nil {
		return err
	}

	scanner := newScanner(cfg.ScanConfig(), opts)

	var (
		results []*scan.Result
		errs    *multierror.Error
	)
	for _, path := range paths {
		result, err := scanner.Scan(cmd.Context(), op, path)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		if less != nil {
			entries := result.Entries
			sort.SliceStable(entries, func(i, j int) bool { return less(entries[i], entries[j]) })
		}
		results = append(results, result)
	}

	if err := printResults(cmd, results, len(paths) > 1, opts); err != nil {
		return err
	}
	return errs.ErrorOrNil()
}

// newScanner returns the API client when --server is set and a local scan
// service otherwise.
func newScanner(scanCfg scan.Config, opts *listOptions) scanner {
	if opts.server != "" {
		client := apiclient.New(opts.server)
		if opts.timeout > 0 {
			client = client.WithTimeout(opts.timeout)
		}
		return client
	}

	// Allowed roots confine the HTTP service; local users list what they can open.
	scanCfg.AllowedRoots = nil
	if opts.timeout > 0 {
		scanCfg.Timeout = opts.timeout
	}
	return scan.New(scanCfg, nil)
}

// entryOrder validates --sort. A nil function keeps the filesystem order.
func entryOrder(op scan.Operation, sortBy string) (func(a, b scan.Entry) bool, error) {
	switch sortBy {
	case "", "none":
		return nil, nil
	case "name":
		return func(a, b scan.Entry) bool { return a.Name < b.Name }, nil
	}
	if op == scan.OperationContents {
		switch sortBy {
		case "size":
			return func(a, b scan.Entry) bool { return a.Metadata.Size > b.Metadata.Size }, nil
		case "mtime":
			return func(a, b scan.Entry) bool { return a.Metadata.ModifiedAt.After(b.Metadata.ModifiedAt) }, nil
		}
	}
	return nil, fmt.Errorf("invalid --sort value %q for %s", sortBy, op)
}

func printResults(cmd *cobra.Command, results []*scan.Result, multi bool, opts *listOptions) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), opts.format, false)

	if opts.format != output.FormatTable {
		if !multi && len(results) == 1 {
			return printer.Print(results[0])
		}
		if results == nil {
			results = []*scan.Result{}
		}
		return printer.Print(results)
	}

	for i, result := range results {
		if multi {
			if i > 0 {
				printer.Println()
			}
			printer.Printf("%s:\n", result.Path)
		}
		if err := printer.Print(newResultTable(result, opts.relative)); err != nil {
			return err
		}
	}
	return nil
}

// resultTable renders a scan result; names-only results get one column.
type resultTable struct {
	result   *scan.Result
	relative bool
}

func newResultTable(result *scan.Result, relative bool) *resultTable {
	return &resultTable{result: result, relative: relative}
}

func (t *resultTable) Headers() []string {
	if t.result.Operation == scan.OperationNames {
		return []string{"NAME"}
	}
	return []string{"MODE", "LINKS", "UID", "GID", "SIZE", "MODIFIED", "NAME"}
}

func (t *resultTable) Rows() [][]string {
	rows := make([][]string, 0, len(t.result.Entries))
	for _, e := range t.result.Entries {
		m := e.Metadata
		if m == nil {
			rows = append(rows, []string{e.Name})
			continue
		}
		rows = append(rows, []string{
			m.Mode,
			strconv.FormatUint(m.Links, 10),
			strconv.FormatUint(uint64(m.UID), 10),
			strconv.FormatUint(uint64(m.GID), 10),
			bytesize.ByteSize(m.Size).String(),
			output.FormatTime(m.ModifiedAt, t.relative),
			e.Name,
		})
	}
	return rows
}

func (t *resultTable) Footer() string {
	footer := fmt.Sprintf("%s entries", output.FormatCount(len(t.result.Entries)))
	if t.result.Vanished > 0 {
		footer += fmt.Sprintf(", %s vanished", output.FormatCount(t.result.Vanished))
	}
	return footer
}
