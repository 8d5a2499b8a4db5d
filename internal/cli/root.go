// Package cli provides the command-line interface of sortable.
package cli

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	fs "github.com/ungerik/go-fs"
)

// Version is set at build time
var Version = "0.1.0"

// app holds the state shared by the commands
// after the persistent pre run loaded the config.
type app struct {
	cfgFile string
	cfg     *Config
	logger  *slog.Logger
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	a := new(app)
	rootCmd := &cobra.Command{
		Use:   "sortable",
		Short: "Render records as tables with multi-level headers and sortable columns",
		Long: `sortable renders records from JSON, CSV, XLSX, or SQLite
as table with the columns declared in a YAML column spec.

Tables can be rendered as HTML, text, Markdown, CSV, or XLSX
or served as HTML page that is sorted by clicking on the header cells.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			return a.load(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./sortable.yaml)")
	flags.StringP("spec", "s", "", "YAML column spec file (default: one column per field)")
	flags.StringP("data", "d", "", "JSON, CSV, XLSX, or SQLite data file")
	flags.StringP("query", "q", "", "SQL query selecting the records from a SQLite data file")
	flags.String("sort", "", `initial sort state like "2:desc"`)
	flags.String("caption", "", "table caption")
	flags.String("locale", "", "locale for comparing strings like de or en-US")
	flags.BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(a.newRenderCmd())
	rootCmd.AddCommand(a.newServeCmd())
	return rootCmd
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, fileUsed, err := LoadConfig(a.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if fileUsed != "" {
		a.logger.Debug("using config file", slog.String("file", fileUsed))
	}
	return nil
}

func (a *app) newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a table to stdout or a file",
		Example: `  # Render people.json as text table sorted descending by the third column
  sortable render -d people.json -s people.yaml -f text --sort 2:desc

  # Render a SQLite query as Excel file
  sortable render -d shop.db -q "SELECT * FROM orders" -f xlsx -o orders.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.render(cmd)
		},
	}
	cmd.Flags().StringP("format", "f", "", "output format (html|text|markdown|csv|xlsx)")
	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return Formats, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func (a *app) render(cmd *cobra.Command) error {
	ctx := cmd.Context()
	records, fields, err := LoadRecords(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	spec, err := LoadSpec(a.cfg, fields)
	if err != nil {
		return err
	}
	table, err := NewTable(spec, records, a.logger)
	if err != nil {
		return err
	}
	if a.cfg.Output == "" {
		return RenderTable(ctx, cmd.OutOrStdout(), a.cfg.Format, table, spec.Caption)
	}
	var buf bytes.Buffer
	if err := RenderTable(ctx, &buf, a.cfg.Format, table, spec.Caption); err != nil {
		return err
	}
	a.logger.Debug("writing table", slog.String("file", a.cfg.Output), slog.Int("records", len(records)))
	return fs.File(a.cfg.Output).WriteAll(buf.Bytes())
}

func (a *app) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the table as HTML page sorted by clicking on the header cells",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default: localhost:8080)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	records, fields, err := LoadRecords(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	spec, err := LoadSpec(a.cfg, fields)
	if err != nil {
		return err
	}
	return NewServer(spec, records, a.logger).Serve(ctx, a.cfg.Addr)
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
