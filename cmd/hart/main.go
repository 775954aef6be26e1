// Command hart drives the bundled todo demo through the renderer to show,
// record and inspect render passes.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hart-dev/hart"
	"github.com/hart-dev/hart/internal/config"
	"github.com/hart-dev/hart/internal/demo"
	"github.com/hart-dev/hart/internal/errors"
	"github.com/hart-dev/hart/pkg/dom/memdom"
)

// Version information set at build time.
var (
	version = hart.Version
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	dir   string
	debug bool
	items int
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "hart",
		Short: "Render, record and inspect hart render passes",
		Long: `hart runs a scripted todo-list session through the renderer on an
in-memory DOM.

  • render   prints the final markup and the operations applied
  • record   writes every pass to an oplog file or S3 object
  • inspect  serves a live inspector while the script loops`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVarP(&flags.dir, "config", "c", ".", "Directory holding hart.json or hart.yaml")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Log every render pass")
	rootCmd.PersistentFlags().IntVarP(&flags.items, "items", "n", 0, "Initial todo items (default from config)")

	rootCmd.AddCommand(
		renderCmd(flags),
		recordCmd(flags),
		inspectCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

// load reads the configuration and applies command-line overrides.
func (f *globalFlags) load() (*config.Config, error) {
	cfg, err := config.Load(f.dir)
	if err != nil {
		return nil, err
	}
	if f.debug {
		cfg.Debug = true
	}
	if f.items > 0 {
		cfg.Demo.Items = f.items
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newDemo creates the demo rendering into body on a fresh in-memory
// document.
func newDemo(cfg *config.Config, logger *slog.Logger, body *memdom.Node, opts ...hart.Option) *demo.Demo {
	opts = append([]hart.Option{
		hart.WithName(cfg.Name),
		hart.WithLogger(logger),
	}, opts...)
	app := hart.New(memdom.NewDocument(), body, opts...)
	return demo.New(app, demo.NewModel(cfg.Name, cfg.Demo.Items))
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
