package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vango-dev/reactivity/internal/errors"
	"github.com/vango-dev/reactivity/pkg/reactivity"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦═╗┌─┐┌─┐┌─┐┌┬┐┬┬  ┬┬┌┬┐┬ ┬
  ╠╦╝├┤ ├─┤│   │ │└┐┌┘│ │ └┬┘
  ╩╚═└─┘┴ ┴└─┘ ┴ ┴ └┘ ┴ ┴  ┴
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.SetColors(term.IsTerminal(int(os.Stderr.Fd())))
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "reactivity",
		Short: "Fine-grained reactivity engine tools",
		Long: `Tools for the reactivity engine.

Run the built-in scenarios to see dependency tracking at work,
or start the devtools inspector to watch effects live:

  • Reactive objects, arrays and collections
  • Refs and lazily computed values
  • Batched effect scheduling
  • Event recorder with Prometheus, OpenTelemetry and WebSocket sinks`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(cmd.ErrOrStderr(), verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Add commands
	rootCmd.AddCommand(
		demoCmd(),
		initCmd(),
		inspectCmd(),
		versionCmd(),
	)

	return rootCmd
}

// setupLogger routes engine and tool logs to w.
func setupLogger(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(l)
	reactivity.SetLogger(l.With("component", "reactivity"))
}

// printBanner prints the ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
