package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/valvemist/backupvm/backup"
)

var logger *slog.Logger

type customHandler struct {
	level slog.Leveler
	out   io.Writer
}

// Enabled determines whether the customHandler should log messages at the given level.
func (h *customHandler) Enabled(_ context.Context, lvl slog.Level) bool {
	return lvl >= h.level.Level()
}

// Handle processes a log record using the customHandler.
func (h *customHandler) Handle(_ context.Context, r slog.Record) error {
	fmt.Fprintf(h.out, "[%s] %s", r.Level, r.Message)
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(h.out, " %s=%v", a.Key, a.Value)
		return true
	})
	// Include file and line number
	src := r.Source()
	if src != nil && src.File != "" {
		fmt.Fprintf(h.out, " (%s:%d)", filepath.Base(src.File), src.Line)
	}

	fmt.Fprintln(h.out)
	return nil
}

// WithAttrs returns a new handler with the given attributes.
func (h *customHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

// WithGroup returns a new handler with the given group name.
func (h *customHandler) WithGroup(_ string) slog.Handler { return h }

type options struct {
	dryRun     bool
	configPath string
	verbose    bool
}

func newRootCommand(stdout, stderr io.Writer, exitCode *int) *cobra.Command {
	var opts options
	level := new(slog.LevelVar)

	cmd := &cobra.Command{
		Use:           "backup-vm-wrapper",
		Short:         "Backup all VMs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.verbose {
				level.Set(slog.LevelDebug)
			}
			logger = slog.New(&customHandler{level: level, out: stderr})
			backup.SetLogger(logger)

			err := RunBackupWorkflow(cmd.Context(), opts, stdout)
			*exitCode = reportError(stderr, err)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Dry run")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", backup.DefaultConfigPath, "Config file")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

// run executes the command line and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	exitCode := 0
	cmd := newRootCommand(stdout, stderr, &exitCode)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return exitCode
}

// main is the entry point for the backup-vm-wrapper CLI tool.
func main() {
	// ctrl-c kills the running command and fails the job
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
