// workflow.go contains CLI-specific orchestration: loading the config, running
// the job and turning its outcome into an exit status.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/valvemist/backupvm/backup"
)

// newJob is replaced in tests.
var newJob = backup.NewJob

// RunBackupWorkflow loads the configuration and backs up every domain.
func RunBackupWorkflow(ctx context.Context, opts options, stdout io.Writer) error {
	cfg, err := backup.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	logger.Debug("Loaded config", "path", opts.configPath, "borg_path", cfg.BorgPath)

	job := newJob(cfg, opts.dryRun)
	job.Runner.Out = stdout

	logger.Info("Starting backup workflow", "dry_run", opts.dryRun)
	report, err := job.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("Backup workflow finished", "domains", len(report.Domains))
	return nil
}

// reportError prints diagnostics for err and returns the exit status.
func reportError(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var cmdErr *backup.ExternalCommandError
	if errors.As(err, &cmdErr) {
		if out := cmdErr.Output(); out != "" {
			fmt.Fprintln(w, out)
		}
	}
	fmt.Fprintf(w, "** %v\n", err)
	return 1
}
