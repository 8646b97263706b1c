// Package backup orchestrates borg backups of libvirt domains. It lists the
// domains of the hypervisor and, for each one in turn, creates its borg
// repository if needed, runs the backup-vm helper into it and prunes old
// archives.
//
// Every external command goes through a Runner, which can print commands
// instead of executing them (dry-run). Errors are returned, never turned into
// process exits: a *ConfigError for configuration problems and an
// *ExternalCommandError for commands that fail.
//
// Key features include:
//
//   - INI configuration with per-domain disk overrides
//   - Domain listing through virsh or the libvirt RPC socket
//   - Healthchecks pings at start, success and failure
//   - A JSON report of the last run
//
// Example usage:
//
//	cfg, err := backup.LoadConfig(backup.DefaultConfigPath)
//	...
//	report, err := backup.NewJob(cfg, false).Run(ctx)
//
// For CLI orchestration, see cmd/backup-vm-wrapper.
package backup
