// Package main provides the backup-vm-wrapper command.
//
// backup-vm-wrapper backs up every libvirt domain into its own borg repository
// under the configured borg_path, using the backup-vm helper, then prunes each
// repository (keep 7 daily, 8 weekly). It is meant to be run from cron or a
// systemd timer.
//
// Usage:
//
//	backup-vm-wrapper [--dry-run|-n] [--config|-c FILE] [--verbose|-v]
//
// The exit status is 0 when every domain was backed up and 1 otherwise.
//
// For core backup logic, see the backup package.
package main
