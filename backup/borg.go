// borg.go contains the per-domain borg operations: repository creation,
// archive creation through backup-vm, and pruning.

package backup

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Retention policy applied to every domain repository.
const (
	KeepDaily  = 7
	KeepWeekly = 8
)

// ArchiveDateLayout formats the date part of an archive name.
const ArchiveDateLayout = "2006-01-02"

// Borg runs borg and backup-vm for the domains of one configuration.
type Borg struct {
	Config Config
	Runner *Runner
}

// EnsureRepo creates the unencrypted borg repository of domain unless its
// directory already exists. It reports whether a repository was (or, in
// dry-run mode, would be) created.
func (b Borg) EnsureRepo(ctx context.Context, domain string) (bool, error) {
	repo := b.Config.RepoPath(domain)
	if info, err := os.Stat(repo); err == nil && info.IsDir() {
		log.Debug("repository exists", "repo", repo)
		return false, nil
	}
	log.Info("Initializing repository", "repo", repo)
	if err := b.Runner.Run(ctx, "borg", "init", "-e", "none", repo); err != nil {
		return false, err
	}
	return true, nil
}

// ArchiveDestination returns the borg archive reference for a backup of
// domain taken at t.
func ArchiveDestination(repo, domain string, t time.Time) string {
	return fmt.Sprintf("%s::%s-%s", repo, domain, t.Format(ArchiveDateLayout))
}

// CreateArchiveCommand builds the backup-vm invocation for domain. The disk
// spec argument is only present when the domain has an override.
func (b Borg) CreateArchiveCommand(domain string, now time.Time) []string {
	dest := ArchiveDestination(b.Config.RepoPath(domain), domain, now)
	if disks, ok := b.Config.DiskSpec(domain); ok {
		return []string{"backup-vm", domain, disks, dest}
	}
	return []string{"backup-vm", domain, dest}
}

// CreateArchive backs domain up into its repository.
func (b Borg) CreateArchive(ctx context.Context, domain string, now time.Time) error {
	cmd := b.CreateArchiveCommand(domain, now)
	log.Info("Backing up domain", "domain", domain, "archive", cmd[len(cmd)-1])
	return b.Runner.Run(ctx, cmd...)
}

// PruneCommand builds the borg prune invocation for domain.
func (b Borg) PruneCommand(domain string) []string {
	return []string{
		"borg", "prune",
		"--keep-daily", strconv.Itoa(KeepDaily),
		"--keep-weekly", strconv.Itoa(KeepWeekly),
		b.Config.RepoPath(domain),
	}
}

// Prune applies the retention policy to the repository of domain.
func (b Borg) Prune(ctx context.Context, domain string) error {
	log.Info("Pruning repository", "domain", domain)
	return b.Runner.Run(ctx, b.PruneCommand(domain)...)
}
