package backup

import (
	"context"
	"time"
)

// Job backs up every domain of the hypervisor, one after the other. The first
// failure stops the run.
type Job struct {
	Config Config
	Runner *Runner
	Lister DomainLister
	Pinger *Pinger

	// Now is the job clock. Defaults to time.Now.
	Now func() time.Time
}

// NewJob wires a Job for cfg with the os/exec runner.
func NewJob(cfg Config, dryRun bool) *Job {
	runner := NewRunner(dryRun)
	return &Job{
		Config: cfg,
		Runner: runner,
		Lister: NewDomainLister(cfg, runner),
		Pinger: NewPinger(cfg.HealthchecksURL, dryRun),
		Now:    time.Now,
	}
}

func (j *Job) now() time.Time {
	if j.Now == nil {
		return time.Now()
	}
	return j.Now()
}

func (j *Job) borg() Borg {
	return Borg{Config: j.Config, Runner: j.Runner}
}

// Run executes the whole job and sends the lifecycle pings. The returned
// report is never nil.
func (j *Job) Run(ctx context.Context) (*Report, error) {
	report := &Report{Started: j.now(), DryRun: j.Runner.DryRun}
	j.logLastRun()

	j.Pinger.Start(ctx)
	err := j.run(ctx, report)
	report.Finished = j.now()
	report.Err = err
	if err != nil {
		j.Pinger.Fail(ctx)
	} else {
		j.Pinger.Success(ctx)
	}

	j.writeReport(report)
	return report, err
}

func (j *Job) run(ctx context.Context, report *Report) error {
	domains, err := j.Lister.ListDomains(ctx)
	if err != nil {
		return err
	}
	log.Info("Domains found", "count", len(domains))

	for _, domain := range domains {
		result, err := j.BackupDomain(ctx, domain, report.Started)
		report.Domains = append(report.Domains, result)
		if err != nil {
			return err
		}
	}
	return nil
}

// BackupDomain creates the repository of domain if needed, backs the domain up
// and prunes old archives.
func (j *Job) BackupDomain(ctx context.Context, domain string, now time.Time) (DomainResult, error) {
	b := j.borg()
	result := DomainResult{
		Name:       domain,
		Repository: j.Config.RepoPath(domain),
		Archive:    ArchiveDestination(j.Config.RepoPath(domain), domain, now),
	}
	result.Disks, _ = j.Config.DiskSpec(domain)

	created, err := b.EnsureRepo(ctx, domain)
	result.RepoCreated = created
	if err != nil {
		result.Err = err
		return result, err
	}
	if err := b.CreateArchive(ctx, domain, now); err != nil {
		result.Err = err
		return result, err
	}
	if err := b.Prune(ctx, domain); err != nil {
		result.Err = err
		return result, err
	}
	return result, nil
}

func (j *Job) logLastRun() {
	if j.Config.ReportPath == "" {
		return
	}
	last, ok := ReadLastRun(j.Config.ReportPath)
	if !ok {
		log.Debug("no previous report", "path", j.Config.ReportPath)
		return
	}
	if last.Status == StatusFail {
		log.Warn("Previous run failed", "finished", last.Finished, "error", last.Error)
		return
	}
	log.Info("Previous run", "status", last.Status, "finished", last.Finished)
}

func (j *Job) writeReport(report *Report) {
	if j.Config.ReportPath == "" {
		return
	}
	if report.DryRun {
		log.Info("Would write report: " + j.Config.ReportPath)
		return
	}
	if err := WriteReport(j.Config.ReportPath, report); err != nil {
		log.Warn("Failed to write report", "path", j.Config.ReportPath, "error", err)
	}
}
