package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// DomainResult records what happened to one domain during a run.
type DomainResult struct {
	Name        string
	Repository  string
	Archive     string
	Disks       string
	RepoCreated bool
	Err         error
}

// Report summarizes a run. It is written as JSON when a report path is configured.
type Report struct {
	Started  time.Time
	Finished time.Time
	DryRun   bool
	Domains  []DomainResult
	Err      error
}

// Status returns StatusFail if the run stopped on an error.
func (r *Report) Status() string {
	if r.Err != nil {
		return StatusFail
	}
	return StatusSuccess
}

// BuildReportJSON returns the JSON document describing r.
func BuildReportJSON(r *Report) string {
	json := `{}`
	json, _ = sjson.Set(json, "status", r.Status())
	json, _ = sjson.Set(json, "started", r.Started.Format(time.RFC3339))
	json, _ = sjson.Set(json, "finished", r.Finished.Format(time.RFC3339))
	json, _ = sjson.Set(json, "dry_run", r.DryRun)
	if r.Err != nil {
		json, _ = sjson.Set(json, "error", r.Err.Error())
	}
	json, _ = sjson.SetRaw(json, "domains", "[]")
	for i, d := range r.Domains {
		prefix := fmt.Sprintf("domains.%d.", i)
		json, _ = sjson.Set(json, prefix+"name", d.Name)
		json, _ = sjson.Set(json, prefix+"repository", d.Repository)
		json, _ = sjson.Set(json, prefix+"archive", d.Archive)
		if d.Disks != "" {
			json, _ = sjson.Set(json, prefix+"disks", d.Disks)
		}
		json, _ = sjson.Set(json, prefix+"repo_created", d.RepoCreated)
		if d.Err != nil {
			json, _ = sjson.Set(json, prefix+"error", d.Err.Error())
		}
	}
	return json
}

// WriteReport writes the JSON report to path, replacing any previous one.
func WriteReport(path string, r *Report) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(BuildReportJSON(r) + "\n"); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LastRun is the summary of a previously written report.
type LastRun struct {
	Status   string
	Finished string
	Error    string
}

// ReadLastRun loads the report at path. ok is false when there is no usable
// report.
func ReadLastRun(path string) (last LastRun, ok bool) {
	raw, err := os.ReadFile(path)
	if err != nil || !gjson.ValidBytes(raw) {
		return last, false
	}
	status := gjson.GetBytes(raw, "status")
	if !status.Exists() {
		return last, false
	}
	last.Status = status.String()
	last.Finished = gjson.GetBytes(raw, "finished").String()
	last.Error = gjson.GetBytes(raw, "error").String()
	return last, true
}
