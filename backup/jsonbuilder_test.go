package backup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestBuildReportJSON(t *testing.T) {
	r := &Report{
		Started:  testDay,
		Finished: testDay.Add(90 * time.Minute),
		Domains: []DomainResult{
			{Name: "web01", Repository: "/srv/borg/web01", Archive: "/srv/borg/web01::web01-2024-03-01", Disks: "vda", RepoCreated: true},
			{Name: "db", Repository: "/srv/borg/db", Archive: "/srv/borg/db::db-2024-03-01", Err: errors.New("boom")},
		},
		Err: errors.New("boom"),
	}

	json := BuildReportJSON(r)
	require.True(t, gjson.Valid(json))

	assert.Equal(t, StatusFail, gjson.Get(json, "status").String())
	assert.Equal(t, "2024-03-01T02:30:00Z", gjson.Get(json, "started").String())
	assert.Equal(t, "2024-03-01T04:00:00Z", gjson.Get(json, "finished").String())
	assert.False(t, gjson.Get(json, "dry_run").Bool())
	assert.Equal(t, "boom", gjson.Get(json, "error").String())
	assert.Equal(t, int64(2), gjson.Get(json, "domains.#").Int())
	assert.Equal(t, "web01", gjson.Get(json, "domains.0.name").String())
	assert.Equal(t, "vda", gjson.Get(json, "domains.0.disks").String())
	assert.True(t, gjson.Get(json, "domains.0.repo_created").Bool())
	assert.False(t, gjson.Get(json, "domains.1.disks").Exists())
	assert.Equal(t, "boom", gjson.Get(json, "domains.1.error").String())
}

func TestBuildReportJSON_NoDomains(t *testing.T) {
	json := BuildReportJSON(&Report{Started: testDay, Finished: testDay})

	assert.Equal(t, StatusSuccess, gjson.Get(json, "status").String())
	assert.True(t, gjson.Get(json, "domains").IsArray())
	assert.False(t, gjson.Get(json, "error").Exists())
}

func TestWriteReport_ReadLastRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last.json")

	require.NoError(t, WriteReport(path, &Report{Started: testDay, Finished: testDay.Add(time.Hour)}))
	last, ok := ReadLastRun(path)
	require.True(t, ok)
	assert.Equal(t, LastRun{Status: StatusSuccess, Finished: "2024-03-01T03:30:00Z"}, last)

	require.NoError(t, WriteReport(path, &Report{Started: testDay, Finished: testDay, Err: errors.New("virsh failed")}))
	last, ok = ReadLastRun(path)
	require.True(t, ok)
	assert.Equal(t, StatusFail, last.Status)
	assert.Equal(t, "virsh failed", last.Error)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReadLastRun_Unusable(t *testing.T) {
	dir := t.TempDir()
	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte("{not json"), 0o644))
	noStatus := filepath.Join(dir, "nostatus.json")
	require.NoError(t, os.WriteFile(noStatus, []byte(`{"domains":[]}`), 0o644))

	for _, path := range []string{filepath.Join(dir, "missing.json"), invalid, noStatus} {
		_, ok := ReadLastRun(path)
		assert.False(t, ok, path)
	}
}
