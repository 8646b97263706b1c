package backup

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeResult struct {
	stdout string
	stderr string
	code   int
}

// fakeExecutor records every command and answers with the result registered
// for the longest matching command prefix.
type fakeExecutor struct {
	mu      sync.Mutex
	calls   [][]string
	results map[string]fakeResult
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{results: map[string]fakeResult{}}
}

func (f *fakeExecutor) on(prefix string, res fakeResult) *fakeExecutor {
	f.results[prefix] = res
	return f
}

func (f *fakeExecutor) Execute(_ context.Context, args []string) ([]byte, []byte, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), args...))

	cmd := strings.Join(args, " ")
	best := ""
	for prefix := range f.results {
		if strings.HasPrefix(cmd, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	res := f.results[best]
	return []byte(res.stdout), []byte(res.stderr), res.code, nil
}

func (f *fakeExecutor) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, strings.Join(c, " "))
	}
	return out
}

// writeConfig writes an INI file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "backup-vm-wrapper.conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
