package backup

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config file")
	ErrMissingKey     = errors.New("required config key missing")
	ErrBorgPathNotDir = errors.New("borg path not found")
	ErrCommandFailed  = errors.New("command failed")
)

// ConfigError reports a configuration problem. Path is the file or directory
// that caused it.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v (%s)", e.Err, e.Path)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ExternalCommandError is returned when an invoked command exits non-zero or
// cannot be started at all.
type ExternalCommandError struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (e *ExternalCommandError) Error() string {
	msg := fmt.Sprintf("%v: %s", ErrCommandFailed, strings.Join(e.Args, " "))
	if e.ExitCode > 0 {
		msg = fmt.Sprintf("%s: exit status %d", msg, e.ExitCode)
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ExternalCommandError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCommandFailed}
	}
	return []error{ErrCommandFailed, e.Err}
}

// Output returns the captured stdout and stderr, trimmed, one per line.
// Empty streams are skipped.
func (e *ExternalCommandError) Output() string {
	var lines []string
	for _, s := range []string{e.Stdout, e.Stderr} {
		if s = strings.TrimSpace(s); s != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}
