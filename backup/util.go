package backup

import (
	"log/slog"
	"os"
	"strings"
)

var log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level:     slog.LevelInfo,
	AddSource: true,
}))

// SetLogger sets the global logger used throughout the backup package.
func SetLogger(logger *slog.Logger) {
	if logger != nil {
		log = logger
	}
}

// FormatCommand joins a command and its arguments with single spaces, the way
// planned commands are printed in dry-run mode.
func FormatCommand(args []string) string {
	return strings.Join(args, " ")
}
