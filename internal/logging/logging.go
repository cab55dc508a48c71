// Package logging provides the structured logging sink used throughout the
// pipeline controller and its stages, following the hashicorp/go-hclog
// convention seen across the hashicorp-nomad corpus.
package logging

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// New builds the root logger for a pipeline run. name appears as the
// logger's prefix (e.g. "matchkit.pipeline"); level follows hclog's
// string levels ("trace", "debug", "info", "warn", "error").
func New(name, level string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  hclog.LevelFromString(level),
		Output: os.Stderr,
	})
}

// Discard is a no-op logger for tests and library callers that don't want
// pipeline log output.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}
