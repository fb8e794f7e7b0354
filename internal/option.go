package internal

import (
	"io"
	"log/slog"
	"os"

	"github.com/starford/smarttags/internal/resolver"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	logger  *slog.Logger
	chooser resolver.Chooser
	stdin   *os.File
	stdout  io.Writer
	workers int
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogger overrides the logger built from the configuration.
func WithLogger(logger *slog.Logger) Option {
	return func(a *application) {
		a.logger = logger
	}
}

// WithChooser answers disambiguation questions with c instead of the
// configured prompt mode.
func WithChooser(c resolver.Chooser) Option {
	return func(a *application) {
		a.chooser = c
	}
}

// WithStdin sets the file interactive prompts read from.
func WithStdin(f *os.File) Option {
	return func(a *application) {
		a.stdin = f
	}
}

// WithOutput sets where reports are written.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.stdout = w
	}
}

// WithAuditWorkers bounds the number of documents audited concurrently.
func WithAuditWorkers(n int) Option {
	return func(a *application) {
		a.workers = n
	}
}
