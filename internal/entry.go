// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/smarttags/internal/audit"
	"github.com/starford/smarttags/internal/mcpserver"
	"github.com/starford/smarttags/internal/prompt"
	"github.com/starford/smarttags/internal/render"
	"github.com/starford/smarttags/internal/storage"
	"github.com/starford/smarttags/internal/tagservice"
	"github.com/starford/smarttags/internal/vocab"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := app.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.workers <= 0 {
		app.workers = audit.DefaultWorkers
	}

	if app.logger == nil {
		app.logger = newLogger(app.config.App, os.Stderr)
		slog.SetDefault(app.logger)
	}
	app.logger.Debug("Configuration loaded",
		slog.String("vocabulary_path", app.config.Vocabulary.Path),
		slog.String("vocabulary_backend", app.config.Vocabulary.Backend),
		slog.String("prompt_mode", app.config.Prompt.Mode),
		slog.String("log_level", app.config.App.LogLevel.String()))

	return app, nil
}

// newLogger writes to w so that stdout stays free for reports and the MCP
// stdio transport.
func newLogger(cfg ApplicationConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (a *application) service() (*tagservice.Service, error) {
	store, err := vocab.Open(a.config.Vocabulary.Backend, a.config.Vocabulary.Path)
	if err != nil {
		return nil, fmt.Errorf("init vocabulary: %w", err)
	}
	return tagservice.NewService(store, a.logger), nil
}

// Run tags the document with the given tags, resolving each against the
// vocabulary first.
func Run(ctx context.Context, document string, tags []string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	if document == "" {
		return errors.New("document path is required")
	}

	svc, err := app.service()
	if err != nil {
		return err
	}

	chooser := app.chooser
	if chooser == nil {
		out := os.Stdout
		if f, ok := app.stdout.(*os.File); ok {
			out = f
		}
		chooser, err = prompt.New(app.config.Prompt.Mode, app.config.Prompt.Color, app.stdin, out)
		if err != nil {
			return err
		}
	}

	abs, err := filepath.Abs(document)
	if err != nil {
		return fmt.Errorf("resolve document path: %w", err)
	}
	docs, err := storage.NewFS(filepath.Dir(abs))
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	rep, err := svc.Tag(ctx, chooser, docs, filepath.Base(abs), tags)
	if err != nil {
		return err
	}
	rep.Document = document
	return render.Session(app.stdout, rep)
}

// ListTags prints every registered tag with its aliases.
func ListTags(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	svc, err := app.service()
	if err != nil {
		return err
	}
	v, err := svc.Vocabulary(ctx)
	if err != nil {
		return err
	}
	return render.Vocabulary(app.stdout, v)
}

// Lookup prints how each input would resolve without asking questions or
// changing anything.
func Lookup(ctx context.Context, inputs []string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	svc, err := app.service()
	if err != nil {
		return err
	}
	ms, err := svc.Lookup(ctx, inputs)
	if err != nil {
		return err
	}
	return render.Matches(app.stdout, ms)
}

// Audit scans every Markdown document under dir and reports how their tags
// resolve against the vocabulary.
func Audit(ctx context.Context, dir string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	svc, err := app.service()
	if err != nil {
		return err
	}
	docs, err := storage.NewFS(dir)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	v, err := svc.Vocabulary(ctx)
	if err != nil {
		return err
	}

	rep, err := audit.Run(ctx, docs, v, app.workers, app.logger)
	if err != nil {
		return err
	}
	return audit.Write(app.stdout, rep)
}

// ServeMCP exposes the vocabulary and tagging over the MCP stdio transport
// until ctx is cancelled or the client disconnects. Documents are addressed
// relative to dir.
func ServeMCP(ctx context.Context, dir string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	svc, err := app.service()
	if err != nil {
		return err
	}
	docs, err := storage.NewFS(dir)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	app.logger.Info("MCP server starting",
		slog.String("documents", docs.Root()),
		slog.String("vocabulary", svc.StorePath()))

	if err := mcpserver.New(svc, docs, app.logger).ServeStdio(ctx); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	app.logger.Info("MCP server stopped")
	return nil
}
