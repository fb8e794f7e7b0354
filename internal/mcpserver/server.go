// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the tag vocabulary and non-interactive tagging via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/starford/smarttags/internal/prompt"
	"github.com/starford/smarttags/internal/resolver"
	"github.com/starford/smarttags/internal/storage"
	"github.com/starford/smarttags/internal/tagservice"
	"github.com/starford/smarttags/internal/vocab"
)

// Server wraps the MCP server with the tagging tools.
type Server struct {
	mcp    *server.MCPServer
	svc    *tagservice.Service
	docs   storage.Provider
	logger *slog.Logger

	mu    sync.RWMutex
	vocab *vocab.Vocabulary

	// tagMu serializes tagging sessions: each one loads, mutates and saves
	// the whole vocabulary.
	tagMu sync.Mutex
}

// New creates a new MCP server. Documents passed to tag_note are resolved
// relative to docs.
func New(svc *tagservice.Service, docs storage.Provider, logger *slog.Logger) *Server {
	s := &Server{svc: svc, docs: docs, logger: logger, vocab: vocab.New()}

	s.mcp = server.NewMCPServer(
		"SmartTags",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("List every canonical tag in the vocabulary with its aliases."),
	), s.listTags)

	s.mcp.AddTool(mcp.NewTool("lookup_tag",
		mcp.WithDescription("Classify a tag against the vocabulary without changing anything: "+
			"known, alias (with its canonical tag), suggest (with typo candidates) or unknown."),
		mcp.WithString("tag", mcp.Required(), mcp.Description("Tag to look up")),
	), s.lookupTag)

	s.mcp.AddTool(mcp.NewTool("tag_note",
		mcp.WithDescription("Resolve tags against the vocabulary and merge them into a note's front matter. "+
			"Aliases map to their canonical tag; likely typos are replaced by the earliest-registered candidate within edit distance 3; "+
			"unknown tags are added to the note and, if register_new is true, to the vocabulary."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note (e.g. folder/note.md)")),
		mcp.WithArray("tags", mcp.Required(), mcp.Description("Tags to add"),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithBoolean("register_new", mcp.Description("Register unknown tags in the vocabulary (default false)")),
	), s.tagNote)

	return s
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Reload replaces the cached vocabulary with the stored one.
func (s *Server) Reload() {
	v, err := s.svc.Vocabulary(context.Background())
	if err != nil {
		s.logger.Warn("mcp: reload vocabulary failed", slog.String("error", err.Error()))
		return
	}
	s.mu.Lock()
	s.vocab = v
	s.mu.Unlock()
	s.logger.Debug("mcp: vocabulary reloaded", slog.Int("tags", v.Len()))
}

func (s *Server) snapshot() *vocab.Vocabulary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vocab
}

// ServeStdio serves MCP on stdin/stdout until the input closes, refreshing
// the cached vocabulary whenever the store changes on disk.
func (s *Server) ServeStdio(ctx context.Context) error {
	s.Reload()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := vocab.Watch(gCtx, s.svc.StorePath(), s.logger, s.Reload); err != nil {
			s.logger.Warn("mcp: vocabulary watcher unavailable", slog.String("error", err.Error()))
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		return server.ServeStdio(s.mcp)
	})
	return g.Wait()
}

func (s *Server) listTags(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.snapshot(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) lookupTag(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag, err := req.RequireString("tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(resolver.Lookup(s.snapshot(), tag), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) tagNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := req.GetArguments()
	tags, err := stringSlice(args["tags"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	registerNew, _ := args["register_new"].(bool)

	s.tagMu.Lock()
	rep, err := s.svc.Tag(ctx, prompt.Auto{DeclineNew: !registerNew}, s.docs, path, tags)
	s.tagMu.Unlock()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if rep.VocabularyChanged {
		s.Reload()
	}

	type result struct {
		Input     string `json:"input"`
		Canonical string `json:"canonical"`
		Outcome   string `json:"outcome"`
	}
	results := make([]result, len(rep.Results))
	for i, r := range rep.Results {
		results[i] = result{Input: r.Input, Canonical: r.Canonical, Outcome: r.Outcome.String()}
	}
	out, _ := json.MarshalIndent(map[string]any{
		"path":               rep.Document,
		"tags":               rep.Tags,
		"results":            results,
		"vocabulary_changed": rep.VocabularyChanged,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func stringSlice(raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("tags must be strings, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("required argument \"tags\" not found")
	default:
		return nil, fmt.Errorf("tags must be an array of strings, got %T", raw)
	}
}
