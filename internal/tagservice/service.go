// Package tagservice runs resolution sessions: it coordinates the vocabulary
// store, the resolver and the front matter merge for one document at a time.
package tagservice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/smarttags/internal/apperr"
	"github.com/starford/smarttags/internal/checksum"
	"github.com/starford/smarttags/internal/frontmatter"
	"github.com/starford/smarttags/internal/resolver"
	"github.com/starford/smarttags/internal/storage"
	"github.com/starford/smarttags/internal/vocab"
)

// Report describes a completed session.
type Report struct {
	Document          string
	StorePath         string
	Results           []resolver.Result
	Tags              []string // canonical tags merged, in input order
	VocabularyChanged bool
}

// Service coordinates the vocabulary store and document storage.
type Service struct {
	store  vocab.Store
	logger *slog.Logger
}

// NewService creates a new tagging service.
func NewService(store vocab.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, logger: logger}
}

// StorePath returns the location of the vocabulary store.
func (s *Service) StorePath() string { return s.store.Path() }

// Vocabulary loads the current vocabulary.
func (s *Service) Vocabulary(_ context.Context) (*vocab.Vocabulary, error) {
	return s.store.Load()
}

// Lookup classifies inputs against the stored vocabulary without prompting.
func (s *Service) Lookup(ctx context.Context, inputs []string) ([]resolver.Match, error) {
	v, err := s.Vocabulary(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]resolver.Match, len(inputs))
	for i, in := range inputs {
		out[i] = resolver.Lookup(v, in)
	}
	return out, nil
}

// Tag resolves inputs against the vocabulary, asking chooser about anything
// ambiguous, and merges the canonical tags into the front matter of the
// document at path within docs.
//
// The document is checked for a mergeable block before any question is
// asked. The vocabulary is saved only if it changed, and only once the merge
// has succeeded. If the document was modified while questions were pending,
// Tag fails with apperr.ErrConflict and writes neither the document nor the
// vocabulary.
func (s *Service) Tag(ctx context.Context, chooser resolver.Chooser, docs storage.Provider, path string, inputs []string) (*Report, error) {
	original, err := docs.Read(path)
	if err != nil {
		return nil, err
	}
	if _, err := frontmatter.Tags(original); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	v, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	s.logger.Debug("vocabulary loaded", slog.String("path", s.store.Path()), slog.Int("tags", v.Len()))

	session, err := resolver.New(chooser, s.logger).ResolveAll(v, inputs)
	if err != nil {
		return nil, err
	}
	tags := session.Tags()

	merged, err := frontmatter.Merge(original, tags)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	current, err := docs.Read(path)
	if err != nil {
		return nil, err
	}
	if !checksum.Of(original).Matches(current) {
		return nil, fmt.Errorf("%s changed during tagging: %w", path, apperr.ErrConflict)
	}

	if session.Changed {
		if err := s.store.Save(v); err != nil {
			return nil, err
		}
		s.logger.Info("vocabulary saved", slog.String("path", s.store.Path()), slog.Int("tags", v.Len()))
	}

	if err := docs.Write(path, merged); err != nil {
		return nil, err
	}
	s.logger.Info("document updated",
		slog.String("path", path),
		slog.Any("tags", tags),
		slog.String("checksum", checksum.Of(merged).String()))

	return &Report{
		Document:          path,
		StorePath:         s.store.Path(),
		Results:           session.Results,
		Tags:              tags,
		VocabularyChanged: session.Changed,
	}, nil
}
