// Package audit scans a directory of Markdown documents and classifies every
// front matter tag against the vocabulary, without prompting or writing.
package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/starford/smarttags/internal/apperr"
	"github.com/starford/smarttags/internal/frontmatter"
	"github.com/starford/smarttags/internal/models"
	"github.com/starford/smarttags/internal/render"
	"github.com/starford/smarttags/internal/resolver"
	"github.com/starford/smarttags/internal/storage"
	"github.com/starford/smarttags/internal/vocab"
)

// DefaultWorkers bounds concurrent document reads.
const DefaultWorkers = 8

// Entry is one distinct tag found in the scanned documents.
type Entry struct {
	Match resolver.Match
	Files []string
}

// Failure is a document whose front matter could not be read as tags.
type Failure struct {
	Path string
	Err  error
}

// Report is the result of a scan.
type Report struct {
	Documents int
	Entries   []Entry // sorted by tag
	Failures  []Failure
}

// Unresolved returns the entries that are not an exact name or alias match.
func (r *Report) Unresolved() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Match.Kind == resolver.MatchFuzzy || e.Match.Kind == resolver.MatchNone {
			out = append(out, e)
		}
	}
	return out
}

// Run reads every .md document under docs and classifies its tags against v.
// Documents with a structurally invalid block are reported as failures; an
// unreadable document aborts the scan.
func Run(ctx context.Context, docs storage.Provider, v *vocab.Vocabulary, workers int, logger *slog.Logger) (*Report, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	metas, err := docs.List("")
	if err != nil {
		return nil, err
	}

	found := make([]models.DocumentTags, len(metas))
	failed := make([]error, len(metas))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, m := range metas {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			data, err := docs.Read(m.Path)
			if err != nil {
				return err
			}
			tags, err := frontmatter.Tags(data)
			if err != nil {
				if errors.Is(err, apperr.ErrStructural) {
					failed[i] = err
					return nil
				}
				return fmt.Errorf("%s: %w", m.Path, err)
			}
			found[i] = models.DocumentTags{Path: m.Path, Tags: tags}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &Report{Documents: len(metas)}
	files := make(map[string][]string)
	for i, d := range found {
		if failed[i] != nil {
			logger.Warn("audit: skipped document", slog.String("path", metas[i].Path), slog.String("error", failed[i].Error()))
			rep.Failures = append(rep.Failures, Failure{Path: metas[i].Path, Err: failed[i]})
			continue
		}
		for _, t := range d.Tags {
			files[t] = append(files[t], d.Path)
		}
	}

	tags := make([]string, 0, len(files))
	for t := range files {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	for _, t := range tags {
		paths := files[t]
		slices.Sort(paths)
		rep.Entries = append(rep.Entries, Entry{Match: resolver.Lookup(v, t), Files: paths})
	}
	logger.Debug("audit: done", slog.Int("documents", rep.Documents), slog.Int("tags", len(rep.Entries)))
	return rep, nil
}

// Write renders the report as a table followed by any failures.
func Write(w io.Writer, rep *Report) error {
	rows := make([][]string, 0, len(rep.Entries))
	for _, e := range rep.Entries {
		rows = append(rows, []string{
			e.Match.Input,
			e.Match.Status,
			render.Resolution(e.Match),
			strings.Join(e.Files, "\n"),
		})
	}
	if _, err := fmt.Fprintf(w, "Scanned %d documents, %d distinct tags, %d unresolved.\n",
		rep.Documents, len(rep.Entries), len(rep.Unresolved())); err != nil {
		return err
	}
	if len(rows) > 0 {
		if _, err := fmt.Fprintln(w, render.Table([]string{"Tag", "Status", "Resolves to", "Files"}, rows)); err != nil {
			return err
		}
	}
	for _, f := range rep.Failures {
		if _, err := fmt.Fprintf(w, "skipped %s: %v\n", f.Path, f.Err); err != nil {
			return err
		}
	}
	return nil
}
