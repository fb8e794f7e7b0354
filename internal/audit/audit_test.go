package audit

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/starford/smarttags/internal/resolver"
	"github.com/starford/smarttags/internal/storage"
	"github.com/starford/smarttags/internal/testutil"
)

func TestRun_ClassifiesTags(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteDoc(t, dir, "a.md", "---\ntags: [project, proj]\n---\nA\n")
	testutil.WriteDoc(t, dir, "sub/b.md", "---\ntags: projct\n---\nB\n")
	testutil.WriteDoc(t, dir, "c.md", "---\ntags: [zzzzzzzzzz, project]\n---\n")
	testutil.WriteDoc(t, dir, "bad.md", "---\n- not\n- a mapping\n---\n")
	testutil.WriteDoc(t, dir, "plain.md", "no front matter\n")

	docs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	v := testutil.Vocabulary(testutil.Tag("project", "proj"))
	logger := slog.New(slog.DiscardHandler)

	rep, err := Run(context.Background(), docs, v, 2, logger)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Documents != 5 {
		t.Errorf("documents = %d, want 5", rep.Documents)
	}
	if len(rep.Failures) != 1 || rep.Failures[0].Path != "bad.md" {
		t.Errorf("failures = %+v", rep.Failures)
	}

	got := map[string]resolver.MatchKind{}
	for _, e := range rep.Entries {
		got[e.Match.Input] = e.Match.Kind
	}
	want := map[string]resolver.MatchKind{
		"proj":       resolver.MatchAlias,
		"project":    resolver.MatchCanonical,
		"projct":     resolver.MatchFuzzy,
		"zzzzzzzzzz": resolver.MatchNone,
	}
	for tag, kind := range want {
		if got[tag] != kind {
			t.Errorf("%s: kind = %v, want %v", tag, got[tag], kind)
		}
	}
	if len(rep.Entries) != len(want) {
		t.Errorf("entries = %+v", rep.Entries)
	}

	for _, e := range rep.Entries {
		if e.Match.Input == "project" && strings.Join(e.Files, ",") != "a.md,c.md" {
			t.Errorf("project files = %v", e.Files)
		}
	}
	if n := len(rep.Unresolved()); n != 2 {
		t.Errorf("unresolved = %d, want 2", n)
	}

	var buf bytes.Buffer
	if err := Write(&buf, rep); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Scanned 5 documents, 4 distinct tags, 2 unresolved.") {
		t.Errorf("output:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "skipped bad.md") {
		t.Errorf("output:\n%s", buf.String())
	}
}

func TestRun_EmptyDirectory(t *testing.T) {
	docs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	rep, err := Run(context.Background(), docs, testutil.Vocabulary(), 0, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Documents != 0 || len(rep.Entries) != 0 {
		t.Errorf("report = %+v", rep)
	}
}
