// Package testutil provides shared test helpers: scripted prompts, temporary
// vocabulary stores and documents.
package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/smarttags/internal/vocab"
)

// ErrScriptExhausted is returned when a ScriptedChooser runs out of answers.
var ErrScriptExhausted = errors.New("testutil: no scripted answer left")

// ScriptedChooser replays fixed answers and records every question asked.
type ScriptedChooser struct {
	Choices  []int
	Confirms []bool

	Menus   [][]string // options of every ChooseOne call
	Prompts []string   // every prompt, in order
}

// ChooseOne pops the next scripted choice.
func (s *ScriptedChooser) ChooseOne(prompt string, options []string, _ int) (int, error) {
	s.Prompts = append(s.Prompts, prompt)
	s.Menus = append(s.Menus, append([]string(nil), options...))
	if len(s.Choices) == 0 {
		return 0, ErrScriptExhausted
	}
	c := s.Choices[0]
	s.Choices = s.Choices[1:]
	return c, nil
}

// Confirm pops the next scripted answer.
func (s *ScriptedChooser) Confirm(prompt string, _ bool) (bool, error) {
	s.Prompts = append(s.Prompts, prompt)
	if len(s.Confirms) == 0 {
		return false, ErrScriptExhausted
	}
	c := s.Confirms[0]
	s.Confirms = s.Confirms[1:]
	return c, nil
}

// Vocabulary builds a vocabulary from entries in argument order.
func Vocabulary(entries ...vocab.TagEntry) *vocab.Vocabulary {
	v := vocab.New()
	for _, e := range entries {
		i := v.AddTag(e.Name)
		for _, a := range e.Aliases {
			v.AddAlias(i, a)
		}
	}
	return v
}

// Tag is shorthand for a TagEntry literal.
func Tag(name string, aliases ...string) vocab.TagEntry {
	return vocab.TagEntry{Name: name, Aliases: aliases}
}

// TestStore creates a JSON vocabulary store in a temp dir, seeded with v
// when v is non-nil.
func TestStore(t *testing.T, v *vocab.Vocabulary) *vocab.JSONStore {
	t.Helper()
	s := vocab.NewJSONStore(filepath.Join(t.TempDir(), "tags_db.json"))
	if v != nil {
		if err := s.Save(v); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

// WriteDoc writes content to name inside dir and returns the full path.
func WriteDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// ReadDoc returns the content of the file at p.
func ReadDoc(t *testing.T, p string) string {
	t.Helper()
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
