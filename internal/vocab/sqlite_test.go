package vocab

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSQLiteStore_LoadMissingDoesNotCreate(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tags.db")
	v, err := NewSQLiteStore(p).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v.Len() != 0 {
		t.Errorf("len = %d, want 0", v.Len())
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Errorf("Load created the database file (stat err = %v)", err)
	}
}

func TestSQLiteStore_LoadCorruptIsEmpty(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tags.db")
	if err := os.WriteFile(p, []byte("this is not a database, just some text padding it out"), 0o644); err != nil {
		t.Fatal(err)
	}
	v, err := NewSQLiteStore(p).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v.Len() != 0 {
		t.Errorf("len = %d, want 0", v.Len())
	}
}

func TestSQLiteStore_SaveAndReloadKeepsOrder(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sub", "tags.db")
	s := NewSQLiteStore(p)

	v := New()
	v.AddTag("zeta")
	v.AddTag("alpha")
	v.AddAlias(1, "a2")
	v.AddAlias(1, "a1")

	if err := s.Save(v); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Second snapshot replaces the first.
	v.AddTag("mid")
	if err := s.Save(v); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Len() != 3 {
		t.Fatalf("len = %d, want 3", got.Len())
	}
	names := []string{got.Tags[0].Name, got.Tags[1].Name, got.Tags[2].Name}
	if names[0] != "zeta" || names[1] != "alpha" || names[2] != "mid" {
		t.Errorf("names = %v", names)
	}
	al := got.Tags[1].Aliases
	if len(al) != 2 || al[0] != "a2" || al[1] != "a1" {
		t.Errorf("aliases = %v", al)
	}
	if len(got.Tags[0].Aliases) != 0 {
		t.Errorf("zeta aliases = %v", got.Tags[0].Aliases)
	}
}

func TestSQLiteStore_SaveOverCorruptFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "tags.db")
	if err := os.WriteFile(p, []byte("this is not a database, just some text padding it out"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewSQLiteStore(p)

	v, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	v.AddTag("x")
	if err := s.Save(v); err != nil {
		t.Fatalf("Save over corrupt file: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Len() != 1 || got.Tags[0].Name != "x" {
		t.Errorf("reloaded = %+v", got.Tags)
	}

	// A second save goes through the regular path.
	got.AddAlias(0, "ex")
	if err := s.Save(got); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".smarttags-tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}
