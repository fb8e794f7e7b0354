package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pkgconfig "github.com/starford/smarttags/pkg/config"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
	if cfg.Vocabulary.Path != "tags_db.json" {
		t.Errorf("path = %q", cfg.Vocabulary.Path)
	}
}

func TestVocabularyConfig_EmptyBackendDefaultsJSON(t *testing.T) {
	cfg := VocabularyConfig{Path: "x.json"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty backend should default: %v", err)
	}
	if cfg.Backend != "json" {
		t.Errorf("backend = %q, want json", cfg.Backend)
	}
}

func TestVocabularyConfig_Invalid(t *testing.T) {
	if err := (&VocabularyConfig{Path: "", Backend: "json"}).Validate(); err == nil {
		t.Error("empty path should fail")
	}
	if err := (&VocabularyConfig{Path: "x", Backend: "xml"}).Validate(); err == nil {
		t.Error("unknown backend should fail")
	}
}

func TestPromptConfig_Invalid(t *testing.T) {
	if err := (&PromptConfig{Mode: "telepathic"}).Validate(); err == nil {
		t.Error("unknown mode should fail")
	}
	if err := (&PromptConfig{Color: "sepia"}).Validate(); err == nil {
		t.Error("unknown colour should fail")
	}
}

func TestFullConfig_ErrorNamesSection(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.LogFormat = "xml"
	err := cfg.Validate()
	if err == nil || !strings.HasPrefix(err.Error(), "app:") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("SMART_TAGS_TEST_HOME", "/srv/notes")
	content := "app:\n  log_level: debug\nvocabulary:\n  path: ${SMART_TAGS_TEST_HOME}/tags.db\n  backend: sqlite\nprompt:\n  mode: defaults\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(p, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v", cfg.App.LogLevel)
	}
	if cfg.Vocabulary.Path != "/srv/notes/tags.db" || cfg.Vocabulary.Backend != "sqlite" {
		t.Errorf("vocabulary = %+v", cfg.Vocabulary)
	}
	if cfg.Prompt.Mode != "defaults" || cfg.Prompt.Color != "auto" {
		t.Errorf("prompt = %+v", cfg.Prompt)
	}
}
