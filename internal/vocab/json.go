package vocab

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/starford/smarttags/internal/apperr"
	"github.com/starford/smarttags/internal/storage"
)

// JSONStore keeps the vocabulary in a pretty-printed JSON file.
type JSONStore struct {
	path string
}

// NewJSONStore returns a store for the JSON file at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the file location.
func (s *JSONStore) Path() string { return s.path }

// Load reads the file. A missing file or malformed content yields an empty
// vocabulary.
func (s *JSONStore) Load() (*Vocabulary, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, &apperr.IOError{Op: "read vocabulary", Path: s.path, Err: err}
	}
	return decodeOrEmpty(data), nil
}

// Save writes the vocabulary atomically under an exclusive lock on
// "<path>.lock", creating the parent directory when needed.
func (s *JSONStore) Save(v *Vocabulary) error {
	data, err := encode(v)
	if err != nil {
		return fmt.Errorf("vocab: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &apperr.IOError{Op: "mkdir", Path: dir, Err: err}
	}

	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return &apperr.IOError{Op: "lock vocabulary", Path: s.path, Err: err}
	}
	defer lock.Unlock() //nolint:errcheck // released on process exit anyway

	return storage.WriteFileAtomic(s.path, data)
}

// decodeOrEmpty parses data, substituting an empty vocabulary for anything
// that is not a valid record.
func decodeOrEmpty(data []byte) *Vocabulary {
	var v Vocabulary
	if err := json.Unmarshal(data, &v); err != nil {
		return New()
	}
	return v.normalize()
}

func encode(v *Vocabulary) ([]byte, error) {
	snapshot := v.Clone().normalize()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
