package vocab

import "fmt"

// Backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Store loads and persists a vocabulary snapshot.
//
// Load never fails for a missing or unparsable record; it returns an empty
// vocabulary instead. Only an unreadable record is an error.
type Store interface {
	Load() (*Vocabulary, error)
	Save(v *Vocabulary) error
	Path() string
}

// Open returns the store for backend at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", BackendJSON:
		return NewJSONStore(path), nil
	case BackendSQLite:
		return NewSQLiteStore(path), nil
	default:
		return nil, fmt.Errorf("vocab: unknown backend %q", backend)
	}
}
