// Package apperr defines the error taxonomy shared by the resolver, the
// vocabulary stores and the metadata merger.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrIO         = errors.New("io error")
	ErrStructural = errors.New("structural error")
)

// IOError reports a failed read or write of a document or vocabulary store.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrIO) hold for every IOError.
func (e *IOError) Is(target error) bool { return target == ErrIO }

// StructuralError reports a metadata block (or one of its fields) whose shape
// cannot be merged into.
type StructuralError struct {
	Field string // empty for the block itself
	Shape string // what was found, e.g. "sequence", "integer"
	Want  string // what is accepted
}

func (e *StructuralError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid front matter: block is a %s, want %s", e.Shape, e.Want)
	}
	return fmt.Sprintf("invalid front matter: field %q is a %s, want %s", e.Field, e.Shape, e.Want)
}

func (e *StructuralError) Is(target error) bool { return target == ErrStructural }
