package apperr

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestIOError_IsAndUnwrap(t *testing.T) {
	err := fmt.Errorf("load: %w", &IOError{Op: "read", Path: "/tmp/x.json", Err: os.ErrPermission})
	if !errors.Is(err, ErrIO) {
		t.Error("expected errors.Is(err, ErrIO)")
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Error("expected cause to be reachable")
	}
	if !strings.Contains(err.Error(), "/tmp/x.json") {
		t.Errorf("path missing from message: %v", err)
	}
}

func TestStructuralError_Message(t *testing.T) {
	err := &StructuralError{Field: "tags", Shape: "mapping", Want: "string or sequence"}
	if !errors.Is(err, ErrStructural) {
		t.Error("expected errors.Is(err, ErrStructural)")
	}
	if errors.Is(err, ErrIO) {
		t.Error("structural error must not match ErrIO")
	}
	if !strings.Contains(err.Error(), `"tags"`) {
		t.Errorf("message = %q", err.Error())
	}

	block := &StructuralError{Shape: "sequence", Want: "mapping"}
	if !strings.Contains(block.Error(), "block is a sequence") {
		t.Errorf("message = %q", block.Error())
	}
}
