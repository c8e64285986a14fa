package oaserrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := &ParseError{
			Path:    "/path/to/file.yaml",
			Line:    42,
			Column:  10,
			Message: "invalid syntax",
			Cause:   cause,
		}

		msg := err.Error()
		if msg != "parse error in /path/to/file.yaml at line 42, column 10: invalid syntax: underlying error" {
			t.Errorf("unexpected error message: %s", msg)
		}
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		err := &ParseError{}
		if err.Error() != "parse error" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("underlying")
		err := &ParseError{Cause: cause}
		//nolint:errorlint // testing pointer identity
		if unwrapped := err.Unwrap(); unwrapped != cause {
			t.Error("Unwrap should return cause")
		}
	})

	t.Run("Is matches ErrParse only", func(t *testing.T) {
		err := &ParseError{Message: "test"}
		if !errors.Is(err, ErrParse) {
			t.Error("ParseError should match ErrParse")
		}
		if errors.Is(err, ErrReference) {
			t.Error("ParseError should not match ErrReference")
		}
	})

	t.Run("As extracts wrapped ParseError", func(t *testing.T) {
		wrapped := fmt.Errorf("loading: %w", &ParseError{Path: "api.yaml"})
		var parseErr *ParseError
		if !errors.As(wrapped, &parseErr) {
			t.Fatal("errors.As should extract ParseError")
		}
		if parseErr.Path != "api.yaml" {
			t.Errorf("unexpected path: %s", parseErr.Path)
		}
	})
}

func TestReferenceError(t *testing.T) {
	t.Run("Dangling message", func(t *testing.T) {
		err := &ReferenceError{Ref: "Animal"}
		if err.Error() != "dangling reference: Animal" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Cyclic message includes chain", func(t *testing.T) {
		err := &ReferenceError{Ref: "Node", Chain: []string{"Node", "Edge", "Node"}, IsCyclic: true}
		want := "cyclic reference: Node (via Node -> Edge -> Node)"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("Dangling matches sentinels", func(t *testing.T) {
		err := &ReferenceError{Ref: "Missing"}
		if !errors.Is(err, ErrReference) {
			t.Error("should match ErrReference")
		}
		if !errors.Is(err, ErrDanglingReference) {
			t.Error("should match ErrDanglingReference")
		}
		if errors.Is(err, ErrCyclicReference) {
			t.Error("should not match ErrCyclicReference")
		}
	})

	t.Run("Cyclic matches sentinels", func(t *testing.T) {
		err := fmt.Errorf("resolving: %w", &ReferenceError{Ref: "Node", IsCyclic: true})
		if !errors.Is(err, ErrCyclicReference) {
			t.Error("should match ErrCyclicReference")
		}
		if errors.Is(err, ErrDanglingReference) {
			t.Error("should not match ErrDanglingReference")
		}
	})
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Option: "format", Value: "xml", Message: "unsupported"}
	if err.Error() != "configuration error for format (value: xml): unsupported" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, ErrConfig) {
		t.Error("ConfigError should match ErrConfig")
	}
	if errors.Is(err, ErrParse) {
		t.Error("ConfigError should not match ErrParse")
	}
}
