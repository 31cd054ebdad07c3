package resolve

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Sentinel errors matched with errors.Is.
var (
	ErrValidation = errors.New("invalid configuration")
	ErrNotFound   = errors.New("configuration not found")
)

// ValidationError reports a value that does not conform to the option schema.
type ValidationError struct {
	// Component is set when the problem sits inside a components entry.
	Component string
	Section   string
	Key       string
	Expected  string
	Got       string
	// Reason replaces the expected/got message when set.
	Reason string
}

// Location returns the dotted path of the offending value.
func (e *ValidationError) Location() string {
	var b strings.Builder
	if e.Component != "" {
		fmt.Fprintf(&b, "components[%s].", e.Component)
	}
	b.WriteString(e.Section)
	if e.Key != "" {
		b.WriteString(".")
		b.WriteString(e.Key)
	}
	return b.String()
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Location(), e.Reason)
	}
	return fmt.Sprintf("%s: expected %s, got %s", e.Location(), e.Expected, e.Got)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports a configuration document that does not exist.
type NotFoundError struct {
	Path string
	// Tried lists every candidate path that was checked.
	Tried []string
}

func (e *NotFoundError) Error() string {
	if len(e.Tried) > 1 {
		return fmt.Sprintf("configuration not found: %s (tried %s)", e.Path, strings.Join(e.Tried, ", "))
	}
	return fmt.Sprintf("configuration not found: %s", e.Path)
}

// Is reports whether target is ErrNotFound or fs.ErrNotExist.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound || target == fs.ErrNotExist
}

// ParseError reports a document that could not be decoded.
type ParseError struct {
	Path   string
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parsing %s document: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is reports whether target is ErrValidation. A malformed document is treated
// as an invalid configuration.
func (e *ParseError) Is(target error) bool {
	return target == ErrValidation
}

// ValidationErrors extracts every *ValidationError from err, including those
// combined with errors.Join.
func ValidationErrors(err error) []*ValidationError {
	var out []*ValidationError
	var walk func(error)
	walk = func(err error) {
		if err == nil {
			return
		}
		if ve, ok := err.(*ValidationError); ok {
			out = append(out, ve)
			return
		}
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			for _, e := range u.Unwrap() {
				walk(e)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}
