package confreader

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotExtracted is returned when an operation needs the result of an
// extraction pass but the extractor was built as a placeholder.
var ErrNotExtracted = errors.New("configuration was not extracted")

// ErrParse represents a malformed or unreadable configuration file.
type ErrParse struct {
	Filename string
	Err      error
}

func (e *ErrParse) Error() string {
	return fmt.Sprintf("error parsing configuration %q: %v", e.Filename, e.Err)
}

func (e *ErrParse) Unwrap() error {
	return e.Err
}

// ErrUnsupportedInclude represents a configuration that still references
// data files through includes instead of being consolidated into one file.
type ErrUnsupportedInclude struct {
	Filename string
	Includes []string
}

func (e *ErrUnsupportedInclude) Error() string {
	return fmt.Sprintf("include files are not supported, the configuration %q was not consolidated (includes: %s)",
		e.Filename, strings.Join(e.Includes, ", "))
}

// ErrNotFound represents an object missing from the configuration: either a
// session looked up by name or the target of a relation.
type ErrNotFound struct {
	Class    string
	ID       string
	Relation string
	From     string
}

func (e *ErrNotFound) Error() string {
	if e.Relation != "" {
		if e.ID == "" {
			return fmt.Sprintf("relation %q of %q is not set", e.Relation, e.From)
		}
		return fmt.Sprintf("object %q (relation %q of %q) not found", e.ID, e.Relation, e.From)
	}
	return fmt.Sprintf("%s %q not found", e.Class, e.ID)
}

// ErrAttributeMissing represents an attribute absent from an object. For a
// FEMB that cannot be resolved, Attribute is the femb relation and Err the
// lookup failure.
type ErrAttributeMissing struct {
	Class     string
	ID        string
	Attribute string
	Err       error
}

func (e *ErrAttributeMissing) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("attribute %q missing on %s@%s: %v", e.Attribute, e.ID, e.Class, e.Err)
	}
	return fmt.Sprintf("attribute %q missing on %s@%s", e.Attribute, e.ID, e.Class)
}

func (e *ErrAttributeMissing) Unwrap() error {
	return e.Err
}

// ErrTypeMismatch represents an attribute whose declared type cannot be
// read as the requested kind.
type ErrTypeMismatch struct {
	Class     string
	ID        string
	Attribute string
	Want      Kind
	Got       Kind
}

func (e *ErrTypeMismatch) Error() string {
	return fmt.Sprintf("attribute %q on %s@%s is %v, expected %v", e.Attribute, e.ID, e.Class, e.Got, e.Want)
}
