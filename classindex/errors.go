package classindex

import (
	"errors"
	"fmt"
)

// MalformedClassFileError reports a class file that violates JVMS §4:
// bad magic, an unrecognized or misused constant-pool tag, a read that
// lands on the unusable slot after a Long/Double entry, an illegal MUTF-8
// sequence, or an attribute shorter than its declared payload requires.
// Parsing a class file is all-or-nothing; the first MalformedClassFileError
// aborts that class file's read.
type MalformedClassFileError struct {
	Reason string
	err    error
}

func (e *MalformedClassFileError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("malformed class file: %s: %v", e.Reason, e.err)
	}
	return "malformed class file: " + e.Reason
}

func (e *MalformedClassFileError) Unwrap() error { return e.err }

// NewMalformedClassFileError wraps err (which may be nil) as a
// MalformedClassFileError with the given human-readable reason.
func NewMalformedClassFileError(reason string, err error) error {
	return &MalformedClassFileError{Reason: reason, err: err}
}

// IsMalformedClassFile reports whether err (or something it wraps) is a
// MalformedClassFileError.
func IsMalformedClassFile(err error) bool {
	var target *MalformedClassFileError
	return errors.As(err, &target)
}

// DuplicateClassError is returned by Builder.Append in strict mode when a
// class file declares a canonical name already recorded by this build. In
// lenient mode no error is returned; the newer descriptor replaces the
// older one instead (see BuildStats.ReplacedClasses).
type DuplicateClassError struct {
	Name string
}

func (e *DuplicateClassError) Error() string {
	return fmt.Sprintf("duplicate class %q already indexed in this build", e.Name)
}

// IsDuplicateClass reports whether err (or something it wraps) is a
// DuplicateClassError.
func IsDuplicateClass(err error) bool {
	var target *DuplicateClassError
	return errors.As(err, &target)
}

// InvalidAnnotationValueAccessError is returned by an AnnotationValue
// accessor when the caller asks for a shape the value does not have (e.g.
// Int() on a value of kind KindString). This is a contract error at the
// index's read surface, not a parse error — the index itself remains
// valid.
type InvalidAnnotationValueAccessError struct {
	Kind      ValueKind
	Requested string
}

func (e *InvalidAnnotationValueAccessError) Error() string {
	return fmt.Sprintf("annotation value of kind %s does not support %s access", e.Kind, e.Requested)
}

// IsInvalidAnnotationValueAccess reports whether err (or something it
// wraps) is an InvalidAnnotationValueAccessError.
func IsInvalidAnnotationValueAccess(err error) bool {
	var target *InvalidAnnotationValueAccessError
	return errors.As(err, &target)
}
