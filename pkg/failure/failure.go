// Package failure defines the error taxonomy shared by every stage of the
// import pipeline. Each Kind is itself an error, so callers can test the
// category of any returned error with errors.Is(err, failure.InvalidKey).
package failure

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the category of a pipeline error.
type Kind int

const (
	// NotRecognized means no extractor matched the input.
	NotRecognized Kind = iota + 1
	// MalformedInput means a schema was recognized but a field is missing or
	// malformed.
	MalformedInput
	// InvalidKey means an extended key failed to decode or belongs to the
	// wrong network.
	InvalidKey
	// InvalidPath means a derivation path is syntactically wrong or has an
	// out of range component.
	InvalidPath
	// AmbiguousScriptType means no script type could be determined.
	AmbiguousScriptType
	// UnsupportedKeyExpression means a key expression uses private key
	// material, a bare public key or a hardened wildcard.
	UnsupportedKeyExpression
)

var kindNames = map[Kind]string{
	NotRecognized:            "not recognized",
	MalformedInput:           "malformed input",
	InvalidKey:               "invalid key",
	InvalidPath:              "invalid path",
	AmbiguousScriptType:      "ambiguous script type",
	UnsupportedKeyExpression: "unsupported key expression",
}

func (k Kind) Error() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown failure kind %d", int(k))
}

func (k Kind) String() string {
	return k.Error()
}

// Error is a categorized error. Field optionally names the input field the
// error refers to.
type Error struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the Kind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// New returns an error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap categorizes err. A nil err yields nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// Field categorizes err and attaches the name of the offending field.
func Field(kind Kind, field string, err error) error {
	return &Error{Kind: kind, Field: field, Err: err}
}

// Malformed is shorthand for a MalformedInput error on field.
func Malformed(field string, format string, args ...interface{}) error {
	return &Error{Kind: MalformedInput, Field: field, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the outermost Kind carried by err, or zero if err is not
// categorized.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	var ue *UnrecognizedError
	if errors.As(err, &ue) {
		return NotRecognized
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return 0
}

// UnrecognizedError is returned when no extractor matched. It carries a best
// effort description of what the input looked like.
type UnrecognizedError struct {
	Length int
	Prefix string
	Shape  string
}

func (e *UnrecognizedError) Error() string {
	return fmt.Sprintf(
		"%s: input of %d bytes starting with %q %s",
		NotRecognized.Error(), e.Length, e.Prefix, e.Shape,
	)
}

// Is reports whether target is NotRecognized.
func (e *UnrecognizedError) Is(target error) bool {
	return target == NotRecognized
}
