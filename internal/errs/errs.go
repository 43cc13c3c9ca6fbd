// Package errs provides the wrapped-error shape shared by the compiler,
// tokenizer, and execution engine: a short machine-readable kind alongside a
// human-readable message and an optional wrapped cause.
package errs

import "fmt"

// Kind is a short machine-readable classification of an error, used by
// callers that want to switch on error category without string matching.
type Kind string

// Err is an error with a Kind, a human-readable message, and an optional
// wrapped cause.
type Err struct {
	kind    Kind
	msg     string
	wrapped error
}

// New creates an Err of the given kind with the given message.
func New(kind Kind, msg string) *Err {
	return &Err{kind: kind, msg: msg}
}

// Newf creates an Err of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Err {
	return &Err{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an Err of the given kind that wraps cause, with msg prepended
// to cause's message in the Error() string.
func Wrap(kind Kind, msg string, cause error) *Err {
	return &Err{kind: kind, msg: msg, wrapped: cause}
}

func (e *Err) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %s", e.msg, e.wrapped.Error())
	}
	return e.msg
}

// Kind returns the machine-readable kind of the error.
func (e *Err) Kind() Kind {
	return e.kind
}

// Unwrap returns the wrapped cause, if any.
func (e *Err) Unwrap() error {
	return e.wrapped
}

// Is reports whether target is an *Err with the same Kind. This lets callers
// do errors.Is(err, errs.New(SomeKind, "")) style checks against the kind
// alone.
func (e *Err) Is(target error) bool {
	other, ok := target.(*Err)
	if !ok {
		return false
	}
	return e.kind == other.kind
}
