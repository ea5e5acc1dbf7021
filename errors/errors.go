package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDispatch Phase = "dispatch" // operation lookup and argument handling
	PhaseWrap     Phase = "wrap"     // wrapper store bookkeeping
	PhaseNative   Phase = "native"   // calls into the native git library
	PhaseGuest    Phase = "guest"    // WASM guest boundary
)

// Kind categorizes the error
type Kind string

const (
	KindWrongType     Kind = "wrong_type"     // value failed a kind predicate
	KindArity         Kind = "arity"          // argument count out of range
	KindNotRegistered Kind = "not_registered" // unknown operation name
	KindGitError      Kind = "git_error"      // native library reported failure
	KindRegistration  Kind = "registration"   // operation table construction
	KindInvalidInput  Kind = "invalid_input"  // malformed host input
	KindReleased      Kind = "released"       // handle used after release
)

// Error is the structured signal type used throughout git-bridge
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	Op        string
	Predicate string
	Class     string
	Code      int
	Detail    string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if e.Predicate != "" {
		b.WriteString(": ")
		b.WriteString(e.Predicate)
		b.WriteString(" failed")
		if e.Value != nil {
			fmt.Fprintf(&b, " on %v", e.Value)
		}
	}

	if e.Class != "" {
		b.WriteString(": ")
		b.WriteString(e.Class)
		if e.Code != 0 {
			fmt.Fprintf(&b, " (%d)", e.Code)
		}
	}

	if e.Detail != "" {
		if e.Predicate != "" || e.Class != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the operation name
func (b *Builder) Op(name string) *Builder {
	b.err.Op = name
	return b
}

// Predicate sets the violated predicate name
func (b *Builder) Predicate(p string) *Builder {
	b.err.Predicate = p
	return b
}

// Class sets the native error class
func (b *Builder) Class(c string) *Builder {
	b.err.Class = c
	return b
}

// Code sets the native status code
func (b *Builder) Code(c int) *Builder {
	b.err.Code = c
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// WrongType creates a wrong-type signal naming the violated predicate and
// the offending value
func WrongType(op, predicate string, value any) *Error {
	return &Error{
		Phase:     PhaseDispatch,
		Kind:      KindWrongType,
		Op:        op,
		Predicate: predicate,
		Value:     value,
	}
}

// Arity creates an argument-count signal
func Arity(op string, got, min, max int) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindArity,
		Op:     op,
		Detail: fmt.Sprintf("got %d argument(s), want %d to %d", got, min, max),
		Value:  got,
	}
}

// NotRegistered creates an unknown-operation signal
func NotRegistered(name string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindNotRegistered,
		Op:     name,
		Detail: "operation not registered",
	}
}

// Git creates a signal for a failing native call that left an error record
func Git(op string, code int, class, message string) *Error {
	return &Error{
		Phase:  PhaseNative,
		Kind:   KindGitError,
		Op:     op,
		Class:  class,
		Code:   code,
		Detail: message,
	}
}

// Registration creates an operation table construction error
func Registration(name string, cause error) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindRegistration,
		Op:     name,
		Detail: "register operation",
		Cause:  cause,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Released creates a use-after-release signal
func Released(op string) *Error {
	return &Error{
		Phase:  PhaseWrap,
		Kind:   KindReleased,
		Op:     op,
		Detail: "handle already released",
	}
}

// GitClass extracts the native error class from err, or "" when err is not
// a git_error signal
func GitClass(err error) string {
	if e, ok := err.(*Error); ok && e.Kind == KindGitError {
		return e.Class
	}
	return ""
}
