// Package errors provides the structured signal types raised across the
// git-bridge host boundary.
//
// Signals are categorized by Phase (where the failure occurred) and Kind
// (failure category). The Error type carries the context a host needs to
// render a useful message: the operation name, the violated predicate and
// offending value for type failures, and the native error class and code
// for library failures.
//
// Use the Builder for structured construction:
//
//	err := errors.New(errors.PhaseNative, errors.KindGitError).
//		Op("git-repository-open").
//		Class("repository").
//		Detail("could not find repository at %q", path).
//		Build()
//
// Or use convenience constructors for the common patterns:
//
//	err := errors.WrongType("git-reference-name", "git-reference-p", v)
//	err := errors.Git("git-revparse-single", -3, "revparse", "not found")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
