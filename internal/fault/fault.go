// Package fault defines the orchestrator's error taxonomy.
//
// Every failure that aborts a deployment run is classified into a Kind so
// operators can tell a credential problem from a network problem from a
// provider failure. Classification never replaces the original error text:
// the raw external message is kept attached and printed verbatim alongside
// the kind.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a deployment failure.
type Kind string

const (
	// KindConfig indicates missing or invalid input. Never retried; the
	// operator fixes the configuration and reruns.
	KindConfig Kind = "config"

	// KindNetwork indicates the cloud control plane is unreachable.
	KindNetwork Kind = "network"

	// KindCredential indicates the ambient credentials were rejected.
	// Distinct from KindNetwork so operators are not misdirected into
	// network troubleshooting.
	KindCredential Kind = "credential"

	// KindPublishVerification indicates a push reported success but the
	// artifact could not be confirmed present in the registry.
	KindPublishVerification Kind = "publish-verification"

	// KindProvider indicates the infrastructure provider's apply or destroy
	// returned non-success.
	KindProvider Kind = "provider"

	// KindConfirmationAborted indicates the operator declined a destructive
	// confirmation. A clean abort, not a failure.
	KindConfirmationAborted Kind = "confirmation-aborted"

	// KindUnknown covers failures that matched no classification rule.
	// Surfaced verbatim rather than guessed at.
	KindUnknown Kind = "unknown"
)

// Error is a classified failure. Op names the operation that failed, Err
// carries the underlying cause with its text intact.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error with a formatted message and no wrapped
// cause.
func New(kind Kind, op string, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches a classification to an existing error. Returns nil if err is
// nil.
func Wrap(kind Kind, op string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the classification of err, or KindUnknown if err carries
// none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == kind
}

// MissingField returns the config error for a required field that was left
// empty.
func MissingField(field string) *Error {
	return New(KindConfig, "validate configuration", "required field %q is missing or empty", field)
}
