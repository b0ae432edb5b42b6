// Package repository contains the data access layer: a connection-scoped
// query client plus repositories for shows, users and refresh tokens.
//
// Errors fall into two tiers. Infrastructure failures (server unreachable,
// bad credentials, missing database) are returned as *ConnectionError or
// *CredentialsError and must be treated as fatal by callers — they are never
// folded into a business result. Everything else statement-level is wrapped
// in *QueryError or expressed through the sentinel values below, and callers
// handle those per operation.
package repository

import "errors"

// ErrDuplicateTitle is returned by ShowRepo.Create when another show
// already carries the requested title. Handlers should translate this
// into an HTTP 409 response.
var ErrDuplicateTitle = errors.New("a show with this title already exists")

// ErrNoUpdateData is returned when an update payload sets no recognized
// fields. It is distinct from ErrNotFound: the statement never reaches
// storage, so handlers must map it to a 400, not a 404.
var ErrNoUpdateData = errors.New("no update data provided")

// ErrNotFound is returned when an operation targeted an id or association
// that does not exist (zero rows affected, or an empty lookup where the
// operation requires a row).
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned by UserRepo.Create when the email is already
// registered.
var ErrEmailExists = errors.New("email already registered")

// ConnectionError reports that the database server could not be reached,
// the target schema does not exist, or the connection failed for any other
// non-credential reason.
type ConnectionError struct {
	Msg   string
	Cause error
}

func (e *ConnectionError) Error() string { return e.Msg }
func (e *ConnectionError) Unwrap() error { return e.Cause }

// CredentialsError reports that the database server rejected the configured
// user or password.
type CredentialsError struct {
	Msg   string
	Cause error
}

func (e *CredentialsError) Error() string { return e.Msg }
func (e *CredentialsError) Unwrap() error { return e.Cause }

// QueryError wraps a statement-level failure: malformed SQL, a constraint
// violation not otherwise classified, or a driver error during execution.
// It is always returned as a value, never treated as fatal.
type QueryError struct {
	Cause error
}

func (e *QueryError) Error() string { return "query failed: " + e.Cause.Error() }
func (e *QueryError) Unwrap() error { return e.Cause }

// IsInfra reports whether err is a fatal infrastructure failure. Handlers
// use this to short-circuit to a 5xx response before inspecting business
// sentinels.
func IsInfra(err error) bool {
	var conn *ConnectionError
	var cred *CredentialsError
	return errors.As(err, &conn) || errors.As(err, &cred)
}
