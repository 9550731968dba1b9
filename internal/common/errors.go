// Package common defines sentinel errors shared by the store, session, service
// and HTTP layers. Callers match them with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound        = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrStoreUnavailable  = errors.New("store unavailable")

	// Service-level errors.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrValidation         = errors.New("validation error")

	// Session errors (unknown, malformed, expired or badly signed token).
	ErrInvalidSession = errors.New("invalid session")

	// Storage errors.
	ErrFileExists = errors.New("file already exists")
)
