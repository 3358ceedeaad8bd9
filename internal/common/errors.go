// Package common defines shared sentinel errors used across client and server
// layers of udpmail. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Protocol-level errors (malformed datagrams).
	ErrorMalformedRequest = errors.New("malformed request")
)
