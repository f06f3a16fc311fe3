// services/booking/errors.go
package booking

import "errors"

var (
	// ErrSessionExpired is returned when a draft session is missing from the
	// cache, either because it was never created or its TTL elapsed.
	ErrSessionExpired = errors.New("booking session not found or expired")

	// ErrNotQuoted is returned when confirmation is attempted before a range
	// has been quoted on the session.
	ErrNotQuoted = errors.New("booking session has no quoted range")

	// ErrForbidden is returned when the caller does not own the resource the
	// operation targets.
	ErrForbidden = errors.New("operation not permitted for this account")

	// ErrInvalidTransition is returned for a status change the lifecycle
	// does not allow.
	ErrInvalidTransition = errors.New("invalid booking status transition")
)
