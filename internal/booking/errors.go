package booking

import "errors"

var (
	// ErrNotFound is returned when the booking id does not exist.
	ErrNotFound = errors.New("booking not found")

	// ErrIllegalTransition rejects a target status outside the transition table.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrDocumentNotVerified blocks pending -> confirmed until the user has an
	// approved document verification.
	ErrDocumentNotVerified = errors.New("document verification required before confirmation")

	// ErrConcurrentModification means another request changed the booking
	// between read and write; the caller should re-read and retry.
	ErrConcurrentModification = errors.New("booking was modified by another request")
)
