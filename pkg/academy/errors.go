package academy

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error kinds surfaced by the service. The routing layer maps these to
// HTTP statuses; the underlying cause stays reachable through Unwrap.
var (
	// ErrNotFound indicates no record exists for the given identifier.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidAsset indicates the uploaded bytes were rejected before
	// any side effect happened (bad mime type or size).
	ErrInvalidAsset = errors.New("invalid asset")

	// ErrUploadFailed indicates the object store rejected or failed the
	// upload; no record was touched.
	ErrUploadFailed = errors.New("asset upload failed")

	// ErrPersistFailed indicates the record write failed after a
	// successful upload; compensation was attempted.
	ErrPersistFailed = errors.New("record persist failed")

	// ErrDeleteFailed indicates the row delete failed; the blob may
	// already be gone.
	ErrDeleteFailed = errors.New("record delete failed")

	// ErrDuplicateSlug indicates the slug is already taken in its table.
	ErrDuplicateSlug = errors.New("slug already in use")

	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidInput indicates a request failed validation before any
	// side effect happened.
	ErrInvalidInput = errors.New("invalid input")
)

// MediaError wraps a failure from a media lifecycle operation. Kind is one
// of the sentinel errors above; Err is the triggering cause. A failed
// compensation never changes Kind, it is only logged.
type MediaError struct {
	Entity string
	ID     uuid.UUID
	Op     string
	Kind   error
	Err    error
}

func (e *MediaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed for %s: %v: %v", e.Entity, e.Op, e.ID, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s failed for %s: %v", e.Entity, e.Op, e.ID, e.Kind)
}

func (e *MediaError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is matches against the error kind so callers can use errors.Is with the
// sentinels regardless of the wrapped cause.
func (e *MediaError) Is(target error) bool {
	return target == e.Kind
}
