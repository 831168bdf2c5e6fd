package errs

import "errors"

// Sentinel errors shared by the usecase layer and the HTTP error mapping
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")

	// Booking errors
	ErrBookingNotFound   = errors.New("booking not found")
	ErrCommitConflict    = errors.New("conflict on commit")
	ErrForceNotConfirmed = errors.New("force scheduling requires explicit confirmation")
	ErrOutsideHours      = errors.New("window is outside operating hours")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
