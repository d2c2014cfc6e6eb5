package engine

import "errors"

// Sentinel errors surfaced to callers. The engine performs no internal
// retries; every failure maps onto exactly one of these kinds.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidState        = errors.New("invalid state")
	ErrDuplicateSubmission = errors.New("duplicate submission")
	ErrInsufficientFunds   = errors.New("insufficient funds")
)

// ValidationError marks malformed or missing input. The message is safe to
// return to the caller verbatim.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}
