package service

import (
	"errors"
	"strings"
)

// Rejection reasons. Each maps to one external error code.
var (
	ErrRateLimited          = errors.New("too many comments, please try again later")
	ErrVerificationRequired = errors.New("verification is required")
	ErrVerificationFailed   = errors.New("verification failed, please try again")
	ErrFlaggedContent       = errors.New("comment contains inappropriate content")
	ErrStorageUnavailable   = errors.New("comments are temporarily unavailable")
)

// Reason codes reported to callers and logs
const (
	CodeRateLimited          = "rate_limited"
	CodeVerificationRequired = "verification_required"
	CodeVerificationFailed   = "verification_failed"
	CodeInvalidInput         = "invalid_input"
	CodeFlaggedContent       = "flagged_content"
	CodeStorageError         = "storage_error"
)

// InvalidInputError carries a human-readable reason for a rejected field
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return e.Reason
}

func invalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// Code maps an orchestrator error onto its stable reason code.
// Unknown errors are reported as storage errors.
func Code(err error) string {
	var invalid *InvalidInputError
	switch {
	case errors.As(err, &invalid):
		return CodeInvalidInput
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	case errors.Is(err, ErrVerificationRequired):
		return CodeVerificationRequired
	case errors.Is(err, ErrVerificationFailed):
		return CodeVerificationFailed
	case errors.Is(err, ErrFlaggedContent):
		return CodeFlaggedContent
	default:
		return CodeStorageError
	}
}

// joinReasons builds one message from several field reasons
func joinReasons(reasons []string) string {
	return strings.Join(reasons, "; ")
}
