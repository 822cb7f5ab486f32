package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so the HTTP and bot boundaries can decide what the member sees
// without leaking infrastructure details.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrBadRequest      = errors.New("bad request")
	ErrChallengeFailed = errors.New("challenge failed")
	ErrGrantFailed     = errors.New("role grant failed")
)
