package domain

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserExists          = errors.New("email already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrGenerationFailed    = errors.New("failed to generate audio")
	ErrStorageFailed       = errors.New("failed to store generated asset")
	ErrPromptOffDomain     = errors.New("prompt is not music related")
)

// UpstreamError carries the human-readable detail decoded from a failed
// generator response body. It matches ErrGenerationFailed under errors.Is so
// callers can branch on the class while still surfacing the upstream message.
type UpstreamError struct {
	Detail string
}

func (e *UpstreamError) Error() string { return e.Detail }

func (e *UpstreamError) Is(target error) bool { return target == ErrGenerationFailed }
