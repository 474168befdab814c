package apperrors

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrNotInitialized   = errors.New("store is not initialized")
	ErrProviderDisabled = errors.New("insight provider is disabled")
	ErrChecksumMismatch = errors.New("insight provider checksum mismatch")
	ErrProviderTimeout  = errors.New("insight provider timeout")
)
