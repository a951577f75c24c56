package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidURL         = errors.New("invalid url")
	ErrInvalidID          = errors.New("invalid short id")
	ErrDuplicateID        = errors.New("short id already exists")
	ErrExhaustedRetries   = errors.New("failed to generate unique short id")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
