package config

import "errors"

var (
	ErrBaseURLEmpty   = errors.New("BASE_URL is empty")
	ErrInvalidBaseURL = errors.New("BASE_URL is invalid")

	ErrDatabaseURLEmpty     = errors.New("DATABASE_URL is empty")
	ErrInvalidStorageDriver = errors.New("STORAGE_DRIVER is invalid")

	ErrInvalidDuration = errors.New("invalid duration env")
	ErrInvalidInt      = errors.New("invalid int env")

	ErrInvalidDBPool       = errors.New("invalid db pool config")
	ErrInvalidRateLimit    = errors.New("invalid rate limit config")
	ErrInvalidScanRecorder = errors.New("invalid scan recorder config")
	ErrInvalidTrustedProxy = errors.New("TRUSTED_PROXIES entry is invalid")
)
