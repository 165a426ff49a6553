package service

import "errors"

// Request-scoped failure kinds. Handlers map these to HTTP statuses and
// keep internal detail out of responses.
var (
	ErrNoFile         = errors.New("no file uploaded")
	ErrFileTooLarge   = errors.New("file too large")
	ErrTypeNotAllowed = errors.New("file type not allowed")
	ErrNotFound       = errors.New("file not found")
	ErrStorage        = errors.New("storage failure")
	ErrMetadata       = errors.New("metadata failure")
)
