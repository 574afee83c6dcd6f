package store

import "errors"

var (
	// ErrNotFound means the slug or id does not exist in the backend.
	ErrNotFound = errors.New("store: article not found")
	// ErrValidation means a direct save was attempted with a required field missing.
	ErrValidation = errors.New("store: article validation failed")
	// ErrMalformedDocument means a file-backend document could not be decoded.
	// Readers treat the record as absent and log, they do not fail.
	ErrMalformedDocument = errors.New("store: malformed article document")
)
