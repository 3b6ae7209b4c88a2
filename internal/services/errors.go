package services

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrValidation          = errors.New("validation failed")
	ErrDatabaseUnavailable = errors.New("database not available")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrAIUnavailable       = errors.New("ai service not configured")
)
