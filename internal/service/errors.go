package service

import "errors"

var (
	ErrTutorNotFound     = errors.New("tutor not found")
	ErrStudentNotFound   = errors.New("student not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrRestoreConflict   = errors.New("restore conflicts with another session")
	ErrValidation        = errors.New("validation failed")
)
