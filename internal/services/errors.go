package services

import "errors"

var (
	ErrForbidden      = errors.New("forbidden")
	ErrAlreadyStarted = errors.New("assignment already started")
	ErrTaskClosed     = errors.New("task is closed")
	ErrValidation     = errors.New("validation failed")
)
