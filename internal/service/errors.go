package service

import "errors"

// Shared sentinel errors for the service layer.
var (
	// ErrForbidden is returned when a principal may not access a resource.
	ErrForbidden = errors.New("forbidden")
	// ErrResultNotReady is returned when a job has not completed yet.
	ErrResultNotReady = errors.New("job result not ready")
)
