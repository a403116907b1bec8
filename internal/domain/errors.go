package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrEmptyTable      = errors.New("table has no usable rows")
	ErrAdvisorDisabled = errors.New("advisor not configured")
)
