// Package apperr holds the sentinel errors shared across noter packages.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidTitle  = errors.New("invalid title")
)
