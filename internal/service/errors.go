package service

import "errors"

var (
	ErrStorageDisabled = errors.New("file storage is not configured")
	ErrMissingToken    = errors.New("missing bearer token")
)
