package repository

import "errors"

// ErrNotFound is returned when a row does not exist for the tenant.
var ErrNotFound = errors.New("repository: not found")
