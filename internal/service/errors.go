package service

import "errors"

// ErrValidation marks bad input. Callers wrap it with detail via fmt.Errorf
// so handlers can map the whole family to one HTTP status.
var ErrValidation = errors.New("validation failed")
