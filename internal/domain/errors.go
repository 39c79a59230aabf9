package domain

import "errors"

// ErrInvalidStoredValue is returned by storage adapters when a persisted value
// cannot be decoded into the requested type
var ErrInvalidStoredValue = errors.New("invalid stored value")
