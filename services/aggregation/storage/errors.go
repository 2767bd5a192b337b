package storage

import "errors"

// ErrScopeNotFound signals that no flow record was ever stored for the requested scope
var ErrScopeNotFound = errors.New("scope not found")
