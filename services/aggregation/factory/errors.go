package factory

import "errors"

var errInvalidRetention = errors.New("invalid retention value in seconds")
