package flow

import (
	"errors"
	"fmt"
)

// ErrUnknownColumn signals a column identifier that the table does not define
var ErrUnknownColumn = errors.New("unknown column")

// ErrNilSource signals a missing record source
var ErrNilSource = errors.New("nil record source")

// MalformedMetricsError is returned for a metric series that can not be projected
type MalformedMetricsError struct {
	Key    string
	Reason string
}

// Error returns the string representation of the error
func (e *MalformedMetricsError) Error() string {
	return fmt.Sprintf("malformed metric %q: %s", e.Key, e.Reason)
}
