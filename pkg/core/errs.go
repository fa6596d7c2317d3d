package core

import "errors"

// ErrPairNotFound is returned when no data is known for a pair
var ErrPairNotFound = errors.New("pair not found")
