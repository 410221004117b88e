package invitecode

import "errors"

// ErrRandomSource is returned when the random source fails.
var ErrRandomSource = errors.New("invitecode.random_source")
