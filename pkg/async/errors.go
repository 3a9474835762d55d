package async

import "errors"

// ErrPanic wraps the value of a recovered panic.
var ErrPanic = errors.New("async: task panicked")
