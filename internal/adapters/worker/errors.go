package worker

import "errors"

// ErrTaskPanic is returned in a Result when a task panicked.
var ErrTaskPanic = errors.New("task panicked")
