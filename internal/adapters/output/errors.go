package output

import "errors"

// ErrWrite wraps every failure to persist an output pair.
var ErrWrite = errors.New("write output")
