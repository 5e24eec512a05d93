package vm

import "errors"

// ErrLoader is returned by the object loader on a malformed or truncated
// image stream.
var ErrLoader = errors.New("lc3: loader error")
