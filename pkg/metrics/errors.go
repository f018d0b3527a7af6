package metrics

import "errors"

// ErrRegister is returned when a collector cannot be registered, usually
// because a Recorder was already created on the same registry.
var ErrRegister = errors.New("failed to register metrics collector")
