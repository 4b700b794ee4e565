package sim

import "errors"

// ErrInvalidDelay reports an attempt to schedule an event before the
// current virtual time. It always indicates a defect in the scheduling
// process (for example a negative variate) and is fatal to the run.
var ErrInvalidDelay = errors.New("invalid negative delay")
