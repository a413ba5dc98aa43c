package pool

import "errors"

// ErrIncompatibleSave reports a save whose indices only fit a larger
// capacity mode than the one configured. The session cannot continue
// with it, but the process can.
var ErrIncompatibleSave = errors.New("save requires a larger pool capacity; enable raise_unit_cap")

// ErrIndexOutOfRange reports an index no capacity mode can address.
var ErrIndexOutOfRange = errors.New("index beyond every pool capacity")
