package inference

import "errors"

// ErrPoolClosed is returned by Acquire once the pool has been closed.
var ErrPoolClosed = errors.New("inference: pool closed")

// ErrSessionClosed is returned by Infer on a closed session.
var ErrSessionClosed = errors.New("inference: session closed")

// ErrBadOutput indicates the model produced an output of unexpected shape or type.
var ErrBadOutput = errors.New("inference: unexpected model output")
