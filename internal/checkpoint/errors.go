package checkpoint

import "github.com/pkg/errors"

// Common errors. Every error returned by a reader wraps one of these.
var (
	ErrInvalidCheckpoint = errors.New("invalid checkpoint")
	ErrChecksumMismatch  = errors.New("checksum mismatch: file may be corrupted")
	ErrUnsupportedDType  = errors.New("unsupported dtype")
	ErrOffsetOverlap     = errors.New("tensor offsets overlap")
	ErrOutOfBounds       = errors.New("tensor extends beyond data section")
	ErrTooManyTensors    = errors.New("too many tensors in file")
	ErrInvalidTensorName = errors.New("invalid tensor name")
	ErrHeaderTooLarge    = errors.New("header exceeds maximum size")
)
