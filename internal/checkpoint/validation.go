package checkpoint

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

type span struct {
	name       string
	start, end int64
}

// validateOffsets checks for negative, overlapping and out-of-bounds tensor
// regions. Malformed files could otherwise alias one tensor's bytes into
// another or read past the data section.
func validateOffsets(spans []span, dataSize int64) error {
	if len(spans) > MaxTensorCount {
		return errors.Wrapf(ErrTooManyTensors, "got %d, max %d", len(spans), MaxTensorCount)
	}
	sorted := append([]span(nil), spans...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })

	for i, s := range sorted {
		if s.start < 0 || s.end < s.start {
			return errors.Wrapf(ErrInvalidCheckpoint, "tensor %q: bad offsets [%d, %d)", s.name, s.start, s.end)
		}
		if s.end > dataSize {
			return errors.Wrapf(ErrOutOfBounds, "tensor %q: end %d > data size %d", s.name, s.end, dataSize)
		}
		if i < len(sorted)-1 && s.end > sorted[i+1].start {
			next := sorted[i+1]
			return errors.Wrapf(ErrOffsetOverlap, "tensors %q [%d-%d] and %q [%d-%d]", s.name, s.start, s.end, next.name, next.start, next.end)
		}
	}
	return nil
}

// validateTensorName rejects names that are too long or look like paths.
func validateTensorName(name string) error {
	switch {
	case name == "" || name == metadataKey:
		return errors.Wrapf(ErrInvalidTensorName, "%q is reserved", name)
	case len(name) > MaxTensorNameLen:
		return errors.Wrapf(ErrInvalidTensorName, "length %d > max %d", len(name), MaxTensorNameLen)
	case strings.Contains(name, ".."):
		return errors.Wrapf(ErrInvalidTensorName, "%q contains '..'", name)
	case strings.ContainsAny(name, "/\\\x00"):
		return errors.Wrapf(ErrInvalidTensorName, "%q contains a path separator or null byte", name)
	}
	return nil
}
