package nn

import "github.com/pkg/errors"

// Error taxonomy of the nn package. Every error returned by a constructor or a
// Forward call wraps exactly one of these, so callers can branch with
// errors.Is while still getting a descriptive message.
var (
	// ErrInvalidConfig reports an unknown loss type, measure or selection, or
	// a nonsensical size at construction time.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidShape reports an input whose rank or dimensions do not fit
	// the module (squash on non rank-3 input, maxout on an odd channel count,
	// embeddings of the wrong width).
	ErrInvalidShape = errors.New("invalid shape")

	// ErrInvalidLabel reports a label outside [0, nLabels) or a label batch
	// whose length differs from the input batch.
	ErrInvalidLabel = errors.New("invalid label")

	// ErrNotImplemented reports a variant that construction should have
	// rejected. Reaching it means an internal invariant was broken.
	ErrNotImplemented = errors.New("not implemented")
)

// unboundedLabels disables the upper bound in checkLabels.
const unboundedLabels = -1

// checkLabels validates a label batch against the batch size and label count.
func checkLabels(labels []int, batch, nLabels int) error {
	if len(labels) != batch {
		return errors.Wrapf(ErrInvalidLabel, "got %d labels for a batch of %d", len(labels), batch)
	}
	for i, label := range labels {
		if label < 0 {
			return errors.Wrapf(ErrInvalidLabel, "label %d at position %d is negative", label, i)
		}
		if nLabels != unboundedLabels && label >= nLabels {
			return errors.Wrapf(ErrInvalidLabel, "label %d at position %d is outside [0, %d)", label, i, nLabels)
		}
	}
	return nil
}
