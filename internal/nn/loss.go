package nn

import (
	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/pkg/errors"
)

// Loss scores a batch against integer labels.
//
// Forward returns a scalar loss tensor (recorded on the tape when the backend
// is autodiff) together with top-1/top-5 accuracy diagnostics. Input problems
// are reported as errors wrapping ErrInvalidShape or ErrInvalidLabel; nothing
// is retried.
//
// Implementations: CategoricalLoss, CapsuleLoss, TripletLoss. DiceLoss scores
// against target masks instead of labels and has its own Forward signature.
type Loss interface {
	Forward(input *tensor.Tensor, labels []int) (*tensor.Tensor, Accuracy, error)
	Parameters() []*Parameter
}

// ComputeNEmbedding derives the embedding width from a tensor size.
//
// With more than one entry the first is the batch axis and is dropped; the
// remaining dimensions are flattened. A single entry is the width itself.
func ComputeNEmbedding(tensorSize []int) (int, error) {
	if len(tensorSize) == 0 {
		return 0, errors.Wrap(ErrInvalidConfig, "empty tensor size")
	}
	dims := tensorSize
	if len(dims) > 1 {
		dims = dims[1:]
	}
	n := 1
	for _, d := range dims {
		if d <= 0 {
			return 0, errors.Wrapf(ErrInvalidConfig, "tensor size %v has a non-positive dimension", tensorSize)
		}
		n *= d
	}
	return n, nil
}

// flatten views a non-empty [batch, ...] input as [batch, width] through the
// backend, checking that the trailing dimensions multiply to width.
func flatten(input *tensor.Tensor, width int, backend tensor.Backend) (*tensor.Tensor, error) {
	if input.Rank() < 2 || input.Dim(0) == 0 {
		return nil, errors.Wrapf(ErrInvalidShape, "expected [batch, ...] input, got %v", input.Shape())
	}
	batch := input.Dim(0)
	if input.NumElements() != batch*width {
		return nil, errors.Wrapf(ErrInvalidShape, "input %v does not flatten to %d features", input.Shape(), width)
	}
	if input.Rank() == 2 {
		return input, nil
	}
	return backend.Reshape(input, tensor.Shape{batch, width}), nil
}
