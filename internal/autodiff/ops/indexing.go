package ops

import "github.com/born-ml/capsnet/internal/tensor"

// TakeOp gathers flat elements of x. The gradient scatters back, accumulating
// when an index repeats.
type TakeOp struct {
	base
	indices []int
}

// NewTakeOp creates a new TakeOp.
func NewTakeOp(x, output *tensor.Tensor, indices []int) *TakeOp {
	return &TakeOp{base: newBase(output, x), indices: indices}
}

// Backward computes the input gradient.
func (op *TakeOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	grad := tensor.ZerosLike(op.inputs[0])
	dst := grad.Data()
	for i, g := range outputGrad.Data() {
		dst[op.indices[i]] += g
	}
	return []*tensor.Tensor{grad}
}

// IndexAddOp adds a constant at selected flat indices. The gradient passes
// through unchanged.
type IndexAddOp struct{ base }

// NewIndexAddOp creates a new IndexAddOp.
func NewIndexAddOp(x, output *tensor.Tensor) *IndexAddOp {
	return &IndexAddOp{newBase(output, x)}
}

// Backward computes the input gradient.
func (op *IndexAddOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{outputGrad.Clone()}
}

// IndexScaleOp multiplies selected flat indices by a constant factor. The
// gradient at those indices is scaled by the same factor, once per occurrence.
type IndexScaleOp struct {
	base
	indices []int
	factor  float64
}

// NewIndexScaleOp creates a new IndexScaleOp.
func NewIndexScaleOp(x, output *tensor.Tensor, indices []int, factor float64) *IndexScaleOp {
	return &IndexScaleOp{base: newBase(output, x), indices: indices, factor: factor}
}

// Backward computes the input gradient.
func (op *IndexScaleOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	grad := outputGrad.Clone()
	dst := grad.Data()
	for _, idx := range op.indices {
		dst[idx] *= op.factor
	}
	return []*tensor.Tensor{grad}
}
