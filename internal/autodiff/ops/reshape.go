package ops

import "github.com/born-ml/capsnet/internal/tensor"

// ReshapeOp represents a reshape. The gradient is reshaped back to the input
// shape; no data moves.
type ReshapeOp struct{ base }

// NewReshapeOp creates a new ReshapeOp.
func NewReshapeOp(x, output *tensor.Tensor) *ReshapeOp {
	return &ReshapeOp{newBase(output, x)}
}

// Backward computes the input gradient.
func (op *ReshapeOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{backend.Reshape(outputGrad, op.inputs[0].Shape())}
}

// NarrowOp represents x.narrow(axis, start, length).
//
// Backward pass scatters the output gradient into a zero tensor shaped like x
// at the narrowed window.
type NarrowOp struct {
	base
	axis  int
	start int
}

// NewNarrowOp creates a new NarrowOp.
func NewNarrowOp(x, output *tensor.Tensor, axis, start int) *NarrowOp {
	return &NarrowOp{base: newBase(output, x), axis: axis, start: start}
}

// Backward computes the input gradient.
func (op *NarrowOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	x := op.inputs[0]
	outer, dim, inner := x.Shape().SplitAxis(op.axis)
	length := outputGrad.Dim(op.axis)

	grad := tensor.ZerosLike(x)
	src, dst := outputGrad.Data(), grad.Data()
	for o := 0; o < outer; o++ {
		from := src[o*length*inner : (o+1)*length*inner]
		to := dst[(o*dim+op.start)*inner:]
		copy(to[:length*inner], from)
	}
	return []*tensor.Tensor{grad}
}
