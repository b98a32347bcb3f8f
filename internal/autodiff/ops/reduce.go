package ops

import (
	"github.com/born-ml/capsnet/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

// SumOp represents a full reduction: output = Σx.
// Every input element receives the scalar output gradient.
type SumOp struct{ base }

// NewSumOp creates a new SumOp.
func NewSumOp(x, output *tensor.Tensor) *SumOp {
	return &SumOp{newBase(output, x)}
}

// Backward broadcasts the scalar gradient to the input shape.
func (op *SumOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{fill(op.inputs[0], outputGrad.Item())}
}

// MeanOp represents output = mean(x). Every element receives g/N.
type MeanOp struct{ base }

// NewMeanOp creates a new MeanOp.
func NewMeanOp(x, output *tensor.Tensor) *MeanOp {
	return &MeanOp{newBase(output, x)}
}

// Backward broadcasts g/N to the input shape.
func (op *MeanOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	x := op.inputs[0]
	return []*tensor.Tensor{fill(x, outputGrad.Item()/float64(x.NumElements()))}
}

// SumDimOp represents a sum along one dimension, which is removed from the
// output shape.
//
// Backward:
//
//	grad_x[..., k, ...] = grad_y[..., ...] for every k along dim
type SumDimOp struct {
	base
	dim int
}

// NewSumDimOp creates a new SumDimOp.
func NewSumDimOp(x, output *tensor.Tensor, dim int) *SumDimOp {
	return &SumDimOp{base: newBase(output, x), dim: dim}
}

// Backward computes input gradients for sum reduction.
func (op *SumDimOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	x := op.inputs[0]
	outer, size, inner := x.Shape().SplitAxis(op.dim)
	grad := tensor.ZerosLike(x)
	src, dst := outputGrad.Data(), grad.Data()
	for o := 0; o < outer; o++ {
		row := src[o*inner : (o+1)*inner]
		for k := 0; k < size; k++ {
			start := (o*size + k) * inner
			floats.Add(dst[start:start+inner], row)
		}
	}
	return []*tensor.Tensor{grad}
}
