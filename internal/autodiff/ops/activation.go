package ops

import (
	"github.com/born-ml/capsnet/internal/kernels"
	"github.com/born-ml/capsnet/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

// PReLUOp represents a parametric ReLU with one learnable slope per channel.
//
// Backward pass:
//   - grad_x = outputGrad where x >= 0, outputGrad * w[c] otherwise
//   - grad_w[c] = Σ outputGrad * x over the negative elements of channel c
type PReLUOp struct{ base }

// NewPReLUOp creates a new PReLUOp.
func NewPReLUOp(x, weight, output *tensor.Tensor) *PReLUOp {
	return &PReLUOp{newBase(output, x, weight)}
}

// Backward computes gradients for the input and the slopes.
func (op *PReLUOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	x, weight := op.inputs[0], op.inputs[1]
	channelOf, _ := kernels.ChannelIndex(x.Shape(), weight.NumElements())

	gradX := tensor.ZerosLike(x)
	gradW := tensor.ZerosLike(weight)
	xs, w := x.Data(), weight.Data()
	gx, gw := gradX.Data(), gradW.Data()
	for i, g := range outputGrad.Data() {
		if xs[i] >= 0 {
			gx[i] = g
			continue
		}
		c := channelOf(i)
		gx[i] = g * w[c]
		gw[c] += g * xs[i]
	}
	return []*tensor.Tensor{gradX, gradW}
}

// SquashOp represents the capsule squash applied to every vector along the
// last axis: y = g(‖v‖²)·v.
//
// Backward pass, per capsule:
//
//	grad_v = g·dy + 2·g'(‖v‖²)·(v·dy)·v
type SquashOp struct{ base }

// NewSquashOp creates a new SquashOp.
func NewSquashOp(x, output *tensor.Tensor) *SquashOp {
	return &SquashOp{newBase(output, x)}
}

// Backward computes the input gradient.
func (op *SquashOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	x := op.inputs[0]
	dim := x.Dim(x.Rank() - 1)
	grad := tensor.ZerosLike(x)
	src, dy, dst := x.Data(), outputGrad.Data(), grad.Data()
	for start := 0; start < len(src); start += dim {
		v := src[start : start+dim]
		g, dg := kernels.SquashGain(floats.Dot(v, v))
		dyv := dy[start : start+dim]
		out := dst[start : start+dim]
		floats.ScaleTo(out, g, dyv)
		floats.AddScaled(out, 2*dg*floats.Dot(v, dyv), v)
	}
	return []*tensor.Tensor{grad}
}
