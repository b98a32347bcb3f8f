package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/capsnet/internal/kernels"
	"github.com/born-ml/capsnet/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

// ReLU computes max(0, x).
func (cpu *CPUBackend) ReLU(x *tensor.Tensor) *tensor.Tensor {
	return mapUnary(x, func(v float64) float64 { return math.Max(v, 0) })
}

// ReLU6 computes min(max(0, x), 6).
func (cpu *CPUBackend) ReLU6(x *tensor.Tensor) *tensor.Tensor {
	return cpu.Clamp(x, 0, 6)
}

// LeakyReLU computes x for x >= 0 and slope*x otherwise.
func (cpu *CPUBackend) LeakyReLU(x *tensor.Tensor, slope float64) *tensor.Tensor {
	return mapUnary(x, func(v float64) float64 {
		if v >= 0 {
			return v
		}
		return slope * v
	})
}

// ELU computes x for x > 0 and alpha*(e^x - 1) otherwise.
func (cpu *CPUBackend) ELU(x *tensor.Tensor, alpha float64) *tensor.Tensor {
	return mapUnary(x, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return alpha * math.Expm1(v)
	})
}

// Tanh computes the hyperbolic tangent.
func (cpu *CPUBackend) Tanh(x *tensor.Tensor) *tensor.Tensor {
	return mapUnary(x, math.Tanh)
}

// Sigmoid computes 1 / (1 + e^-x).
func (cpu *CPUBackend) Sigmoid(x *tensor.Tensor) *tensor.Tensor {
	return mapUnary(x, sigmoid)
}

// SiLU (swish) computes x * sigmoid(x).
func (cpu *CPUBackend) SiLU(x *tensor.Tensor) *tensor.Tensor {
	return mapUnary(x, func(v float64) float64 { return v * sigmoid(v) })
}

// PReLU computes x for x >= 0 and w[c]*x otherwise, where c is the index
// along axis 1. A single-element weight is shared by every channel.
func (cpu *CPUBackend) PReLU(x, weight *tensor.Tensor) *tensor.Tensor {
	channelOf, ok := kernels.ChannelIndex(x.Shape(), weight.NumElements())
	if !ok {
		panic(fmt.Sprintf("prelu: weight of %d channels does not match input %v", weight.NumElements(), x.Shape()))
	}
	w := weight.Data()
	result := tensor.ZerosLike(x)
	dst := result.Data()
	for i, v := range x.Data() {
		if v >= 0 {
			dst[i] = v
		} else {
			dst[i] = w[channelOf(i)] * v
		}
	}
	return result
}

// Squash maps every capsule vector v of a [batch, capsules, dim] tensor to
// (‖v‖²/(1+‖v‖²)) · v/‖v‖.
func (cpu *CPUBackend) Squash(x *tensor.Tensor) *tensor.Tensor {
	if x.Rank() != 3 {
		panic(fmt.Sprintf("squash: expected [batch, capsules, dim], got %v", x.Shape()))
	}
	dim := x.Dim(2)
	result := x.Clone()
	dst := result.Data()
	for start := 0; start < len(dst); start += dim {
		v := dst[start : start+dim]
		g, _ := kernels.SquashGain(floats.Dot(v, v))
		floats.Scale(g, v)
	}
	return result
}

// L2Normalize scales every row of a rank-2 tensor to unit L2 norm.
func (cpu *CPUBackend) L2Normalize(x *tensor.Tensor) *tensor.Tensor {
	if x.Rank() != 2 {
		panic(fmt.Sprintf("l2normalize: expected rank-2 tensor, got %v", x.Shape()))
	}
	result := x.Clone()
	for i := 0; i < x.Dim(0); i++ {
		row := result.Row(i)
		floats.Scale(1/kernels.RowNorm(row), row)
	}
	return result
}

// LogSoftmax computes log(softmax(x)) along the rows of a rank-2 tensor.
func (cpu *CPUBackend) LogSoftmax(x *tensor.Tensor) *tensor.Tensor {
	if x.Rank() != 2 {
		panic(fmt.Sprintf("logsoftmax: expected rank-2 tensor, got %v", x.Shape()))
	}
	result := tensor.ZerosLike(x)
	for i := 0; i < x.Dim(0); i++ {
		kernels.LogSoftmax(result.Row(i), x.Row(i))
	}
	return result
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}
