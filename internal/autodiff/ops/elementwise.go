package ops

import (
	"math"

	"github.com/born-ml/capsnet/internal/tensor"
)

// Derivative returns dy/dx of an element-wise function at input x with output y.
type Derivative func(x, y float64) float64

// ElementwiseOp represents any unary element-wise function y = f(x).
//
// Backward pass:
//
//	grad_x[i] = outputGrad[i] * f'(x[i])
//
// The derivative sees both the input and the cached output so functions like
// exp, sqrt, tanh and sigmoid reuse y instead of recomputing f.
type ElementwiseOp struct {
	base
	name       string
	derivative Derivative
}

// NewElementwiseOp creates a new ElementwiseOp.
func NewElementwiseOp(name string, x, output *tensor.Tensor, derivative Derivative) *ElementwiseOp {
	return &ElementwiseOp{base: newBase(output, x), name: name, derivative: derivative}
}

// Name returns the function name, for debugging.
func (op *ElementwiseOp) Name() string {
	return op.name
}

// Backward computes the input gradient.
func (op *ElementwiseOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	x, y := op.inputs[0].Data(), op.output.Data()
	grad := tensor.ZerosLike(outputGrad)
	dst := grad.Data()
	for i, g := range outputGrad.Data() {
		dst[i] = g * op.derivative(x[i], y[i])
	}
	return []*tensor.Tensor{grad}
}

// Derivatives of the element-wise functions supported by the backend.
var (
	ExpDerivative     Derivative = func(_, y float64) float64 { return y }
	LogDerivative     Derivative = func(x, _ float64) float64 { return 1 / x }
	SqrtDerivative    Derivative = func(_, y float64) float64 { return 0.5 / y }
	SquareDerivative  Derivative = func(x, _ float64) float64 { return 2 * x }
	TanhDerivative    Derivative = func(_, y float64) float64 { return 1 - y*y }
	SigmoidDerivative Derivative = func(_, y float64) float64 { return y * (1 - y) }

	// ReLUDerivative is 0 at x = 0, matching PyTorch.
	ReLUDerivative Derivative = func(x, _ float64) float64 { return step(x > 0) }

	// SiLUDerivative is σ(x)·(1 + x·(1 - σ(x))).
	SiLUDerivative Derivative = func(x, _ float64) float64 {
		s := 1 / (1 + math.Exp(-x))
		return s * (1 + x*(1-s))
	}
)

// ClampDerivative passes the gradient where lo < x < hi. ReLU6 is Clamp(0, 6).
func ClampDerivative(lo, hi float64) Derivative {
	return func(x, _ float64) float64 { return step(x > lo && x < hi) }
}

// LeakyReLUDerivative is 1 for x > 0 and slope otherwise.
func LeakyReLUDerivative(slope float64) Derivative {
	return func(x, _ float64) float64 {
		if x > 0 {
			return 1
		}
		return slope
	}
}

// ELUDerivative is 1 for x > 0 and y + alpha otherwise.
func ELUDerivative(alpha float64) Derivative {
	return func(x, y float64) float64 {
		if x > 0 {
			return 1
		}
		return y + alpha
	}
}

func step(cond bool) float64 {
	if cond {
		return 1
	}
	return 0
}
