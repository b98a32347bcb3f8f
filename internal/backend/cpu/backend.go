// Package cpu implements the CPU backend on top of gonum.
package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/capsnet/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

// CPUBackend implements tensor operations eagerly on CPU.
type CPUBackend struct{}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Add performs element-wise addition.
func (cpu *CPUBackend) Add(a, b *tensor.Tensor) *tensor.Tensor {
	result := sameShapeResult("add", a, b)
	floats.AddTo(result.Data(), a.Data(), b.Data())
	return result
}

// Sub performs element-wise subtraction.
func (cpu *CPUBackend) Sub(a, b *tensor.Tensor) *tensor.Tensor {
	result := sameShapeResult("sub", a, b)
	floats.SubTo(result.Data(), a.Data(), b.Data())
	return result
}

// Mul performs element-wise multiplication.
func (cpu *CPUBackend) Mul(a, b *tensor.Tensor) *tensor.Tensor {
	result := sameShapeResult("mul", a, b)
	floats.MulTo(result.Data(), a.Data(), b.Data())
	return result
}

// Div performs element-wise division.
func (cpu *CPUBackend) Div(a, b *tensor.Tensor) *tensor.Tensor {
	result := sameShapeResult("div", a, b)
	floats.DivTo(result.Data(), a.Data(), b.Data())
	return result
}

// Maximum returns the element-wise maximum of a and b.
func (cpu *CPUBackend) Maximum(a, b *tensor.Tensor) *tensor.Tensor {
	result := sameShapeResult("maximum", a, b)
	dst, bd := result.Data(), b.Data()
	for i, v := range a.Data() {
		dst[i] = math.Max(v, bd[i])
	}
	return result
}

// AddScalar adds scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.Tensor, scalar float64) *tensor.Tensor {
	result := x.Clone()
	floats.AddConst(scalar, result.Data())
	return result
}

// MulScalar multiplies every element by scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.Tensor, scalar float64) *tensor.Tensor {
	result := tensor.ZerosLike(x)
	floats.ScaleTo(result.Data(), scalar, x.Data())
	return result
}

// Exp computes e^x element-wise.
func (cpu *CPUBackend) Exp(x *tensor.Tensor) *tensor.Tensor {
	return mapUnary(x, math.Exp)
}

// Log computes the natural logarithm element-wise.
func (cpu *CPUBackend) Log(x *tensor.Tensor) *tensor.Tensor {
	return mapUnary(x, math.Log)
}

// Sqrt computes the square root element-wise.
func (cpu *CPUBackend) Sqrt(x *tensor.Tensor) *tensor.Tensor {
	return mapUnary(x, math.Sqrt)
}

// Square computes x² element-wise.
func (cpu *CPUBackend) Square(x *tensor.Tensor) *tensor.Tensor {
	return mapUnary(x, func(v float64) float64 { return v * v })
}

// Clamp limits every element to [lo, hi].
func (cpu *CPUBackend) Clamp(x *tensor.Tensor, lo, hi float64) *tensor.Tensor {
	return mapUnary(x, func(v float64) float64 { return math.Min(math.Max(v, lo), hi) })
}

// Reshape returns a copy of x with a new shape.
func (cpu *CPUBackend) Reshape(x *tensor.Tensor, shape tensor.Shape) *tensor.Tensor {
	if shape.NumElements() != x.NumElements() {
		panic(fmt.Sprintf("reshape: cannot reshape %v into %v", x.Shape(), shape))
	}
	return tensor.New(x.Clone().Data(), shape)
}

// mapUnary applies f to every element of x into a new tensor.
func mapUnary(x *tensor.Tensor, f func(float64) float64) *tensor.Tensor {
	result := tensor.ZerosLike(x)
	dst := result.Data()
	for i, v := range x.Data() {
		dst[i] = f(v)
	}
	return result
}

// sameShapeResult validates that a and b agree and allocates the result.
func sameShapeResult(op string, a, b *tensor.Tensor) *tensor.Tensor {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("%s: shape mismatch %v vs %v", op, a.Shape(), b.Shape()))
	}
	return tensor.ZerosLike(a)
}
