package ops

import (
	"github.com/born-ml/capsnet/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

// AddOp represents element-wise addition: output = a + b.
//
// Backward pass:
//   - d(a+b)/da = 1, so grad_a = outputGrad
//   - d(a+b)/db = 1, so grad_b = outputGrad
type AddOp struct{ base }

// NewAddOp creates a new AddOp.
func NewAddOp(a, b, output *tensor.Tensor) *AddOp {
	return &AddOp{newBase(output, a, b)}
}

// Backward computes input gradients for addition.
func (op *AddOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{outputGrad.Clone(), outputGrad.Clone()}
}

// SubOp represents element-wise subtraction: output = a - b.
type SubOp struct{ base }

// NewSubOp creates a new SubOp.
func NewSubOp(a, b, output *tensor.Tensor) *SubOp {
	return &SubOp{newBase(output, a, b)}
}

// Backward computes input gradients for subtraction: [g, -g].
func (op *SubOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{outputGrad.Clone(), backend.MulScalar(outputGrad, -1)}
}

// MulOp represents element-wise multiplication: output = a * b.
//
// Backward pass:
//   - grad_a = outputGrad * b
//   - grad_b = outputGrad * a
type MulOp struct{ base }

// NewMulOp creates a new MulOp.
func NewMulOp(a, b, output *tensor.Tensor) *MulOp {
	return &MulOp{newBase(output, a, b)}
}

// Backward computes input gradients for multiplication.
func (op *MulOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	a, b := op.inputs[0], op.inputs[1]
	return []*tensor.Tensor{backend.Mul(outputGrad, b), backend.Mul(outputGrad, a)}
}

// DivOp represents element-wise division: output = a / b.
//
// Backward pass:
//   - grad_a = outputGrad / b
//   - grad_b = -outputGrad * a / b²
type DivOp struct{ base }

// NewDivOp creates a new DivOp.
func NewDivOp(a, b, output *tensor.Tensor) *DivOp {
	return &DivOp{newBase(output, a, b)}
}

// Backward computes input gradients for division.
func (op *DivOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	a, b := op.inputs[0].Data(), op.inputs[1].Data()
	gradA := tensor.ZerosLike(outputGrad)
	gradB := tensor.ZerosLike(outputGrad)
	ga, gb := gradA.Data(), gradB.Data()
	for i, g := range outputGrad.Data() {
		ga[i] = g / b[i]
		gb[i] = -g * a[i] / (b[i] * b[i])
	}
	return []*tensor.Tensor{gradA, gradB}
}

// MaximumOp represents element-wise max(a, b). Ties route the gradient to a.
type MaximumOp struct{ base }

// NewMaximumOp creates a new MaximumOp.
func NewMaximumOp(a, b, output *tensor.Tensor) *MaximumOp {
	return &MaximumOp{newBase(output, a, b)}
}

// Backward routes each element's gradient to the larger operand.
func (op *MaximumOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	a, b := op.inputs[0].Data(), op.inputs[1].Data()
	gradA := tensor.ZerosLike(outputGrad)
	gradB := tensor.ZerosLike(outputGrad)
	ga, gb := gradA.Data(), gradB.Data()
	for i, g := range outputGrad.Data() {
		if a[i] >= b[i] {
			ga[i] = g
		} else {
			gb[i] = g
		}
	}
	return []*tensor.Tensor{gradA, gradB}
}

// AddScalarOp represents output = x + c.
type AddScalarOp struct{ base }

// NewAddScalarOp creates a new AddScalarOp.
func NewAddScalarOp(x, output *tensor.Tensor) *AddScalarOp {
	return &AddScalarOp{newBase(output, x)}
}

// Backward passes the gradient through unchanged.
func (op *AddScalarOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{outputGrad.Clone()}
}

// MulScalarOp represents output = x * c.
type MulScalarOp struct {
	base
	scalar float64
}

// NewMulScalarOp creates a new MulScalarOp.
func NewMulScalarOp(x, output *tensor.Tensor, scalar float64) *MulScalarOp {
	return &MulScalarOp{base: newBase(output, x), scalar: scalar}
}

// Backward scales the gradient by the same constant.
func (op *MulScalarOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	grad := tensor.ZerosLike(outputGrad)
	floats.ScaleTo(grad.Data(), op.scalar, outputGrad.Data())
	return []*tensor.Tensor{grad}
}
