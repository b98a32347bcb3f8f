package ops

import "github.com/born-ml/capsnet/internal/tensor"

// MatMulOp represents matrix multiplication: output = a @ b.
//
// Backward pass:
//   - grad_a = outputGrad @ b^T
//   - grad_b = a^T @ outputGrad
type MatMulOp struct{ base }

// NewMatMulOp creates a new MatMulOp.
func NewMatMulOp(a, b, output *tensor.Tensor) *MatMulOp {
	return &MatMulOp{newBase(output, a, b)}
}

// Backward computes input gradients for matrix multiplication.
func (op *MatMulOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	a, b := op.inputs[0], op.inputs[1]
	gradA := backend.MatMul(outputGrad, backend.Transpose(b))
	gradB := backend.MatMul(backend.Transpose(a), outputGrad)
	return []*tensor.Tensor{gradA, gradB}
}

// TransposeOp represents a rank-2 transpose. Its gradient is the transposed
// output gradient.
type TransposeOp struct{ base }

// NewTransposeOp creates a new TransposeOp.
func NewTransposeOp(x, output *tensor.Tensor) *TransposeOp {
	return &TransposeOp{newBase(output, x)}
}

// Backward computes the input gradient.
func (op *TransposeOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{backend.Transpose(outputGrad)}
}
