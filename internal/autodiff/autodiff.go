// Package autodiff implements automatic differentiation using the decorator pattern.
//
// AutodiffBackend wraps any Backend implementation and adds gradient tracking
// capabilities through a GradientTape.
//
// Architecture:
//   - Decorator pattern: AutodiffBackend[B] wraps any Backend implementation
//   - GradientTape: Records operations during forward pass
//   - Operation interface: Each op (Add, MatMul, CenterLoss) implements backward pass
//   - Reverse-mode AD: Computes gradients efficiently using chain rule
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//
//	x := tensor.New([]float64{2}, tensor.Shape{1})
//	y := backend.Sum(backend.Mul(x, x)) // y = x²
//
//	grads := autodiff.Backward(y, backend)
//	fmt.Println(grads[x].Data()) // dy/dx = 2x = [4]
package autodiff

import (
	"github.com/born-ml/capsnet/internal/autodiff/ops"
	"github.com/born-ml/capsnet/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds automatic differentiation.
// It implements the tensor.Backend interface and records operations in a GradientTape.
//
// Type parameter B must satisfy the tensor.Backend interface.
type AutodiffBackend[B tensor.Backend] struct {
	inner B             // Wrapped backend
	tape  *GradientTape // Records operations for backpropagation
}

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control.
// Useful for:
//   - Starting/stopping recording
//   - Clearing tape between iterations
//   - Inspecting recorded operations
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend for direct access.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// record appends op to the tape when recording and returns its output.
func (b *AutodiffBackend[B]) record(op ops.Operation) *tensor.Tensor {
	b.tape.Record(op)
	return op.Output()
}

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(a, c *tensor.Tensor) *tensor.Tensor {
	return b.record(ops.NewAddOp(a, c, b.inner.Add(a, c)))
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(a, c *tensor.Tensor) *tensor.Tensor {
	return b.record(ops.NewSubOp(a, c, b.inner.Sub(a, c)))
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(a, c *tensor.Tensor) *tensor.Tensor {
	return b.record(ops.NewMulOp(a, c, b.inner.Mul(a, c)))
}

// Div performs element-wise division and records the operation.
func (b *AutodiffBackend[B]) Div(a, c *tensor.Tensor) *tensor.Tensor {
	return b.record(ops.NewDivOp(a, c, b.inner.Div(a, c)))
}

// Maximum computes the element-wise maximum and records the operation.
func (b *AutodiffBackend[B]) Maximum(a, c *tensor.Tensor) *tensor.Tensor {
	return b.record(ops.NewMaximumOp(a, c, b.inner.Maximum(a, c)))
}

// AddScalar adds a constant and records the operation.
func (b *AutodiffBackend[B]) AddScalar(x *tensor.Tensor, scalar float64) *tensor.Tensor {
	return b.record(ops.NewAddScalarOp(x, b.inner.AddScalar(x, scalar)))
}

// MulScalar multiplies by a constant and records the operation.
func (b *AutodiffBackend[B]) MulScalar(x *tensor.Tensor, scalar float64) *tensor.Tensor {
	return b.record(ops.NewMulScalarOp(x, b.inner.MulScalar(x, scalar), scalar))
}

// elementwise runs a unary function and records it with its derivative.
func (b *AutodiffBackend[B]) elementwise(name string, x, result *tensor.Tensor, d ops.Derivative) *tensor.Tensor {
	return b.record(ops.NewElementwiseOp(name, x, result, d))
}

// Exp computes e^x and records the operation.
func (b *AutodiffBackend[B]) Exp(x *tensor.Tensor) *tensor.Tensor {
	return b.elementwise("exp", x, b.inner.Exp(x), ops.ExpDerivative)
}

// Log computes ln(x) and records the operation.
func (b *AutodiffBackend[B]) Log(x *tensor.Tensor) *tensor.Tensor {
	return b.elementwise("log", x, b.inner.Log(x), ops.LogDerivative)
}

// Sqrt computes √x and records the operation.
func (b *AutodiffBackend[B]) Sqrt(x *tensor.Tensor) *tensor.Tensor {
	return b.elementwise("sqrt", x, b.inner.Sqrt(x), ops.SqrtDerivative)
}

// Square computes x² and records the operation.
func (b *AutodiffBackend[B]) Square(x *tensor.Tensor) *tensor.Tensor {
	return b.elementwise("square", x, b.inner.Square(x), ops.SquareDerivative)
}

// Clamp limits x to [lo, hi] and records the operation.
func (b *AutodiffBackend[B]) Clamp(x *tensor.Tensor, lo, hi float64) *tensor.Tensor {
	return b.elementwise("clamp", x, b.inner.Clamp(x, lo, hi), ops.ClampDerivative(lo, hi))
}

// ReLU applies max(0, x) and records the operation.
func (b *AutodiffBackend[B]) ReLU(x *tensor.Tensor) *tensor.Tensor {
	return b.elementwise("relu", x, b.inner.ReLU(x), ops.ReLUDerivative)
}

// ReLU6 applies min(max(0, x), 6) and records the operation.
func (b *AutodiffBackend[B]) ReLU6(x *tensor.Tensor) *tensor.Tensor {
	return b.elementwise("relu6", x, b.inner.ReLU6(x), ops.ClampDerivative(0, 6))
}

// LeakyReLU applies the leaky rectifier and records the operation.
func (b *AutodiffBackend[B]) LeakyReLU(x *tensor.Tensor, slope float64) *tensor.Tensor {
	return b.elementwise("leakyrelu", x, b.inner.LeakyReLU(x, slope), ops.LeakyReLUDerivative(slope))
}

// ELU applies the exponential linear unit and records the operation.
func (b *AutodiffBackend[B]) ELU(x *tensor.Tensor, alpha float64) *tensor.Tensor {
	return b.elementwise("elu", x, b.inner.ELU(x, alpha), ops.ELUDerivative(alpha))
}

// Tanh applies the hyperbolic tangent and records the operation.
func (b *AutodiffBackend[B]) Tanh(x *tensor.Tensor) *tensor.Tensor {
	return b.elementwise("tanh", x, b.inner.Tanh(x), ops.TanhDerivative)
}

// Sigmoid applies the logistic function and records the operation.
func (b *AutodiffBackend[B]) Sigmoid(x *tensor.Tensor) *tensor.Tensor {
	return b.elementwise("sigmoid", x, b.inner.Sigmoid(x), ops.SigmoidDerivative)
}

// SiLU applies x·sigmoid(x) and records the operation.
func (b *AutodiffBackend[B]) SiLU(x *tensor.Tensor) *tensor.Tensor {
	return b.elementwise("silu", x, b.inner.SiLU(x), ops.SiLUDerivative)
}

// PReLU applies the parametric rectifier and records the operation.
func (b *AutodiffBackend[B]) PReLU(x, weight *tensor.Tensor) *tensor.Tensor {
	return b.record(ops.NewPReLUOp(x, weight, b.inner.PReLU(x, weight)))
}

// Squash applies the capsule squash and records the operation.
func (b *AutodiffBackend[B]) Squash(x *tensor.Tensor) *tensor.Tensor {
	return b.record(ops.NewSquashOp(x, b.inner.Squash(x)))
}

// MatMul performs matrix multiplication and records the operation.
func (b *AutodiffBackend[B]) MatMul(a, c *tensor.Tensor) *tensor.Tensor {
	return b.record(ops.NewMatMulOp(a, c, b.inner.MatMul(a, c)))
}

// Transpose transposes a tensor and records the operation.
//
// The CPU backend copies data, so the result is a new tensor. Without the
// TransposeOp on the tape, a gradient computed for the transposed copy would
// never reach the original parameter.
func (b *AutodiffBackend[B]) Transpose(x *tensor.Tensor) *tensor.Tensor {
	return b.record(ops.NewTransposeOp(x, b.inner.Transpose(x)))
}

// Reshape reshapes a tensor and records the operation.
func (b *AutodiffBackend[B]) Reshape(x *tensor.Tensor, shape tensor.Shape) *tensor.Tensor {
	return b.record(ops.NewReshapeOp(x, b.inner.Reshape(x, shape)))
}

// Narrow slices a tensor along an axis and records the operation.
func (b *AutodiffBackend[B]) Narrow(x *tensor.Tensor, axis, start, length int) *tensor.Tensor {
	return b.record(ops.NewNarrowOp(x, b.inner.Narrow(x, axis, start, length), axis, start))
}

// Sum reduces all elements and records the operation.
func (b *AutodiffBackend[B]) Sum(x *tensor.Tensor) *tensor.Tensor {
	return b.record(ops.NewSumOp(x, b.inner.Sum(x)))
}

// Mean averages all elements and records the operation.
func (b *AutodiffBackend[B]) Mean(x *tensor.Tensor) *tensor.Tensor {
	return b.record(ops.NewMeanOp(x, b.inner.Mean(x)))
}

// SumDim sums along a dimension and records the operation.
func (b *AutodiffBackend[B]) SumDim(x *tensor.Tensor, dim int) *tensor.Tensor {
	return b.record(ops.NewSumDimOp(x, b.inner.SumDim(x, dim), dim))
}

// L2Normalize normalises rows and records the operation.
func (b *AutodiffBackend[B]) L2Normalize(x *tensor.Tensor) *tensor.Tensor {
	return b.record(ops.NewL2NormalizeOp(x, b.inner.L2Normalize(x)))
}

// LogSoftmax computes row-wise log-softmax and records the operation.
func (b *AutodiffBackend[B]) LogSoftmax(x *tensor.Tensor) *tensor.Tensor {
	return b.record(ops.NewLogSoftmaxOp(x, b.inner.LogSoftmax(x)))
}

// NLLLoss computes the negative log-likelihood and records the operation.
func (b *AutodiffBackend[B]) NLLLoss(logProbs *tensor.Tensor, labels []int) *tensor.Tensor {
	return b.record(ops.NewNLLLossOp(logProbs, b.inner.NLLLoss(logProbs, labels), labels))
}

// CrossEntropy computes the fused softmax cross-entropy and records the operation.
func (b *AutodiffBackend[B]) CrossEntropy(logits *tensor.Tensor, labels []int) *tensor.Tensor {
	return b.record(ops.NewCrossEntropyOp(logits, b.inner.CrossEntropy(logits, labels), labels))
}

// Take gathers flat elements and records the operation.
func (b *AutodiffBackend[B]) Take(x *tensor.Tensor, indices []int) *tensor.Tensor {
	return b.record(ops.NewTakeOp(x, b.inner.Take(x, indices), indices))
}

// IndexAdd adds a constant at flat indices and records the operation.
func (b *AutodiffBackend[B]) IndexAdd(x *tensor.Tensor, indices []int, delta float64) *tensor.Tensor {
	return b.record(ops.NewIndexAddOp(x, b.inner.IndexAdd(x, indices, delta)))
}

// IndexScale scales flat indices and records the operation.
func (b *AutodiffBackend[B]) IndexScale(x *tensor.Tensor, indices []int, factor float64) *tensor.Tensor {
	return b.record(ops.NewIndexScaleOp(x, b.inner.IndexScale(x, indices, factor), indices, factor))
}

// PairwiseDistance computes row-pair Euclidean distances and records the operation.
func (b *AutodiffBackend[B]) PairwiseDistance(a, c *tensor.Tensor) *tensor.Tensor {
	return b.record(ops.NewPairwiseDistanceOp(a, c, b.inner.PairwiseDistance(a, c)))
}

// PairwiseSquaredDistance computes row-pair squared distances and records the operation.
func (b *AutodiffBackend[B]) PairwiseSquaredDistance(a, c *tensor.Tensor) *tensor.Tensor {
	return b.record(ops.NewPairwiseSquaredDistanceOp(a, c, b.inner.PairwiseSquaredDistance(a, c)))
}

// TripletMargin mines triplets, averages their margins and records the operation.
func (b *AutodiffBackend[B]) TripletMargin(scores *tensor.Tensor, labels []int, margin float64, semihard bool) *tensor.Tensor {
	result := b.inner.TripletMargin(scores, labels, margin, semihard)
	return b.record(ops.NewTripletMarginOp(scores, result, labels, margin, semihard))
}

// CenterLoss computes the center-loss penalty and records the custom
// moving-center gradient rule.
func (b *AutodiffBackend[B]) CenterLoss(x, centers *tensor.Tensor, labels []int, alpha float64) *tensor.Tensor {
	result := b.inner.CenterLoss(x, centers, labels, alpha)
	return b.record(ops.NewCenterLossOp(x, centers, result, labels, alpha))
}
