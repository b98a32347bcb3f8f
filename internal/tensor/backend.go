package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - cpu.CPUBackend: eager float64 kernels on gonum
//   - autodiff.AutodiffBackend: decorator that records every call on a tape
//
// Shape misuse is a programmer error: implementations panic with
// "OpName: message" rather than returning errors.
type Backend interface {
	// Element-wise binary operations (operands must have identical shapes)
	Add(a, b *Tensor) *Tensor
	Sub(a, b *Tensor) *Tensor
	Mul(a, b *Tensor) *Tensor
	Div(a, b *Tensor) *Tensor
	Maximum(a, b *Tensor) *Tensor

	// Scalar operations
	AddScalar(x *Tensor, scalar float64) *Tensor
	MulScalar(x *Tensor, scalar float64) *Tensor

	// Math operations (element-wise)
	Exp(x *Tensor) *Tensor
	Log(x *Tensor) *Tensor
	Sqrt(x *Tensor) *Tensor
	Square(x *Tensor) *Tensor
	Clamp(x *Tensor, lo, hi float64) *Tensor

	// Activation functions (element-wise unless noted)
	ReLU(x *Tensor) *Tensor
	ReLU6(x *Tensor) *Tensor
	LeakyReLU(x *Tensor, slope float64) *Tensor
	ELU(x *Tensor, alpha float64) *Tensor
	Tanh(x *Tensor) *Tensor
	Sigmoid(x *Tensor) *Tensor
	SiLU(x *Tensor) *Tensor
	PReLU(x, weight *Tensor) *Tensor // weight broadcast along axis 1
	Squash(x *Tensor) *Tensor        // [batch, capsules, dim], per capsule vector

	// Matrix and shape operations
	MatMul(a, b *Tensor) *Tensor // [m, k] @ [k, n]
	Transpose(x *Tensor) *Tensor // rank-2 only
	Reshape(x *Tensor, shape Shape) *Tensor
	Narrow(x *Tensor, axis, start, length int) *Tensor

	// Reductions
	Sum(x *Tensor) *Tensor             // scalar
	Mean(x *Tensor) *Tensor            // scalar
	SumDim(x *Tensor, dim int) *Tensor // removes dim

	// Row-wise operations on rank-2 tensors
	L2Normalize(x *Tensor) *Tensor
	LogSoftmax(x *Tensor) *Tensor

	// Losses (scalar results, mean over the batch unless noted)
	NLLLoss(logProbs *Tensor, labels []int) *Tensor
	CrossEntropy(logits *Tensor, labels []int) *Tensor

	// Flat indexing into row-major storage
	Take(x *Tensor, indices []int) *Tensor
	IndexAdd(x *Tensor, indices []int, delta float64) *Tensor
	IndexScale(x *Tensor, indices []int, factor float64) *Tensor

	// Pairwise distances between the rows of a [n, d] and b [m, d]
	PairwiseDistance(a, b *Tensor) *Tensor        // ‖a_i - b_j‖
	PairwiseSquaredDistance(a, b *Tensor) *Tensor // ‖a_i - b_j‖²

	// Metric-learning reductions
	TripletMargin(scores *Tensor, labels []int, margin float64, semihard bool) *Tensor
	CenterLoss(x, centers *Tensor, labels []int, alpha float64) *Tensor

	// Metadata
	Name() string
}
