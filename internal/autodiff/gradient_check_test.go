package autodiff_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/born-ml/capsnet/internal/autodiff"
	"github.com/born-ml/capsnet/internal/backend/cpu"
	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
)

// graph builds an expression from its inputs on the given backend.
type graph func(b tensor.Backend, in []*tensor.Tensor) *tensor.Tensor

// checkGradients compares the tape's gradients with central finite differences.
// Non-scalar outputs are reduced with fixed pseudo-random weights so every
// output element contributes a distinct coefficient.
func checkGradients(t *testing.T, fn graph, inputs ...*tensor.Tensor) {
	t.Helper()

	reduce := func(b tensor.Backend, y *tensor.Tensor) *tensor.Tensor {
		w := tensor.ZerosLike(y)
		for i := range w.Data() {
			w.Data()[i] = math.Sin(float64(i) + 1)
		}
		return b.Sum(b.Mul(y, w))
	}

	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()
	grads := autodiff.Backward(reduce(backend, fn(backend, inputs)), backend)

	settings := &fd.Settings{Formula: fd.Central, Step: 1e-6}
	for k, in := range inputs {
		numeric := fd.Gradient(nil, func(v []float64) float64 {
			perturbed := append([]*tensor.Tensor(nil), inputs...)
			perturbed[k] = tensor.New(v, in.Shape())
			cpuBackend := cpu.New()
			return reduce(cpuBackend, fn(cpuBackend, perturbed)).Item()
		}, in.Data(), settings)

		grad, ok := grads[in]
		require.True(t, ok, "no gradient for input %d", k)
		assert.InDeltaSlice(t, numeric, grad.Data(), 1e-5, "input %d", k)
	}
}

func randn(rng *rand.Rand, shape ...int) *tensor.Tensor {
	return tensor.Randn(tensor.Shape(shape), rng)
}

func positive(rng *rand.Rand, shape ...int) *tensor.Tensor {
	x := tensor.Rand(tensor.Shape(shape), rng)
	for i := range x.Data() {
		x.Data()[i] += 0.5
	}
	return x
}

func TestGradients_Arithmetic(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	a, b := randn(rng, 3, 4), randn(rng, 3, 4)

	tests := []struct {
		name string
		fn   graph
		in   []*tensor.Tensor
	}{
		{"add", func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor { return be.Add(in[0], in[1]) }, []*tensor.Tensor{a, b}},
		{"sub", func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor { return be.Sub(in[0], in[1]) }, []*tensor.Tensor{a, b}},
		{"mul", func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor { return be.Mul(in[0], in[1]) }, []*tensor.Tensor{a, b}},
		{"div", func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor { return be.Div(in[0], in[1]) }, []*tensor.Tensor{a, positive(rng, 3, 4)}},
		{"maximum", func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor { return be.Maximum(in[0], in[1]) }, []*tensor.Tensor{a, b}},
		{"add_scalar", func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor { return be.AddScalar(in[0], 2.5) }, []*tensor.Tensor{a}},
		{"mul_scalar", func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor { return be.MulScalar(in[0], -1.5) }, []*tensor.Tensor{a}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkGradients(t, tt.fn, tt.in...)
		})
	}
}

func TestGradients_Elementwise(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	x := randn(rng, 2, 3, 4)
	pos := positive(rng, 2, 3, 4)

	tests := []struct {
		name string
		fn   func(be tensor.Backend, x *tensor.Tensor) *tensor.Tensor
		in   *tensor.Tensor
	}{
		{"exp", tensor.Backend.Exp, x},
		{"log", tensor.Backend.Log, pos},
		{"sqrt", tensor.Backend.Sqrt, pos},
		{"square", tensor.Backend.Square, x},
		{"clamp", func(be tensor.Backend, x *tensor.Tensor) *tensor.Tensor { return be.Clamp(x, -0.5, 0.5) }, x},
		{"relu", tensor.Backend.ReLU, x},
		{"relu6", func(be tensor.Backend, x *tensor.Tensor) *tensor.Tensor { return be.ReLU6(be.MulScalar(x, 5)) }, x},
		{"leaky_relu", func(be tensor.Backend, x *tensor.Tensor) *tensor.Tensor { return be.LeakyReLU(x, 0.01) }, x},
		{"elu", func(be tensor.Backend, x *tensor.Tensor) *tensor.Tensor { return be.ELU(x, 1) }, x},
		{"tanh", tensor.Backend.Tanh, x},
		{"sigmoid", tensor.Backend.Sigmoid, x},
		{"silu", tensor.Backend.SiLU, x},
		{"squash", tensor.Backend.Squash, x},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkGradients(t, func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor {
				return tt.fn(be, in[0])
			}, tt.in)
		})
	}
}

func TestGradients_PReLU(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	x := randn(rng, 2, 3, 2)
	weight := positive(rng, 3)
	checkGradients(t, func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor {
		return be.PReLU(in[0], in[1])
	}, x, weight)
}

func TestGradients_MatrixAndShape(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	a, b := randn(rng, 3, 4), randn(rng, 4, 2)
	x := randn(rng, 2, 4, 3)

	tests := []struct {
		name string
		fn   graph
		in   []*tensor.Tensor
	}{
		{"matmul", func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor { return be.MatMul(in[0], in[1]) }, []*tensor.Tensor{a, b}},
		{"transpose", func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor { return be.Transpose(in[0]) }, []*tensor.Tensor{a}},
		{"reshape", func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor {
			return be.Reshape(in[0], tensor.Shape{6, 4})
		}, []*tensor.Tensor{x}},
		{"narrow", func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor { return be.Narrow(in[0], 1, 1, 2) }, []*tensor.Tensor{x}},
		{"sum", func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor { return be.MulScalar(be.Sum(in[0]), 0.3) }, []*tensor.Tensor{x}},
		{"mean", func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor { return be.MulScalar(be.Mean(in[0]), 0.7) }, []*tensor.Tensor{x}},
		{"sum_dim", func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor { return be.SumDim(in[0], 1) }, []*tensor.Tensor{x}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkGradients(t, tt.fn, tt.in...)
		})
	}
}

func TestGradients_RowwiseAndLosses(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))
	x := randn(rng, 4, 5)
	labels := []int{0, 3, 4, 3}

	tests := []struct {
		name string
		fn   graph
	}{
		{"l2normalize", func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor { return be.L2Normalize(in[0]) }},
		{"log_softmax", func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor { return be.LogSoftmax(in[0]) }},
		{"nll", func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor {
			return be.NLLLoss(be.LogSoftmax(in[0]), labels)
		}},
		{"cross_entropy", func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor { return be.CrossEntropy(in[0], labels) }},
		{"take", func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor { return be.Take(in[0], []int{0, 8, 8, 19}) }},
		{"index_add", func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor {
			return be.IndexAdd(in[0], []int{1, 7}, -0.35)
		}},
		{"index_scale", func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor {
			return be.IndexScale(in[0], []int{2, 9, 13}, 1.01)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkGradients(t, tt.fn, x)
		})
	}
}

func TestGradients_PairwiseDistances(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	a, b := randn(rng, 4, 3), randn(rng, 5, 3)

	checkGradients(t, func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor {
		return be.PairwiseDistance(in[0], in[1])
	}, a, b)
	checkGradients(t, func(be tensor.Backend, in []*tensor.Tensor) *tensor.Tensor {
		return be.PairwiseSquaredDistance(in[0], in[1])
	}, a, b)
}

func TestGradients_PairwiseDistanceSkipsZeroPairs(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a := tensor.New([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	loss := backend.Sum(backend.PairwiseDistance(a, a))
	grads := autodiff.Backward(loss, backend)

	for _, v := range grads[a].Data() {
		assert.False(t, math.IsNaN(v), "zero-distance diagonal must not produce NaN")
	}
}
