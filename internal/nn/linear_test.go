package nn

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/born-ml/capsnet/internal/autodiff"
	"github.com/born-ml/capsnet/internal/backend/cpu"
	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinear_Forward(t *testing.T) {
	layer := NewLinear(3, 2, cpu.New(), nil)
	assert.Equal(t, 3, layer.InFeatures())
	assert.Equal(t, 2, layer.OutFeatures())
	copy(layer.Weight().Tensor().Data(), []float64{1, 0, -1, 0.5, 0.5, 0.5})
	copy(layer.Bias().Tensor().Data(), []float64{0.1, -0.2})

	x := tensor.New([]float64{1, 2, 3, -1, 0, 1}, tensor.Shape{2, 3})
	y, err := layer.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2}, y.Shape())
	assert.InDeltaSlice(t, []float64{-1.9, 2.8, -1.9, -0.2}, y.Data(), 1e-12)
}

func TestLinear_XavierBounds(t *testing.T) {
	layer := NewLinear(10, 6, cpu.New(), rand.New(rand.NewPCG(1, 1)))
	bound := math.Sqrt(6.0 / 16)
	for _, v := range layer.Weight().Tensor().Data() {
		assert.LessOrEqual(t, math.Abs(v), bound)
	}
	for _, v := range layer.Bias().Tensor().Data() {
		assert.Zero(t, v)
	}
}

func TestLinear_Gradients(t *testing.T) {
	backend := autodiff.New(cpu.New())
	layer := NewLinear(2, 3, backend, nil)

	backend.Tape().StartRecording()
	x := tensor.New([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	y, err := layer.Forward(x)
	require.NoError(t, err)

	grads := autodiff.Backward(backend.Sum(y), backend)
	CollectGrads(layer.Parameters(), grads)

	// d(Σy)/db = batch size, d(Σy)/dW[j] = Σ_i x_i.
	assert.InDeltaSlice(t, []float64{2, 2, 2}, layer.Bias().Grad().Data(), 1e-12)
	assert.InDeltaSlice(t, []float64{4, 6, 4, 6, 4, 6}, layer.Weight().Grad().Data(), 1e-12)
}

func TestLinear_ShapeError(t *testing.T) {
	layer := NewLinear(3, 2, cpu.New(), nil)
	_, err := layer.Forward(tensor.Zeros(tensor.Shape{2, 4}))
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestSequential(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewPCG(3, 4))
	model := NewSequential(
		NewLinear(4, 6, backend, rng),
		NewActivation(ActivationPReLU, 6, backend, rng),
	)
	model.Add(NewLinear(6, 2, backend, rng))
	assert.Equal(t, 3, model.Len())
	assert.Len(t, model.Parameters(), 5)

	state := model.StateDict()
	assert.ElementsMatch(t, []string{"0.weight", "0.bias", "1.prelu.weight", "2.weight", "2.bias"}, keys(state))

	x := tensor.Randn(tensor.Shape{3, 4}, rng)
	want, err := model.Forward(x)
	require.NoError(t, err)

	restored := NewSequential(
		NewLinear(4, 6, backend, nil),
		NewActivation(ActivationPReLU, 6, backend, nil),
		NewLinear(6, 2, backend, nil),
	)
	require.NoError(t, restored.LoadStateDict(state))
	got, err := restored.Forward(x)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want.Data(), got.Data(), 1e-12)
}

func TestSequential_Errors(t *testing.T) {
	backend := cpu.New()
	model := NewSequential(NewLinear(4, 2, backend, nil))

	_, err := model.Forward(tensor.Zeros(tensor.Shape{1, 3}))
	assert.ErrorIs(t, err, ErrInvalidShape)
	assert.Contains(t, err.Error(), "module 0")

	err = model.LoadStateDict(map[string]*tensor.Tensor{"0.weight": tensor.Zeros(tensor.Shape{2, 4})})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	err = model.LoadStateDict(map[string]*tensor.Tensor{
		"0.weight": tensor.Zeros(tensor.Shape{4, 2}),
		"0.bias":   tensor.Zeros(tensor.Shape{2}),
	})
	assert.ErrorIs(t, err, ErrInvalidShape)

	assert.Panics(t, func() { model.Module(1) })
}

func keys(m map[string]*tensor.Tensor) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
