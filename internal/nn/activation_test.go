package nn

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/born-ml/capsnet/internal/backend/cpu"
	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActivation(t *testing.T) {
	tests := []struct {
		name string
		want ActivationType
	}{
		{"relu", ActivationReLU},
		{"ReLU6", ActivationReLU6},
		{"lklu", ActivationLeakyReLU},
		{"leaky-relu", ActivationLeakyReLU},
		{"elu", ActivationELU},
		{"prelu", ActivationPReLU},
		{"tanh", ActivationTanh},
		{"sigm", ActivationSigmoid},
		{"sigmoid", ActivationSigmoid},
		{"maxo", ActivationMaxout},
		{"relu-then-maxout", ActivationReLUMaxout},
		{"swish", ActivationSwish},
		{"squash", ActivationSquash},
		{"", ActivationNone},
		{"gelu", ActivationNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseActivation(tt.name))
		})
	}
}

func TestActivation_UnknownNameIsIdentity(t *testing.T) {
	backend := cpu.New()
	act := NewActivation(ParseActivation("softplus"), 0, backend, nil)
	x := tensor.New([]float64{-1, 2}, tensor.Shape{1, 2})

	y, err := act.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 2}, y.Data())
	assert.Nil(t, act.Parameters())
}

func TestActivation_Elementwise(t *testing.T) {
	backend := cpu.New()
	in := []float64{-2, 0.5, 7}
	sigmoid := func(v float64) float64 { return 1 / (1 + math.Exp(-v)) }

	tests := []struct {
		kind ActivationType
		want func(float64) float64
	}{
		{ActivationReLU, func(v float64) float64 { return math.Max(v, 0) }},
		{ActivationReLU6, func(v float64) float64 { return math.Min(math.Max(v, 0), 6) }},
		{ActivationLeakyReLU, func(v float64) float64 {
			if v < 0 {
				return LeakyReLUSlope * v
			}
			return v
		}},
		{ActivationELU, func(v float64) float64 {
			if v < 0 {
				return ELUAlpha * (math.Exp(v) - 1)
			}
			return v
		}},
		{ActivationTanh, math.Tanh},
		{ActivationSigmoid, sigmoid},
		{ActivationSwish, func(v float64) float64 { return v * sigmoid(v) }},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			act := NewActivation(tt.kind, 0, backend, nil)
			y, err := act.Forward(tensor.New(append([]float64(nil), in...), tensor.Shape{1, 3}))
			require.NoError(t, err)
			for i, v := range in {
				assert.InDelta(t, tt.want(v), y.Data()[i], 1e-12, "input %g", v)
			}
		})
	}
}

func TestActivation_PReLU(t *testing.T) {
	backend := cpu.New()
	act := NewActivation(ActivationPReLU, 2, backend, rand.New(rand.NewPCG(1, 2)))
	require.Len(t, act.Parameters(), 1)
	copy(act.Parameters()[0].Tensor().Data(), []float64{0.1, 0.5})

	x := tensor.New([]float64{-1, 2, -4, 3}, tensor.Shape{1, 2, 2})
	y, err := act.Forward(x)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-0.1, 2, -2, 3}, y.Data(), 1e-12)

	_, err = act.Forward(tensor.Zeros(tensor.Shape{1, 3}))
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestMaxout(t *testing.T) {
	backend := cpu.New()

	y, err := Maxout(tensor.New([]float64{1, 5, 3, 2}, tensor.Shape{1, 4}), backend)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 2}, y.Shape())
	assert.Equal(t, []float64{3, 5}, y.Data())

	act := NewActivation(ActivationReLUMaxout, 0, backend, nil)
	y, err = act.Forward(tensor.New([]float64{-1, -5, -3, 2}, tensor.Shape{1, 4}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2}, y.Data())
}

func TestMaxout_OddChannels(t *testing.T) {
	backend := cpu.New()
	_, err := Maxout(tensor.Zeros(tensor.Shape{2, 3}), backend)
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = Maxout(tensor.Zeros(tensor.Shape{4}), backend)
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestSquash(t *testing.T) {
	backend := cpu.New()

	t.Run("zero vector stays zero", func(t *testing.T) {
		y, err := Squash(tensor.Zeros(tensor.Shape{1, 2, 3}), backend)
		require.NoError(t, err)
		for _, v := range y.Data() {
			assert.Zero(t, v)
		}
	})

	t.Run("long vector approaches unit length", func(t *testing.T) {
		y, err := Squash(tensor.New([]float64{1e4, 0, 0}, tensor.Shape{1, 1, 3}), backend)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, y.Data()[0], 1e-6)
	})

	t.Run("keeps direction", func(t *testing.T) {
		y, err := Squash(tensor.New([]float64{3, 4}, tensor.Shape{1, 1, 2}), backend)
		require.NoError(t, err)
		assert.InDelta(t, 25.0/26*3/5, y.Data()[0], 1e-6)
		assert.InDelta(t, 25.0/26*4/5, y.Data()[1], 1e-6)
	})

	t.Run("rejects other ranks", func(t *testing.T) {
		_, err := Squash(tensor.Zeros(tensor.Shape{2, 3}), backend)
		assert.ErrorIs(t, err, ErrInvalidShape)
	})
}

func TestActivation_NotImplemented(t *testing.T) {
	act := &Activation{kind: ActivationType(99), backend: cpu.New()}
	_, err := act.Forward(tensor.Zeros(tensor.Shape{1, 2}))
	assert.ErrorIs(t, err, ErrNotImplemented)
}
