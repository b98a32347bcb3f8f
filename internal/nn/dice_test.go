package nn

import (
	"testing"

	"github.com/born-ml/capsnet/internal/autodiff"
	"github.com/born-ml/capsnet/internal/backend/cpu"
	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiceLoss_PerfectOverlap(t *testing.T) {
	for _, kind := range DiceTypeValues() {
		t.Run(kind.String(), func(t *testing.T) {
			loss, err := NewDiceLoss(kind, cpu.New())
			require.NoError(t, err)

			prediction := tensor.Ones(tensor.Shape{2, 1, 2, 2})
			targets := tensor.Ones(tensor.Shape{2, 2, 2})
			value, acc, err := loss.Forward(prediction, targets)
			require.NoError(t, err)
			assert.InDelta(t, 0, value.Item(), 1e-6)
			assert.Equal(t, Accuracy{}, acc)
		})
	}
}

func TestDiceLoss_TwoChannels(t *testing.T) {
	loss, err := NewDiceLoss(DiceTypeDice, cpu.New())
	require.NoError(t, err)

	// Foreground channel equals the mask, background its complement.
	prediction := tensor.New([]float64{
		1, 0, 1, 0,
		0, 1, 0, 1,
	}, tensor.Shape{1, 2, 2, 2})
	targets := tensor.New([]float64{1, 0, 1, 0}, tensor.Shape{1, 1, 2, 2})

	value, _, err := loss.Forward(prediction, targets)
	require.NoError(t, err)
	assert.InDelta(t, 0, value.Item(), 1e-6)
}

func TestDiceLoss_Beta(t *testing.T) {
	// p = 0.5 everywhere, g = [1, 1, 0, 0]: TP = 1, FP = 1, FN = 1.
	prediction := tensor.Full(tensor.Shape{1, 1, 2, 2}, 0.5)
	targets := tensor.New([]float64{1, 1, 0, 0}, tensor.Shape{1, 2, 2})

	tests := []struct {
		kind DiceType
		beta float64
		want float64
	}{
		{DiceTypeDice, 1, 1 - 2.0/4},
		{DiceTypeTversky, 2, 1 - 5.0/11},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			loss, err := NewDiceLoss(tt.kind, cpu.New())
			require.NoError(t, err)
			assert.Equal(t, tt.beta, tt.kind.Beta())

			value, _, err := loss.Forward(prediction, targets)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, value.Item(), 1e-6)
		})
	}
}

func TestDiceLoss_Gradients(t *testing.T) {
	backend := autodiff.New(cpu.New())
	loss, err := NewDiceLoss(DiceTypeTversky, backend)
	require.NoError(t, err)

	backend.Tape().StartRecording()
	prediction := tensor.Full(tensor.Shape{1, 1, 1, 2}, 0.5)
	targets := tensor.New([]float64{1, 0}, tensor.Shape{1, 1, 2})
	value, _, err := loss.Forward(prediction, targets)
	require.NoError(t, err)

	grads := autodiff.Backward(value, backend)
	require.Contains(t, grads, prediction)
	g := grads[prediction].Data()
	assert.Negative(t, g[0], "raising the foreground pixel lowers the loss")
	assert.Positive(t, g[1], "raising the background pixel raises the loss")
}

func TestDiceLoss_Errors(t *testing.T) {
	_, err := NewDiceLoss(DiceType(3), cpu.New())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	loss, err := NewDiceLoss(DiceTypeDice, cpu.New())
	require.NoError(t, err)

	_, _, err = loss.Forward(tensor.Zeros(tensor.Shape{1, 3, 2, 2}), tensor.Zeros(tensor.Shape{1, 2, 2}))
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, _, err = loss.Forward(tensor.Zeros(tensor.Shape{1, 4}), tensor.Zeros(tensor.Shape{1, 4}))
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, _, err = loss.Forward(tensor.Zeros(tensor.Shape{1, 1, 2, 2}), tensor.Zeros(tensor.Shape{1, 3, 3}))
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, _, err = loss.Forward(tensor.Zeros(tensor.Shape{0, 1, 2, 2}), tensor.Zeros(tensor.Shape{0, 2, 2}))
	assert.ErrorIs(t, err, ErrInvalidShape)
}
