package visuals

import (
	"bytes"
	"image/png"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/born-ml/capsnet/internal/backend/cpu"
	"github.com/born-ml/capsnet/internal/meters"
	"github.com/born-ml/capsnet/internal/nn"
	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testState() map[string]*tensor.Tensor {
	rng := rand.New(rand.NewPCG(3, 5))
	return map[string]*tensor.Tensor{
		"0.weight":             tensor.Randn(tensor.Shape{8, 4}, rng),
		"0.bias":               tensor.Zeros(tensor.Shape{8}),
		"1.prelu.weight":       tensor.Full(tensor.Shape{8}, 0.25),
		"2.norm.weight":        tensor.Ones(tensor.Shape{8}),
		"categorical.weight":   tensor.Randn(tensor.Shape{3, 8}, rng),
		"categorical.centers":  tensor.Randn(tensor.Shape{3, 8}, rng),
		"weight_bias_combined": tensor.Ones(tensor.Shape{2}),
	}
}

func TestHistogramNames(t *testing.T) {
	assert.Equal(t,
		[]string{"0.weight", "1.prelu.weight", "categorical.weight"},
		HistogramNames(testState()))
}

func TestWeightHistograms(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WeightHistograms(&buf, testState(), 2))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Greater(t, bounds.Dx(), 0)
	assert.Greater(t, bounds.Dy(), bounds.Dx()/2, "two rows of two tiles")

	err = WeightHistograms(&buf, map[string]*tensor.Tensor{"bias": tensor.Zeros(tensor.Shape{2})}, 2)
	assert.Error(t, err)
}

func TestEmbeddings(t *testing.T) {
	e := tensor.New([]float64{0, 0, 1, 1, 5, 5, 6, 6}, tensor.Shape{4, 2})
	p, err := Embeddings("clusters", e, []int{1, 1, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, "clusters", p.Title.Text)

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, p))
	_, err = png.Decode(&buf)
	require.NoError(t, err)

	_, err = Embeddings("bad", tensor.Zeros(tensor.Shape{4, 1}), []int{0, 0, 0, 0})
	assert.ErrorIs(t, err, nn.ErrInvalidShape)
	_, err = Embeddings("bad", e, []int{0})
	assert.ErrorIs(t, err, nn.ErrInvalidLabel)
}

func TestActivations(t *testing.T) {
	backend := cpu.New()
	p, err := Activations("activations", -3, 3, backend,
		nn.ActivationReLU, nn.ActivationTanh, nn.ActivationSwish, nn.ActivationPReLU)
	require.NoError(t, err)
	assert.Equal(t, -3.0, p.X.Min)
	assert.Equal(t, 3.0, p.X.Max)

	_, err = Activations("bad", -3, 3, backend, nn.ActivationSquash)
	assert.Error(t, err)
	_, err = Activations("bad", 1, 1, backend, nn.ActivationReLU)
	assert.Error(t, err)
}

func TestCurves(t *testing.T) {
	m := &meters.Meters{}
	m.Add(0, 0, 4, 2.0, 25, 50)
	m.Add(0, 1, 4, 1.0, 50, 100)

	p, err := Curves("training", m, meters.ColLoss, meters.ColTop1)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "curves.svg")
	require.NoError(t, Save(p, path))
	assert.FileExists(t, path)

	_, err = Curves("training", m, "nope")
	assert.Error(t, err)
	_, err = Curves("training", &meters.Meters{}, meters.ColLoss)
	assert.Error(t, err)
}
