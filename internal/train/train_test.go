package train

import (
	"context"
	"io"
	"math"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"

	"github.com/born-ml/capsnet/internal/checkpoint"
	"github.com/born-ml/capsnet/internal/meters"
	"github.com/born-ml/capsnet/internal/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clusters(t *testing.T) *Dataset {
	t.Helper()
	d, err := Gaussian(4, 24, 6, 0.3, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	return d
}

func testConfig(loss string) Config {
	cfg := DefaultConfig()
	cfg.Loss = loss
	cfg.Epochs = 2
	cfg.BatchSize = 16
	return cfg
}

func TestGaussian(t *testing.T) {
	d := clusters(t)
	assert.Equal(t, 96, d.Len())
	assert.Equal(t, 6, d.NumFeatures())
	assert.Equal(t, 4, d.NLabels)
	assert.Equal(t, []int{0, 1, 2, 3, 0}, d.Labels[:5])

	_, err := Gaussian(0, 1, 1, 1, nil)
	assert.Error(t, err)
}

func TestLoadCSV(t *testing.T) {
	d, err := LoadCSV(strings.NewReader("a,label,b\n1.5,0,2\n3,2,4\n"), "label")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, d.Labels)
	assert.Equal(t, 3, d.NLabels)
	assert.Equal(t, []float64{1.5, 2, 3, 4}, d.Features.Data())

	_, err = LoadCSV(strings.NewReader("a,b\n1,2\n"), "label")
	assert.Error(t, err)
	_, err = LoadCSV(strings.NewReader("a,label\n1,-1\n"), "label")
	assert.Error(t, err)
}

func TestSplitAndBatches(t *testing.T) {
	d := clusters(t)
	train, val := d.Split(0.25)
	assert.Equal(t, 72, train.Len())
	assert.Equal(t, 24, val.Len())
	assert.Equal(t, d.Features.Row(72), val.Features.Row(0))

	batches := train.Batches(32, nil)
	require.Len(t, batches, 3)
	assert.Len(t, batches[2], 8)
	assert.Equal(t, 0, batches[0][0])

	shuffled := train.Batches(32, rand.New(rand.NewPCG(3, 4)))
	seen := make(map[int]bool)
	for _, b := range shuffled {
		for _, i := range b {
			seen[i] = true
		}
	}
	assert.Len(t, seen, 72)

	x, labels := d.Batch([]int{5, 1})
	assert.Equal(t, d.Features.Row(5), x.Row(0))
	assert.Equal(t, []int{1, 1}, labels)
}

func TestTrainerStepAllLosses(t *testing.T) {
	d := clusters(t)
	x, labels := d.Batch([]int{0, 1, 2, 3, 4, 5, 6, 7})
	for _, loss := range []string{"entr", "smax", "tsmax", "lmcl", "lmgm", LossCapsule, LossTriplet} {
		t.Run(loss, func(t *testing.T) {
			cfg := testConfig(loss)
			cfg.Center = loss == "smax"
			trainer, err := New(cfg, d.NumFeatures(), d.NLabels)
			require.NoError(t, err)

			value, acc, err := trainer.Step(x, labels)
			require.NoError(t, err)
			assert.False(t, math.IsNaN(value) || math.IsInf(value, 0))
			assert.GreaterOrEqual(t, acc.Top5, acc.Top1)
			assert.Equal(t, 1, trainer.Steps())
		})
	}
}

func TestTrainerAdam(t *testing.T) {
	d := clusters(t)
	cfg := testConfig("smax")
	cfg.Optimizer = OptimizerAdam
	cfg.LR = 0.01
	trainer, err := New(cfg, d.NumFeatures(), d.NLabels)
	require.NoError(t, err)
	x, labels := d.Batch([]int{0, 1, 2, 3})
	_, _, err = trainer.Step(x, labels)
	require.NoError(t, err)
}

func TestTrainerFitReducesLoss(t *testing.T) {
	d := clusters(t)
	cfg := testConfig("smax")
	cfg.Epochs = 6
	trainer, err := New(cfg, d.NumFeatures(), d.NLabels)
	require.NoError(t, err)

	train, val := d.Split(0.25)
	require.NoError(t, trainer.Fit(context.Background(), train, val, io.Discard))
	// 72 training samples in batches of 16: 5 steps per epoch.
	assert.Equal(t, 6*5, trainer.Meters().Len())

	means, err := trainer.Meters().EpochMeans()
	require.NoError(t, err)
	loss := means.Col(meters.MeanCol(meters.ColLoss)).Float()
	assert.Less(t, loss[len(loss)-1], loss[0])

	valLoss, acc, err := trainer.Evaluate(val)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(valLoss))
	assert.GreaterOrEqual(t, acc.Top1, 0.0)

	summary, err := Summary(trainer.Meters())
	require.NoError(t, err)
	assert.Contains(t, summary, "Epoch")
	assert.Contains(t, summary, "Top-5 %")
}

func TestTrainerFitCancelled(t *testing.T) {
	d := clusters(t)
	trainer, err := New(testConfig("smax"), d.NumFeatures(), d.NLabels)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, trainer.Fit(ctx, d, nil, nil), context.Canceled)
	assert.Zero(t, trainer.Steps())
}

func TestTrainerCheckpoint(t *testing.T) {
	d := clusters(t)
	cfg := testConfig("lmgm")
	cfg.Center = true
	trainer, err := New(cfg, d.NumFeatures(), d.NLabels)
	require.NoError(t, err)
	require.NoError(t, trainer.Fit(context.Background(), d, nil, nil))

	path := filepath.Join(t.TempDir(), "run.safetensors")
	require.NoError(t, trainer.SaveCheckpoint(path, checkpoint.F64))

	keys := make([]string, 0)
	for k := range trainer.StateDict() {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{
		"model.0.weight", "model.0.bias", "model.2.weight", "model.2.bias",
		"loss.categorical.weight", "loss.categorical.centers",
	}, keys)

	cfg.Seed = 99
	restored, err := New(cfg, d.NumFeatures(), d.NLabels)
	require.NoError(t, err)
	require.NoError(t, restored.LoadCheckpoint(path))
	assert.Equal(t, trainer.Steps(), restored.Steps())

	x, _ := d.Batch([]int{0, 1, 2})
	want, err := trainer.Embed(x)
	require.NoError(t, err)
	got, err := restored.Embed(x)
	require.NoError(t, err)
	assert.Equal(t, want.Data(), got.Data())

	other, err := New(testConfig("smax"), d.NumFeatures(), d.NLabels)
	require.NoError(t, err)
	assert.ErrorIs(t, other.LoadCheckpoint(path), nn.ErrInvalidConfig)
}

func TestNewInvalidConfig(t *testing.T) {
	cases := map[string]func(*Config){
		"loss":      func(c *Config) { c.Loss = "nope" },
		"measure":   func(c *Config) { c.Measure = "nope" },
		"optimizer": func(c *Config) { c.Optimizer = "nope" },
		"selection": func(c *Config) { c.Loss, c.Selection = LossTriplet, "nope" },
		"capsule":   func(c *Config) { c.Loss, c.CapsuleDim = LossCapsule, 0 },
		"embedding": func(c *Config) { c.Embedding = 0 },
		"batch":     func(c *Config) { c.BatchSize = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig("smax")
			mutate(&cfg)
			_, err := New(cfg, 6, 4)
			assert.ErrorIs(t, err, nn.ErrInvalidConfig)
		})
	}
	_, err := New(testConfig("smax"), 6, 0)
	assert.ErrorIs(t, err, nn.ErrInvalidConfig)
}

func TestDescribe(t *testing.T) {
	trainer, err := New(testConfig("smax"), 6, 4)
	require.NoError(t, err)
	// 6·32+32 + 32·8+8 backbone, 4·8 loss.
	assert.Equal(t, "backbone 488 + loss 32 parameters (4.2 kB)", trainer.Describe())
}
