package main

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/born-ml/capsnet/internal/checkpoint"
	"github.com/born-ml/capsnet/internal/imageio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTrain(t *testing.T) {
	dir := t.TempDir()
	ckpt := filepath.Join(dir, "run.safetensors")
	args := []string{
		"-loss", "lmcl", "-epochs", "2", "-samples", "16", "-features", "4",
		"-quiet", "-checkpoint", ckpt, "-dtype", "F16",
		"-metrics", filepath.Join(dir, "meters.csv"),
		"-plots", filepath.Join(dir, "plots"),
	}
	require.NoError(t, runTrain(args))
	for _, name := range []string{"meters.csv", "plots/curves.png", "plots/weights.png", "plots/embeddings.png"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	_, meta, err := checkpoint.Load(ckpt)
	require.NoError(t, err)
	assert.Equal(t, "lmcl", meta.LossType)

	require.NoError(t, runTrain([]string{"-loss", "lmcl", "-epochs", "1", "-samples", "16", "-features", "4", "-quiet", "-resume", ckpt}))
	assert.Error(t, runTrain([]string{"-loss", "capsule", "-samples", "16", "-features", "4", "-quiet", "-resume", ckpt}))
	assert.Error(t, runTrain([]string{"-loss", "nope", "-quiet"}))
}

func TestRunAugment(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	img := image.NewNRGBA(image.Rect(0, 0, 10, 12))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	require.NoError(t, imageio.Save(img, in))

	out := filepath.Join(dir, "grid.png")
	gif := filepath.Join(dir, "anim.gif")
	require.NoError(t, runAugment([]string{"-in", in, "-out", out, "-gif", gif, "-n", "3", "-width", "10", "-height", "12"}))
	assert.FileExists(t, out)
	assert.FileExists(t, gif)
	assert.FileExists(t, filepath.Join(dir, "anim-002.png"))

	assert.Error(t, runAugment([]string{"-out", out}))
	assert.Error(t, runAugment([]string{"-in", in, "-n", "0"}))
}

func TestRunActivations(t *testing.T) {
	out := filepath.Join(t.TempDir(), "act.svg")
	require.NoError(t, runActivations([]string{"-out", out, "-kinds", "relu, tanh,prelu"}))
	assert.FileExists(t, out)
	assert.Error(t, runActivations([]string{"-out", out, "-kinds", "maxo"}))
}
