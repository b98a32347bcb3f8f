package imageio

import (
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 0, B: 51, A: 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{R: 0, G: 255, B: 102, A: 255})
			}
		}
	}
	return img
}

func TestToTensorRoundTrip(t *testing.T) {
	img := checker(4, 3)
	x, err := ToTensor(img, 3, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 3, 3, 4}, x.Shape())
	assert.Equal(t, 1.0, x.At(0, 0, 0, 0))
	assert.Equal(t, 0.0, x.At(0, 1, 0, 0))
	assert.InDelta(t, 0.2, x.At(0, 2, 0, 0), 1e-12)
	assert.InDelta(t, 0.4, x.At(0, 2, 0, 1), 1e-12)

	back, err := ToImage(x, 0)
	require.NoError(t, err)
	assert.Equal(t, img.Pix, back.Pix)
}

func TestToTensorResizeAndGrey(t *testing.T) {
	x, err := ToTensor(checker(8, 8), 1, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 1, 2, 4}, x.Shape())
	for _, v := range x.Data() {
		assert.True(t, v >= 0 && v <= 1)
	}

	_, err = ToTensor(checker(2, 2), 2, 0, 0)
	assert.Error(t, err)
}

func TestBatch(t *testing.T) {
	x, err := Batch([]image.Image{checker(4, 4), checker(6, 2)}, 3, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3, 4, 4}, x.Shape())

	_, err = Batch(nil, 3, 4, 4)
	assert.Error(t, err)
	_, err = Batch([]image.Image{checker(4, 4)}, 3, 0, 4)
	assert.Error(t, err)
}

func TestToImageClampsAndValidates(t *testing.T) {
	x := tensor.New([]float64{-1, 0.5, 2, 1}, tensor.Shape{1, 1, 2, 2})
	img, err := ToImage(x, 0)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0, G: 0, B: 0, A: 255}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 128, G: 128, B: 128, A: 255}, img.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, img.NRGBAAt(0, 1))

	_, err = ToImage(x, 1)
	assert.Error(t, err)
	_, err = ToImage(tensor.Zeros(tensor.Shape{1, 2, 2, 2}), 0)
	assert.Error(t, err)
	_, err = ToImage(tensor.Zeros(tensor.Shape{2, 2}), 0)
	assert.Error(t, err)
}

func TestNormalize01(t *testing.T) {
	x := tensor.New([]float64{2, 4, 6, 10, -1, -1, -1, -1}, tensor.Shape{1, 2, 2, 2})
	n, err := Normalize01(x)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 1}, n.Data()[:4], 1e-6)
	assert.Equal(t, []float64{0, 0, 0, 0}, n.Data()[4:])
	assert.Equal(t, 2.0, x.Data()[0], "input untouched")
}

func TestGrid(t *testing.T) {
	// 2 samples of 5 channels become 10 grey tiles, 4 per row.
	x := tensor.Rand(tensor.Shape{2, 5, 3, 3}, nil)
	img, err := Grid(x, GridOptions{Normalize: true})
	require.NoError(t, err)
	assert.Equal(t, 4*(3+GridPadding)+GridPadding, img.Bounds().Dx())
	assert.Equal(t, 3*(3+GridPadding)+GridPadding, img.Bounds().Dy())

	// Fewer tiles than the minimum row width shrink the row.
	img, err = Grid(tensor.Zeros(tensor.Shape{2, 3, 4, 8}), GridOptions{Height: 2})
	require.NoError(t, err)
	assert.Equal(t, 2*(4+GridPadding)+GridPadding, img.Bounds().Dx())
	assert.Equal(t, 2+2*GridPadding, img.Bounds().Dy())

	_, err = Grid(tensor.Zeros(tensor.Shape{3, 3}), GridOptions{})
	assert.Error(t, err)
}

func TestGridCapsSamples(t *testing.T) {
	x := tensor.Zeros(tensor.Shape{MaxGridSamples + 10, 1, 1, 1})
	img, err := Grid(x, GridOptions{})
	require.NoError(t, err)
	// 512 tiles at 22 per row.
	assert.Equal(t, 22*(1+GridPadding)+GridPadding, img.Bounds().Dx())
	assert.Equal(t, 24*(1+GridPadding)+GridPadding, img.Bounds().Dy())
}

func TestSaveLoadAndGIF(t *testing.T) {
	dir := t.TempDir()
	var frames []string
	for i := 0; i < 3; i++ {
		p := filepath.Join(dir, "frame"+string(rune('a'+i))+".png")
		require.NoError(t, Save(checker(4+i, 4), p))
		frames = append(frames, p)
	}
	img, err := Load(frames[0])
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())

	out := filepath.Join(dir, "anim.gif")
	require.NoError(t, MakeGIF(frames, out))
	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, anim.Image, 3)

	assert.Error(t, MakeGIF(nil, out))
	_, err = Load(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}
