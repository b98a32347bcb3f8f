// Package imageio converts between images and [batch, channels, height, width]
// tensors, and lays batches out as image grids and GIFs.
//
// Pixel values map to [0, 1] floats. One channel is grey, three are RGB.
package imageio

import (
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"math"
	"os"

	"github.com/born-ml/capsnet/internal/parallel"
	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

const (
	// MaxGridSamples caps the number of tiles in a grid.
	MaxGridSamples = 512

	// GridPadding is the gap in pixels between grid tiles.
	GridPadding = 2

	// gridMinColumns is the smallest number of tiles per grid row.
	gridMinColumns = 4

	normalizeEpsilon = 1e-6
)

// Load decodes the image at path; the format follows the extension.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	return img, errors.Wrapf(err, "failed to load image %s", path)
}

// Save encodes img to path; the format follows the extension.
func Save(img image.Image, path string) error {
	return errors.Wrapf(imaging.Save(img, path), "failed to save image %s", path)
}

// ToTensor converts img into a [1, channels, height, width] tensor, resizing
// to width×height first when both are positive. channels must be 1 (luma) or
// 3 (RGB).
func ToTensor(img image.Image, channels, width, height int) (*tensor.Tensor, error) {
	if channels != 1 && channels != 3 {
		return nil, errors.Errorf("unsupported channel count %d", channels)
	}
	size := img.Bounds().Size()
	if width > 0 && height > 0 && (size.X != width || size.Y != height) {
		img = imaging.Resize(img, width, height, imaging.Linear)
	}
	if channels == 1 {
		img = imaging.Grayscale(img)
	}
	nrgba := imaging.Clone(img)
	w, h := nrgba.Bounds().Dx(), nrgba.Bounds().Dy()

	t := tensor.Zeros(tensor.Shape{1, channels, h, w})
	data := t.Data()
	plane := h * w
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := nrgba.NRGBAAt(x, y)
			i := y*w + x
			if channels == 1 {
				data[i] = float64(px.R) / 255
				continue
			}
			data[i] = float64(px.R) / 255
			data[plane+i] = float64(px.G) / 255
			data[2*plane+i] = float64(px.B) / 255
		}
	}
	return t, nil
}

// Batch stacks images, each resized to width×height, into one
// [len(imgs), channels, height, width] tensor.
func Batch(imgs []image.Image, channels, width, height int) (*tensor.Tensor, error) {
	if len(imgs) == 0 {
		return nil, errors.New("empty image batch")
	}
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid batch size %dx%d", width, height)
	}
	out := tensor.Zeros(tensor.Shape{len(imgs), channels, height, width})
	stride := channels * height * width
	err := parallel.ForErr(len(imgs), func(i int) error {
		t, err := ToTensor(imgs[i], channels, width, height)
		if err != nil {
			return errors.WithMessagef(err, "image %d", i)
		}
		copy(out.Data()[i*stride:], t.Data())
		return nil
	}, parallel.DefaultConfig(1))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ToImage renders sample index of a [batch, channels, height, width] tensor.
// Values are clamped to [0, 1].
func ToImage(t *tensor.Tensor, index int) (*image.NRGBA, error) {
	if t.Rank() != 4 {
		return nil, errors.Errorf("expected [batch, channels, height, width], got %v", t.Shape())
	}
	b, c, h, w := t.Dim(0), t.Dim(1), t.Dim(2), t.Dim(3)
	if c != 1 && c != 3 {
		return nil, errors.Errorf("unsupported channel count %d", c)
	}
	if index < 0 || index >= b {
		return nil, errors.Errorf("sample %d out of range [0, %d)", index, b)
	}
	plane := h * w
	data := t.Data()[index*c*plane : (index+1)*c*plane]

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			r := toByte(data[i])
			g, bl := r, r
			if c == 3 {
				g, bl = toByte(data[plane+i]), toByte(data[2*plane+i])
			}
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: bl, A: 255})
		}
	}
	return img, nil
}

// Normalize01 rescales every (sample, channel) plane of a rank-4 tensor to
// [0, 1] by its own minimum and maximum.
func Normalize01(t *tensor.Tensor) (*tensor.Tensor, error) {
	if t.Rank() != 4 {
		return nil, errors.Errorf("expected [batch, channels, height, width], got %v", t.Shape())
	}
	out := t.Clone()
	data := out.Data()
	plane := t.Dim(2) * t.Dim(3)
	for start := 0; start < len(data); start += plane {
		p := data[start : start+plane]
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, v := range p {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
		for i, v := range p {
			p[i] = (v - lo) / (hi - lo + normalizeEpsilon)
		}
	}
	return out, nil
}

// GridOptions controls Grid.
type GridOptions struct {
	// Normalize rescales each plane to [0, 1] first.
	Normalize bool

	// Height resizes every tile to this height, keeping the aspect ratio.
	// Zero keeps the tensor size.
	Height int
}

// Grid lays a [batch, channels, height, width] tensor out as one image.
//
// Tensors with 1 or 3 channels give one tile per sample. Any other channel
// count shows every channel as its own grey tile. At most MaxGridSamples tiles
// are drawn, always whole samples, and rows hold max(4, √n) tiles.
func Grid(t *tensor.Tensor, opts GridOptions) (*image.NRGBA, error) {
	if t.Rank() != 4 {
		return nil, errors.Errorf("expected [batch, channels, height, width], got %v", t.Shape())
	}
	if opts.Normalize {
		var err error
		if t, err = Normalize01(t); err != nil {
			return nil, err
		}
	}
	b, c, h, w := t.Dim(0), t.Dim(1), t.Dim(2), t.Dim(3)
	perSample := 1
	if c != 1 && c != 3 {
		t = t.Reshape(b*c, 1, h, w)
		perSample = c
	}
	n := t.Dim(0)
	if n > MaxGridSamples {
		n = max(MaxGridSamples/perSample, 1) * perSample
		n = min(n, t.Dim(0))
	}

	tileW, tileH := w, h
	if opts.Height > 0 {
		tileH = opts.Height
		tileW = max(int(float64(opts.Height)*float64(w)/float64(h)), 1)
	}
	cols := min(max(gridMinColumns, int(math.Sqrt(float64(n)))), n)
	rows := (n + cols - 1) / cols

	grid := imaging.New(
		cols*(tileW+GridPadding)+GridPadding,
		rows*(tileH+GridPadding)+GridPadding,
		color.Black)
	for i := 0; i < n; i++ {
		tile, err := ToImage(t, i)
		if err != nil {
			return nil, err
		}
		var src image.Image = tile
		if tileW != w || tileH != h {
			src = imaging.Resize(tile, tileW, tileH, imaging.Linear)
		}
		x := GridPadding + (i%cols)*(tileW+GridPadding)
		y := GridPadding + (i/cols)*(tileH+GridPadding)
		grid = imaging.Paste(grid, src, image.Pt(x, y))
	}
	return grid, nil
}

// MakeGIF writes the images at paths as the frames of an animated GIF sized
// to fit the largest frame.
func MakeGIF(paths []string, path string) error {
	if len(paths) == 0 {
		return errors.New("no frames")
	}
	anim := &gif.GIF{}
	var bounds image.Rectangle
	for _, p := range paths {
		img, err := Load(p)
		if err != nil {
			return err
		}
		bounds = bounds.Union(img.Bounds())
		frame := image.NewPaletted(img.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(frame, img.Bounds(), img, img.Bounds().Min)
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 0)
	}

	anim.Config = image.Config{
		ColorModel: color.Palette(palette.Plan9),
		Width:      bounds.Max.X,
		Height:     bounds.Max.Y,
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "failed to encode %s", path)
	}
	return f.Close()
}

func toByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
