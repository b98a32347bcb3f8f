package nn

import (
	"math/rand/v2"

	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/pkg/errors"
)

// Table sizes of the precomputed random decisions. They are pairwise
// different so the decolor, obfuscate and window cycles drift apart.
const (
	decolorTableSize   = 600
	obfuscateTableSize = 601
	heightTableSize    = 646
	widthTableSize     = 601
)

// greyCode holds the Rec. 709 luma weights for R, G and B.
var greyCode = [3]float64{0.2126, 0.7152, 0.0722}

// ObfuscateConfig holds configuration for ObfuscateDecolor.
type ObfuscateConfig struct {
	TensorSize         []int   // [batch, channels, height, width]; windows are drawn for height and width
	PDecolor           float64 // probability that an RGB sample is turned grey
	PObfuscate         float64 // probability that a sample gets a noise window
	MaxSideObfuscation float64 // largest window side as a fraction of the image side
	Rand               *rand.Rand
}

// DefaultObfuscateConfig returns the standard augmentation settings for
// 60×40 RGB crops.
func DefaultObfuscateConfig() ObfuscateConfig {
	return ObfuscateConfig{
		TensorSize:         []int{1, 3, 60, 40},
		PDecolor:           0.3,
		PObfuscate:         0.3,
		MaxSideObfuscation: 0.2,
	}
}

type window struct{ start, end int }

// ObfuscateDecolor is a non-trainable augmentation layer. It randomly turns
// RGB samples grey and overwrites a random window of a sample with uniform
// noise.
//
// All random decisions are drawn once at construction and replayed
// cyclically, so consecutive calls keep advancing through the same tables.
// The noise field is redrawn on every call and shared by the whole batch.
// Forward never records on a tape: it works on, and returns, a copy.
type ObfuscateDecolor struct {
	decolor   []bool
	obfuscate []bool
	heights   []window
	widths    []window

	nDecolor, nObfuscate, nHeight, nWidth int

	rng *rand.Rand
}

// NewObfuscateDecolor precomputes the random tables for the configured size.
func NewObfuscateDecolor(config ObfuscateConfig) (*ObfuscateDecolor, error) {
	if len(config.TensorSize) != 4 {
		return nil, errors.Wrapf(ErrInvalidConfig, "obfuscate: tensor size must be [batch, channels, height, width], got %v", config.TensorSize)
	}
	height, width := config.TensorSize[2], config.TensorSize[3]
	if height < 1 || width < 1 {
		return nil, errors.Wrapf(ErrInvalidConfig, "obfuscate: non-positive image size %dx%d", height, width)
	}
	if config.MaxSideObfuscation <= 0 || config.MaxSideObfuscation > 1 {
		return nil, errors.Wrapf(ErrInvalidConfig, "obfuscate: max side fraction %g is outside (0, 1]", config.MaxSideObfuscation)
	}
	rng := config.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	o := &ObfuscateDecolor{
		decolor:   bernoulli(rng, decolorTableSize, config.PDecolor),
		obfuscate: bernoulli(rng, obfuscateTableSize, config.PObfuscate),
		heights:   windows(rng, heightTableSize, height, config.MaxSideObfuscation),
		widths:    windows(rng, widthTableSize, width, config.MaxSideObfuscation),
		rng:       rng,
	}
	return o, nil
}

func bernoulli(rng *rand.Rand, n int, p float64) []bool {
	flags := make([]bool, n)
	for i := range flags {
		flags[i] = rng.Float64() < p
	}
	return flags
}

// windows draws n half-open intervals [start, end) on a side of the given
// size. start is uniform in [0, span] and end in [start+1, min(side,
// start+span)], where span = ⌊side·fraction⌋. Windows are at least one pixel.
func windows(rng *rand.Rand, n, side int, fraction float64) []window {
	span := int(float64(side) * fraction)
	ws := make([]window, n)
	for i := range ws {
		start := min(rng.IntN(span+1), side-1)
		hi := max(min(side, start+span), start+1)
		ws[i] = window{start: start, end: start + 1 + rng.IntN(hi-start)}
	}
	return ws
}

// Forward augments a [batch, channels, height, width] tensor and returns the
// augmented copy. Windows larger than the input are clipped to it.
func (o *ObfuscateDecolor) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if input.Rank() != 4 {
		return nil, errors.Wrapf(ErrInvalidShape, "obfuscate: expected [batch, channels, height, width], got %v", input.Shape())
	}
	out := input.Clone()
	batch, channels, height, width := out.Dim(0), out.Dim(1), out.Dim(2), out.Dim(3)
	plane := height * width
	sample := channels * plane
	data := out.Data()

	if channels == 3 {
		for i := 0; i < batch; i++ {
			if o.nDecolor == len(o.decolor) {
				o.nDecolor = 0
			}
			if o.decolor[o.nDecolor] {
				toGrey(data[i*sample:(i+1)*sample], plane)
			}
			o.nDecolor++
		}
	}

	noise := tensor.Rand(tensor.Shape{channels, height, width}, o.rng).Data()
	for i := 0; i < batch; i++ {
		if o.nObfuscate == len(o.obfuscate) {
			o.nObfuscate = 0
		}
		if o.obfuscate[o.nObfuscate] {
			if o.nHeight == len(o.heights) {
				o.nHeight = 0
			}
			if o.nWidth == len(o.widths) {
				o.nWidth = 0
			}
			h, w := o.heights[o.nHeight], o.widths[o.nWidth]
			x0, x1 := min(w.start, width), min(w.end, width)
			dst := data[i*sample : (i+1)*sample]
			for c := 0; c < channels; c++ {
				for y := h.start; y < min(h.end, height); y++ {
					row := c*plane + y*width
					copy(dst[row+x0:row+x1], noise[row+x0:row+x1])
				}
			}
			o.nHeight++
			o.nWidth++
		}
		o.nObfuscate++
	}
	return out, nil
}

// toGrey replaces the three planes of an RGB sample with its luma.
func toGrey(sample []float64, plane int) {
	r, g, b := sample[:plane], sample[plane:2*plane], sample[2*plane:]
	for p := 0; p < plane; p++ {
		y := greyCode[0]*r[p] + greyCode[1]*g[p] + greyCode[2]*b[p]
		r[p], g[p], b[p] = y, y, y
	}
}

// Parameters returns nil; the layer is not trainable.
func (o *ObfuscateDecolor) Parameters() []*Parameter {
	return nil
}
