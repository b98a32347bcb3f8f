package main

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/born-ml/capsnet/internal/backend/cpu"
	"github.com/born-ml/capsnet/internal/imageio"
	"github.com/born-ml/capsnet/internal/nn"
	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/born-ml/capsnet/internal/visuals"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

func runAugment(args []string) error {
	defaults := nn.DefaultObfuscateConfig()
	fs := newFlagSet("augment")
	in := fs.String("in", "", "Input image")
	out := fs.String("out", "augmented.png", "Output grid image")
	gifPath := fs.String("gif", "", "Also write the copies as an animated GIF here")
	copies := fs.Int("n", 8, "Number of augmented copies")
	width := fs.Int("width", defaults.TensorSize[3], "Resize width")
	height := fs.Int("height", defaults.TensorSize[2], "Resize height")
	tile := fs.Int("tile", 0, "Grid tile height (0 = image height)")
	pDecolor := fs.Float64("p-decolor", defaults.PDecolor, "Probability of turning a copy grey")
	pObfuscate := fs.Float64("p-obfuscate", defaults.PObfuscate, "Probability of a noise window")
	maxSide := fs.Float64("max-side", defaults.MaxSideObfuscation, "Largest window side as a fraction of the image side")
	seed := fs.Uint64("seed", 1, "Random seed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("augment: -in is required")
	}
	if *copies <= 0 {
		return errors.Errorf("augment: -n must be positive, got %d", *copies)
	}

	img, err := imageio.Load(*in)
	if err != nil {
		return err
	}
	sample, err := imageio.ToTensor(img, 3, *width, *height)
	if err != nil {
		return err
	}
	batch := tensor.Zeros(tensor.Shape{*copies, 3, *height, *width})
	stride := sample.NumElements()
	for i := 0; i < *copies; i++ {
		copy(batch.Data()[i*stride:], sample.Data())
	}

	layer, err := nn.NewObfuscateDecolor(nn.ObfuscateConfig{
		TensorSize:         batch.Shape(),
		PDecolor:           *pDecolor,
		PObfuscate:         *pObfuscate,
		MaxSideObfuscation: *maxSide,
		Rand:               rand.New(rand.NewPCG(*seed, *seed+1)),
	})
	if err != nil {
		return err
	}
	augmented, err := layer.Forward(batch)
	if err != nil {
		return err
	}

	grid, err := imageio.Grid(augmented, imageio.GridOptions{Height: *tile})
	if err != nil {
		return err
	}
	if err := imageio.Save(grid, *out); err != nil {
		return err
	}
	klog.Infof("%d augmented copies written to %s", *copies, *out)

	if *gifPath != "" {
		return writeFramesGIF(augmented, *gifPath)
	}
	return nil
}

// writeFramesGIF saves every sample as a PNG next to path and joins them into
// an animated GIF.
func writeFramesGIF(batch *tensor.Tensor, path string) error {
	base := strings.TrimSuffix(path, ".gif")
	frames := make([]string, batch.Dim(0))
	for i := range frames {
		img, err := imageio.ToImage(batch, i)
		if err != nil {
			return err
		}
		frames[i] = fmt.Sprintf("%s-%03d.png", base, i)
		if err := imageio.Save(img, frames[i]); err != nil {
			return err
		}
	}
	return imageio.MakeGIF(frames, path)
}

func runActivations(args []string) error {
	fs := newFlagSet("activations")
	out := fs.String("out", "activations.png", "Output plot")
	kinds := fs.String("kinds", "relu,relu6,lklu,elu,tanh,sigm,swish", "Comma-separated activations")
	start := fs.Float64("from", -4, "Range start")
	end := fs.Float64("to", 4, "Range end")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var types []nn.ActivationType
	for _, name := range strings.Split(*kinds, ",") {
		types = append(types, nn.ParseActivation(strings.TrimSpace(name)))
	}
	p, err := visuals.Activations("activations", *start, *end, cpu.New(), types...)
	if err != nil {
		return err
	}
	return visuals.Save(p, *out)
}
