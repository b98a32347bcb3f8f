package train

import (
	"math/rand/v2"

	"github.com/born-ml/capsnet/internal/nn"
	"github.com/born-ml/capsnet/internal/optim"
	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/pkg/errors"
)

// Loss names beyond the categorical nn.LossType values.
const (
	LossCapsule = "capsule"
	LossTriplet = "triplet"
)

// Optimizer names.
const (
	OptimizerSGD  = "sgd"
	OptimizerAdam = "adam"
)

// Config describes a training run: the backbone, the loss on top of it and
// the optimizer.
type Config struct {
	// Loss is a categorical loss type (entr, smax, tsmax, lmcl, lmgm),
	// LossCapsule or LossTriplet.
	Loss     string
	Measure  string // dot or cosine, categorical losses only
	Center   bool
	Defaults bool
	Scale    float64
	Margin   float64 // lmcl margin, or the triplet margin
	Alpha    float64

	Selection string // hardest or semihard, triplet only

	Activation string
	Hidden     int
	Embedding  int // output width of the backbone
	CapsuleDim int // capsule length; the backbone then outputs NLabels capsules

	Optimizer string
	LR        float64
	Momentum  float64

	Epochs    int
	BatchSize int
	Seed      uint64
}

// DefaultConfig returns a small lmcl run trained with SGD.
func DefaultConfig() Config {
	return Config{
		Loss:       nn.LossLMCL.String(),
		Measure:    nn.MeasureCosine.String(),
		Selection:  nn.TripletHardest.String(),
		Activation: nn.ActivationReLU.String(),
		Hidden:     32,
		Embedding:  8,
		CapsuleDim: 4,
		Optimizer:  OptimizerSGD,
		LR:         0.05,
		Momentum:   0.9,
		Epochs:     5,
		BatchSize:  32,
		Seed:       1,
	}
}

// buildModel returns the backbone Linear → Activation → Linear. With the
// capsule loss the last layer is followed by a squashing capsule head.
func buildModel(cfg Config, features, nLabels int, backend tensor.Backend, rng *rand.Rand) (*nn.Sequential, error) {
	if features <= 0 || cfg.Hidden <= 0 {
		return nil, errors.Wrapf(nn.ErrInvalidConfig, "invalid backbone %d -> %d", features, cfg.Hidden)
	}
	kind := nn.ParseActivation(cfg.Activation)
	out := cfg.Embedding
	if cfg.Loss == LossCapsule {
		if cfg.CapsuleDim <= 0 {
			return nil, errors.Wrapf(nn.ErrInvalidConfig, "capsule length %d", cfg.CapsuleDim)
		}
		out = nLabels * cfg.CapsuleDim
	}
	if out <= 0 {
		return nil, errors.Wrapf(nn.ErrInvalidConfig, "embedding width %d", out)
	}

	model := nn.NewSequential(
		nn.NewLinear(features, cfg.Hidden, backend, rng),
		nn.NewActivation(kind, cfg.Hidden, backend, rng),
	)
	hidden := cfg.Hidden
	if kind == nn.ActivationMaxout || kind == nn.ActivationReLUMaxout {
		hidden /= 2
	}
	model.Add(nn.NewLinear(hidden, out, backend, rng))
	if cfg.Loss == LossCapsule {
		model.Add(&capsuleHead{capsules: nLabels, dim: cfg.CapsuleDim, backend: backend})
	}
	return model, nil
}

// buildLoss returns the loss named by cfg.Loss.
func buildLoss(cfg Config, nLabels int, backend tensor.Backend, rng *rand.Rand) (nn.Loss, error) {
	switch cfg.Loss {
	case LossCapsule:
		return nn.NewCapsuleLoss(nLabels, backend)
	case LossTriplet:
		selection, err := nn.TripletSelectionString(cfg.Selection)
		if err != nil {
			return nil, errors.Wrapf(nn.ErrInvalidConfig, "triplet selection %q", cfg.Selection)
		}
		margin := cfg.Margin
		if margin == 0 {
			margin = nn.DefaultMargin
		}
		return nn.NewTripletLoss(margin, selection, backend)
	}

	lossType, err := nn.ParseLossType(cfg.Loss)
	if err != nil {
		return nil, err
	}
	measure, err := nn.ParseMeasure(cfg.Measure)
	if err != nil {
		return nil, err
	}
	return nn.NewCategoricalLoss(nn.CategoricalConfig{
		TensorSize: []int{1, cfg.Embedding},
		NLabels:    nLabels,
		Type:       lossType,
		Measure:    measure,
		Center:     cfg.Center,
		Scale:      cfg.Scale,
		Margin:     cfg.Margin,
		Alpha:      cfg.Alpha,
		Defaults:   cfg.Defaults,
		Rand:       rng,
	}, backend)
}

// buildOptimizer returns the optimizer named by cfg.Optimizer.
func buildOptimizer(cfg Config, params []*nn.Parameter) (optim.Optimizer, error) {
	switch cfg.Optimizer {
	case OptimizerSGD, "":
		return optim.NewSGD(params, optim.SGDConfig{LR: cfg.LR, Momentum: cfg.Momentum}), nil
	case OptimizerAdam:
		return optim.NewAdam(params, optim.AdamConfig{LR: cfg.LR}), nil
	}
	return nil, errors.Wrapf(nn.ErrInvalidConfig, "unknown optimizer %q", cfg.Optimizer)
}

// capsuleHead views [batch, capsules·dim] as [batch, capsules, dim] capsules
// and squashes them.
type capsuleHead struct {
	capsules, dim int
	backend       tensor.Backend
}

func (h *capsuleHead) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if input.Rank() != 2 || input.Dim(1) != h.capsules*h.dim {
		return nil, errors.Wrapf(nn.ErrInvalidShape, "expected [batch, %d], got %v", h.capsules*h.dim, input.Shape())
	}
	capsules := h.backend.Reshape(input, tensor.Shape{input.Dim(0), h.capsules, h.dim})
	return nn.Squash(capsules, h.backend)
}

func (h *capsuleHead) Parameters() []*nn.Parameter {
	return nil
}
