package nn

import (
	"github.com/born-ml/capsnet/internal/kernels"
	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

//go:generate enumer -type=DiceType -trimprefix=DiceType -transform=lower -values -text -json dice.go

// DiceType selects the beta of DiceLoss.
type DiceType int

const (
	// DiceTypeTversky weighs false positives by β² = 4 and false negatives by β = 2.
	DiceTypeTversky DiceType = iota

	// DiceTypeDice is the plain F1-style Dice overlap, β = 1.
	DiceTypeDice
)

// Beta returns β for the dice type.
func (t DiceType) Beta() float64 {
	if t == DiceTypeTversky {
		return 2
	}
	return 1
}

// DiceLoss is the Dice/Tversky overlap loss for binary segmentation
// (arXiv:1803.11078, eq. 5).
//
// With p_i the foreground prediction, p_j the background prediction and g the
// target mask, per sample:
//
//	TP = Σ p_i·g    FP = Σ p_i·(1−g)    FN = Σ p_j·g
//	loss = 1 − (1+β²)·TP / ((1+β²)·TP + β²·FP + β·FN + ε)
//
// The batch loss is the mean over samples.
type DiceLoss struct {
	kind    DiceType
	backend tensor.Backend
}

// NewDiceLoss creates a Dice or Tversky loss.
func NewDiceLoss(kind DiceType, backend tensor.Backend) (*DiceLoss, error) {
	if !kind.IsADiceType() {
		return nil, errors.Wrapf(ErrInvalidConfig, "dice type %d", int(kind))
	}
	return &DiceLoss{kind: kind, backend: backend}, nil
}

// Type returns the dice type.
func (l *DiceLoss) Type() DiceType { return l.kind }

// Forward scores prediction [batch, 1|2, H, W] against targets [batch, 1, H, W]
// or [batch, H, W]. With one channel the background is 1 − prediction; with
// two the channels are foreground then background. Targets are treated as
// constants. Accuracy is always zero.
func (l *DiceLoss) Forward(prediction, targets *tensor.Tensor) (*tensor.Tensor, Accuracy, error) {
	if prediction.Rank() != 4 || prediction.Dim(0) == 0 {
		return nil, Accuracy{}, errors.Wrapf(ErrInvalidShape, "dice loss: expected [batch, channels, H, W] prediction, got %v", prediction.Shape())
	}
	batch, channels := prediction.Dim(0), prediction.Dim(1)
	pixels := prediction.Dim(2) * prediction.Dim(3)
	if targets.NumElements() != batch*pixels || targets.Dim(0) != batch {
		return nil, Accuracy{}, errors.Wrapf(ErrInvalidShape, "dice loss: targets %v do not match prediction %v", targets.Shape(), prediction.Shape())
	}

	b := l.backend
	var fg, bg *tensor.Tensor
	switch channels {
	case 1:
		fg = b.Reshape(prediction, tensor.Shape{batch, pixels})
		bg = b.AddScalar(b.MulScalar(fg, -1), 1)
	case 2:
		fg = b.Reshape(b.Narrow(prediction, 1, 0, 1), tensor.Shape{batch, pixels})
		bg = b.Reshape(b.Narrow(prediction, 1, 1, 1), tensor.Shape{batch, pixels})
	default:
		return nil, Accuracy{}, errors.Wrapf(ErrInvalidShape, "dice loss: expected 1 or 2 channels, got %d", channels)
	}

	g := targets.Reshape(batch, pixels)
	notG := tensor.ZerosLike(g)
	floats.AddConst(1, notG.Data())
	floats.Sub(notG.Data(), g.Data())

	beta := l.kind.Beta()
	tp := b.SumDim(b.Mul(fg, g), 1)
	fp := b.SumDim(b.Mul(fg, notG), 1)
	fn := b.SumDim(b.Mul(bg, g), 1)

	num := b.MulScalar(tp, 1+beta*beta)
	den := b.AddScalar(b.Add(b.Add(num, b.MulScalar(fp, beta*beta)), b.MulScalar(fn, beta)), kernels.DiceEpsilon)
	perSample := b.AddScalar(b.MulScalar(b.Div(num, den), -1), 1)
	return b.Mean(perSample), Accuracy{}, nil
}

// Parameters returns nil; the dice loss has no trainable state.
func (l *DiceLoss) Parameters() []*Parameter {
	return nil
}
