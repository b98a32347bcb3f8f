// Package train runs the training loop that ties a small backbone, one of the
// nn losses and an optimizer together, recording meters and checkpoints.
//
// Example:
//
//	cfg := train.DefaultConfig()
//	cfg.Loss = "lmgm"
//	data, _ := train.Gaussian(4, 64, 16, 0.5, rng)
//	trainer, _ := train.New(cfg, data.NumFeatures(), data.NLabels)
//	err := trainer.Fit(ctx, data, nil, os.Stderr)
package train

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/born-ml/capsnet/internal/autodiff"
	"github.com/born-ml/capsnet/internal/backend/cpu"
	"github.com/born-ml/capsnet/internal/checkpoint"
	"github.com/born-ml/capsnet/internal/meters"
	"github.com/born-ml/capsnet/internal/nn"
	"github.com/born-ml/capsnet/internal/optim"
	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
)

// State-dict prefixes of the two trainable halves.
const (
	modelPrefix = "model."
	lossPrefix  = "loss."
)

// Trainer owns the autodiff backend, the backbone, the loss and the
// optimizer of one run. It is not safe for concurrent use.
type Trainer struct {
	cfg     Config
	backend *autodiff.AutodiffBackend[*cpu.CPUBackend]
	model   *nn.Sequential
	loss    nn.Loss
	opt     optim.Optimizer
	rng     *rand.Rand
	meters  *meters.Meters
	meta    checkpoint.Meta
	step    int
}

// New builds a trainer for rows of features columns and nLabels classes.
func New(cfg Config, features, nLabels int) (*Trainer, error) {
	if nLabels <= 0 {
		return nil, errors.Wrapf(nn.ErrInvalidConfig, "%d labels", nLabels)
	}
	if cfg.BatchSize <= 0 || cfg.Epochs < 0 {
		return nil, errors.Wrapf(nn.ErrInvalidConfig, "batch size %d, epochs %d", cfg.BatchSize, cfg.Epochs)
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5DEECE66D))
	backend := autodiff.New(cpu.New())

	model, err := buildModel(cfg, features, nLabels, backend, rng)
	if err != nil {
		return nil, err
	}
	loss, err := buildLoss(cfg, nLabels, backend, rng)
	if err != nil {
		return nil, err
	}
	params := append(model.Parameters(), loss.Parameters()...)
	opt, err := buildOptimizer(cfg, params)
	if err != nil {
		return nil, err
	}

	klog.V(1).Infof("trainer: %s loss, %d parameter tensors, %s optimizer", cfg.Loss, len(params), cfg.Optimizer)
	return &Trainer{
		cfg:     cfg,
		backend: backend,
		model:   model,
		loss:    loss,
		opt:     opt,
		rng:     rng,
		meters:  &meters.Meters{},
		meta:    checkpoint.NewMeta(cfg.Loss),
	}, nil
}

// Model returns the backbone.
func (t *Trainer) Model() *nn.Sequential { return t.model }

// Loss returns the loss module.
func (t *Trainer) Loss() nn.Loss { return t.loss }

// Meters returns the per-step records of the run.
func (t *Trainer) Meters() *meters.Meters { return t.meters }

// Steps returns the number of optimizer steps taken.
func (t *Trainer) Steps() int { return t.step }

// Step runs forward, backward and one optimizer update on a batch.
func (t *Trainer) Step(x *tensor.Tensor, labels []int) (float64, nn.Accuracy, error) {
	tape := t.backend.Tape()
	tape.Clear()
	tape.StartRecording()
	defer func() {
		tape.StopRecording()
		tape.Clear()
	}()

	embeddings, err := t.model.Forward(x)
	if err != nil {
		return 0, nn.Accuracy{}, err
	}
	value, acc, err := t.loss.Forward(embeddings, labels)
	if err != nil {
		return 0, nn.Accuracy{}, err
	}
	grads := autodiff.Backward(value, t.backend)
	t.opt.Step(grads)
	t.opt.ZeroGrad()
	t.step++
	return value.Item(), acc, nil
}

// Embed runs the backbone without recording gradients.
func (t *Trainer) Embed(x *tensor.Tensor) (*tensor.Tensor, error) {
	defer t.pauseRecording()()
	return t.model.Forward(x)
}

// pauseRecording stops the tape and returns the function that restores it.
func (t *Trainer) pauseRecording() func() {
	tape := t.backend.Tape()
	wasRecording := tape.IsRecording()
	tape.StopRecording()
	return func() {
		if wasRecording {
			tape.StartRecording()
		}
	}
}

// Evaluate returns the sample-weighted loss and accuracy over d without
// updating anything.
func (t *Trainer) Evaluate(d *Dataset) (float64, nn.Accuracy, error) {
	if d.Len() == 0 {
		return 0, nn.Accuracy{}, errors.New("empty evaluation set")
	}
	defer t.pauseRecording()()

	var loss, top1, top5 float64
	for _, indices := range d.Batches(t.cfg.BatchSize, nil) {
		x, labels := d.Batch(indices)
		embeddings, err := t.model.Forward(x)
		if err != nil {
			return 0, nn.Accuracy{}, err
		}
		value, acc, err := t.loss.Forward(embeddings, labels)
		if err != nil {
			return 0, nn.Accuracy{}, err
		}
		w := float64(len(indices))
		loss += w * value.Item()
		top1 += w * acc.Top1
		top5 += w * acc.Top5
	}
	n := float64(d.Len())
	return loss / n, nn.Accuracy{Top1: top1 / n, Top5: top5 / n}, nil
}

// Fit trains for cfg.Epochs epochs over shuffled batches of train, drawing a
// progress bar on out when it is non-nil. With val non-nil every epoch ends
// with an evaluation, logged at info level. Cancelling ctx stops between
// batches.
func (t *Trainer) Fit(ctx context.Context, train, val *Dataset, out io.Writer) error {
	if train.Len() == 0 {
		return errors.New("empty training set")
	}
	for epoch := 0; epoch < t.cfg.Epochs; epoch++ {
		batches := train.Batches(t.cfg.BatchSize, t.rng)
		var bar *progressbar.ProgressBar
		if out != nil {
			bar = progressbar.NewOptions(len(batches),
				progressbar.OptionSetDescription(fmt.Sprintf("epoch %d/%d", epoch+1, t.cfg.Epochs)),
				progressbar.OptionSetWriter(out),
				progressbar.OptionShowIts(),
				progressbar.OptionSetItsString("steps"),
				progressbar.OptionSetTheme(progressbar.ThemeASCII),
			)
		}

		for _, indices := range batches {
			if err := ctx.Err(); err != nil {
				return err
			}
			x, labels := train.Batch(indices)
			loss, acc, err := t.Step(x, labels)
			if err != nil {
				return errors.WithMessagef(err, "epoch %d step %d", epoch, t.step)
			}
			t.meters.Add(epoch, t.step, len(indices), loss, acc.Top1, acc.Top5)
			if bar != nil {
				_ = bar.Add(1)
			}
		}
		if bar != nil {
			_ = bar.Finish()
			_, _ = fmt.Fprintln(out)
		}

		last := t.meters.Records()[t.meters.Len()-1]
		klog.V(1).Infof("epoch %d: loss=%.4f %s", epoch, last.Loss, nn.Accuracy{Top1: last.Top1, Top5: last.Top5})
		if val != nil && val.Len() > 0 {
			loss, acc, err := t.Evaluate(val)
			if err != nil {
				return errors.WithMessagef(err, "epoch %d validation", epoch)
			}
			klog.Infof("epoch %d validation: loss=%.4f %s", epoch, loss, acc)
		}
	}
	return nil
}

// StateDict returns every trainable tensor, backbone keys prefixed with
// "model." and loss keys with "loss.".
func (t *Trainer) StateDict() map[string]*tensor.Tensor {
	state := make(map[string]*tensor.Tensor)
	for k, v := range t.model.StateDict() {
		state[modelPrefix+k] = v
	}
	for k, v := range nn.StateDict(t.loss.Parameters()) {
		state[lossPrefix+k] = v
	}
	return state
}

// LoadStateDict restores tensors written by StateDict.
func (t *Trainer) LoadStateDict(state map[string]*tensor.Tensor) error {
	model := make(map[string]*tensor.Tensor)
	loss := make(map[string]*tensor.Tensor)
	for k, v := range state {
		if name, ok := strings.CutPrefix(k, modelPrefix); ok {
			model[name] = v
		} else if name, ok := strings.CutPrefix(k, lossPrefix); ok {
			loss[name] = v
		}
	}
	if err := t.model.LoadStateDict(model); err != nil {
		return errors.WithMessage(err, "backbone")
	}
	return errors.WithMessage(nn.LoadStateDict(t.loss.Parameters(), loss), "loss")
}

// SaveCheckpoint writes the state dict to path with the run metadata of the
// latest step.
func (t *Trainer) SaveCheckpoint(path string, dtype checkpoint.DType) error {
	meta := t.meta
	meta.Step = t.step
	if n := t.meters.Len(); n > 0 {
		meta.Loss = t.meters.Records()[n-1].Loss
	}
	return checkpoint.Save(path, t.StateDict(), meta, dtype)
}

// LoadCheckpoint restores a checkpoint written by SaveCheckpoint for the same
// loss and continues its run.
func (t *Trainer) LoadCheckpoint(path string) error {
	state, meta, err := checkpoint.Load(path)
	if err != nil {
		return err
	}
	if meta.LossType != t.cfg.Loss {
		return errors.Wrapf(nn.ErrInvalidConfig, "checkpoint was trained with %q, not %q", meta.LossType, t.cfg.Loss)
	}
	if err := t.LoadStateDict(state); err != nil {
		return err
	}
	t.meta = meta
	t.step = meta.Step
	klog.V(1).Infof("resumed run %s at step %d", meta.RunID, meta.Step)
	return nil
}
