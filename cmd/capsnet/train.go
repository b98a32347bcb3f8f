package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/born-ml/capsnet/internal/checkpoint"
	"github.com/born-ml/capsnet/internal/meters"
	"github.com/born-ml/capsnet/internal/nn"
	"github.com/born-ml/capsnet/internal/train"
	"github.com/born-ml/capsnet/internal/visuals"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

func runTrain(args []string) error {
	cfg := train.DefaultConfig()
	fs := newFlagSet("train")
	fs.StringVar(&cfg.Loss, "loss", cfg.Loss,
		fmt.Sprintf("Loss: one of %s, %s or %s", strings.Join(nn.LossTypeStrings(), ", "), train.LossCapsule, train.LossTriplet))
	fs.StringVar(&cfg.Measure, "measure", cfg.Measure, "Categorical response measure: dot or cosine")
	fs.BoolVar(&cfg.Center, "center", cfg.Center, "Add the center-loss regulariser to categorical losses")
	fs.BoolVar(&cfg.Defaults, "defaults", cfg.Defaults, "Use the published scale/margin/alpha presets")
	fs.Float64Var(&cfg.Scale, "scale", cfg.Scale, "Loss scale (0 = default)")
	fs.Float64Var(&cfg.Margin, "margin", cfg.Margin, "lmcl or triplet margin (0 = default)")
	fs.Float64Var(&cfg.Alpha, "alpha", cfg.Alpha, "Center update rate and lmgm margin (0 = default)")
	fs.StringVar(&cfg.Selection, "selection", cfg.Selection, "Triplet mining: hardest or semihard")
	fs.StringVar(&cfg.Activation, "activation", cfg.Activation, "Backbone activation")
	fs.IntVar(&cfg.Hidden, "hidden", cfg.Hidden, "Backbone hidden width")
	fs.IntVar(&cfg.Embedding, "embedding", cfg.Embedding, "Embedding width")
	fs.IntVar(&cfg.CapsuleDim, "capsule-dim", cfg.CapsuleDim, "Capsule length for the capsule loss")
	fs.StringVar(&cfg.Optimizer, "optimizer", cfg.Optimizer, "Optimizer: sgd or adam")
	fs.Float64Var(&cfg.LR, "lr", cfg.LR, "Learning rate")
	fs.Float64Var(&cfg.Momentum, "momentum", cfg.Momentum, "SGD momentum")
	fs.IntVar(&cfg.Epochs, "epochs", cfg.Epochs, "Number of epochs")
	fs.IntVar(&cfg.BatchSize, "batch", cfg.BatchSize, "Batch size")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed")

	csvPath := fs.String("csv", "", "CSV file with a header row (empty = synthetic clusters)")
	labelColumn := fs.String("label", "label", "Label column of the CSV file")
	nLabels := fs.Int("labels", 4, "Synthetic: number of labels")
	perLabel := fs.Int("samples", 64, "Synthetic: samples per label")
	features := fs.Int("features", 16, "Synthetic: features per sample")
	spread := fs.Float64("spread", 0.5, "Synthetic: noise around each cluster center")
	valRatio := fs.Float64("val", 0.2, "Fraction of samples held out for validation")

	resume := fs.String("resume", "", "Checkpoint to resume from")
	ckptPath := fs.String("checkpoint", "", "Write a checkpoint here after training")
	dtypeName := fs.String("dtype", string(checkpoint.F32), "Checkpoint dtype: F64, F32 or F16")
	metricsPath := fs.String("metrics", "", "Write per-step meters as CSV here")
	plotsDir := fs.String("plots", "", "Write curve, weight and embedding plots into this directory")
	quiet := fs.Bool("quiet", false, "Hide the progress bar")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := loadData(*csvPath, *labelColumn, *nLabels, *perLabel, *features, *spread, cfg.Seed)
	if err != nil {
		return err
	}
	trainSet, valSet := data.Split(*valRatio)
	klog.Infof("data: %d train, %d validation samples, %d features, %d labels",
		trainSet.Len(), valSet.Len(), data.NumFeatures(), data.NLabels)

	trainer, err := train.New(cfg, data.NumFeatures(), data.NLabels)
	if err != nil {
		return err
	}
	if *resume != "" {
		if err := trainer.LoadCheckpoint(*resume); err != nil {
			return err
		}
	}
	klog.Infof("%s loss: %s", cfg.Loss, trainer.Describe())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	var progress io.Writer = os.Stderr
	if *quiet {
		progress = nil
	}
	if err := trainer.Fit(ctx, trainSet, valSet, progress); err != nil {
		return err
	}

	summary, err := train.Summary(trainer.Meters())
	if err != nil {
		return err
	}
	fmt.Println(summary)

	if *ckptPath != "" {
		dtype, err := checkpoint.ParseDType(*dtypeName)
		if err != nil {
			return err
		}
		if err := trainer.SaveCheckpoint(*ckptPath, dtype); err != nil {
			return err
		}
		klog.Infof("checkpoint written to %s", *ckptPath)
	}
	if *metricsPath != "" {
		if err := writeMetrics(trainer.Meters(), *metricsPath); err != nil {
			return err
		}
	}
	if *plotsDir != "" {
		evalSet := valSet
		if evalSet.Len() == 0 {
			evalSet = trainSet
		}
		if err := writePlots(trainer, evalSet, *plotsDir); err != nil {
			return err
		}
	}
	return nil
}

func loadData(csvPath, labelColumn string, nLabels, perLabel, features int, spread float64, seed uint64) (*train.Dataset, error) {
	if csvPath == "" {
		return train.Gaussian(nLabels, perLabel, features, spread, rand.New(rand.NewPCG(seed, seed+1)))
	}
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", csvPath)
	}
	defer f.Close()
	return train.LoadCSV(f, labelColumn)
}

func writeMetrics(m *meters.Meters, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := m.WriteCSV(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writePlots(trainer *train.Trainer, evalSet *train.Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create %s", dir)
	}

	curves, err := visuals.Curves("training", trainer.Meters(), meters.ColLoss, meters.ColTop1, meters.ColTop5)
	if err != nil {
		return err
	}
	if err := visuals.Save(curves, filepath.Join(dir, "curves.png")); err != nil {
		return err
	}

	weights, err := os.Create(filepath.Join(dir, "weights.png"))
	if err != nil {
		return errors.Wrap(err, "failed to create weights.png")
	}
	if err := visuals.WeightHistograms(weights, trainer.StateDict(), 3); err != nil {
		_ = weights.Close()
		return err
	}
	if err := weights.Close(); err != nil {
		return err
	}

	x, labels := evalSet.Batch(evalSet.Batches(evalSet.Len(), nil)[0])
	embeddings, err := trainer.Embed(x)
	if err != nil {
		return err
	}
	if embeddings.Rank() > 2 {
		embeddings = embeddings.Reshape(embeddings.Dim(0), embeddings.NumElements()/embeddings.Dim(0))
	}
	if embeddings.Dim(1) < 2 {
		klog.Warningf("embedding width %d: skipping the embedding scatter", embeddings.Dim(1))
		return nil
	}
	scatter, err := visuals.Embeddings("embeddings", embeddings, labels)
	if err != nil {
		return err
	}
	klog.Infof("plots written to %s", dir)
	return visuals.Save(scatter, filepath.Join(dir, "embeddings.png"))
}
