package train

import (
	"io"
	"math/rand/v2"
	"slices"

	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/go-gota/gota/dataframe"
	"github.com/pkg/errors"
)

// Dataset holds labelled feature rows.
type Dataset struct {
	Features *tensor.Tensor // [n, features]
	Labels   []int          // [n], each in [0, NLabels)
	NLabels  int
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Labels)
}

// NumFeatures returns the width of a feature row.
func (d *Dataset) NumFeatures() int {
	return d.Features.Dim(1)
}

// Gaussian draws perLabel samples around each of nLabels random centers.
// Centers are N(0, 3²) per feature and samples add N(0, spread²) noise.
func Gaussian(nLabels, perLabel, features int, spread float64, rng *rand.Rand) (*Dataset, error) {
	if nLabels <= 0 || perLabel <= 0 || features <= 0 {
		return nil, errors.Errorf("invalid gaussian dataset %d labels x %d samples x %d features", nLabels, perLabel, features)
	}
	centers := tensor.Randn(tensor.Shape{nLabels, features}, rng)
	noise := tensor.Randn(tensor.Shape{nLabels * perLabel, features}, rng)

	n := nLabels * perLabel
	x := tensor.Zeros(tensor.Shape{n, features})
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		label := i % nLabels
		labels[i] = label
		row, c, e := x.Row(i), centers.Row(label), noise.Row(i)
		for j := range row {
			row[j] = 3*c[j] + spread*e[j]
		}
	}
	return &Dataset{Features: x, Labels: labels, NLabels: nLabels}, nil
}

// LoadCSV reads a dataset from CSV with a header row. labelColumn holds
// integer labels; every other column is a float feature.
func LoadCSV(r io.Reader, labelColumn string) (*Dataset, error) {
	df := dataframe.ReadCSV(r)
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "failed to parse csv")
	}
	if !slices.Contains(df.Names(), labelColumn) {
		return nil, errors.Errorf("csv has no label column %q", labelColumn)
	}
	labels, err := df.Col(labelColumn).Int()
	if err != nil {
		return nil, errors.Wrapf(err, "label column %q", labelColumn)
	}
	features := df.Drop(labelColumn)
	if features.Err != nil {
		return nil, errors.Wrap(features.Err, "failed to drop label column")
	}
	n, d := features.Nrow(), features.Ncol()
	if n == 0 || d == 0 {
		return nil, errors.Errorf("csv has %d rows and %d feature columns", n, d)
	}

	x := tensor.Zeros(tensor.Shape{n, d})
	for j, name := range features.Names() {
		col := features.Col(name)
		if col.HasNaN() {
			return nil, errors.Errorf("feature column %q has missing or non-numeric values", name)
		}
		for i, v := range col.Float() {
			x.Set(v, i, j)
		}
	}

	nLabels := 0
	for i, label := range labels {
		if label < 0 {
			return nil, errors.Errorf("row %d: negative label %d", i, label)
		}
		nLabels = max(nLabels, label+1)
	}
	return &Dataset{Features: x, Labels: labels, NLabels: nLabels}, nil
}

// Split holds out the last ratio of the samples for validation.
func (d *Dataset) Split(ratio float64) (train, val *Dataset) {
	n := d.Len()
	cut := n - int(float64(n)*ratio)
	cut = min(max(cut, 1), n)
	return d.subset(seq(0, cut)), d.subset(seq(cut, n))
}

// Batches partitions the sample indices into batches of at most size,
// shuffled with rng when it is non-nil.
func (d *Dataset) Batches(size int, rng *rand.Rand) [][]int {
	indices := seq(0, d.Len())
	if rng != nil {
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}
	var batches [][]int
	for start := 0; start < len(indices); start += size {
		batches = append(batches, indices[start:min(start+size, len(indices))])
	}
	return batches
}

// Batch gathers the rows and labels at indices.
func (d *Dataset) Batch(indices []int) (*tensor.Tensor, []int) {
	width := d.NumFeatures()
	x := tensor.Zeros(tensor.Shape{len(indices), width})
	labels := make([]int, len(indices))
	for i, idx := range indices {
		copy(x.Row(i), d.Features.Row(idx))
		labels[i] = d.Labels[idx]
	}
	return x, labels
}

func (d *Dataset) subset(indices []int) *Dataset {
	x, labels := d.Batch(indices)
	return &Dataset{Features: x, Labels: labels, NLabels: d.NLabels}
}

func seq(from, to int) []int {
	out := make([]int, 0, max(to-from, 0))
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}
