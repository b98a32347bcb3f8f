// Package meters keeps the per-iteration training measurements (loss,
// top-1/top-5 accuracy and throughput) and summarises them per epoch.
//
// Records are exposed as a gota DataFrame so they can be filtered, grouped or
// written out as CSV.
package meters

import (
	"io"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
)

// Column names of the meters DataFrame.
const (
	ColEpoch   = "epoch"
	ColStep    = "step"
	ColLoss    = "loss"
	ColTop1    = "top1"
	ColTop5    = "top5"
	ColSamples = "samples_per_sec"
)

// Record is one training iteration.
type Record struct {
	Epoch   int
	Step    int
	Loss    float64
	Top1    float64
	Top5    float64
	Samples float64 // samples per second
}

// Meters accumulates Records. The zero value is ready to use.
type Meters struct {
	records []Record
	last    time.Time
}

// Add records an iteration over batch samples. Throughput is measured from
// the previous Add; the first record of a Meters has none.
func (m *Meters) Add(epoch, step, batch int, loss, top1, top5 float64) Record {
	now := time.Now()
	r := Record{Epoch: epoch, Step: step, Loss: loss, Top1: top1, Top5: top5}
	if !m.last.IsZero() {
		if elapsed := now.Sub(m.last).Seconds(); elapsed > 0 {
			r.Samples = float64(batch) / elapsed
		}
	}
	m.last = now
	m.records = append(m.records, r)
	return r
}

// Len returns the number of records.
func (m *Meters) Len() int {
	return len(m.records)
}

// Records returns the recorded iterations in order.
func (m *Meters) Records() []Record {
	return m.records
}

// Column returns one column of the records by name, or nil for an unknown
// column.
func (m *Meters) Column(name string) []float64 {
	switch name {
	case ColEpoch, ColStep, ColLoss, ColTop1, ColTop5, ColSamples:
	default:
		return nil
	}
	out := make([]float64, len(m.records))
	for i, r := range m.records {
		switch name {
		case ColEpoch:
			out[i] = float64(r.Epoch)
		case ColStep:
			out[i] = float64(r.Step)
		case ColLoss:
			out[i] = r.Loss
		case ColTop1:
			out[i] = r.Top1
		case ColTop5:
			out[i] = r.Top5
		case ColSamples:
			out[i] = r.Samples
		}
	}
	return out
}

// DataFrame returns the records as a DataFrame with the Col* columns.
func (m *Meters) DataFrame() dataframe.DataFrame {
	epochs := make([]int, len(m.records))
	steps := make([]int, len(m.records))
	for i, r := range m.records {
		epochs[i], steps[i] = r.Epoch, r.Step
	}
	return dataframe.New(
		series.New(epochs, series.Int, ColEpoch),
		series.New(steps, series.Int, ColStep),
		series.New(m.Column(ColLoss), series.Float, ColLoss),
		series.New(m.Column(ColTop1), series.Float, ColTop1),
		series.New(m.Column(ColTop5), series.Float, ColTop5),
		series.New(m.Column(ColSamples), series.Float, ColSamples),
	)
}

// MeanCol names the per-epoch mean of column name in EpochMeans.
func MeanCol(name string) string {
	return name + "_" + dataframe.Aggregation_MEAN.String()
}

// EpochMeans averages loss, top1 and top5 per epoch, in epoch order. The
// result has the ColEpoch column and the MeanCol of each averaged column.
func (m *Meters) EpochMeans() (dataframe.DataFrame, error) {
	if len(m.records) == 0 {
		return dataframe.DataFrame{}, errors.New("meters: no records")
	}
	grouped := m.DataFrame().GroupBy(ColEpoch).Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_MEAN, dataframe.Aggregation_MEAN, dataframe.Aggregation_MEAN},
		[]string{ColLoss, ColTop1, ColTop5},
	)
	if grouped.Err != nil {
		return dataframe.DataFrame{}, errors.Wrap(grouped.Err, "meters: aggregating epochs")
	}
	return grouped.Arrange(dataframe.Sort(ColEpoch)), nil
}

// WriteCSV writes every record as CSV with a header row.
func (m *Meters) WriteCSV(w io.Writer) error {
	return errors.Wrap(m.DataFrame().WriteCSV(w), "meters: writing csv")
}
