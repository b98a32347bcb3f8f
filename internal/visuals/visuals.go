// Package visuals draws training diagnostics with gonum/plot: weight
// histograms, 2-D embedding scatters, activation curves and meter curves.
//
// Every function returns a *plot.Plot (or writes a grid of them) so callers
// decide where it ends up; Save and WritePNG cover the common cases.
package visuals

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/born-ml/capsnet/internal/meters"
	"github.com/born-ml/capsnet/internal/nn"
	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	// HistogramBins is the bin count of every weight histogram.
	HistogramBins = 46

	// Width and Height size single plots written by Save and WritePNG.
	Width  = 8 * vg.Inch
	Height = 6 * vg.Inch

	// tileSize is the edge of one cell in a histogram grid.
	tileSize = 3 * vg.Inch

	curveSamples = 201
)

// HistogramNames returns the sorted state-dict keys that WeightHistograms
// draws: weights, minus biases and normalisation parameters.
func HistogramNames(state map[string]*tensor.Tensor) []string {
	var names []string
	for name := range state {
		lower := strings.ToLower(name)
		if !strings.Contains(lower, "weight") || strings.Contains(lower, "bias") || strings.Contains(lower, "norm") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Histogram plots the distribution of the values of t.
func Histogram(title string, t *tensor.Tensor) (*plot.Plot, error) {
	if t.NumElements() == 0 {
		return nil, errors.Errorf("histogram %q: empty tensor", title)
	}
	h, err := plotter.NewHist(plotter.Values(t.Data()), HistogramBins)
	if err != nil {
		return nil, errors.Wrapf(err, "histogram %q", title)
	}
	h.FillColor = plotutil.Color(0)

	p := plot.New()
	p.Title.Text = title
	p.Add(h)
	return p, nil
}

// WeightHistograms writes one histogram per HistogramNames entry of state as
// a PNG grid with cols columns.
func WeightHistograms(w io.Writer, state map[string]*tensor.Tensor, cols int) error {
	names := HistogramNames(state)
	if len(names) == 0 {
		return errors.New("no weights to plot")
	}
	if cols <= 0 || cols > len(names) {
		cols = len(names)
	}
	rows := (len(names) + cols - 1) / cols

	plots := make([][]*plot.Plot, rows)
	for j := range plots {
		plots[j] = make([]*plot.Plot, cols)
		for i := range plots[j] {
			k := j*cols + i
			if k >= len(names) {
				blank := plot.New()
				blank.HideAxes()
				plots[j][i] = blank
				continue
			}
			p, err := Histogram(names[k], state[names[k]])
			if err != nil {
				return err
			}
			plots[j][i] = p
		}
	}

	img := vgimg.New(vg.Length(cols)*tileSize, vg.Length(rows)*tileSize)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows,
		Cols: cols,
		PadX: vg.Millimeter,
		PadY: vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		for i := range plots[j] {
			plots[j][i].Draw(canvases[j][i])
		}
	}

	png := vgimg.PngCanvas{Canvas: img}
	_, err := png.WriteTo(w)
	return errors.Wrap(err, "failed to encode histogram grid")
}

// Embeddings scatters the first two features of a [batch, d] embedding
// tensor, one colour per label.
func Embeddings(title string, embeddings *tensor.Tensor, labels []int) (*plot.Plot, error) {
	if embeddings.Rank() != 2 || embeddings.Dim(1) < 2 {
		return nil, errors.Wrapf(nn.ErrInvalidShape, "expected [batch, d>=2] embeddings, got %v", embeddings.Shape())
	}
	if len(labels) != embeddings.Dim(0) {
		return nil, errors.Wrapf(nn.ErrInvalidLabel, "%d labels for %d embeddings", len(labels), embeddings.Dim(0))
	}

	points := make(map[int]plotter.XYs)
	for i, label := range labels {
		row := embeddings.Row(i)
		points[label] = append(points[label], plotter.XY{X: row[0], Y: row[1]})
	}
	order := make([]int, 0, len(points))
	for label := range points {
		order = append(order, label)
	}
	sort.Ints(order)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	for i, label := range order {
		scatter, err := plotter.NewScatter(points[label])
		if err != nil {
			return nil, errors.Wrapf(err, "label %d", label)
		}
		scatter.GlyphStyle.Radius = vg.Length(2)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Color = plotutil.Color(i)
		p.Add(scatter)
		p.Legend.Add(labelName(label), scatter)
	}
	return p, nil
}

// Activations plots each element-wise activation over [start, end]. Maxout
// variants and squash mix elements and are rejected.
func Activations(title string, start, end float64, backend tensor.Backend, kinds ...nn.ActivationType) (*plot.Plot, error) {
	if end <= start {
		return nil, errors.Errorf("empty range [%g, %g]", start, end)
	}
	xs := make([]float64, curveSamples)
	step := (end - start) / float64(curveSamples-1)
	for i := range xs {
		xs[i] = start + float64(i)*step
	}
	input := tensor.New(xs, tensor.Shape{1, curveSamples})

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.X.Min = start
	p.X.Max = end
	p.Y.Label.Text = "f(x)"

	for i, kind := range kinds {
		switch kind {
		case nn.ActivationMaxout, nn.ActivationReLUMaxout, nn.ActivationSquash:
			return nil, errors.Errorf("%s is not element-wise", kind)
		}
		act := nn.NewActivation(kind, 1, backend, nil)
		out, err := act.Forward(input)
		if err != nil {
			return nil, errors.Wrapf(err, "activation %s", kind)
		}
		line, err := plotter.NewLine(zipXY(xs, out.Data()))
		if err != nil {
			return nil, err
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)
		p.Add(line)
		p.Legend.Add(kind.String(), line)
	}
	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

// Curves plots the named meter columns against the step column.
func Curves(title string, m *meters.Meters, columns ...string) (*plot.Plot, error) {
	if m.Len() == 0 {
		return nil, errors.New("no records to plot")
	}
	steps := m.Column(meters.ColStep)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = meters.ColStep
	for i, name := range columns {
		values := m.Column(name)
		if values == nil {
			return nil, errors.Errorf("unknown meter column %q", name)
		}
		line, err := plotter.NewLine(zipXY(steps, values))
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", name)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(name, line)
	}
	p.Add(plotter.NewGrid())
	return p, nil
}

// Save writes p to path; the extension picks the format.
func Save(p *plot.Plot, path string) error {
	return errors.Wrapf(p.Save(Width, Height, path), "failed to save plot %s", path)
}

// WritePNG encodes p as a PNG.
func WritePNG(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func zipXY(xs, ys []float64) plotter.XYs {
	n := min(len(xs), len(ys))
	pts := make(plotter.XYs, n)
	for i := range pts {
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	return pts
}

func labelName(label int) string {
	return "label " + strconv.Itoa(label)
}
