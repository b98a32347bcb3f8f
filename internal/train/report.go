package train

import (
	"fmt"

	"github.com/born-ml/capsnet/internal/meters"
	"github.com/born-ml/capsnet/internal/nn"
	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
)

var (
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Reverse(true)
)

// Summary renders the per-epoch means of m as a table.
func Summary(m *meters.Meters) (string, error) {
	means, err := m.EpochMeans()
	if err != nil {
		return "", err
	}
	table := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("Epoch", "Loss", "Top-1 %", "Top-5 %")

	epochs := means.Col(meters.ColEpoch).Float()
	loss := means.Col(meters.MeanCol(meters.ColLoss)).Float()
	top1 := means.Col(meters.MeanCol(meters.ColTop1)).Float()
	top5 := means.Col(meters.MeanCol(meters.ColTop5)).Float()
	for i := range epochs {
		table.Row(
			fmt.Sprintf("%.0f", epochs[i]),
			fmt.Sprintf("%.4f", loss[i]),
			fmt.Sprintf("%.2f", top1[i]),
			fmt.Sprintf("%.2f", top5[i]),
		)
	}
	return table.String(), nil
}

// CountParameters returns the number of scalars in params.
func CountParameters(params []*nn.Parameter) int {
	n := 0
	for _, p := range params {
		n += p.Tensor().NumElements()
	}
	return n
}

// Describe summarises the size of the trainer's parameters, e.g.
// "backbone 1,234 + loss 80 parameters (10 kB)".
func (t *Trainer) Describe() string {
	backbone := CountParameters(t.model.Parameters())
	loss := CountParameters(t.loss.Parameters())
	bytes := uint64(backbone+loss) * 8
	return fmt.Sprintf("backbone %s + loss %s parameters (%s)",
		humanize.Comma(int64(backbone)), humanize.Comma(int64(loss)), humanize.Bytes(bytes))
}
