package commands

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/MrJamesThe3rd/homeledger/internal/posting"
)

var (
	okColor     = lipgloss.Color("46")
	driftColor  = lipgloss.Color("196")
	borderColor = lipgloss.Color("240")
)

// styles renders command output for w. Colours are dropped when w is not a
// terminal.
type styles struct {
	r *lipgloss.Renderer
}

func newStyles(w io.Writer) styles {
	return styles{r: lipgloss.NewRenderer(w)}
}

func (s styles) ok(text string) string {
	return s.r.NewStyle().Bold(true).Foreground(okColor).Render(text)
}

func (s styles) drift(text string) string {
	return s.r.NewStyle().Bold(true).Foreground(driftColor).Render(text)
}

func (s styles) driftTable(found []posting.Discrepancy) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.r.NewStyle().Foreground(borderColor)).
		Headers("KIND", "SUBJECT", "TOTAL", "EXPECTED", "WAITING", "EXPECTED").
		StyleFunc(func(row, _ int) lipgloss.Style {
			cell := s.r.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return cell.Bold(true)
			}

			return cell
		})

	for _, d := range found {
		if d.TransactionID.Valid {
			t.Row(string(d.Kind), "transaction "+d.TransactionID.UUID.String(), "", "", "", "")
			continue
		}

		t.Row(string(d.Kind), d.Name,
			d.Total.String(), d.WantTotal.String(),
			d.TotalWaiting.String(), d.WantTotalWaiting.String())
	}

	return t.String()
}
