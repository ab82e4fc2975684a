// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package shell

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/go-air/aigo/aig"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorRed   = lipgloss.Color("167")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
	styleNumber = lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1).Align(lipgloss.Right)
	styleGood   = lipgloss.NewStyle().Foreground(colorGreen)
	styleBad    = lipgloss.NewStyle().Foreground(colorRed)
)

// statsRow is one labelled line of the statistics table.
type statsRow struct {
	name string
	s    aig.Stats
}

// renderStats renders the statistics of one or more networks as a table.
func renderStats(rows ...statsRow) string {
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{r.name,
			strconv.Itoa(r.s.Pis),
			strconv.Itoa(r.s.Pos),
			strconv.Itoa(r.s.Latches),
			strconv.Itoa(r.s.Ands),
			strconv.Itoa(r.s.Levels)}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("network", "pi", "po", "latch", "and", "level").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col == 0:
				return styleCell
			}
			return styleNumber
		})
	return t.Render()
}

func printStats(w io.Writer, rows ...statsRow) {
	fmt.Fprintln(w, renderStats(rows...))
}

// printVerdict prints the result of an equivalence check.
func printVerdict(w io.Writer, equal bool, msg string) {
	if equal {
		fmt.Fprintln(w, styleGood.Render("✓")+" "+msg)
		return
	}
	fmt.Fprintln(w, styleBad.Render("✗")+" "+msg)
}
