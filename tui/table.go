package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	tableBorderColor = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#AAAAAA"}
	tableBorderStyle = lipgloss.NewStyle().Foreground(tableBorderColor)
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Table writes rows under headers as a bordered table. Cells wider than
// maxCell are truncated; zero disables truncation.
func Table(w io.Writer, headers []string, rows [][]string, maxCell int) {
	if maxCell > 0 {
		for _, row := range rows {
			for i := range row {
				row[i] = MaxWidth(row[i], maxCell)
			}
		}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.String())
}

// KeyValues writes label/value pairs as a two column table without headers.
func KeyValues(w io.Writer, pairs [][2]string, maxCell int) {
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{Bold(p[0]), p[1]}
		if maxCell > 0 {
			rows[i][1] = MaxWidth(p[1], maxCell)
		}
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			return tableCellStyle
		}).
		Rows(rows...)
	fmt.Fprintln(w, t.String())
}
