package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// RenderTable renders rows as a pipe-delimited table with a separator under
// the first row. Columns are padded by display width, not byte length, so
// accented titles line up.
func RenderTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	colWidths := make([]int, colCount)

	for _, row := range rows {
		for i := 0; i < len(row) && i < colCount; i++ {
			width := runewidth.StringWidth(row[i])
			if width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	var lines []string

	for i, row := range rows {
		lines = append(lines, renderRow(row, colWidths))

		if i == 0 {
			lines = append(lines, renderSeparator(colWidths))
		}
	}

	return strings.Join(lines, "\n")
}

func renderRow(row []string, colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for i, width := range colWidths {
		content := ""
		if i < len(row) {
			content = row[i]
		}

		sb.WriteString(" ")
		sb.WriteString(content)

		padding := width - runewidth.StringWidth(content)
		if padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}

func renderSeparator(colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for _, width := range colWidths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", width))
		sb.WriteString(" |")
	}

	return sb.String()
}
