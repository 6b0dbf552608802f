package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// MaxCellWidth is the width where a cell is truncated.
const MaxCellWidth = 40

// Table is rows of cells aligned by display width.
type Table struct {
	Headers []string
	Rows    [][]string

	// Marker, if set, is the row index prefixed with "> ".
	Marker int
}

func NewTable(headers ...string) *Table {
	return &Table{Headers: headers, Marker: -1}
}

func (t *Table) Append(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// width is the display width of s, ignoring color sequences.
func width(s string) int {
	return runewidth.StringWidth(ansi.Strip(s))
}

func truncate(s string) string {
	if width(s) <= MaxCellWidth {
		return s
	}
	return runewidth.Truncate(ansi.Strip(s), MaxCellWidth, "…")
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.Headers))
	measure := func(row []string) {
		for i, cell := range row {
			if len(widths) <= i {
				widths = append(widths, 0)
			}
			w := min(width(cell), MaxCellWidth)
			widths[i] = max(widths[i], w)
		}
	}
	measure(t.Headers)
	for _, r := range t.Rows {
		measure(r)
	}
	return widths
}

// Render writes the table. A table without rows writes the empty message.
func (t *Table) Render(w io.Writer, empty string) error {
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(w, empty)
		return err
	}

	widths := t.widths()
	line := func(prefix string, row []string) string {
		cells := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = truncate(row[i])
			}
			if i == len(widths)-1 {
				cells[i] = cell
			} else {
				cells[i] = cell + strings.Repeat(" ", max(widths[i]-width(cell), 0))
			}
		}
		return strings.TrimRight(prefix+strings.Join(cells, "  "), " ")
	}

	prefix := func(i int) string {
		if t.Marker < 0 {
			return ""
		}
		if i == t.Marker {
			return "> "
		}
		return "  "
	}

	if _, err := fmt.Fprintln(w, boldColor.Sprint(line(prefix(-1), t.Headers))); err != nil {
		return err
	}
	for i, r := range t.Rows {
		if _, err := fmt.Fprintln(w, line(prefix(i), r)); err != nil {
			return err
		}
	}
	return nil
}

// Matrix renders a confusion matrix as a plain text grid.
//
// Rows are actual classes, and columns are predicted classes.
func Matrix(w io.Writer, m [][]int) error {
	if len(m) == 0 {
		_, err := fmt.Fprintln(w, "(no confusion matrix)")
		return err
	}
	cols := 0
	for _, r := range m {
		cols = max(cols, len(r))
	}
	headers := []string{""}
	for c := range cols {
		headers = append(headers, "p"+strconv.Itoa(c))
	}
	t := NewTable(headers...)
	for i, r := range m {
		row := []string{"a" + strconv.Itoa(i)}
		for c := range cols {
			if c < len(r) {
				row = append(row, strconv.Itoa(r[c]))
			} else {
				row = append(row, "")
			}
		}
		t.Append(row...)
	}
	return t.Render(w, "")
}
