package output

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Align is the horizontal alignment of a table column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// columnGap separates adjacent columns.
const columnGap = "  "

type column struct {
	title string
	align Align
	width int
}

// Table renders ranked rows as aligned columns. Cell widths ignore ANSI
// styling, so pre-styled cells such as priority badges line up.
type Table struct {
	columns []column
	rows    [][]string
	indent  string
}

// NewTable creates a table with the given column titles, all left-aligned.
func NewTable(titles ...string) *Table {
	cols := make([]column, len(titles))
	for i, title := range titles {
		cols[i] = column{title: title, width: visualLen(title)}
	}
	return &Table{columns: cols}
}

// AlignRight right-aligns the columns at the given indexes. Out of range
// indexes are ignored.
func (t *Table) AlignRight(indexes ...int) *Table {
	for _, i := range indexes {
		if i >= 0 && i < len(t.columns) {
			t.columns[i].align = AlignRight
		}
	}
	return t
}

// Indent prefixes every rendered line with prefix.
func (t *Table) Indent(prefix string) *Table {
	t.indent = prefix
	return t
}

// AddRow appends a row. Missing values render empty; extra values are
// dropped.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.columns))
	for i := range t.columns {
		if i < len(values) {
			row[i] = values[i]
		}
		if n := visualLen(row[i]); n > t.columns[i].width {
			t.columns[i].width = n
		}
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of rows added so far.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render returns the header, a separator and every row, one per line.
func (t *Table) Render() string {
	if len(t.columns) == 0 {
		return ""
	}
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	var sb strings.Builder
	t.line(&sb, func(i int, c column) string {
		return headerStyle.Render(align(c.title, c.width, c.align))
	})
	t.line(&sb, func(i int, c column) string {
		return StyleMuted.Render(strings.Repeat("─", c.width))
	})
	for _, row := range t.rows {
		t.line(&sb, func(i int, c column) string {
			return align(row[i], c.width, c.align)
		})
	}
	return sb.String()
}

// WriteTo writes the rendered table to w.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, t.Render())
	return int64(n), err
}

func (t *Table) line(sb *strings.Builder, cell func(i int, c column) string) {
	sb.WriteString(t.indent)
	for i, c := range t.columns {
		if i > 0 {
			sb.WriteString(columnGap)
		}
		sb.WriteString(cell(i, c))
	}
	sb.WriteString("\n")
}

// visualLen returns the printed width of s, ignoring ANSI escape sequences.
func visualLen(s string) int {
	return lipgloss.Width(s)
}

// align pads s with spaces to width on the side opposite a.
func align(s string, width int, a Align) string {
	n := visualLen(s)
	if n >= width {
		return s
	}
	fill := strings.Repeat(" ", width-n)
	if a == AlignRight {
		return fill + s
	}
	return s + fill
}
