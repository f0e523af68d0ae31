package output

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
)

func TestVisualLen_PlainText(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"hello", 5},
		{"", 0},
		{"abc def", 7},
	}

	for _, tc := range tests {
		got := visualLen(tc.input)
		if got != tc.want {
			t.Errorf("visualLen(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestVisualLen_StripsANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{
			name:  "bold",
			input: "\x1b[1mhello\x1b[0m",
			want:  5,
		},
		{
			name:  "color",
			input: "\x1b[31mred\x1b[0m",
			want:  3,
		},
		{
			name:  "multiple sequences",
			input: "\x1b[1m\x1b[34mblue bold\x1b[0m",
			want:  9,
		},
		{
			name:  "no ansi",
			input: "plain text",
			want:  10,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := visualLen(tc.input)
			if got != tc.want {
				t.Errorf("visualLen() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestAlign(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		align Align
		want  string
	}{
		{"left pads right", "hi", 5, AlignLeft, "hi   "},
		{"right pads left", "42", 5, AlignRight, "   42"},
		{"exact width", "hello", 5, AlignRight, "hello"},
		{"over width", "toolong", 3, AlignLeft, "toolong"}, // no truncation
		{"styled cell", "\x1b[31m7\x1b[0m", 3, AlignRight, "  \x1b[31m7\x1b[0m"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := align(tc.input, tc.width, tc.align); got != tc.want {
				t.Errorf("align(%q, %d) = %q, want %q", tc.input, tc.width, got, tc.want)
			}
		})
	}
}

func TestTable_Render(t *testing.T) {
	// Disable color so we get predictable output.
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("Name", "Score")
	tbl.AddRow("Alice", "95")
	tbl.AddRow("Bob", "87")

	output := tbl.Render()

	// Should contain headers.
	if !strings.Contains(output, "Name") {
		t.Error("expected header 'Name' in output")
	}
	if !strings.Contains(output, "Score") {
		t.Error("expected header 'Score' in output")
	}

	// Should contain data.
	if !strings.Contains(output, "Alice") {
		t.Error("expected 'Alice' in output")
	}
	if !strings.Contains(output, "Bob") {
		t.Error("expected 'Bob' in output")
	}

	// Should have separator line.
	if !strings.Contains(output, "─") {
		t.Error("expected separator character in output")
	}

	// Count lines: header + separator + 2 data rows = 4 lines.
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) != 4 {
		t.Errorf("expected 4 lines, got %d", len(lines))
	}
}

func TestTable_EmptyHeaders(t *testing.T) {
	tbl := NewTable()
	output := tbl.Render()
	if output != "" {
		t.Errorf("expected empty output for empty table, got %q", output)
	}
}

func TestTable_ColumnWidths(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("A", "LongHeader")
	tbl.AddRow("VeryLongValue", "X")

	output := tbl.Render()
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")

	if len(lines) < 3 {
		t.Fatalf("expected at least 3 lines, got %d", len(lines))
	}

	// The data row should be padded so columns align.
	dataLine := lines[2]
	if !strings.Contains(dataLine, "VeryLongValue") {
		t.Error("expected data row to contain 'VeryLongValue'")
	}
}

func TestTable_AlignRightAndIndent(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("#", "Item").AlignRight(0, 9).Indent(" ")
	for i := 1; i <= 10; i++ {
		tbl.AddRow(strconv.Itoa(i), "x")
	}

	lines := strings.Split(strings.TrimRight(tbl.Render(), "\n"), "\n")
	if len(lines) != 12 {
		t.Fatalf("expected 12 lines, got %d", len(lines))
	}
	for _, l := range lines {
		if !strings.HasPrefix(l, " ") {
			t.Errorf("line %q not indented", l)
		}
	}
	if lines[2] != "  1  x   " {
		t.Errorf("first row = %q, want right-aligned index", lines[2])
	}
	if lines[11] != " 10  x   " {
		t.Errorf("last row = %q", lines[11])
	}
}

func TestTable_WriteTo(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("Col1")
	tbl.AddRow("Val1", "dropped")

	var buf bytes.Buffer
	n, err := tbl.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if buf.String() != tbl.Render() || int(n) != buf.Len() {
		t.Errorf("WriteTo wrote %d bytes %q, want Render() output", n, buf.String())
	}
	if strings.Contains(buf.String(), "dropped") {
		t.Error("extra values must be dropped")
	}
}

func TestSetNoColor(t *testing.T) {
	SetNoColor(true)
	if !IsNoColor() {
		t.Error("IsNoColor() = false after SetNoColor(true)")
	}
	rendered := StyleHeader.Render("test")
	if strings.Contains(rendered, "\x1b[") {
		t.Error("expected no ANSI codes after SetNoColor(true)")
	}

	SetNoColor(false)
	if IsNoColor() {
		t.Error("IsNoColor() = true after SetNoColor(false)")
	}
}

func TestTable_AlignsStyledCells(t *testing.T) {
	tbl := NewTable("Priority", "Item")
	tbl.AddRow("\x1b[31mHIGH\x1b[0m", "a")
	tbl.AddRow("LOW", "b")

	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tbl.Len())
	}
	if tbl.columns[0].width != len("Priority") {
		t.Errorf("width = %d, want %d (ANSI must not count)", tbl.columns[0].width, len("Priority"))
	}
}
