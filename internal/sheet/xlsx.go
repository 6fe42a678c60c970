// Package sheet reads the input workbooks and writes the enriched output workbook.
package sheet

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadOptions selects the sheet to read.
type ReadOptions struct {
	SheetName string // empty reads the first sheet
}

// Table is a sheet split into its header row and data rows. Cell text is kept
// verbatim. Header and every data row have the same width: the rightmost
// non-empty cell of the sheet.
type Table struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of the header that exactly matches name,
// or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// ReadTable reads an XLSX sheet, treating the first row as the header.
// Trailing empty rows are dropped. A column with data but no header gets an
// empty header cell rather than being discarded.
func ReadTable(path string, opts ReadOptions) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "sheet: open %s", path)
	}

	sh, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	t := &Table{}
	for i, row := range sh.Rows {
		var cells []string
		if row != nil {
			cells = rowToStrings(row)
		}
		if i == 0 {
			t.Header = cells
			continue
		}
		t.Rows = append(t.Rows, cells)
	}

	for len(t.Rows) > 0 && isBlank(t.Rows[len(t.Rows)-1]) {
		t.Rows = t.Rows[:len(t.Rows)-1]
	}

	width := usedWidth(t.Header)
	for _, r := range t.Rows {
		width = max(width, usedWidth(r))
	}
	t.Header = fitWidth(t.Header, width)
	for i, r := range t.Rows {
		t.Rows[i] = fitWidth(r, width)
	}

	return t, nil
}

func getSheet(f *xlsx.File, opts ReadOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sh, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("sheet: sheet %q not found", opts.SheetName)
		}
		return sh, nil
	}

	if len(f.Sheets) == 0 {
		return nil, eris.New("sheet: workbook has no sheets")
	}
	return f.Sheets[0], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

// usedWidth is the position after the last non-empty cell.
func usedWidth(cells []string) int {
	n := len(cells)
	for n > 0 && cells[n-1] == "" {
		n--
	}
	return n
}

func fitWidth(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

func isBlank(row []string) bool {
	return usedWidth(row) == 0
}
