package sheetmap

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/width"
)

const (
	defaultSheet  = "Sheet1"
	maxColWidth   = 255
	widthPadding  = 2
	numericScale  = 2
	headerRowNum  = 1
	dataRowOffset = 2
)

// materializer drains a bound workbook state into an excelize file.
type materializer struct {
	state   *workbookState
	file    *excelize.File
	catalog *StyleCatalog
}

func newMaterializer(state *workbookState) (*materializer, error) {
	f := excelize.NewFile()
	catalog, err := NewStyleCatalog(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &materializer{state: state, file: f, catalog: catalog}, nil
}

// materialize writes every sheet in creation order and returns the file.
// On failure the file is closed.
func (m *materializer) materialize() (*excelize.File, error) {
	for i, name := range m.state.order {
		if err := m.createSheet(i, name); err != nil {
			m.file.Close()
			return nil, err
		}
		if err := m.writeSheet(name); err != nil {
			m.file.Close()
			return nil, err
		}
	}
	return m.file, nil
}

func (m *materializer) createSheet(i int, name string) error {
	if i == 0 {
		if err := m.file.SetSheetName(defaultSheet, name); err != nil {
			return fmt.Errorf("rename sheet to %q: %w", name, err)
		}
		return nil
	}
	if _, err := m.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %q: %w", name, err)
	}
	return nil
}

func (m *materializer) writeSheet(name string) error {
	sw, err := m.file.NewStreamWriter(name)
	if err != nil {
		return fmt.Errorf("open stream writer for %q: %w", name, err)
	}

	sizer := newColumnSizer()
	header, err := m.headerRow(name, sizer)
	if err != nil {
		return err
	}
	table := m.state.data[name]
	rows := table.rowIndexes()
	rendered := make([][]interface{}, len(rows))
	for i, r := range rows {
		if rendered[i], err = m.dataRow(name, r, table, sizer); err != nil {
			return err
		}
	}

	// stream writers only accept widths before the first row
	for _, col := range sizer.columns() {
		w := sizer.width(col)
		if err := sw.SetColWidth(col+1, col+1, w); err != nil {
			return fmt.Errorf("set width of column %d on %q: %w", col, name, err)
		}
	}
	if err := setRow(sw, headerRowNum, header); err != nil {
		return fmt.Errorf("write header of %q: %w", name, err)
	}
	for i, r := range rows {
		if err := setRow(sw, r+dataRowOffset, rendered[i]); err != nil {
			return fmt.Errorf("write row %d of %q: %w", r, name, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet %q: %w", name, err)
	}
	return nil
}

func setRow(sw *excelize.StreamWriter, excelRow int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, excelRow)
	if err != nil {
		return err
	}
	return sw.SetRow(cell, values)
}

// headerRow renders the column names of a sheet and registers auto-sized
// columns with the sizer before any data is sampled.
func (m *materializer) headerRow(sheet string, sizer *columnSizer) ([]interface{}, error) {
	cols := m.state.columns(sheet)
	if len(cols) == 0 {
		return nil, nil
	}
	row := make([]interface{}, cols[len(cols)-1]+1)
	for _, col := range cols {
		name := m.state.columnName[sheetColumn{sheet, col}]
		d, ok := m.state.style(sheet, col)
		if !ok {
			row[col] = name
			continue
		}
		id, _, err := m.catalog.Resolve(&d)
		if err != nil {
			return nil, err
		}
		if d.AutoSizeColumn {
			sizer.track(col)
		}
		sizer.sample(col, name)
		row[col] = excelize.Cell{StyleID: id, Value: name}
	}
	return row, nil
}

func (m *materializer) dataRow(sheet string, r int, table *sparseTable, sizer *columnSizer) ([]interface{}, error) {
	cols := table.row(r)
	if len(cols) == 0 {
		return nil, nil
	}
	row := make([]interface{}, cols[len(cols)-1]+1)
	styleID := m.catalog.DataRowStyle(r)
	for _, col := range cols {
		v, _ := table.get(r, col)
		var d *StyleDescriptor
		if desc, ok := m.state.style(sheet, col); ok {
			d = &desc
		}
		value, err := renderValue(v, d)
		if err != nil {
			return nil, fmt.Errorf("%w: sheet: %s, row: %d, column: %d: %v", ErrInvalidConfiguration, sheet, r, col, err)
		}
		sizer.sample(col, value)
		row[col] = excelize.Cell{StyleID: styleID, Value: value}
	}
	return row, nil
}

// renderValue converts a bound value to what the cell holds according to
// the column's cell type. NUMERIC columns keep a normalised decimal string.
func renderValue(v interface{}, d *StyleDescriptor) (interface{}, error) {
	text := ""
	if v != nil {
		text = fmt.Sprint(v)
	}
	if d == nil {
		return text, nil
	}
	switch d.CellType {
	case CellNumeric:
		dec, err := decimal.NewFromString(strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", text)
		}
		return dec.Round(numericScale).String(), nil
	case CellBoolean:
		return strings.EqualFold(text, "true"), nil
	default:
		return text, nil
	}
}

// columnSizer estimates widths for tracked columns from the rendered text.
type columnSizer struct {
	tracked map[int]int
}

func newColumnSizer() *columnSizer {
	return &columnSizer{tracked: make(map[int]int)}
}

func (s *columnSizer) track(col int) {
	if _, ok := s.tracked[col]; !ok {
		s.tracked[col] = 0
	}
}

func (s *columnSizer) sample(col int, v interface{}) {
	cur, ok := s.tracked[col]
	if !ok {
		return
	}
	var text string
	switch t := v.(type) {
	case bool:
		text = strings.ToUpper(fmt.Sprint(t))
	default:
		text = fmt.Sprint(t)
	}
	if w := displayWidth(text); w > cur {
		s.tracked[col] = w
	}
}

func (s *columnSizer) columns() []int {
	return sortedKeys(s.tracked)
}

func (s *columnSizer) width(col int) float64 {
	w := s.tracked[col] + widthPadding
	if w > maxColWidth {
		w = maxColWidth
	}
	return float64(w)
}

// displayWidth counts wide and fullwidth runes as two cells.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
