package sheetmap

import (
	"fmt"
	"sort"
	"strings"
)

// sparseTable is a (row, column) -> value store for one sheet.
type sparseTable struct {
	rows map[int]map[int]interface{}
}

func newSparseTable() *sparseTable {
	return &sparseTable{rows: make(map[int]map[int]interface{})}
}

func (t *sparseTable) get(row, col int) (interface{}, bool) {
	r, ok := t.rows[row]
	if !ok {
		return nil, false
	}
	v, ok := r[col]
	return v, ok
}

func (t *sparseTable) put(row, col int, v interface{}) {
	r, ok := t.rows[row]
	if !ok {
		r = make(map[int]interface{})
		t.rows[row] = r
	}
	r[col] = v
}

// rowIndexes returns populated rows in ascending order.
func (t *sparseTable) rowIndexes() []int {
	return sortedKeys(t.rows)
}

// row returns the populated columns of a row in ascending order.
func (t *sparseTable) row(row int) []int {
	return sortedKeys(t.rows[row])
}

func (t *sparseTable) len() int {
	n := 0
	for _, r := range t.rows {
		n += len(r)
	}
	return n
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

type sheetColumn struct {
	sheet  string
	column int
}

// workbookState is the sparse workbook built by binding and drained by
// materialization. It lives for a single generation run.
type workbookState struct {
	order       []string
	data        map[string]*sparseTable
	headerStyle map[sheetColumn]StyleDescriptor
	columnName  map[sheetColumn]string
}

func newWorkbookState() *workbookState {
	return &workbookState{
		data:        make(map[string]*sparseTable),
		headerStyle: make(map[sheetColumn]StyleDescriptor),
		columnName:  make(map[sheetColumn]string),
	}
}

// sheet returns the table for name, creating it on first use. Sheet names
// are case-insensitive in a workbook, so a name differing from an existing
// one only by case is rejected.
func (s *workbookState) sheet(name string) (*sparseTable, error) {
	if t, ok := s.data[name]; ok {
		return t, nil
	}
	for _, existing := range s.order {
		if strings.EqualFold(existing, name) {
			return nil, fmt.Errorf("%w: sheet %q clashes with sheet %q", ErrInvalidConfiguration, name, existing)
		}
	}
	t := newSparseTable()
	s.data[name] = t
	s.order = append(s.order, name)
	return t, nil
}

// columns returns the header columns recorded for a sheet in ascending order.
func (s *workbookState) columns(sheet string) []int {
	var cols []int
	for k := range s.columnName {
		if k.sheet == sheet {
			cols = append(cols, k.column)
		}
	}
	sort.Ints(cols)
	return cols
}

func (s *workbookState) style(sheet string, col int) (StyleDescriptor, bool) {
	d, ok := s.headerStyle[sheetColumn{sheet, col}]
	return d, ok
}
