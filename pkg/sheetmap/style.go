package sheetmap

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	evenRowColor = "EFF3FC"
	oddRowColor  = "CCE8FF"
)

// StyleCatalog turns style descriptors into excelize style IDs, creating
// each distinct look once per workbook.
type StyleCatalog struct {
	file    *excelize.File
	cache   map[visualKey]int
	evenRow int
	oddRow  int
}

// NewStyleCatalog registers the alternating data-row fills on f up front.
func NewStyleCatalog(f *excelize.File) (*StyleCatalog, error) {
	c := &StyleCatalog{
		file:  f,
		cache: make(map[visualKey]int),
	}
	var err error
	if c.evenRow, err = f.NewStyle(rowFill(evenRowColor)); err != nil {
		return nil, fmt.Errorf("create even row style: %w", err)
	}
	if c.oddRow, err = f.NewStyle(rowFill(oddRowColor)); err != nil {
		return nil, fmt.Errorf("create odd row style: %w", err)
	}
	return c, nil
}

func rowFill(color string) *excelize.Style {
	return &excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: int(FillSolid)},
	}
}

// Resolve returns the style ID for d. A nil descriptor has no style.
func (c *StyleCatalog) Resolve(d *StyleDescriptor) (int, bool, error) {
	if d == nil {
		return 0, false, nil
	}
	key := d.visual()
	if id, ok := c.cache[key]; ok {
		return id, true, nil
	}
	id, err := c.file.NewStyle(buildStyle(*d))
	if err != nil {
		return 0, false, fmt.Errorf("create header style: %w", err)
	}
	c.cache[key] = id
	return id, true, nil
}

// DataRowStyle returns the fill for a data row by the parity of its sparse index.
func (c *StyleCatalog) DataRowStyle(row int) int {
	if row%2 == 0 {
		return c.evenRow
	}
	return c.oddRow
}

// Len reports how many descriptor styles have been created.
func (c *StyleCatalog) Len() int {
	return len(c.cache)
}

func buildStyle(d StyleDescriptor) *excelize.Style {
	style := &excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{rgbHex(d.BackgroundColor)},
			Pattern: int(d.FillPattern),
		},
		Alignment: &excelize.Alignment{
			Horizontal: d.HorizontalAlignment,
			Vertical:   d.VerticalAlignment,
		},
		Font: &excelize.Font{
			Color:     rgbHex(d.FontColor),
			Size:      d.FontSize,
			Bold:      d.Bold,
			Italic:    d.Italic,
			Underline: string(d.Underline),
		},
	}
	return style
}
