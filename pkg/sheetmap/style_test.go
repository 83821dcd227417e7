package sheetmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestStyleCatalog_ResolveAbsent(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	c, err := NewStyleCatalog(f)
	require.NoError(t, err)

	id, ok, err := c.Resolve(nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, id)
	assert.Zero(t, c.Len())
}

func TestStyleCatalog_EqualDescriptorsShareStyle(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	c, err := NewStyleCatalog(f)
	require.NoError(t, err)

	a := DefaultStyle()
	a.Bold = true
	a.ColumnName = "first"
	b := DefaultStyle()
	b.Bold = true
	b.ColumnName = "second"
	b.AutoSizeColumn = true

	idA, ok, err := c.Resolve(&a)
	require.NoError(t, err)
	require.True(t, ok)
	idB, _, err := c.Resolve(&b)
	require.NoError(t, err)

	assert.Equal(t, idA, idB)
	assert.Equal(t, 1, c.Len())

	b.Italic = true
	idC, _, err := c.Resolve(&b)
	require.NoError(t, err)
	assert.NotEqual(t, idA, idC)
	assert.Equal(t, 2, c.Len())
}

func TestStyleCatalog_BuildsFromDescriptor(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	c, err := NewStyleCatalog(f)
	require.NoError(t, err)

	d := DefaultStyle()
	d.FillPattern = FillSolid
	d.BackgroundColor = 0xFF4472C4
	d.HorizontalAlignment = "center"
	d.FontSize = 14
	d.Bold = true
	d.Italic = true
	d.Underline = UnderlineSingle

	id, _, err := c.Resolve(&d)
	require.NoError(t, err)

	style, err := f.GetStyle(id)
	require.NoError(t, err)
	assert.Equal(t, int(FillSolid), style.Fill.Pattern)
	require.NotNil(t, style.Alignment)
	assert.Equal(t, "center", style.Alignment.Horizontal)
	assert.Equal(t, "bottom", style.Alignment.Vertical)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
	assert.True(t, style.Font.Italic)
	assert.Equal(t, "single", style.Font.Underline)
	assert.Equal(t, 14.0, style.Font.Size)
}

func TestStyleCatalog_DataRowStyles(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	c, err := NewStyleCatalog(f)
	require.NoError(t, err)

	assert.Equal(t, c.DataRowStyle(0), c.DataRowStyle(2))
	assert.Equal(t, c.DataRowStyle(1), c.DataRowStyle(3))
	assert.NotEqual(t, c.DataRowStyle(0), c.DataRowStyle(1))

	even, err := f.GetStyle(c.DataRowStyle(0))
	require.NoError(t, err)
	assert.Equal(t, int(FillSolid), even.Fill.Pattern)
}

func TestRgbHex(t *testing.T) {
	assert.Equal(t, "4472C4", rgbHex(0xFF4472C4))
	assert.Equal(t, "000000", rgbHex(0xFF000000))
	assert.Equal(t, "FFFFFF", rgbHex(0x00FFFFFF))
}

func TestParseColor(t *testing.T) {
	c, err := parseColor("#CCE8FF")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFCCE8FF), c)

	c, err = parseColor("80FF0000")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x80FF0000), c)

	c, err = parseColor("Dark_Blue")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFF000080), c)

	_, err = parseColor("12345")
	assert.Error(t, err)
}
