package sheetmap

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMappingTag(t *testing.T) {
	tests := []struct {
		name      string
		tag       string
		want      FieldMapping
		recursive bool
		wantErr   bool
	}{
		{
			name: "column only",
			tag:  "column=3",
			want: FieldMapping{SheetName: DefaultSheetName, ColumnIndex: 3},
		},
		{
			name: "all options",
			tag:  "col=1, sheet=orders, datetime, converter=pkg.T#Conv",
			want: FieldMapping{SheetName: "orders", ColumnIndex: 1, FormatDateTime: true, ContentConverter: "pkg.T#Conv"},
		},
		{
			name:      "recursive",
			tag:       "recursive",
			want:      FieldMapping{SheetName: DefaultSheetName, ColumnIndex: -1},
			recursive: true,
		},
		{
			name: "column wins over recursive",
			tag:  "recursive,column=2",
			want: FieldMapping{SheetName: DefaultSheetName, ColumnIndex: 2},
		},
		{name: "missing column", tag: "sheet=a", wantErr: true},
		{name: "negative column", tag: "column=-1", wantErr: true},
		{name: "last column", tag: "column=16383", want: FieldMapping{SheetName: DefaultSheetName, ColumnIndex: 16383}},
		{name: "column past sheet limit", tag: "column=16384", wantErr: true},
		{name: "huge column", tag: "column=1152921504606846976", wantErr: true},
		{name: "empty sheet", tag: "column=0,sheet=", wantErr: true},
		{name: "unknown option", tag: "column=0,colour=red", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, recursive, err := parseMappingTag(tt.tag)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.recursive, recursive)
		})
	}
}

func TestParseStyleTag(t *testing.T) {
	d, err := parseStyleTag("type=numeric,name=Amount,bg=#4472C4,fill=solid,halign=center,color=white,size=14,bold,underline=double,autosize", nil)
	require.NoError(t, err)

	assert.Equal(t, CellNumeric, d.CellType)
	assert.Equal(t, "Amount", d.ColumnName)
	assert.Equal(t, uint32(0xFF4472C4), d.BackgroundColor)
	assert.Equal(t, FillSolid, d.FillPattern)
	assert.Equal(t, "center", d.HorizontalAlignment)
	assert.Equal(t, "bottom", d.VerticalAlignment)
	assert.Equal(t, uint32(0xFFFFFFFF), d.FontColor)
	assert.Equal(t, 14.0, d.FontSize)
	assert.True(t, d.Bold)
	assert.False(t, d.Italic)
	assert.Equal(t, UnderlineDouble, d.Underline)
	assert.True(t, d.AutoSizeColumn)
}

func TestParseStyleTag_Preset(t *testing.T) {
	header := DefaultStyle()
	header.Bold = true
	header.FillPattern = FillSolid
	presets := StylePresets{"header": header}

	// preset is applied first even when listed last
	d, err := parseStyleTag("name=Total,preset=header,bold=false", presets)
	require.NoError(t, err)
	assert.Equal(t, "Total", d.ColumnName)
	assert.Equal(t, FillSolid, d.FillPattern)
	assert.False(t, d.Bold)

	_, err = parseStyleTag("preset=missing", presets)
	assert.Error(t, err)
}

func TestParseStyleTag_Invalid(t *testing.T) {
	for _, tag := range []string{
		"type=date",
		"bg=notacolor",
		"fill=zigzag",
		"halign=middle",
		"valign=left",
		"size=0",
		"size=500",
		"bold=maybe",
		"underline=wavy",
		"shadow",
	} {
		_, err := parseStyleTag(tag, nil)
		assert.Error(t, err, tag)
	}
}

type schemaSample struct {
	Name    string               `xlsx:"column=0" xlsxstyle:"name=Full name"`
	Tags    []string             `xlsx:"column=1,sheet=tags"`
	Payload []byte               `xlsx:"column=2"`
	Seq     func(func(int) bool) `xlsx:"column=3"`
	Child   *schemaSample        `xlsx:"recursive"`
	Ignored string
	Skipped string `xlsx:"-"`
	secret  string `xlsx:"column=4"`
}

func TestParseSchema(t *testing.T) {
	fields, err := parseSchema(reflect.TypeOf(schemaSample{}), nil)
	require.NoError(t, err)
	require.Len(t, fields, 6)

	assert.Equal(t, "Name", fields[0].name)
	require.NotNil(t, fields[0].style)
	assert.Equal(t, "Full name", fields[0].style.ColumnName)

	assert.True(t, fields[1].iterable)
	assert.Equal(t, "tags", fields[1].mapping.SheetName)

	assert.False(t, fields[2].iterable, "[]byte is a scalar")
	assert.True(t, fields[3].iterable, "range funcs iterate")

	assert.Equal(t, fieldRecursive, fields[4].kind)
	assert.False(t, fields[4].iterable)

	assert.Equal(t, "secret", fields[5].name)
	assert.False(t, fields[5].exported)
}

func TestParseSchema_Invalid(t *testing.T) {
	type broken struct {
		A string `xlsx:"sheet=x"`
	}
	_, err := parseSchema(reflect.TypeOf(broken{}), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "broken.A")
}

func TestParseSchema_RejectsMaps(t *testing.T) {
	type set struct {
		Members map[string]struct{} `xlsx:"recursive"`
	}
	_, err := parseSchema(reflect.TypeOf(set{}), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "set.Members")

	type lookup struct {
		Index *map[int]string `xlsx:"column=0"`
	}
	_, err = parseSchema(reflect.TypeOf(lookup{}), nil)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
