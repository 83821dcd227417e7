package sheetmap

import (
	"fmt"
	"strconv"
	"strings"
)

// CellType is the target cell type of a column.
type CellType int

const (
	CellString CellType = iota
	CellNumeric
	CellBoolean
)

func (t CellType) String() string {
	switch t {
	case CellNumeric:
		return "numeric"
	case CellBoolean:
		return "boolean"
	default:
		return "string"
	}
}

func parseCellType(s string) (CellType, error) {
	switch strings.ToLower(s) {
	case "", "string":
		return CellString, nil
	case "numeric", "number":
		return CellNumeric, nil
	case "boolean", "bool":
		return CellBoolean, nil
	}
	return CellString, fmt.Errorf("unknown cell type %q", s)
}

// FillPattern values follow the excelize pattern numbering.
type FillPattern int

const (
	FillNone FillPattern = iota
	FillSolid
	FillMediumGray
	FillDarkGray
	FillLightGray
	FillDarkHorizontal
	FillDarkVertical
	FillDarkDown
	FillDarkUp
	FillDarkGrid
	FillDarkTrellis
	FillLightHorizontal
	FillLightVertical
	FillLightDown
	FillLightUp
	FillLightGrid
	FillLightTrellis
	FillGray125
	FillGray0625
)

var fillPatternNames = map[string]FillPattern{
	"none":            FillNone,
	"solid":           FillSolid,
	"mediumgray":      FillMediumGray,
	"darkgray":        FillDarkGray,
	"lightgray":       FillLightGray,
	"darkhorizontal":  FillDarkHorizontal,
	"darkvertical":    FillDarkVertical,
	"darkdown":        FillDarkDown,
	"darkup":          FillDarkUp,
	"darkgrid":        FillDarkGrid,
	"darktrellis":     FillDarkTrellis,
	"lighthorizontal": FillLightHorizontal,
	"lightvertical":   FillLightVertical,
	"lightdown":       FillLightDown,
	"lightup":         FillLightUp,
	"lightgrid":       FillLightGrid,
	"lighttrellis":    FillLightTrellis,
	"gray125":         FillGray125,
	"gray0625":        FillGray0625,
}

func parseFillPattern(s string) (FillPattern, error) {
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(s))
	if p, ok := fillPatternNames[key]; ok {
		return p, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= int(FillNone) && n <= int(FillGray0625) {
		return FillPattern(n), nil
	}
	return FillNone, fmt.Errorf("unknown fill pattern %q", s)
}

// Underline is the font underline kind.
type Underline string

const (
	UnderlineNone   Underline = ""
	UnderlineSingle Underline = "single"
	UnderlineDouble Underline = "double"
)

func parseUnderline(s string) (Underline, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return UnderlineNone, nil
	case "single":
		return UnderlineSingle, nil
	case "double":
		return UnderlineDouble, nil
	}
	return UnderlineNone, fmt.Errorf("unknown underline %q", s)
}

var horizontalAlignments = map[string]string{
	"general":          "",
	"left":             "left",
	"center":           "center",
	"right":            "right",
	"fill":             "fill",
	"justify":          "justify",
	"centercontinuous": "centerContinuous",
	"distributed":      "distributed",
}

var verticalAlignments = map[string]string{
	"top":         "top",
	"center":      "center",
	"bottom":      "bottom",
	"justify":     "justify",
	"distributed": "distributed",
}

// Named ARGB colors, a subset of the classic indexed palette.
var namedColors = map[string]uint32{
	"black":        0xFF000000,
	"white":        0xFFFFFFFF,
	"red":          0xFFFF0000,
	"bright_green": 0xFF00FF00,
	"blue":         0xFF0000FF,
	"yellow":       0xFFFFFF00,
	"pink":         0xFFFF00FF,
	"turquoise":    0xFF00FFFF,
	"dark_red":     0xFF800000,
	"green":        0xFF008000,
	"dark_blue":    0xFF000080,
	"violet":       0xFF800080,
	"teal":         0xFF008080,
	"grey_25":      0xFFC0C0C0,
	"grey_50":      0xFF808080,
	"light_blue":   0xFF99CCFF,
	"orange":       0xFFFF9900,
}

// parseColor accepts ARGB hex (FF4472C4), RGB hex (#4472C4) or a palette name.
func parseColor(s string) (uint32, error) {
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q", s)
		}
		return 0xFF000000 | uint32(v), nil
	case 8:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q", s)
		}
		return uint32(v), nil
	}
	return 0, fmt.Errorf("invalid color %q", s)
}

// rgbHex drops the alpha channel of an ARGB value and renders RRGGBB.
func rgbHex(argb uint32) string {
	r := (argb >> 16) & 0xFF
	g := (argb >> 8) & 0xFF
	b := argb & 0xFF
	return fmt.Sprintf("%02X%02X%02X", r, g, b)
}

// StyleDescriptor describes a header cell's appearance and the column's
// target cell type. It is comparable and used as a cache key.
type StyleDescriptor struct {
	CellType           CellType
	ColumnName         string
	ColumnNameSupplier string
	AutoSizeColumn     bool

	BackgroundColor     uint32
	FillPattern         FillPattern
	HorizontalAlignment string
	VerticalAlignment   string
	FontColor           uint32
	FontSize            float64
	Bold                bool
	Italic              bool
	Underline           Underline
}

// DefaultStyle returns the descriptor used when a style tag sets nothing.
func DefaultStyle() StyleDescriptor {
	return StyleDescriptor{
		CellType:          CellString,
		BackgroundColor:   0xFFFFFFFF,
		FillPattern:       FillNone,
		VerticalAlignment: "bottom",
		FontColor:         0xFF000000,
		FontSize:          12,
	}
}

// visualKey is the part of a descriptor that affects the rendered style.
type visualKey struct {
	background uint32
	fill       FillPattern
	horizontal string
	vertical   string
	fontColor  uint32
	fontSize   float64
	bold       bool
	italic     bool
	underline  Underline
}

func (d StyleDescriptor) visual() visualKey {
	return visualKey{
		background: d.BackgroundColor,
		fill:       d.FillPattern,
		horizontal: d.HorizontalAlignment,
		vertical:   d.VerticalAlignment,
		fontColor:  d.FontColor,
		fontSize:   d.FontSize,
		bold:       d.Bold,
		italic:     d.Italic,
		underline:  d.Underline,
	}
}

// apply sets one style option onto the descriptor.
func (d *StyleDescriptor) apply(key, val string, presets StylePresets) error {
	var err error
	switch key {
	case "preset":
		p, ok := presets[val]
		if !ok {
			return fmt.Errorf("unknown style preset %q", val)
		}
		*d = p
	case "type":
		d.CellType, err = parseCellType(val)
	case "name":
		d.ColumnName = val
	case "supplier":
		d.ColumnNameSupplier = val
	case "autosize":
		d.AutoSizeColumn, err = parseFlag(val)
	case "bg", "background":
		d.BackgroundColor, err = parseColor(val)
	case "fill":
		d.FillPattern, err = parseFillPattern(val)
	case "halign":
		h, ok := horizontalAlignments[strings.ToLower(val)]
		if !ok {
			return fmt.Errorf("unknown horizontal alignment %q", val)
		}
		d.HorizontalAlignment = h
	case "valign":
		v, ok := verticalAlignments[strings.ToLower(val)]
		if !ok {
			return fmt.Errorf("unknown vertical alignment %q", val)
		}
		d.VerticalAlignment = v
	case "color", "fontcolor":
		d.FontColor, err = parseColor(val)
	case "size":
		d.FontSize, err = strconv.ParseFloat(val, 64)
		if err == nil && (d.FontSize <= 0 || d.FontSize > 409) {
			err = fmt.Errorf("font size %v out of range", d.FontSize)
		}
	case "bold":
		d.Bold, err = parseFlag(val)
	case "italic":
		d.Italic, err = parseFlag(val)
	case "underline":
		d.Underline, err = parseUnderline(val)
	default:
		return fmt.Errorf("unknown style option %q", key)
	}
	return err
}

func parseFlag(val string) (bool, error) {
	if val == "" {
		return true, nil
	}
	return strconv.ParseBool(val)
}
