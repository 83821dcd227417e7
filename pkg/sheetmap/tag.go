package sheetmap

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	// TagMapping binds a field to a cell, or marks it for recursive descent.
	TagMapping = "xlsx"
	// TagStyle describes the column header style and target cell type.
	TagStyle = "xlsxstyle"

	DefaultSheetName = "sheet"
	recursiveOption  = "recursive"
)

// FieldMapping binds one struct field to one column of one sheet.
type FieldMapping struct {
	SheetName        string
	ColumnIndex      int
	FormatDateTime   bool
	ContentConverter string
}

type fieldKind int

const (
	fieldMapped fieldKind = iota + 1
	fieldRecursive
)

// fieldSchema is the parsed form of one tagged struct field.
type fieldSchema struct {
	index    int
	name     string
	exported bool
	kind     fieldKind
	iterable bool
	mapping  FieldMapping
	style    *StyleDescriptor
}

// tagOptions splits "k=v,flag,k2=v2" into ordered pairs.
func tagOptions(tag string) [][2]string {
	var out [][2]string
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		out = append(out, [2]string{strings.ToLower(strings.TrimSpace(k)), strings.TrimSpace(v)})
	}
	return out
}

func parseMappingTag(tag string) (FieldMapping, bool, error) {
	m := FieldMapping{SheetName: DefaultSheetName, ColumnIndex: -1}
	recursive := false
	for _, kv := range tagOptions(tag) {
		key, val := kv[0], kv[1]
		switch key {
		case recursiveOption:
			recursive = true
		case "column", "col":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return m, false, fmt.Errorf("column must be a non-negative integer, got %q", val)
			}
			if n >= excelize.MaxColumns {
				return m, false, fmt.Errorf("column %d exceeds the sheet limit of %d columns", n, excelize.MaxColumns)
			}
			m.ColumnIndex = n
		case "sheet":
			if val == "" {
				return m, false, fmt.Errorf("sheet name must not be empty")
			}
			m.SheetName = val
		case "datetime":
			b, err := parseFlag(val)
			if err != nil {
				return m, false, fmt.Errorf("datetime: %v", err)
			}
			m.FormatDateTime = b
		case "converter":
			m.ContentConverter = val
		default:
			return m, false, fmt.Errorf("unknown option %q", key)
		}
	}
	if m.ColumnIndex >= 0 {
		return m, false, nil
	}
	if recursive {
		return m, true, nil
	}
	return m, false, fmt.Errorf("column is required")
}

func parseStyleTag(tag string, presets StylePresets) (StyleDescriptor, error) {
	d := DefaultStyle()
	opts := tagOptions(tag)
	// a preset is the base the remaining options are layered on
	for _, kv := range opts {
		if kv[0] == "preset" {
			if err := d.apply(kv[0], kv[1], presets); err != nil {
				return d, err
			}
		}
	}
	for _, kv := range opts {
		if kv[0] == "preset" {
			continue
		}
		if err := d.apply(kv[0], kv[1], presets); err != nil {
			return d, err
		}
	}
	return d, nil
}

var byteSliceType = reflect.TypeOf([]byte(nil))

// isIterable reports whether a declared type is an ordered sequence:
// a slice or array other than []byte, or a range function func(func(T) bool).
func isIterable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Slice:
		return t != byteSliceType
	case reflect.Array:
		return true
	case reflect.Func:
		return isRangeFunc(t)
	}
	return false
}

func isMap(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Map
}

func isRangeFunc(t reflect.Type) bool {
	if t.Kind() != reflect.Func || t.NumIn() != 1 || t.NumOut() != 0 {
		return false
	}
	yield := t.In(0)
	return yield.Kind() == reflect.Func && yield.NumIn() == 1 &&
		yield.NumOut() == 1 && yield.Out(0).Kind() == reflect.Bool
}

// parseSchema collects the tagged fields of a struct type in declaration order.
func parseSchema(t reflect.Type, presets StylePresets) ([]fieldSchema, error) {
	var fields []fieldSchema
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup(TagMapping)
		if !ok || tag == "-" {
			continue
		}
		mapping, recursive, err := parseMappingTag(tag)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %v", ErrInvalidConfiguration, t.Name(), sf.Name, err)
		}
		if isMap(sf.Type) {
			return nil, fmt.Errorf("%w: %s.%s: maps have no element order, use a slice", ErrInvalidConfiguration, t.Name(), sf.Name)
		}
		fs := fieldSchema{
			index:    i,
			name:     sf.Name,
			exported: sf.IsExported(),
			iterable: isIterable(sf.Type),
		}
		if recursive {
			fs.kind = fieldRecursive
			fields = append(fields, fs)
			continue
		}
		fs.kind = fieldMapped
		fs.mapping = mapping
		if styleTag, ok := sf.Tag.Lookup(TagStyle); ok {
			d, err := parseStyleTag(styleTag, presets)
			if err != nil {
				return nil, fmt.Errorf("%w: %s.%s: %v", ErrInvalidConfiguration, t.Name(), sf.Name, err)
			}
			fs.style = &d
		}
		fields = append(fields, fs)
	}
	return fields, nil
}
