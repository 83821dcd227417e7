package sheetmap

import (
	"context"
	"fmt"
	"reflect"
	"time"
	"unsafe"
)

const (
	absentValue   = ""
	zeroTimestamp = "--"
	dateTimeFmt   = "2006-01-02 15:04:05"
)

// binder walks a source value and projects its tagged fields into the
// sparse workbook state.
type binder struct {
	ctx             context.Context
	resolver        *MethodResolver
	loc             *time.Location
	presets         StylePresets
	allowUnexported bool

	schemas map[reflect.Type][]fieldSchema
	state   *workbookState
}

func newBinder(ctx context.Context, resolver *MethodResolver, loc *time.Location, presets StylePresets, allowUnexported bool) *binder {
	if loc == nil {
		loc = time.Local
	}
	return &binder{
		ctx:             ctx,
		resolver:        resolver,
		loc:             loc,
		presets:         presets,
		allowUnexported: allowUnexported,
		schemas:         make(map[reflect.Type][]fieldSchema),
		state:           newWorkbookState(),
	}
}

func (b *binder) schema(t reflect.Type) ([]fieldSchema, error) {
	if fields, ok := b.schemas[t]; ok {
		return fields, nil
	}
	fields, err := parseSchema(t, b.presets)
	if err != nil {
		return nil, err
	}
	b.schemas[t] = fields
	return fields, nil
}

// bind projects every tagged field of v. Absent values and non-struct
// values carry no tags and bind nothing.
func (b *binder) bind(v reflect.Value, baseRow int) error {
	v, ok := indirect(v)
	if !ok || v.Kind() != reflect.Struct {
		return nil
	}
	fields, err := b.schema(v.Type())
	if err != nil {
		return err
	}
	if !v.CanAddr() {
		c := reflect.New(v.Type()).Elem()
		c.Set(v)
		v = c
	}
	for _, fs := range fields {
		fv, err := b.field(v, fs)
		if err != nil {
			return err
		}
		switch fs.kind {
		case fieldMapped:
			err = b.bindCurrent(fv, fs, baseRow)
		case fieldRecursive:
			err = b.bindRecursive(fv, fs, baseRow)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// field reads a struct field, going through its address for unexported ones.
func (b *binder) field(v reflect.Value, fs fieldSchema) (reflect.Value, error) {
	fv := v.Field(fs.index)
	if fs.exported {
		return fv, nil
	}
	if !b.allowUnexported {
		return reflect.Value{}, fmt.Errorf("%w: %s.%s is unexported", ErrAccessDenied, v.Type().Name(), fs.name)
	}
	return reflect.NewAt(fv.Type(), unsafe.Pointer(fv.UnsafeAddr())).Elem(), nil
}

func (b *binder) bindCurrent(fv reflect.Value, fs fieldSchema, baseRow int) error {
	m := fs.mapping
	sheet, err := b.state.sheet(m.SheetName)
	if err != nil {
		return err
	}

	if fs.iterable && !isNil(fv) {
		err = each(fv, func(k int, elem reflect.Value) error {
			return b.write(sheet, m, k, b.resolveValue(raw(elem), m))
		})
		if err != nil {
			return err
		}
	} else {
		if err := b.write(sheet, m, baseRow, b.resolveValue(raw(fv), m)); err != nil {
			return err
		}
	}

	key := sheetColumn{m.SheetName, m.ColumnIndex}
	if fs.style != nil {
		b.state.headerStyle[key] = *fs.style
	}
	b.state.columnName[key] = b.columnName(fs)
	return nil
}

func (b *binder) bindRecursive(fv reflect.Value, fs fieldSchema, baseRow int) error {
	if !fs.iterable {
		return b.bind(fv, baseRow)
	}
	if isNil(fv) {
		return nil
	}
	return each(fv, func(k int, elem reflect.Value) error {
		return b.bind(elem, baseRow+k)
	})
}

func (b *binder) write(sheet *sparseTable, m FieldMapping, row int, v interface{}) error {
	if existing, ok := sheet.get(row, m.ColumnIndex); ok && existing != nil {
		return &ConflictError{
			Sheet:    m.SheetName,
			Row:      row,
			Column:   m.ColumnIndex,
			Existing: existing,
			Incoming: v,
		}
	}
	sheet.put(row, m.ColumnIndex, v)
	return nil
}

// resolveValue applies absent replacement, the content converter and
// timestamp formatting, in that order.
func (b *binder) resolveValue(v interface{}, m FieldMapping) interface{} {
	if v == nil {
		v = absentValue
	}
	if m.ContentConverter != "" {
		v = b.resolver.Convert(b.ctx, m.ContentConverter, v)
	}
	if !m.FormatDateTime || v == nil {
		return v
	}
	if t, ok := v.(time.Time); ok {
		if t.IsZero() {
			return zeroTimestamp
		}
		return t.In(b.loc).Format(dateTimeFmt)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Int64 {
		return v
	}
	ms := rv.Int()
	if ms == 0 {
		return zeroTimestamp
	}
	return time.UnixMilli(ms).In(b.loc).Format(dateTimeFmt)
}

// columnName picks the header text: supplier, then explicit name, then field name.
func (b *binder) columnName(fs fieldSchema) string {
	if d := fs.style; d != nil {
		if d.ColumnNameSupplier != "" {
			if name := b.resolver.Supply(b.ctx, d.ColumnNameSupplier); name != "" {
				return name
			}
		}
		if d.ColumnName != "" {
			return d.ColumnName
		}
	}
	return fs.name
}

// indirect follows pointers and interfaces. It reports false for nil.
func indirect(v reflect.Value) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return v, false
		}
		v = v.Elem()
	}
	return v, v.IsValid()
}

// raw returns the dereferenced value of v, or nil when v is absent.
func raw(v reflect.Value) interface{} {
	v, ok := indirect(v)
	if !ok || isNil(v) {
		return nil
	}
	return v.Interface()
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return !v.IsValid()
}

// each visits the elements of a slice, array or range function in order,
// stopping at the first error.
func each(v reflect.Value, fn func(k int, elem reflect.Value) error) error {
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := fn(i, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Func:
		var err error
		k := 0
		yt := v.Type().In(0)
		yield := reflect.MakeFunc(yt, func(args []reflect.Value) []reflect.Value {
			err = fn(k, args[0])
			k++
			return []reflect.Value{reflect.ValueOf(err == nil).Convert(yt.Out(0))}
		})
		v.Call([]reflect.Value{yield})
		return err
	}
	return fmt.Errorf("%w: %s is not iterable", ErrInvalidConfiguration, v.Type())
}
