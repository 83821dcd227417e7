package sheetmap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type textConverters struct{}

func (textConverters) Upper(v interface{}) interface{} {
	s, _ := v.(string)
	return strings.ToUpper(s)
}

func (textConverters) Label() string { return "Label" }

func (textConverters) Count() int { return 3 }

func (textConverters) Strict(s string) (string, error) {
	if s == "" {
		return "", errors.New("empty input")
	}
	return "[" + s + "]", nil
}

func (textConverters) Boom(v interface{}) interface{} {
	panic("boom")
}

func (textConverters) Nothing(v interface{}) {}

func newTestRegistry() *TypeRegistry {
	return NewTypeRegistry().Register(textConverters{})
}

func TestTypeRegistry_Register(t *testing.T) {
	r := newTestRegistry()

	short, err := r.LoadType("sheetmap.textConverters")
	require.NoError(t, err)
	full, err := r.LoadType("github.com/locvowork/sheetmap/pkg/sheetmap.textConverters")
	require.NoError(t, err)
	assert.Equal(t, short, full)

	r.RegisterAs("text", &textConverters{})
	alias, err := r.LoadType("text")
	require.NoError(t, err)
	assert.Equal(t, short, alias)

	_, err = r.LoadType("sheetmap.unknown")
	assert.ErrorIs(t, err, ErrTypeNotFound)
}

func TestMethodResolver_Invoke(t *testing.T) {
	r := NewMethodResolver(newTestRegistry())

	out, err := r.Invoke("sheetmap.textConverters#Upper", "abc")
	require.NoError(t, err)
	assert.Equal(t, "ABC", out)

	out, err = r.Invoke("sheetmap.textConverters#Label")
	require.NoError(t, err)
	assert.Equal(t, "Label", out)

	out, err = r.Invoke("sheetmap.textConverters#Strict", "x")
	require.NoError(t, err)
	assert.Equal(t, "[x]", out)

	// nil reaches an interface parameter as its zero value
	out, err = r.Invoke("sheetmap.textConverters#Upper", nil)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestMethodResolver_InvokeFailures(t *testing.T) {
	r := NewMethodResolver(newTestRegistry())

	tests := []struct {
		name string
		ref  string
		args []interface{}
		want error
	}{
		{name: "no separator", ref: "sheetmap.textConverters.Upper", args: []interface{}{"a"}, want: ErrMalformedMethodRef},
		{name: "whitespace", ref: "sheetmap.textConverters #Upper", args: []interface{}{"a"}, want: ErrMalformedMethodRef},
		{name: "empty method", ref: "sheetmap.textConverters#", args: []interface{}{"a"}, want: ErrMalformedMethodRef},
		{name: "unknown type", ref: "sheetmap.Missing#Upper", args: []interface{}{"a"}, want: ErrTypeNotFound},
		{name: "unknown method", ref: "sheetmap.textConverters#Lower", args: []interface{}{"a"}, want: ErrMethodNotFound},
		{name: "wrong arity", ref: "sheetmap.textConverters#Label", args: []interface{}{"a"}, want: ErrMethodSignature},
		{name: "wrong argument type", ref: "sheetmap.textConverters#Strict", args: []interface{}{42}, want: ErrMethodSignature},
		{name: "nil for string", ref: "sheetmap.textConverters#Strict", args: []interface{}{nil}, want: ErrMethodSignature},
		{name: "no result", ref: "sheetmap.textConverters#Nothing", args: []interface{}{"a"}, want: ErrMethodSignature},
		{name: "returned error", ref: "sheetmap.textConverters#Strict", args: []interface{}{""}, want: ErrInvocation},
		{name: "panic", ref: "sheetmap.textConverters#Boom", args: []interface{}{"a"}, want: ErrInvocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Invoke(tt.ref, tt.args...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMethodResolver_ConvertKeepsOrigin(t *testing.T) {
	r := NewMethodResolver(newTestRegistry())
	ctx := context.Background()

	assert.Equal(t, "ABC", r.Convert(ctx, "sheetmap.textConverters#Upper", "abc"))
	assert.Equal(t, "abc", r.Convert(ctx, "not a ref", "abc"))
	assert.Equal(t, 7, r.Convert(ctx, "sheetmap.textConverters#Boom", 7))
}

func TestMethodResolver_Supply(t *testing.T) {
	r := NewMethodResolver(newTestRegistry())
	ctx := context.Background()

	assert.Equal(t, "Label", r.Supply(ctx, "sheetmap.textConverters#Label"))
	assert.Equal(t, "", r.Supply(ctx, "sheetmap.textConverters#Count"), "non-string result")
	assert.Equal(t, "", r.Supply(ctx, "broken"))
}

func TestTypeRegistry_RegisterFunc(t *testing.T) {
	r := newTestRegistry()
	require.NoError(t, r.RegisterFunc("sheetmap.textConverters#Upper", func(v interface{}) interface{} {
		return "overridden"
	}))
	require.NoError(t, r.RegisterFunc("labels#Region", func() string { return "Region" }))

	res := NewMethodResolver(r)
	out, err := res.Invoke("sheetmap.textConverters#Upper", "abc")
	require.NoError(t, err)
	assert.Equal(t, "overridden", out)
	assert.Equal(t, "Region", res.Supply(context.Background(), "labels#Region"))

	assert.ErrorIs(t, r.RegisterFunc("bad ref", func() string { return "" }), ErrMalformedMethodRef)
	assert.ErrorIs(t, r.RegisterFunc("a#b", "not a func"), ErrMethodSignature)
}

func TestNewMethodResolver_DefaultRegistry(t *testing.T) {
	r := NewMethodResolver(nil)
	assert.Same(t, DefaultRegistry, r.loader)
}
