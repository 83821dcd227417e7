package sheetmap

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
)

const methodRefSplitter = "#"

var methodRefPattern = regexp.MustCompile(`^\S+#\S+$`)

// TypeLoader resolves the type half of a "<type>#<method>" reference.
type TypeLoader interface {
	LoadType(name string) (reflect.Type, error)
}

// funcLoader is implemented by loaders that also hold plain function values.
type funcLoader interface {
	LoadFunc(ref string) (reflect.Value, bool)
}

// TypeRegistry is a TypeLoader backed by explicitly registered types and functions.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
	funcs map[string]reflect.Value
}

// DefaultRegistry is used when an Exporter is built without WithTypeLoader.
var DefaultRegistry = NewTypeRegistry()

// RegisterType adds samples to DefaultRegistry.
func RegisterType(samples ...interface{}) {
	DefaultRegistry.Register(samples...)
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		types: make(map[string]reflect.Type),
		funcs: make(map[string]reflect.Value),
	}
}

// Register makes the types of samples loadable both by their short name
// (pkg.Type) and by their fully qualified name (import/path.Type).
func (r *TypeRegistry) Register(samples ...interface{}) *TypeRegistry {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range samples {
		t := reflect.TypeOf(s)
		if t == nil {
			continue
		}
		for t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		r.types[t.String()] = t
		if t.PkgPath() != "" && t.Name() != "" {
			r.types[t.PkgPath()+"."+t.Name()] = t
		}
	}
	return r
}

// RegisterAs makes the type of sample loadable under an explicit name.
func (r *TypeRegistry) RegisterAs(name string, sample interface{}) *TypeRegistry {
	t := reflect.TypeOf(sample)
	if t == nil {
		return r
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	r.mu.Lock()
	r.types[name] = t
	r.mu.Unlock()
	return r
}

// RegisterFunc binds a full method reference directly to a function value.
func (r *TypeRegistry) RegisterFunc(ref string, fn interface{}) error {
	if !methodRefPattern.MatchString(ref) {
		return fmt.Errorf("%w: %q", ErrMalformedMethodRef, ref)
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return fmt.Errorf("%w: %q is bound to %T, not a function", ErrMethodSignature, ref, fn)
	}
	r.mu.Lock()
	r.funcs[ref] = v
	r.mu.Unlock()
	return nil
}

func (r *TypeRegistry) LoadType(name string) (reflect.Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
	}
	return t, nil
}

func (r *TypeRegistry) LoadFunc(ref string) (reflect.Value, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[ref]
	return fn, ok
}

// MethodResolver invokes converters and column-name suppliers by reference.
// It holds no state besides its loader; every call re-resolves.
type MethodResolver struct {
	loader TypeLoader
}

func NewMethodResolver(loader TypeLoader) *MethodResolver {
	if loader == nil {
		loader = DefaultRegistry
	}
	return &MethodResolver{loader: loader}
}

// Invoke resolves ref and calls it with args, returning its first result.
func (r *MethodResolver) Invoke(ref string, args ...interface{}) (interface{}, error) {
	fn, err := r.lookup(ref)
	if err != nil {
		return nil, err
	}
	return call(ref, fn, args)
}

// Convert runs a content converter. Any failure yields origin unchanged.
func (r *MethodResolver) Convert(ctx context.Context, ref string, origin interface{}) interface{} {
	out, err := r.Invoke(ref, origin)
	if err != nil {
		loggerFrom(ctx).Warn().Err(err).Str("converter", ref).Msg("content converter failed, keeping original value")
		return origin
	}
	return out
}

// Supply runs a column-name supplier. Any failure yields "".
func (r *MethodResolver) Supply(ctx context.Context, ref string) string {
	out, err := r.Invoke(ref)
	if err == nil {
		if v := reflect.ValueOf(out); v.IsValid() && v.Kind() == reflect.String {
			return v.String()
		}
		err = fmt.Errorf("%w: %s returned %T, want string", ErrMethodSignature, ref, out)
	}
	loggerFrom(ctx).Warn().Err(err).Str("supplier", ref).Msg("column name supplier failed")
	return ""
}

func (r *MethodResolver) lookup(ref string) (reflect.Value, error) {
	if !methodRefPattern.MatchString(ref) {
		return reflect.Value{}, fmt.Errorf("%w: %q", ErrMalformedMethodRef, ref)
	}
	if fl, ok := r.loader.(funcLoader); ok {
		if fn, ok := fl.LoadFunc(ref); ok {
			return fn, nil
		}
	}
	typeName, methodName, _ := strings.Cut(ref, methodRefSplitter)
	t, err := r.loader.LoadType(typeName)
	if err != nil {
		return reflect.Value{}, err
	}
	// a fresh zero receiver makes the method independent of any instance
	m := reflect.New(t).MethodByName(methodName)
	if !m.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: %s has no exported method %s", ErrMethodNotFound, typeName, methodName)
	}
	return m, nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func call(ref string, fn reflect.Value, args []interface{}) (result interface{}, err error) {
	ft := fn.Type()
	if ft.IsVariadic() || ft.NumIn() != len(args) {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrMethodSignature, ref, ft.NumIn(), len(args))
	}
	if ft.NumOut() == 0 || ft.NumOut() > 2 || (ft.NumOut() == 2 && ft.Out(1) != errorType) {
		return nil, fmt.Errorf("%w: %s must return a value and an optional error", ErrMethodSignature, ref)
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		want := ft.In(i)
		if a == nil {
			switch want.Kind() {
			case reflect.Interface, reflect.Ptr, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
				in[i] = reflect.Zero(want)
				continue
			}
			return nil, fmt.Errorf("%w: %s argument %d cannot be nil", ErrMethodSignature, ref, i)
		}
		v := reflect.ValueOf(a)
		if !v.Type().AssignableTo(want) {
			return nil, fmt.Errorf("%w: %s argument %d is %s, want %s", ErrMethodSignature, ref, i, v.Type(), want)
		}
		in[i] = v
	}

	defer func() {
		if p := recover(); p != nil {
			result, err = nil, fmt.Errorf("%w: %s panicked: %v", ErrInvocation, ref, p)
		}
	}()
	out := fn.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvocation, ref, out[1].Interface())
	}
	return out[0].Interface(), nil
}
