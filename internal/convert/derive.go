package convert

import (
	"fmt"
	"reflect"
	"strings"

	"irx/internal/diag"
	"irx/internal/exported"
	"irx/internal/host"
)

var (
	stringerType = reflect.TypeFor[fmt.Stringer]()
	spanType     = reflect.TypeFor[host.Span]()
)

type scalarClass uint8

const (
	classNone scalarClass = iota
	classBool
	classSigned
	classUnsigned
	classFloat
	classString
)

func classOf(k reflect.Kind) scalarClass {
	switch k {
	case reflect.Bool:
		return classBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return classSigned
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return classUnsigned
	case reflect.Float32, reflect.Float64:
		return classFloat
	case reflect.String:
		return classString
	}
	return classNone
}

// derive builds the structural plan for p, or explains why there is none.
func (r *Registry) derive(p pair) (convFunc, error) {
	src, dst := p.src, p.dst
	sc, dc := classOf(src.Kind()), classOf(dst.Kind())

	switch {
	case dc == classString && (sc == classSigned || sc == classUnsigned) && src.Implements(stringerType):
		return stringerPlan(dst), nil
	case sc != classNone && sc == dc:
		return scalarPlan(dst, sc), nil
	case sc != classNone || dc != classNone:
		return nil, fmt.Errorf("incompatible scalar kinds %s and %s", src.Kind(), dst.Kind())
	}

	switch src.Kind() {
	case reflect.Pointer:
		if dst.Kind() == reflect.Pointer {
			return r.ptrPlan(dst), nil
		}
		return nil, fmt.Errorf("pointer source needs a pointer destination")
	case reflect.Slice:
		if dst.Kind() == reflect.Slice {
			return r.slicePlan(dst), nil
		}
	case reflect.Map:
		if dst.Kind() == reflect.Map {
			return r.mapPlan(dst), nil
		}
	case reflect.Interface:
		if exported.IsOneof(dst) {
			return r.oneofPlan(src, dst)
		}
		return nil, fmt.Errorf("interface source needs a oneof destination")
	case reflect.Struct:
		if dst.Kind() == reflect.Struct {
			return r.structPlan(src, dst)
		}
	}
	if dst.Kind() == reflect.Pointer {
		return r.boxPlan(dst), nil
	}
	return nil, fmt.Errorf("no structural rule for %s into %s", src.Kind(), dst.Kind())
}

func stringerPlan(dst reflect.Type) convFunc {
	return func(_ *Context, src reflect.Value) reflect.Value {
		out := reflect.New(dst).Elem()
		out.SetString(src.Interface().(fmt.Stringer).String())
		return out
	}
}

func scalarPlan(dst reflect.Type, class scalarClass) convFunc {
	return func(cx *Context, src reflect.Value) reflect.Value {
		out := reflect.New(dst).Elem()
		switch class {
		case classBool:
			out.SetBool(src.Bool())
		case classString:
			out.SetString(src.String())
		case classFloat:
			out.SetFloat(src.Float())
		case classSigned:
			if out.OverflowInt(src.Int()) {
				cx.Errorf(diag.ConvSchemaMismatch, "%s value %d does not fit %s", src.Type(), src.Int(), dst)
				break
			}
			out.SetInt(src.Int())
		case classUnsigned:
			if out.OverflowUint(src.Uint()) {
				cx.Errorf(diag.ConvSchemaMismatch, "%s value %d does not fit %s", src.Type(), src.Uint(), dst)
				break
			}
			out.SetUint(src.Uint())
		}
		return out
	}
}

func (r *Registry) ptrPlan(dst reflect.Type) convFunc {
	elem := dst.Elem()
	return func(cx *Context, src reflect.Value) reflect.Value {
		if src.IsNil() {
			return reflect.Zero(dst)
		}
		out := reflect.New(elem)
		out.Elem().Set(r.convert(cx, src.Elem(), elem, false))
		return out
	}
}

// boxPlan converts a value into a freshly allocated pointer.
func (r *Registry) boxPlan(dst reflect.Type) convFunc {
	elem := dst.Elem()
	return func(cx *Context, src reflect.Value) reflect.Value {
		out := reflect.New(elem)
		out.Elem().Set(r.convert(cx, src, elem, false))
		return out
	}
}

func (r *Registry) slicePlan(dst reflect.Type) convFunc {
	elem := dst.Elem()
	return func(cx *Context, src reflect.Value) reflect.Value {
		if src.IsNil() {
			return reflect.Zero(dst)
		}
		out := reflect.MakeSlice(dst, src.Len(), src.Len())
		for i := range src.Len() {
			out.Index(i).Set(r.convert(cx, src.Index(i), elem, false))
		}
		return out
	}
}

func (r *Registry) mapPlan(dst reflect.Type) convFunc {
	key, elem := dst.Key(), dst.Elem()
	return func(cx *Context, src reflect.Value) reflect.Value {
		if src.IsNil() {
			return reflect.Zero(dst)
		}
		out := reflect.MakeMapWithSize(dst, src.Len())
		iter := src.MapRange()
		for iter.Next() {
			out.SetMapIndex(r.convert(cx, iter.Key(), key, false), r.convert(cx, iter.Value(), elem, false))
		}
		return out
	}
}

type fieldStep struct {
	src, dst int
	typ      reflect.Type
}

func (r *Registry) structPlan(src, dst reflect.Type) (convFunc, error) {
	steps, err := fieldSteps(src, dst)
	if err != nil {
		return nil, err
	}
	spanIdx := -1
	if f, ok := src.FieldByName("Span"); ok && f.Type == spanType && len(f.Index) == 1 {
		spanIdx = f.Index[0]
	}
	return func(cx *Context, v reflect.Value) reflect.Value {
		out := reflect.New(dst).Elem()
		if spanIdx >= 0 {
			cx.pushSpan(v.Field(spanIdx).Interface().(host.Span))
			defer cx.popSpan()
		}
		for _, st := range steps {
			out.Field(st.dst).Set(r.convert(cx, v.Field(st.src), st.typ, false))
		}
		return out
	}, nil
}

// fieldSteps matches destination fields to source fields and checks that no
// source field is left unaccounted for.
func fieldSteps(src, dst reflect.Type) ([]fieldStep, error) {
	drops := dropped(dst)
	used := make(map[string]bool)
	var steps []fieldStep
	for i := range dst.NumField() {
		f := dst.Field(i)
		if !f.IsExported() {
			continue
		}
		name := sourceName(f)
		if name == "-" {
			continue
		}
		sf, ok := src.FieldByName(name)
		if !ok || !sf.IsExported() || len(sf.Index) != 1 {
			return nil, fmt.Errorf("%s.%s has no source field %s.%s", dst.Name(), f.Name, src.Name(), name)
		}
		if drops[name] {
			return nil, fmt.Errorf("%s.%s is both mapped and dropped", src.Name(), name)
		}
		used[name] = true
		steps = append(steps, fieldStep{src: sf.Index[0], dst: i, typ: f.Type})
	}
	for i := range src.NumField() {
		sf := src.Field(i)
		if !sf.IsExported() || used[sf.Name] || drops[sf.Name] {
			continue
		}
		return nil, fmt.Errorf("%s.%s is not exported by %s; map it or list it in a drop tag", src.Name(), sf.Name, dst.Name())
	}
	return steps, nil
}

func sourceName(f reflect.StructField) string {
	if from, ok := f.Tag.Lookup("from"); ok && from != "" {
		return from
	}
	return f.Name
}

func dropped(t reflect.Type) map[string]bool {
	out := make(map[string]bool)
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Name != "_" {
			continue
		}
		tag, ok := f.Tag.Lookup("drop")
		if !ok {
			continue
		}
		for name := range strings.SplitSeq(tag, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out[name] = true
			}
		}
	}
	return out
}

// oneofVariants maps variant type names to oneof field indices. Fields tagged
// from:"-" are filled by overrides and never derived.
func oneofVariants(dst reflect.Type) (map[string]int, error) {
	fields := make(map[string]int)
	for i := range dst.NumField() {
		f := dst.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Type.Kind() != reflect.Pointer {
			return nil, fmt.Errorf("oneof %s field %s must be a pointer", dst.Name(), f.Name)
		}
		name := sourceName(f)
		if name == "-" {
			continue
		}
		fields[name] = i
	}
	return fields, nil
}

func variantName(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func (r *Registry) oneofPlan(src, dst reflect.Type) (convFunc, error) {
	fields, err := oneofVariants(dst)
	if err != nil {
		return nil, err
	}
	return func(cx *Context, v reflect.Value) reflect.Value {
		out := reflect.New(dst).Elem()
		if v.IsNil() {
			cx.Errorf(diag.ConvMissingPayload, "%s node has no payload", src)
			return out
		}
		c := v.Elem()
		if c.Kind() == reflect.Pointer && c.IsNil() {
			cx.Errorf(diag.ConvMissingPayload, "%s node has a nil %s payload", src, c.Type())
			return out
		}
		if rej, ok := r.rejection(c.Type()); ok {
			cx.Errorf(rej.code, "%s", rej.msg)
			return out
		}
		idx, ok := fields[variantName(c.Type())]
		if !ok {
			cx.Errorf(diag.ConvUnsupportedNode, "%s has no counterpart in %s", c.Type(), dst)
			return out
		}
		out.Field(idx).Set(r.convert(cx, c, dst.Field(idx).Type, false))
		return out
	}, nil
}
