package exported

import (
	"fmt"
	"io"
	"reflect"
	"strings"
)

var spanType = reflect.TypeFor[Span]()

// Dump writes an indented, human-readable rendering of an exported tree.
// Zero-valued fields are omitted; oneofs print only their populated variant.
func Dump(w io.Writer, root any) error {
	d := &dumper{w: w}
	d.value(reflect.ValueOf(root), 0)
	d.printf("\n")
	return d.err
}

type dumper struct {
	w   io.Writer
	err error
}

func (d *dumper) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

func (d *dumper) newline(depth int) {
	d.printf("\n%s", strings.Repeat("  ", depth))
}

func (d *dumper) value(v reflect.Value, depth int) {
	switch v.Kind() {
	case reflect.Invalid:
		d.printf("nil")
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			d.printf("nil")
			return
		}
		d.value(v.Elem(), depth)
	case reflect.Slice:
		if v.Len() == 0 {
			d.printf("[]")
			return
		}
		if v.Type().Elem().Kind() == reflect.String {
			parts := make([]string, v.Len())
			for i := range v.Len() {
				parts[i] = v.Index(i).String()
			}
			d.printf("%s", strings.Join(parts, "::"))
			return
		}
		for i := range v.Len() {
			d.newline(depth)
			d.printf("- ")
			d.value(v.Index(i), depth+1)
		}
	case reflect.Struct:
		d.structValue(v, depth)
	case reflect.String:
		d.printf("%q", v.String())
	default:
		d.printf("%v", v.Interface())
	}
}

func (d *dumper) structValue(v reflect.Value, depth int) {
	t := v.Type()
	if t == spanType {
		s := v.Interface().(Span)
		d.printf("%s:%d:%d-%d:%d", s.File, s.Lo.Line, s.Lo.Col, s.Hi.Line, s.Hi.Col)
		if s.FromMacro != "" {
			d.printf(" (from %s!)", s.FromMacro)
		}
		return
	}
	if IsOneof(t) {
		name := Variant(v.Interface())
		if name == "" {
			d.printf("<empty>")
			return
		}
		d.printf("%s ", name)
		d.value(v.Field(populated(v)), depth)
		return
	}
	d.printf("%s", t.Name())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() || v.Field(i).IsZero() {
			continue
		}
		d.newline(depth + 1)
		d.printf("%s: ", jsonName(f))
		d.value(v.Field(i), depth+2)
	}
}
