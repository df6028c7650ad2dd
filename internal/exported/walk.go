package exported

import (
	"reflect"
	"strings"
)

// Walk calls visit for every struct value reachable from root, parents first.
// Returning false from visit skips the node's children.
func Walk(root any, visit func(node any) bool) {
	walk(reflect.ValueOf(root), visit)
}

func walk(v reflect.Value, visit func(any) bool) {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if !v.IsNil() {
			walk(v.Elem(), visit)
		}
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			walk(v.Index(i), visit)
		}
	case reflect.Struct:
		if !visit(v.Interface()) {
			return
		}
		t := v.Type()
		for i := range t.NumField() {
			if t.Field(i).IsExported() {
				walk(v.Field(i), visit)
			}
		}
	}
}

// IsOneof reports whether t is a oneof struct.
func IsOneof(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Name == "_" && f.Tag.Get("export") == "oneof" {
			return true
		}
	}
	return false
}

// Variant returns the JSON name of the populated field of a oneof value,
// or "" when none is set.
func Variant(oneof any) string {
	v := reflect.Indirect(reflect.ValueOf(oneof))
	if !v.IsValid() || !IsOneof(v.Type()) {
		return ""
	}
	if i := populated(v); i >= 0 {
		return jsonName(v.Type().Field(i))
	}
	return ""
}

// populated returns the index of the set field of oneof struct v, or -1.
func populated(v reflect.Value) int {
	for i := range v.NumField() {
		if v.Type().Field(i).IsExported() && !v.Field(i).IsNil() {
			return i
		}
	}
	return -1
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		return f.Name
	}
	return name
}
