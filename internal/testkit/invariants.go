// Package testkit checks structural invariants of exported trees. Tests in
// other packages run it over every unit they produce.
package testkit

import (
	"errors"
	"fmt"
	"reflect"

	"irx/internal/exported"
)

// CheckUnit runs every tree invariant over u:
// 1) the schema header is the current one
// 2) every oneof node has exactly one variant set
// 3) every span names a file and runs forward (lo <= hi, 1-based)
// 4) every expansion names its macro and kind
func CheckUnit(u *exported.Unit) error {
	if u == nil {
		return errors.New("nil unit")
	}
	var errs []error
	if u.Schema != exported.CurrentSchema() {
		errs = append(errs, fmt.Errorf("schema header %+v, want %+v", u.Schema, exported.CurrentSchema()))
	}
	if u.Items == nil {
		errs = append(errs, errors.New("items is nil, want an empty list"))
	}
	if err := CheckOneofs(u); err != nil {
		errs = append(errs, err)
	}
	if err := CheckSpans(u); err != nil {
		errs = append(errs, err)
	}
	for i, e := range u.Expansions {
		if e.Macro == "" || e.Kind == "" {
			errs = append(errs, fmt.Errorf("expansion %d: empty macro or kind: %+v", i, e))
		}
	}
	return errors.Join(errs...)
}

// CheckOneofs reports oneof nodes with zero or several variants set.
func CheckOneofs(root any) error {
	var errs []error
	exported.Walk(root, func(n any) bool {
		v := reflect.ValueOf(n)
		if !exported.IsOneof(v.Type()) {
			return true
		}
		var set []string
		for i := range v.NumField() {
			f := v.Type().Field(i)
			if f.IsExported() && !v.Field(i).IsNil() {
				set = append(set, f.Name)
			}
		}
		if len(set) != 1 {
			errs = append(errs, fmt.Errorf("%s: %d variants set %v", v.Type().Name(), len(set), set))
		}
		return true
	})
	return errors.Join(errs...)
}

// CheckSpans reports spans that do not name a file or run backwards.
func CheckSpans(root any) error {
	var errs []error
	exported.Walk(root, func(n any) bool {
		sp, ok := n.(exported.Span)
		if !ok {
			return true
		}
		switch {
		case sp.File == "":
			errs = append(errs, fmt.Errorf("span without file: %+v", sp))
		case sp.Lo.Line == 0 || sp.Lo.Col == 0 || sp.Hi.Line == 0 || sp.Hi.Col == 0:
			errs = append(errs, fmt.Errorf("span %s is not 1-based: %+v", sp.File, sp))
		case sp.Hi.Line < sp.Lo.Line || (sp.Hi.Line == sp.Lo.Line && sp.Hi.Col < sp.Lo.Col):
			errs = append(errs, fmt.Errorf("span %s runs backwards: %+v", sp.File, sp))
		}
		return false
	})
	return errors.Join(errs...)
}
