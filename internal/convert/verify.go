package convert

import (
	"fmt"
	"reflect"
)

// Verify checks, without converting anything, that every type reachable
// from the pair (S, D) has a conversion path: each field is mapped or
// dropped, each declared sum variant has a oneof counterpart or an explicit
// rejection, and no pair needs an impossible derivation. Pairs covered by an
// override are trusted and not descended into.
func Verify[S, D any](r *Registry) []error {
	v := verifier{r: r, seen: make(map[pair]bool)}
	v.check(pair{reflect.TypeFor[S](), reflect.TypeFor[D]()}, nil)
	return v.errs
}

type verifier struct {
	r    *Registry
	seen map[pair]bool
	errs []error
}

func (v *verifier) fail(trail []string, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if len(trail) > 0 {
		msg = fmt.Sprintf("%s (via %v)", msg, trail)
	}
	v.errs = append(v.errs, fmt.Errorf("%s", msg))
}

func (v *verifier) check(p pair, trail []string) {
	if v.seen[p] {
		return
	}
	v.seen[p] = true
	if _, ok := v.r.override(p); ok {
		return
	}
	if _, err := v.r.derive(p); err != nil {
		v.fail(trail, "%s: %v", p, err)
		return
	}
	trail = append(trail[:len(trail):len(trail)], p.src.String())

	src, dst := p.src, p.dst
	switch {
	case classOf(src.Kind()) != classNone:
		return
	case src.Kind() == reflect.Pointer:
		v.check(pair{src.Elem(), dst.Elem()}, trail)
	case src.Kind() == reflect.Slice:
		v.check(pair{src.Elem(), dst.Elem()}, trail)
	case src.Kind() == reflect.Map:
		v.check(pair{src.Key(), dst.Key()}, trail)
		v.check(pair{src.Elem(), dst.Elem()}, trail)
	case src.Kind() == reflect.Interface:
		v.checkSum(src, dst, trail)
	case src.Kind() == reflect.Struct && dst.Kind() == reflect.Struct:
		steps, _ := fieldSteps(src, dst)
		for _, st := range steps {
			v.check(pair{src.Field(st.src).Type, st.typ}, trail)
		}
	case dst.Kind() == reflect.Pointer:
		v.check(pair{src, dst.Elem()}, trail)
	}
}

func (v *verifier) checkSum(src, dst reflect.Type, trail []string) {
	v.r.mu.RLock()
	variants, ok := v.r.sums[src]
	v.r.mu.RUnlock()
	if !ok {
		v.fail(trail, "sum type %s has no declared variants", src)
		return
	}
	fields, _ := oneofVariants(dst)
	for _, vt := range variants {
		if _, rejected := v.r.rejection(vt); rejected {
			continue
		}
		idx, ok := fields[variantName(vt)]
		if !ok {
			v.fail(trail, "variant %s has no counterpart in %s", vt, dst)
			continue
		}
		v.check(pair{vt, dst.Field(idx).Type}, trail)
	}
}
