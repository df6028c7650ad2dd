package convert

import "reflect"

// Into converts src into D under cx, using an override when one is
// registered for the pair.
func Into[D, S any](cx *Context, src S) D {
	return run[D](cx, src, false)
}

// Structural converts src into D by derivation, bypassing an override for
// the top-level pair only. Overrides use it to delegate after adjusting
// the Context.
func Structural[D, S any](cx *Context, src S) D {
	return run[D](cx, src, true)
}

func run[D, S any](cx *Context, src S, structural bool) D {
	v := cx.reg.convert(cx, reflect.ValueOf(&src).Elem(), reflect.TypeFor[D](), structural)
	out, _ := v.Interface().(D)
	return out
}
