package convert

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"irx/internal/diag"
)

type pair struct {
	src, dst reflect.Type
}

func (p pair) String() string {
	return fmt.Sprintf("%s -> %s", p.src, p.dst)
}

type convFunc func(cx *Context, src reflect.Value) reflect.Value

type rejection struct {
	code diag.Code
	msg  string
}

// Registry holds overrides, sum declarations and cached derivation plans.
// It is safe for concurrent use; registration normally happens once at start-up.
type Registry struct {
	mu        sync.RWMutex
	overrides map[pair]convFunc
	plans     map[pair]convFunc
	sums      map[reflect.Type][]reflect.Type
	rejected  map[reflect.Type]rejection
}

func NewRegistry() *Registry {
	return &Registry{
		overrides: make(map[pair]convFunc),
		plans:     make(map[pair]convFunc),
		sums:      make(map[reflect.Type][]reflect.Type),
		rejected:  make(map[reflect.Type]rejection),
	}
}

// Override registers fn as the conversion from S to D. A second registration
// for the same pair panics.
func Override[S, D any](r *Registry, fn func(cx *Context, src S) D) {
	p := pair{reflect.TypeFor[S](), reflect.TypeFor[D]()}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.overrides[p]; dup {
		panic(fmt.Sprintf("convert: duplicate conversion %s", p))
	}
	r.overrides[p] = func(cx *Context, src reflect.Value) reflect.Value {
		var in S
		if v := src.Interface(); v != nil {
			in = v.(S)
		}
		out := fn(cx, in)
		return reflect.ValueOf(&out).Elem()
	}
}

// DeclareSum lists the variants of the sum-type interface I, one value per
// variant (usually the zero payload of each kind).
func DeclareSum[I any](r *Registry, variants ...I) {
	iface := reflect.TypeFor[I]()
	if iface.Kind() != reflect.Interface {
		panic(fmt.Sprintf("convert: %s is not an interface", iface))
	}
	types := make([]reflect.Type, 0, len(variants))
	for _, v := range variants {
		types = append(types, reflect.TypeOf(v))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sums[iface] = types
}

// Reject triages the variant type V: converting it reports code with msg
// instead of producing a value.
func Reject[V any](r *Registry, code diag.Code, msg string) {
	t := reflect.TypeFor[V]()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.rejected[t]; dup {
		panic(fmt.Sprintf("convert: %s rejected twice", t))
	}
	r.rejected[t] = rejection{code: code, msg: msg}
}

// Overrides lists the registered pairs in a stable order.
func (r *Registry) Overrides() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.overrides))
	for p := range r.overrides {
		out = append(out, p.String())
	}
	sort.Strings(out)
	return out
}

func (r *Registry) override(p pair) (convFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.overrides[p]
	return fn, ok
}

func (r *Registry) rejection(t reflect.Type) (rejection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rej, ok := r.rejected[t]
	return rej, ok
}

func (r *Registry) plan(p pair) convFunc {
	r.mu.RLock()
	fn, ok := r.plans[p]
	r.mu.RUnlock()
	if ok {
		return fn
	}
	fn, err := r.derive(p)
	if err != nil {
		fn = failedPlan(p, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.plans[p]; ok {
		return existing
	}
	r.plans[p] = fn
	return fn
}

// convert is the single dispatch point. The result always has type dst.
func (r *Registry) convert(cx *Context, src reflect.Value, dst reflect.Type, structural bool) reflect.Value {
	p := pair{src.Type(), dst}
	if !structural {
		if fn, ok := r.override(p); ok {
			return fn(cx, src)
		}
	}
	return r.plan(p)(cx, src)
}

func failedPlan(p pair, err error) convFunc {
	return func(cx *Context, _ reflect.Value) reflect.Value {
		cx.Errorf(diag.ConvSchemaMismatch, "no conversion %s: %v", p, err)
		return reflect.Zero(p.dst)
	}
}
