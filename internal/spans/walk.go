// Package spans maps positions produced by macro or desugaring expansion back
// to the code the user wrote.
package spans

import (
	"fmt"
	"strings"
)

// DefaultLimit bounds the ancestry walk when no limit is configured.
const DefaultLimit = 128

// FrameKind distinguishes macro expansions from compiler desugarings.
type FrameKind uint8

const (
	FrameMacro FrameKind = iota + 1
	FrameDesugaring
)

func (k FrameKind) String() string {
	switch k {
	case FrameMacro:
		return "macro"
	case FrameDesugaring:
		return "desugaring"
	}
	return "unknown"
}

// Frame is one expansion step above a position P.
type Frame[P any] struct {
	// ID identifies the expansion; equal IDs mean the same invocation.
	ID    uint64
	Kind  FrameKind
	Macro string // macro path, or the desugaring name
	// CallSite covers the whole invocation.
	CallSite P
	// Args is the argument region of the call, valid when HasArgs.
	Args    P
	HasArgs bool
}

// Ancestry answers "which expansion produced p". ok is false for positions
// the user wrote.
type Ancestry[P any] interface {
	Expansion(p P) (f Frame[P], ok bool, err error)
}

// Resolution is the outcome of an ancestry walk.
type Resolution[P any] struct {
	// Pos is the user-written position the walk ended on.
	Pos P
	// Macro is the outermost macro the position was attributed to.
	Macro string
	// Frames lists the expansions crossed, innermost first.
	Frames []Frame[P]
}

func (r Resolution[P]) Depth() int { return len(r.Frames) }

// Outermost returns the last frame matching keep, scanning from the user side.
func (r Resolution[P]) Outermost(keep func(Frame[P]) bool) (Frame[P], bool) {
	for i := len(r.Frames) - 1; i >= 0; i-- {
		if keep(r.Frames[i]) {
			return r.Frames[i], true
		}
	}
	return Frame[P]{}, false
}

// OverflowError is returned when the walk crosses more than Limit expansions.
type OverflowError struct {
	Limit int
	Chain []string
}

func (e *OverflowError) Error() string {
	chain := e.Chain
	if len(chain) > 4 {
		chain = append(chain[:2:2], "…", chain[len(chain)-1])
	}
	return fmt.Sprintf("macro expansion nesting exceeds %d levels (%s)", e.Limit, strings.Join(chain, " <- "))
}

// Walk follows the expansion ancestry of p until it reaches a user-written
// position. Macro frames continue from the call's argument region, or from
// the call site when the macro has no arguments; desugaring frames continue
// from the call site. More than limit frames is an *OverflowError; the
// resolution returned alongside holds the position reached so far.
func Walk[P any](a Ancestry[P], p P, limit int) (Resolution[P], error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	res := Resolution[P]{Pos: p}
	for {
		f, ok, err := a.Expansion(res.Pos)
		if err != nil {
			return res, err
		}
		if !ok {
			return res, nil
		}
		if len(res.Frames) >= limit {
			return res, &OverflowError{Limit: limit, Chain: chain(res.Frames)}
		}
		res.Frames = append(res.Frames, f)
		switch {
		case f.Kind == FrameMacro && f.HasArgs:
			res.Pos = f.Args
			res.Macro = f.Macro
		case f.Kind == FrameMacro:
			res.Pos = f.CallSite
			res.Macro = f.Macro
		default:
			res.Pos = f.CallSite
		}
	}
}

func chain[P any](frames []Frame[P]) []string {
	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = f.Macro
	}
	return out
}

// MatchMacro matches a macro path against a "::"-separated pattern, where
// "*" matches one segment and a trailing "**" matches any remainder.
func MatchMacro(pattern, path string) bool {
	ps := strings.Split(pattern, "::")
	xs := strings.Split(path, "::")
	for i, seg := range ps {
		if seg == "**" && i == len(ps)-1 {
			return len(xs) >= i
		}
		if i >= len(xs) {
			return false
		}
		if seg != "*" && seg != xs[i] {
			return false
		}
	}
	return len(ps) == len(xs)
}
