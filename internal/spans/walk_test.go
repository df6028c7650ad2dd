package spans

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// chainAncestry models positions 0..n where position p>0 is produced by a
// macro whose argument region is position p-1. Position 0 is user code.
type chainAncestry struct{}

func (chainAncestry) Expansion(p int) (Frame[int], bool, error) {
	if p <= 0 {
		return Frame[int]{}, false, nil
	}
	return Frame[int]{
		ID:       uint64(p),
		Kind:     FrameMacro,
		Macro:    fmt.Sprintf("m%d", p),
		CallSite: -p,
		Args:     p - 1,
		HasArgs:  true,
	}, true, nil
}

// selfAncestry expands every position from itself.
type selfAncestry struct{}

func (selfAncestry) Expansion(p int) (Frame[int], bool, error) {
	return Frame[int]{ID: 1, Kind: FrameMacro, Macro: "again", Args: p, HasArgs: true}, true, nil
}

type tableAncestry map[string]Frame[string]

func (t tableAncestry) Expansion(p string) (Frame[string], bool, error) {
	f, ok := t[p]
	return f, ok, nil
}

func TestWalkTerminatesWithinLimit(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		depth := rapid.IntRange(0, 300).Draw(t, "depth")
		limit := rapid.IntRange(1, 200).Draw(t, "limit")

		res, err := Walk[int](chainAncestry{}, depth, limit)
		if depth <= limit {
			if err != nil {
				t.Fatalf("depth %d limit %d: unexpected %v", depth, limit, err)
			}
			if res.Pos != 0 || res.Depth() != depth {
				t.Fatalf("resolved to %d after %d frames", res.Pos, res.Depth())
			}
			return
		}
		var overflow *OverflowError
		if !errors.As(err, &overflow) {
			t.Fatalf("depth %d limit %d: want overflow, got %v", depth, limit, err)
		}
		if res.Depth() != limit || overflow.Limit != limit {
			t.Fatalf("walked %d frames with limit %d", res.Depth(), limit)
		}
	})
}

func TestWalkSelfExpandingMacroOverflows(t *testing.T) {
	res, err := Walk[int](selfAncestry{}, 7, 16)
	var overflow *OverflowError
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, 16, res.Depth())
	assert.Contains(t, overflow.Error(), "exceeds 16 levels")
}

func TestWalkFrameKinds(t *testing.T) {
	anc := tableAncestry{
		// m!(EXPR) inside a for-loop desugaring inside an attribute macro
		"template": {ID: 1, Kind: FrameMacro, Macro: "m", CallSite: "m-call", Args: "EXPR", HasArgs: true},
		"EXPR":     {ID: 2, Kind: FrameDesugaring, Macro: "for", CallSite: "for-loop"},
		"for-loop": {ID: 3, Kind: FrameMacro, Macro: "attr", CallSite: "#[attr]"},
	}

	res, err := Walk[string](anc, "template", 8)
	require.NoError(t, err)
	assert.Equal(t, "#[attr]", res.Pos)
	assert.Equal(t, "attr", res.Macro, "outermost macro wins")
	assert.Equal(t, 3, res.Depth())

	inner, ok := res.Outermost(func(f Frame[string]) bool { return f.Macro == "m" })
	require.True(t, ok)
	assert.Equal(t, uint64(1), inner.ID)

	res, err = Walk[string](anc, "user", 8)
	require.NoError(t, err)
	assert.Equal(t, "user", res.Pos)
	assert.Empty(t, res.Macro)
}

func TestMatchMacro(t *testing.T) {
	tests := []struct {
		pattern, path string
		want          bool
	}{
		{"std::vec", "std::vec", true},
		{"std::vec", "std::format", false},
		{"std::*", "std::vec", true},
		{"std::*", "std::fmt::format", false},
		{"std::**", "std::fmt::format", true},
		{"**", "anything::at::all", true},
		{"demo::getters", "demo", false},
	}
	for _, tt := range tests {
		if got := MatchMacro(tt.pattern, tt.path); got != tt.want {
			t.Errorf("MatchMacro(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
		}
	}
}
