package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irx/internal/source"
)

func TestDedupReporterCountsDuplicates(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{File: 0, Start: 1, End: 4}

	r.Report(EvalCycle, SevError, sp, "cycle", nil)
	r.Report(EvalCycle, SevError, sp, "cycle", []Note{{Span: sp, Msg: "other path"}})
	r.Report(EvalCycle, SevWarning, sp, "cycle", nil)
	r.Report(EvalCycle, SevError, source.Span{File: 0, Start: 1, End: 5}, "cycle", nil)

	assert.Equal(t, 3, bag.Len())
	assert.Equal(t, 1, r.Suppressed())

	var nilDedup *DedupReporter
	nilDedup.Report(EvalCycle, SevError, sp, "x", nil)
	assert.Zero(t, nilDedup.Suppressed())
}

func TestBagAtLeast(t *testing.T) {
	bag := NewBag(3)
	bag.Add(New(SevInfo, ObsTimings, source.Span{}, "timings"))
	bag.Add(New(SevWarning, MacroAncestryOverflow, source.Span{}, "deep"))
	bag.Add(NewError(EvalCycle, source.Span{}, "cycle"))
	bag.Add(NewError(EvalCycle, source.Span{}, "dropped"))

	errs := bag.AtLeast(SevError)
	require.Equal(t, 1, errs.Len())
	assert.Equal(t, "cycle", errs.Items()[0].Message)
	assert.Equal(t, 1, errs.Dropped())
	assert.Equal(t, 3, bag.AtLeast(SevInfo).Len())
	assert.Equal(t, 3, bag.Len())
}

func TestParseSeverity(t *testing.T) {
	for in, want := range map[string]Severity{"info": SevInfo, "Warn": SevWarning, " WARNING ": SevWarning, "error": SevError} {
		got, err := ParseSeverity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSeverity("fatal")
	assert.Error(t, err)
	assert.Equal(t, "warning", SevWarning.Label())
	assert.Equal(t, "UNKNOWN", Severity(9).String())
}
