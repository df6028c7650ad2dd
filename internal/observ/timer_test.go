package observ

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeClock(step time.Duration) func() time.Time {
	now := time.Unix(0, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimerWithClock(fakeClock(time.Millisecond))
	exp := tm.Begin("export")
	tm.End(exp, "3 items")
	tm.End(exp, "ignored")
	wr := tm.Begin("write")
	tm.Begin("pending")
	tm.End(wr, "")
	tm.End(99, "")

	p, ok := tm.Phase(exp)
	require.True(t, ok)
	assert.Equal(t, time.Millisecond, p.Dur)
	assert.Equal(t, "3 items", p.Note)
	_, ok = tm.Phase(-1)
	assert.False(t, ok)

	r := tm.Report()
	require.Len(t, r.Phases, 2)
	assert.Equal(t, "export", r.Phases[0].Name)
	assert.InDelta(t, 1.0, r.Phases[0].DurationMS, 1e-9)
	// write began at t=3ms and ended at t=5ms
	assert.InDelta(t, 2.0, r.Phases[1].DurationMS, 1e-9)
	assert.InDelta(t, 3.0, r.TotalMS, 1e-9)
}

func TestReportWriteTable(t *testing.T) {
	r := Report{TotalMS: 1.5, Phases: []PhaseReport{{Name: "export", DurationMS: 1.5, Note: "ok"}}}
	var buf bytes.Buffer
	require.NoError(t, r.WriteTable(&buf, "demo/lib"))
	assert.Equal(t, "demo/lib:\n  export         1.50 ms  // ok\n  total          1.50 ms\n", buf.String())
}

func TestEmptyReport(t *testing.T) {
	r := NewTimer().Report()
	assert.Empty(t, r.Phases)
	assert.Zero(t, r.TotalMS)
}
