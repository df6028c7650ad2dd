package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltersScopes(t *testing.T) {
	assert.True(t, LevelPhase.ShouldEmit(ScopeSession))
	assert.False(t, LevelPhase.ShouldEmit(ScopeUnit))
	assert.True(t, LevelDetail.ShouldEmit(ScopeUnit))
	assert.False(t, LevelDetail.ShouldEmit(ScopeItem))
	assert.True(t, LevelDebug.ShouldEmit(ScopeItem))
	assert.False(t, LevelOff.ShouldEmit(ScopeDriver))

	l, err := ParseLevel(" Detail ")
	require.NoError(t, err)
	assert.Equal(t, LevelDetail, l)
	_, err = ParseLevel("loud")
	assert.ErrorContains(t, err, "off|error|phase|detail|debug")

	m, err := ParseMode("BOTH")
	require.NoError(t, err)
	assert.Equal(t, ModeBoth, m)
	_, err = ParseMode("disk")
	assert.Error(t, err)
}

func TestStreamTextNestsSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	root := Begin(tr, ScopeDriver, "irx.export", 0)
	sess := Begin(tr, ScopeSession, "session:demo", root.ID())
	unit := Begin(tr, ScopeUnit, "export:lib", sess.ID())
	item := Begin(tr, ScopeItem, "item", unit.ID())
	assert.Equal(t, unit.ID(), item.ID(), "filtered span reports its parent")
	item.End("")
	unit.WithExtra("items", "2").End("")
	sess.End("")
	root.End("done")
	require.NoError(t, tr.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], " → irx.export")
	assert.Contains(t, lines[1], "   → session:demo")
	assert.Contains(t, lines[2], "     → export:lib")
	assert.Contains(t, lines[3], "     ← export:lib {items=2}")
	assert.Contains(t, lines[5], " ← irx.export (done)")
}

func TestStreamChromeIsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatChrome)
	sp := Begin(tr, ScopeDriver, "irx.export", 0)
	Point(tr, ScopeSession, "write failed", sp.ID(), "disk full")
	sp.End("")
	require.NoError(t, tr.Close())
	Begin(tr, ScopeDriver, "late", 0)

	var doc struct {
		TraceEvents []map[string]any `json:"traceEvents"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.TraceEvents, 3)
	assert.Equal(t, "B", doc.TraceEvents[0]["ph"])
	assert.Equal(t, "i", doc.TraceEvents[1]["ph"])
	assert.Equal(t, "E", doc.TraceEvents[2]["ph"])
}

func TestRingKeepsNewest(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for range 5 {
		Point(r, ScopeUnit, "tick", 0, "")
	}
	evs := r.Snapshot()
	require.Len(t, evs, 3)
	assert.Less(t, evs[0].Seq, evs[1].Seq)
	assert.Less(t, evs[1].Seq, evs[2].Seq)

	var buf bytes.Buffer
	require.NoError(t, r.Dump(&buf, FormatNDJSON))
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
	var first jsonEvent
	require.NoError(t, json.Unmarshal([]byte(strings.SplitN(buf.String(), "\n", 2)[0]), &first))
	assert.Equal(t, "point", first.Kind)
	assert.Equal(t, "unit", first.Scope)
}

func TestNewPicksFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatNDJSON, formatForPath("out.ndjson"))
	assert.Equal(t, FormatChrome, formatForPath("out.json"))
	assert.Equal(t, FormatText, formatForPath("-"))

	tr, err := New(Config{Level: LevelOff})
	require.NoError(t, err)
	assert.Equal(t, Nop, tr)

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf, Format: FormatNDJSON, RingSize: 8})
	require.NoError(t, err)
	multi, ok := tr.(*MultiTracer)
	require.True(t, ok)
	Begin(tr, ScopeDriver, "irx.export", 0).End("")
	assert.Len(t, multi.Ring().Snapshot(), 2)
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
	require.NoError(t, tr.Close())

	_, err = New(Config{Level: LevelPhase})
	assert.ErrorContains(t, err, "unknown storage mode")
}

func TestContextPropagation(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, Nop, FromContext(ctx))
	r := NewRingTracer(4, LevelPhase)
	ctx = WithTracer(ctx, r)
	assert.Equal(t, Tracer(r), FromContext(ctx))
	ctx = WithSpanContext(ctx, SpanContext{SpanID: 7})
	assert.Equal(t, uint64(7), CurrentSpan(ctx).SpanID)
	assert.Zero(t, CurrentSpan(context.Background()).SpanID)
}

func TestHeartbeat(t *testing.T) {
	assert.Nil(t, StartHeartbeat(Nop, time.Millisecond))
	r := NewRingTracer(64, LevelPhase)
	h := StartHeartbeat(r, time.Millisecond)
	require.NotNil(t, h)
	assert.Eventually(t, func() bool { return len(r.Snapshot()) > 0 }, time.Second, time.Millisecond)
	h.Stop()
	h.Stop()
	assert.Equal(t, KindHeartbeat, r.Snapshot()[0].Kind)
}

func TestGoroutineID(t *testing.T) {
	assert.NotZero(t, goroutineID())
}
