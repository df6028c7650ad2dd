package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"

	"irx/internal/driver"
)

func TestApplyEventTracksUnits(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("irx export", []string{"demo/lib", "demo/bin"}, events).(*progressModel)

	m.apply(driver.Event{Unit: "demo/lib", Stage: driver.StageExport, Status: driver.StatusWorking})
	assert.Equal(t, "exporting", m.rows[0].label())
	assert.InDelta(t, 0.2, m.percent(), 1e-9)

	m.apply(driver.Event{Unit: "demo/lib", Stage: driver.StageWrite, Status: driver.StatusDone, Elapsed: 3 * time.Millisecond})
	m.apply(driver.Event{Unit: "demo/bin", Stage: driver.StageExport, Status: driver.StatusError, Err: errors.New("2 error(s)")})
	assert.Equal(t, "error", m.rows[1].label())
	assert.Equal(t, 3*time.Millisecond, m.rows[0].elapsed)
	assert.InDelta(t, 1.0, m.percent(), 1e-9)

	m.apply(driver.Event{Unit: "snap.irxs", Stage: driver.StageLoad, Status: driver.StatusWorking})
	assert.Equal(t, "loading snap.irxs", m.session)

	view := m.View()
	assert.Contains(t, view, "irx export 2/2 · loading snap.irxs")
	assert.Contains(t, view, "demo/bin")
	assert.Contains(t, view, "2 error(s)")
	assert.Contains(t, view, "3ms")
}

func TestUpdateQuitsWhenEventsClose(t *testing.T) {
	m := NewProgressModel("x", []string{"a"}, nil)
	next, cmd := m.Update(doneMsg{})
	assert.NotNil(t, cmd)
	assert.Contains(t, next.View(), "done: x 0/1")
}

func TestEmptyModelRendersNothing(t *testing.T) {
	m := NewProgressModel("x", nil, nil).(*progressModel)
	assert.Empty(t, m.View())
	assert.Zero(t, m.percent())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abcdef", truncate("abcdef", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	for _, s := range []string{"abcdefghij", "日本語テキスト"} {
		got := truncate(s, 7)
		assert.True(t, strings.HasSuffix(got, "..."), got)
		assert.LessOrEqual(t, runewidth.StringWidth(got), 7)
	}
}
