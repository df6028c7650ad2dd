package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irx/internal/diag"
	"irx/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	bag, fs := sampleBag(t)

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true}))

	// Парсим JSON чтобы убедиться что он валидный
	var output DiagnosticsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output), buf.String())
	require.Equal(t, 1, output.Count)
	require.Len(t, output.Diagnostics, 1)

	d := output.Diagnostics[0]
	assert.Equal(t, "ERROR", d.Severity)
	assert.Equal(t, "EVL3004", d.Code)
	assert.Equal(t, "evaluation-failure", d.Category)
	assert.Equal(t, "division by zero", d.Message)
	assert.Equal(t, &LocationJSON{File: "lib.rs", StartByte: 14, EndByte: 19, StartLine: 1, StartCol: 15, EndLine: 1, EndCol: 20}, d.Location)
	require.Len(t, d.Notes, 1)
	assert.Equal(t, "used here", d.Notes[0].Message)
	assert.Equal(t, uint32(2), d.Notes[0].Location.StartLine)
}

func TestJSONNotesAreOptIn(t *testing.T) {
	bag, fs := sampleBag(t)
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings").
		WithNote(source.Span{}, `{"kind":"unit"}`))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	require.Len(t, out.Diagnostics, 2)
	assert.Empty(t, out.Diagnostics[0].Notes)
	assert.Zero(t, out.Diagnostics[0].Location.StartLine)

	// Timing payloads are always kept and never located.
	timing := out.Diagnostics[1]
	assert.Nil(t, timing.Location)
	require.Len(t, timing.Notes, 1)
	assert.Nil(t, timing.Notes[0].Location)
	assert.Equal(t, `{"kind":"unit"}`, timing.Notes[0].Message)
}

func TestJSONMax(t *testing.T) {
	bag, fs := sampleBag(t)
	bag.Add(diag.NewError(diag.IOWriteError, source.Span{}, "second"))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, 1, out.Dropped)
}
