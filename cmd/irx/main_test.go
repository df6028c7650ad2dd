package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irx/internal/driver"
	"irx/internal/exported"
)

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestSamplePrintsExport(t *testing.T) {
	stdout, _, err := run(t, "sample", "--opaque")
	require.NoError(t, err)
	var unit exported.Unit
	require.NoError(t, json.Unmarshal([]byte(stdout), &unit))
	assert.Equal(t, "lib", unit.Name)
	assert.Len(t, unit.Items, 7)
}

func TestSampleSnapshotRoundTripsThroughExport(t *testing.T) {
	dir := t.TempDir()
	snap := filepath.Join(dir, "snaps", "demo"+driver.SnapshotExt)
	out := filepath.Join(dir, "out")

	_, _, err := run(t, "sample", "--write", snap, "--quiet")
	require.NoError(t, err)
	require.FileExists(t, snap)

	_, stderr, err := run(t, "export", filepath.Dir(snap), "--out", out, "--format", "msgpack", "--ui", "off", "--color", "off")
	require.NoError(t, err, stderr)
	assert.Contains(t, stderr, "1 unit(s), 0 error(s), 0 warning(s)")

	written := driver.OutputPath(out, "demo", "lib", driver.FormatMsgpack)
	f, err := os.Open(written)
	require.NoError(t, err)
	defer f.Close()
	unit, err := driver.Decode(f, driver.FormatMsgpack)
	require.NoError(t, err)
	assert.Len(t, unit.Items, 8)
}

func TestExportDumpWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	snap := filepath.Join(dir, "demo"+driver.SnapshotExt)
	_, _, err := run(t, "sample", "-w", snap, "--quiet")
	require.NoError(t, err)

	stdout, _, err := run(t, "export", snap, "--dump", "--no-write", "--quiet", "--opaque", "demo::log_items")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# demo/lib")
	assert.Contains(t, stdout, "macro_invocation MacroInvocation")
	assert.Contains(t, stdout, "demo::log_items")
}

func TestExportRejectsBadFlags(t *testing.T) {
	dir := t.TempDir()
	snap := filepath.Join(dir, "demo"+driver.SnapshotExt)
	_, _, err := run(t, "sample", "-w", snap, "--quiet")
	require.NoError(t, err)

	_, _, err = run(t, "export", snap, "--format", "yaml", "--no-write")
	assert.ErrorContains(t, err, "export.format")
	_, _, err = run(t, "export", snap, "--max-depth", "0", "--no-write")
	assert.ErrorContains(t, err, "max_expansion_depth")
	_, _, err = run(t, "export", snap, "--ui", "sometimes", "--no-write")
	assert.ErrorContains(t, err, "--ui")
	_, _, err = run(t, "export", dir+"/missing"+driver.SnapshotExt)
	assert.Error(t, err)
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := run(t, "version", "--format", "json", "--hash")
	require.NoError(t, err)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	assert.Equal(t, "irx", payload.Tool)
	assert.Equal(t, exported.SchemaVersion, payload.Schema)
	assert.Equal(t, "unknown", payload.GitCommit)
}

func TestReadModes(t *testing.T) {
	m, err := readUIMode(" ON ")
	require.NoError(t, err)
	assert.Equal(t, uiModeOn, m)
	assert.False(t, shouldUseTUI(uiModeOff))

	c, err := readColor("on", nil)
	require.NoError(t, err)
	assert.True(t, c)
	c, err = readColor("auto", nil)
	require.NoError(t, err)
	assert.False(t, c)
	_, err = readColor("rainbow", nil)
	assert.Error(t, err)
}

func TestSampleWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	_, _, err := run(t, "sample", "--cpu-profile", cpu, "--mem-profile", mem)
	require.NoError(t, err)
	assert.FileExists(t, cpu)
	assert.FileExists(t, mem)
}

func TestRingTraceIsDumpedOnExit(t *testing.T) {
	out := filepath.Join(t.TempDir(), "ring.ndjson")
	_, _, err := run(t, "sample", "--trace", out, "--trace-mode", "ring", "--trace-level", "phase")
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"irx.export"`)
}
