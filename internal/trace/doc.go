// Package trace records where irx spends its time while exporting.
//
// Spans nest driver → session → unit → item. The level picks how deep the
// recording goes:
//
//	irx export snaps/ --trace=- --trace-level=phase
//
// phase stops at sessions, detail adds units, debug adds items. A trace file
// ending in .ndjson gets one JSON object per line; .json gets the
// chrome://tracing layout; anything else is indented text.
//
// Ring mode keeps the most recent events in memory so a hung export can be
// dumped after the fact; the heartbeat makes a hang visible in a stream.
//
// The tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	sp := trace.Begin(trace.FromContext(ctx), trace.ScopeUnit, "export:"+name, trace.CurrentSpan(ctx).SpanID)
//	defer sp.End("")
package trace
