// Package trace records what the linter is doing while it runs.
//
// # Usage
//
//	lintel check --trace=- --trace-level=detail ./...
//
// # Tracers
//
//   - Nop: disabled tracing
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for a dump after a panic
//   - MultiTracer: fans out to several tracers
//
// # Scopes
//
//   - ScopeDriver: a whole CLI run
//   - ScopePass: discovery, analysis, rendering
//   - ScopeFile: one analyzed tree
//   - ScopeNode: rule callbacks at node level (debug only)
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "analyze", 0)
//	defer span.End("")
package trace
