// Package trace records the phases of an annocheck run.
//
// It is the structured log of the checker: the driver opens spans for the
// run, for each pass (parse, register, check, emit) and for each unit, and
// the tracer writes their begin/end events as text or NDJSON.
//
// # Usage
//
//	annocheck check --trace=- --trace-level=phase src/
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only failures
//   - LevelPhase: Driver and pass boundaries
//   - LevelDetail: Per-unit events
//   - LevelDebug: Everything
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "parse", parentID)
//	defer span.End("")
package trace
