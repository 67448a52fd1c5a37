// Package diag defines the diagnostic model shared by the engine, the rules
// and the output layers.
//
// # Purpose
//
//   - Describe rule findings with immutable Descriptors (ID, title, message
//     format, category, default severity).
//   - Provide the Reporter, the only component that allocates a Diagnostic
//     for a finding. A Reporter is bound to one file: it validates that the
//     descriptor is registered and that the span lies inside the file, formats
//     the message, resolves line/column positions, applies suppressors and
//     forwards the result to a Sink.
//   - Offer light-weight sinks (Bag, DedupSink, SinkFunc) so producers never
//     depend on concrete storage or formatting layers.
//
// # Scope
//
// Package diag performs no IO and no rendering. Rendering lives in
// internal/diagfmt; orchestration across files lives in internal/driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Descriptor – the identity of the rule that produced it.
//   - Severity – copied from the descriptor at report time.
//   - Path, Span, Start, End – location inside the owning file.
//   - Args – ordered message arguments, kept for consumers and tests.
//   - Message – MessageFormat expanded with Args.
//   - Internal – set for engine-internal entries (configuration, execution
//     and reporting errors) so consumers can filter them from user-facing
//     output.
//
// Keep the data model deterministic: the CLI caches diagnostics on disk and
// the tests compare rendered lists verbatim.
package diag
