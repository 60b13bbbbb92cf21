// Package services defines shared utilities consumed by the pipeline stages
// and external API integrations.
//
// Key responsibilities:
//   - Context helpers that stamp task handles, stage names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the pipeline's error taxonomy (transient vs submission-fatal vs
//     task-fatal vs budget-exhausted).
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability, retries) stays uniform across the pipeline.
package services
