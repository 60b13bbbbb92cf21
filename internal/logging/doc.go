// Package logging centralizes slog construction and shared attribute helpers
// for the pipeline. It offers a human-readable console handler for interactive
// runs, a JSON handler for machine consumption, and standardized field keys so
// task handles and stage names render consistently across components.
package logging
