// Package suno talks to the Suno-compatible music generation API: submitting
// generation jobs, building the candidate status-check URLs, and normalizing
// the service's raw status vocabulary into lifecycle states. Response bodies
// are treated as schema-unstable trees; field extraction goes through
// jsontree rather than fixed struct decoding.
package suno
