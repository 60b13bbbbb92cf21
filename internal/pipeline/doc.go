// Package pipeline sequences the generation stages for one song: lyrics,
// music submission, status polling, artifact download, and the optional
// image and video stages. Stages that are disabled are skipped without
// failing the run, and a stage failure only aborts later stages that need
// its output.
package pipeline
