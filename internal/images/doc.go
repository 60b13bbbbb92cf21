// Package images renders optional cover art for a generated song and pulls
// the results down to disk. The stage is best effort: a run that produces
// some of the requested images still succeeds.
package images
