// Package lyrics generates song lyrics through an Anthropic-compatible
// messages API. The model is asked to put the title on the first line; the
// parser splits it off and falls back to a title-cased theme when the model
// does not comply.
package lyrics
