package jsontree

import (
	"sort"
	"strings"
)

// Target names a field to extract from a response tree. Aliases are checked
// as direct keys, in order, at every map level before the search descends.
// When Filter is set, only string values accepted by it can match.
type Target struct {
	Aliases []string
	Filter  func(string) bool
}

// Status locates the raw task status string.
var Status = Target{Aliases: []string{"status"}}

// TaskID locates the task handle assigned on submission.
var TaskID = Target{Aliases: []string{"taskId", "task_id"}}

// AudioURL locates the generated artifact URL. The filter rejects URL-shaped
// strings without an audio content marker so callback or page URLs that share
// an alias (for example "url") are never mistaken for the artifact.
var AudioURL = Target{
	Aliases: []string{"audioUrl", "audio_url", "url", "mp3Url", "streamUrl"},
	Filter:  IsAudioURL,
}

// ImageURL locates a generated image URL.
var ImageURL = Target{
	Aliases: []string{"imageUrl", "image_url", "url"},
	Filter:  IsImageURL,
}

// IsAudioURL reports whether the candidate looks like a downloadable audio
// artifact rather than an arbitrary link.
func IsAudioURL(candidate string) bool {
	if !strings.HasPrefix(candidate, "http") {
		return false
	}
	return strings.Contains(candidate, ".mp3") ||
		strings.Contains(candidate, ".wav") ||
		strings.Contains(candidate, "/audio/")
}

// IsImageURL reports whether the candidate looks like a downloadable image.
func IsImageURL(candidate string) bool {
	if !strings.HasPrefix(candidate, "http") {
		return false
	}
	return strings.Contains(candidate, ".png") ||
		strings.Contains(candidate, ".jpg") ||
		strings.Contains(candidate, ".jpeg") ||
		strings.Contains(candidate, ".webp") ||
		strings.Contains(candidate, "/image/") ||
		strings.Contains(candidate, "/images/")
}

// Extract searches tree depth-first for the target and returns the first
// match. Map children are visited in sorted key order so repeated calls over
// the same tree return the same value regardless of map iteration order.
// The second return is false when no matching field exists at any depth.
func Extract(tree any, target Target) (any, bool) {
	switch node := tree.(type) {
	case map[string]any:
		for _, alias := range target.Aliases {
			value, ok := node[alias]
			if !ok {
				continue
			}
			if target.Filter != nil {
				if s, isStr := value.(string); isStr && target.Filter(s) {
					return s, true
				}
				continue
			}
			if value != nil {
				return value, true
			}
		}

		keys := make([]string, 0, len(node))
		for key := range node {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if value, ok := Extract(node[key], target); ok {
				return value, true
			}
		}

	case []any:
		for _, item := range node {
			if value, ok := Extract(item, target); ok {
				return value, true
			}
		}
	}

	return nil, false
}

// ExtractString is Extract restricted to non-empty string results.
func ExtractString(tree any, target Target) (string, bool) {
	value, ok := Extract(tree, target)
	if !ok {
		return "", false
	}
	s, isStr := value.(string)
	if !isStr || s == "" {
		return "", false
	}
	return s, true
}
