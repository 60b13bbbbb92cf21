package jsontree_test

import (
	"encoding/json"
	"testing"

	"github.com/kl63/VerseVisions/internal/jsontree"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var tree any
	if err := json.Unmarshal([]byte(raw), &tree); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	return tree
}

func TestExtractFindsFieldAtAnyDepth(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"top level", `{"status":"SUCCESS"}`, "SUCCESS"},
		{"under data", `{"code":200,"data":{"status":"PENDING"}}`, "PENDING"},
		{"inside array", `{"data":{"response":[{"status":"FIRST_SUCCESS"}]}}`, "FIRST_SUCCESS"},
		{"deeply nested", `{"a":{"b":{"c":[{"d":{"status":"TEXT_SUCCESS"}}]}}}`, "TEXT_SUCCESS"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := jsontree.ExtractString(decode(t, tc.raw), jsontree.Status)
			if !ok {
				t.Fatal("expected status to be found")
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestExtractReturnsNotFoundWithoutPanicking(t *testing.T) {
	trees := []string{
		`{}`,
		`{"data":{"results":[1,2,3]}}`,
		`[null,{"nested":[{"other":"x"}]}]`,
		`"scalar"`,
		`42`,
	}
	for _, raw := range trees {
		if _, ok := jsontree.Extract(decode(t, raw), jsontree.Status); ok {
			t.Fatalf("expected not found for %s", raw)
		}
	}
}

func TestExtractShallowerOccurrenceWins(t *testing.T) {
	raw := `{"status":"SUCCESS","data":{"status":"PENDING"}}`
	got, _ := jsontree.ExtractString(decode(t, raw), jsontree.Status)
	if got != "SUCCESS" {
		t.Fatalf("expected shallow occurrence, got %q", got)
	}
}

func TestExtractIsDeterministicForFixedInput(t *testing.T) {
	raw := `{"zz":{"status":"DEEP_Z"},"aa":{"status":"DEEP_A"}}`
	tree := decode(t, raw)
	first, _ := jsontree.ExtractString(tree, jsontree.Status)
	for i := 0; i < 50; i++ {
		got, _ := jsontree.ExtractString(tree, jsontree.Status)
		if got != first {
			t.Fatalf("extraction not idempotent: %q then %q", first, got)
		}
	}
	// Sorted-key descent means the aa subtree is always visited first.
	if first != "DEEP_A" {
		t.Fatalf("expected sorted-order winner DEEP_A, got %q", first)
	}
}

func TestAudioURLAliasPriority(t *testing.T) {
	raw := `{"streamUrl":"http://x/stream.mp3","audioUrl":"http://x/a.mp3"}`
	got, _ := jsontree.ExtractString(decode(t, raw), jsontree.AudioURL)
	if got != "http://x/a.mp3" {
		t.Fatalf("expected audioUrl alias to win, got %q", got)
	}
}

func TestAudioURLRejectsUnrelatedURLs(t *testing.T) {
	cases := []string{
		`{"url":"http://example.com/callback"}`,
		`{"audioUrl":"https://example.com/page"}`,
		`{"callBackUrl":"http://example.com/audio.mp3.html/notreally"}`,
	}
	// The last case has no matching alias at all; callBackUrl is not an alias.
	for i, raw := range cases {
		got, ok := jsontree.ExtractString(decode(t, raw), jsontree.AudioURL)
		if i == 2 {
			if ok {
				t.Fatalf("callBackUrl must never match, got %q", got)
			}
			continue
		}
		if ok {
			t.Fatalf("expected rejection for %s, got %q", raw, got)
		}
	}
}

func TestAudioURLAcceptsContentMarkers(t *testing.T) {
	cases := map[string]string{
		`{"url":"http://cdn/x.mp3"}`:               "http://cdn/x.mp3",
		`{"url":"https://cdn/y.wav"}`:              "https://cdn/y.wav",
		`{"url":"https://cdn/audio/12345/file"}`:   "https://cdn/audio/12345/file",
		`{"data":{"mp3Url":"http://cdn/z.mp3"}}`:   "http://cdn/z.mp3",
		`{"results":[{"url":"http://cdn/a.mp3"}]}`: "http://cdn/a.mp3",
	}
	for raw, want := range cases {
		got, ok := jsontree.ExtractString(decode(t, raw), jsontree.AudioURL)
		if !ok || got != want {
			t.Fatalf("for %s got %q ok=%v want %q", raw, got, ok, want)
		}
	}
}

func TestExtractSkipsRejectedAliasButDescends(t *testing.T) {
	raw := `{"url":"http://example.com/home","data":{"audioUrl":"http://cdn/song.mp3"}}`
	got, ok := jsontree.ExtractString(decode(t, raw), jsontree.AudioURL)
	if !ok || got != "http://cdn/song.mp3" {
		t.Fatalf("expected nested artifact URL, got %q ok=%v", got, ok)
	}
}

func TestTaskIDAliases(t *testing.T) {
	cases := map[string]string{
		`{"data":{"taskId":"abc123"}}`:    "abc123",
		`{"taskId":"top-level"}`:          "top-level",
		`{"data":{"task_id":"snake"}}`:    "snake",
		`{"a":[{"b":{"taskId":"deep"}}]}`: "deep",
	}
	for raw, want := range cases {
		got, ok := jsontree.ExtractString(decode(t, raw), jsontree.TaskID)
		if !ok || got != want {
			t.Fatalf("for %s got %q ok=%v", raw, got, ok)
		}
	}
}
