package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"River Song":       "River Song",
		"a/b\\c:d":         "a-b-c-d",
		"what? \"really\"": "what really",
		"  padded  ":       "padded",
		"<script>|*evil":   "script-evil",
		"":                 "",
	}
	for input, want := range cases {
		if got := SanitizeFileName(input); got != want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", input, got, want)
		}
	}
}
