package suno

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kl63/VerseVisions/internal/logging"
	"github.com/kl63/VerseVisions/internal/services"
	"github.com/kl63/VerseVisions/internal/testsupport"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := testsupport.NewConfig(t,
		testsupport.WithSunoKey("test-key"),
		testsupport.WithSunoBaseURL(baseURL),
	)
	return NewClient(cfg.Suno, logging.NewNop())
}

func TestSubmitReturnsTaskID(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"code": 200, "data": {"taskId": "task-123"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	taskID, err := client.Submit(context.Background(), SubmitRequest{
		Prompt: "a song about rivers",
		Style:  "folk",
		Title:  "River Song",
		Model:  "V3_5",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if taskID != "task-123" {
		t.Errorf("taskID = %q, want task-123", taskID)
	}
	if captured["prompt"] != "a song about rivers" {
		t.Errorf("prompt = %v", captured["prompt"])
	}
	if _, ok := captured["customMode"]; !ok {
		t.Error("customMode missing from payload")
	}
	if _, ok := captured["callBackUrl"]; !ok {
		t.Error("callBackUrl missing from payload")
	}
}

func TestSubmitTruncatesLongTitle(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"code": 200, "data": {"taskId": "task-123"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	long := strings.Repeat("x", 120)
	if _, err := client.Submit(context.Background(), SubmitRequest{Prompt: "p", Title: long}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	title, _ := captured["title"].(string)
	if len([]rune(title)) != maxTitleRunes {
		t.Errorf("title length = %d, want %d", len([]rune(title)), maxTitleRunes)
	}
}

func TestSubmitRejectsEmptyPrompt(t *testing.T) {
	client := newTestClient(t, "http://unused.invalid")
	_, err := client.Submit(context.Background(), SubmitRequest{})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestSubmitFatalAPICode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 429, "msg": "insufficient credits"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Submit(context.Background(), SubmitRequest{Prompt: "p"})
	if !errors.Is(err, services.ErrSubmission) {
		t.Fatalf("err = %v, want ErrSubmission", err)
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "insufficient credits") {
		t.Errorf("error should carry the upstream code and message, got %v", err)
	}
}

func TestSubmitMissingTaskID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 200, "data": {"something": "else"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Submit(context.Background(), SubmitRequest{Prompt: "p"})
	if !errors.Is(err, services.ErrSubmission) {
		t.Fatalf("err = %v, want ErrSubmission", err)
	}
}

func TestSubmitServerUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Submit(context.Background(), SubmitRequest{Prompt: "p"})
	if !errors.Is(err, services.ErrSubmission) {
		t.Fatalf("err = %v, want ErrSubmission", err)
	}
}

func TestStatusCandidatesOrder(t *testing.T) {
	client := newTestClient(t, "https://api.example.com/api/v1")
	candidates := client.StatusCandidates("abc123")
	want := []string{
		"https://api.example.com/api/v1/generate/record-info?taskId=abc123",
		"https://api.example.com/api/v1/generate/status?taskId=abc123",
		"https://api.example.com/api/v1/generate/result?taskId=abc123",
		"https://api.example.com/api/v1/task/abc123",
		"https://api.example.com/api/v1/generate/abc123",
	}
	if len(candidates) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(candidates), len(want))
	}
	for i := range want {
		if candidates[i] != want[i] {
			t.Errorf("candidate[%d] = %q, want %q", i, candidates[i], want[i])
		}
	}
}

func TestCheckStatusSuccessWithAudioURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate/record-info" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{
			"code": 200,
			"data": {
				"status": "SUCCESS",
				"response": {
					"sunoData": [{"audioUrl": "https://cdn.example.com/song.mp3"}]
				}
			}
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	snapshot, err := client.CheckStatus(context.Background(), "task-123")
	if err != nil {
		t.Fatalf("CheckStatus failed: %v", err)
	}
	if snapshot.State != LifecycleSuccess {
		t.Errorf("State = %v, want LifecycleSuccess", snapshot.State)
	}
	if snapshot.RawStatus != "SUCCESS" {
		t.Errorf("RawStatus = %q", snapshot.RawStatus)
	}
	if snapshot.AudioURL != "https://cdn.example.com/song.mp3" {
		t.Errorf("AudioURL = %q", snapshot.AudioURL)
	}
	if !strings.HasSuffix(snapshot.UsedURL, "/generate/record-info?taskId=task-123") {
		t.Errorf("UsedURL = %q", snapshot.UsedURL)
	}
}

func TestCheckStatusFallsThroughToLaterCandidate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/task/task-123" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"status": "pending"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	snapshot, err := client.CheckStatus(context.Background(), "task-123")
	if err != nil {
		t.Fatalf("CheckStatus failed: %v", err)
	}
	if snapshot.State != LifecyclePending {
		t.Errorf("State = %v, want LifecyclePending", snapshot.State)
	}
	if !strings.HasSuffix(snapshot.UsedURL, "/task/task-123") {
		t.Errorf("UsedURL = %q", snapshot.UsedURL)
	}
}

func TestCheckStatusNoEndpointAnsweredIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.CheckStatus(context.Background(), "task-123")
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("err = %v, want ErrTransient", err)
	}
	if services.IsTerminal(err) {
		t.Error("no-endpoint-answered should not be terminal")
	}
}

func TestCheckStatusFatalAPICode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 455, "msg": "maintenance"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	snapshot, err := client.CheckStatus(context.Background(), "task-123")
	if !errors.Is(err, services.ErrTaskFailed) {
		t.Fatalf("err = %v, want ErrTaskFailed", err)
	}
	if snapshot == nil || snapshot.Code != 455 {
		t.Errorf("snapshot should carry the upstream code, got %+v", snapshot)
	}
}

func TestCheckStatusTransientNotFoundCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 404, "msg": "task not found yet"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	snapshot, err := client.CheckStatus(context.Background(), "task-123")
	if err != nil {
		t.Fatalf("CheckStatus failed: %v", err)
	}
	if snapshot.State != LifecycleUnknown {
		t.Errorf("State = %v, want LifecycleUnknown", snapshot.State)
	}
	if snapshot.Code != 404 {
		t.Errorf("Code = %d, want 404", snapshot.Code)
	}
}

func TestCheckStatusIgnoresCallbackURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"code": 200,
			"data": {
				"callbackUrl": "https://example.com/callback",
				"status": "FIRST_SUCCESS",
				"tracks": [{"url": "https://cdn.example.com/audio/render"}]
			}
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	snapshot, err := client.CheckStatus(context.Background(), "task-123")
	if err != nil {
		t.Fatalf("CheckStatus failed: %v", err)
	}
	if snapshot.State != LifecyclePartial {
		t.Errorf("State = %v, want LifecyclePartial", snapshot.State)
	}
	if snapshot.AudioURL != "https://cdn.example.com/audio/render" {
		t.Errorf("AudioURL = %q", snapshot.AudioURL)
	}
}
