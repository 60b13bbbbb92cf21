package endpoint_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kl63/VerseVisions/internal/endpoint"
)

func TestResolveReturnsFirstSuccessfulCandidate(t *testing.T) {
	var hits []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, r.URL.Path)
		switch r.URL.Path {
		case "/primary":
			w.WriteHeader(http.StatusNotFound)
		case "/secondary":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data":{"status":"PENDING"}}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	resolver := endpoint.New(nil)
	candidates := []string{server.URL + "/primary", server.URL + "/secondary", server.URL + "/tertiary"}

	resp, err := resolver.Resolve(context.Background(), http.MethodGet, candidates, nil, nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resp.UsedURL != candidates[1] {
		t.Fatalf("expected secondary candidate, got %q", resp.UsedURL)
	}
	if len(hits) != 2 {
		t.Fatalf("expected resolver to stop after first success, hit %v", hits)
	}
	tree, ok := resp.Tree.(map[string]any)
	if !ok {
		t.Fatalf("expected decoded map, got %T", resp.Tree)
	}
	if _, ok := tree["data"]; !ok {
		t.Fatal("expected decoded data field")
	}
}

func TestResolveAllCandidatesFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	resolver := endpoint.New(nil)
	candidates := []string{server.URL + "/a", server.URL + "/b", server.URL + "/c"}

	_, err := resolver.Resolve(context.Background(), http.MethodGet, candidates, nil, nil)
	if !errors.Is(err, endpoint.ErrAllCandidatesFailed) {
		t.Fatalf("expected ErrAllCandidatesFailed, got %v", err)
	}
	for _, candidate := range candidates {
		if !strings.Contains(err.Error(), candidate) {
			t.Fatalf("expected error to mention %q, got %v", candidate, err)
		}
	}
	if !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected upstream status code in error, got %v", err)
	}
}

func TestResolveTreatsUndecodableBodyAsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			w.Write([]byte("<html>not json</html>"))
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	resolver := endpoint.New(nil)
	resp, err := resolver.Resolve(context.Background(), http.MethodGet,
		[]string{server.URL + "/broken", server.URL + "/good"}, nil, nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !strings.HasSuffix(resp.UsedURL, "/good") {
		t.Fatalf("expected fallback to decodable candidate, got %q", resp.UsedURL)
	}
}

func TestResolveSendsHeadersAndBody(t *testing.T) {
	var gotAuth, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	headers := http.Header{}
	headers.Set("Authorization", "Bearer secret")

	resolver := endpoint.New(nil)
	_, err := resolver.Resolve(context.Background(), http.MethodPost,
		[]string{server.URL + "/generate"}, headers, []byte(`{"prompt":"hi"}`))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("expected auth header, got %q", gotAuth)
	}
	if gotBody != `{"prompt":"hi"}` {
		t.Fatalf("unexpected body %q", gotBody)
	}
}

func TestResolveRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := endpoint.New(nil)
	_, err := resolver.Resolve(ctx, http.MethodGet, []string{"http://127.0.0.1:1/never"}, nil, nil)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if errors.Is(err, endpoint.ErrAllCandidatesFailed) {
		t.Fatalf("cancellation must not be reported as AllFailed: %v", err)
	}
}
