package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
)

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("mountains, ocean")
	want := "Generate one new wallpaper theme word related to mountains, ocean in just one word different from mountains, ocean."
	if got != want {
		t.Errorf("prompt mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestFirstGeneration(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{"single", `[{"generated_text": " Aurora "}]`, "Aurora", true},
		{"several", `[{"generated_text": "a"}, {"generated_text": "b"}]`, "a", true},
		{"empty list", `[]`, "", false},
		{"error object", `{"error": "Model is loading"}`, "", false},
		{"blank text", `[{"generated_text": "  "}]`, "", false},
		{"not json", `nope`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstGeneration([]byte(tt.raw))
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FirstGeneration(%s) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestHuggingFaceClient_Recommend(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody inferenceRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"generated_text":"Generate one new wallpaper theme... Aurora"}]`)
	}))
	defer srv.Close()

	c := NewHuggingFaceClient("hf-key", srv.URL+"/models/", "OpenAssistant/oasst-sft-1-pythia-12b", nil)
	raw, err := c.Recommend(context.Background(), "mountains")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if string(raw) != `[{"generated_text":"Generate one new wallpaper theme... Aurora"}]` {
		t.Errorf("expected body returned verbatim, got %s", raw)
	}
	if gotPath != "/models/OpenAssistant/oasst-sft-1-pythia-12b" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotAuth != "Bearer hf-key" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if !gotBody.Options.WaitForModel {
		t.Error("expected wait_for_model option")
	}
	if gotBody.Inputs != BuildPrompt("mountains") {
		t.Errorf("unexpected inputs %q", gotBody.Inputs)
	}
}

func TestHuggingFaceClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":"Model is currently loading"}`)
	}))
	defer srv.Close()

	_, err := NewHuggingFaceClient("k", srv.URL, "m", nil).Recommend(context.Background(), "x")
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected HTTPStatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", statusErr.StatusCode)
	}
}

func TestHuggingFaceClient_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>gateway</html>")
	}))
	defer srv.Close()

	if _, err := NewHuggingFaceClient("k", srv.URL, "m", nil).Recommend(context.Background(), "x"); err == nil {
		t.Fatal("expected error for non-JSON body")
	}
}

func TestOpenAIClient_WrapsGeneration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": " Nebula\n"}}]
		}`)
	}))
	defer srv.Close()

	raw, err := NewOpenAIClient("k", srv.URL+"/v1", "gpt-4o-mini").Recommend(context.Background(), "space")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	text, ok := FirstGeneration(raw)
	if !ok || text != "Nebula" {
		t.Errorf("expected wrapped Nebula, got %s", raw)
	}
}

func TestAnthropicClient_WrapsGeneration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-test",
			"content": [{"type": "text", "text": "Glacier"}],
			"stop_reason": "end_turn", "stop_sequence": null,
			"usage": {"input_tokens": 10, "output_tokens": 2}
		}`)
	}))
	defer srv.Close()

	raw, err := NewAnthropicClient("k", srv.URL, "claude-test").Recommend(context.Background(), "ice")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	text, ok := FirstGeneration(raw)
	if !ok || text != "Glacier" {
		t.Errorf("expected wrapped Glacier, got %s", raw)
	}
}
