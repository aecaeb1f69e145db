package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIProvider_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float32{0.1, 0.2, 0.3}, "index": 0, "object": "embedding"},
			},
			"model":  openaiDefaultModel,
			"object": "list",
			"usage":  map[string]any{"prompt_tokens": 3, "total_tokens": 3},
		})
	}))
	defer srv.Close()

	p := NewOpenAIProvider(WithOpenAIAPIKey("sk-test"), WithOpenAIBaseURL(srv.URL))
	res, err := p.Embed(context.Background(), Request{Content: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embedding) != 3 {
		t.Fatalf("got %d dims, want 3", len(res.Embedding))
	}
	if res.TokensUsed != 3 {
		t.Fatalf("got tokens %d, want 3", res.TokensUsed)
	}
}

func TestOpenAIProvider_EmbedBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float32{1, 0}, "index": 0, "object": "embedding"},
				{"embedding": []float32{0, 1}, "index": 1, "object": "embedding"},
			},
			"model":  openaiDefaultModel,
			"object": "list",
			"usage":  map[string]any{"prompt_tokens": 2, "total_tokens": 2},
		})
	}))
	defer srv.Close()

	p := NewOpenAIProvider(WithOpenAIAPIKey("sk-test"), WithOpenAIBaseURL(srv.URL))
	out, err := p.EmbedBatch(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d results, want 2", len(out))
	}
}

func TestOpenAIProvider_Unavailable(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	p := NewOpenAIProvider()
	if p.Available() {
		t.Fatal("expected provider without an API key to be unavailable")
	}
	if _, err := p.Embed(context.Background(), Request{Content: "x"}); err == nil {
		t.Fatal("expected error when embedding with no API key configured")
	}
}

func TestOpenAIProvider_ModelOverride(t *testing.T) {
	p := NewOpenAIProvider(WithOpenAIAPIKey("sk-test"), WithOpenAIModel("text-embedding-3-large"))
	if p.ModelName() != "text-embedding-3-large" {
		t.Fatalf("got model %q", p.ModelName())
	}
}
