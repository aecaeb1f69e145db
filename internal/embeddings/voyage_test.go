package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVoyageProvider_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("got Authorization %q", got)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["model"] != voyageDefaultModel {
			t.Errorf("got model %v", body["model"])
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(voyageEmbeddingsResponse{
			Data: []struct {
				Embedding []float64 `json:"embedding"`
				Index     int       `json:"index"`
			}{{Embedding: []float64{0.1, 0.2, 0.3}, Index: 0}},
			Usage: struct {
				TotalTokens int `json:"total_tokens"`
			}{TotalTokens: 4},
		})
	}))
	defer srv.Close()

	p := NewVoyageProvider(WithVoyageAPIKey("test-key"), WithVoyageBaseURL(srv.URL))
	res, err := p.Embed(context.Background(), Request{Content: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embedding) != 3 {
		t.Fatalf("got %d dims, want 3", len(res.Embedding))
	}
	if res.TokensUsed != 4 {
		t.Fatalf("got tokens %d, want 4", res.TokensUsed)
	}
}

func TestVoyageProvider_EmbedBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(voyageEmbeddingsResponse{
			Data: []struct {
				Embedding []float64 `json:"embedding"`
				Index     int       `json:"index"`
			}{
				{Embedding: []float64{1, 0}, Index: 0},
				{Embedding: []float64{0, 1}, Index: 1},
			},
		})
	}))
	defer srv.Close()

	p := NewVoyageProvider(WithVoyageAPIKey("k"), WithVoyageBaseURL(srv.URL))
	out, err := p.EmbedBatch(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d results, want 2", len(out))
	}
}

func TestVoyageProvider_Unavailable(t *testing.T) {
	t.Setenv("VOYAGE_API_KEY", "")
	p := NewVoyageProvider()
	if p.Available() {
		t.Fatal("expected provider without an API key to be unavailable")
	}
	if _, err := p.Embed(context.Background(), Request{Content: "x"}); err == nil {
		t.Fatal("expected error when embedding with no API key configured")
	}
}

func TestVoyageProvider_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer srv.Close()

	p := NewVoyageProvider(WithVoyageAPIKey("bad"), WithVoyageBaseURL(srv.URL))
	if _, err := p.Embed(context.Background(), Request{Content: "x"}); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
