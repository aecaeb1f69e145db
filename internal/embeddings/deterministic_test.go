package embeddings

import (
	"context"
	"math"
	"testing"
)

func vecNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestHash_Deterministic(t *testing.T) {
	a := Hash("the quick brown fox", 32)
	b := Hash("the quick brown fox", 32)
	if len(a) != 32 {
		t.Fatalf("got dim %d, want 32", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("hash not deterministic at index %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestHash_UnitNormalized(t *testing.T) {
	v := Hash("some text to embed", 16)
	norm := vecNorm(v)
	if math.Abs(norm-1.0) > 1e-4 {
		t.Fatalf("expected unit norm, got %f", norm)
	}
}

func TestHash_EmptyInput(t *testing.T) {
	v := Hash("", 8)
	if len(v) != 8 {
		t.Fatalf("got dim %d, want 8", len(v))
	}
	for _, x := range v {
		if x != 0 {
			t.Fatalf("expected all-zero vector for empty input, got %v", v)
		}
	}
}

func TestHash_DefaultDimensionOnInvalid(t *testing.T) {
	v := Hash("x", 0)
	if len(v) != DefaultDimensions {
		t.Fatalf("got dim %d, want %d", len(v), DefaultDimensions)
	}
}

func TestDeterministicProvider_Available(t *testing.T) {
	p := NewDeterministicProvider(0)
	if !p.Available() {
		t.Fatal("deterministic provider must always be available")
	}
	if p.Dimensions() != DefaultDimensions {
		t.Fatalf("got dim %d, want %d", p.Dimensions(), DefaultDimensions)
	}
}

func TestDeterministicProvider_Embed(t *testing.T) {
	p := NewDeterministicProvider(64)
	res, err := p.Embed(context.Background(), Request{Content: "hello world"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Dimensions != 64 {
		t.Fatalf("got dimensions %d, want 64", res.Dimensions)
	}
	if res.ProviderName != p.Name() {
		t.Fatalf("got provider name %q, want %q", res.ProviderName, p.Name())
	}
}

func TestDeterministicProvider_EmbedBatch(t *testing.T) {
	p := NewDeterministicProvider(16)
	texts := []string{"one", "two", "three"}
	results, err := p.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(texts) {
		t.Fatalf("got %d results, want %d", len(results), len(texts))
	}
	for i, r := range results {
		if r.Index != i {
			t.Fatalf("result %d has index %d", i, r.Index)
		}
		single := Hash(texts[i], 16)
		for j := range single {
			if r.Embedding[j] != single[j] {
				t.Fatalf("batch embedding for %q diverges from single Hash call", texts[i])
			}
		}
	}
}
