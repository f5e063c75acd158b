package knowledge

import (
	"testing"
	"time"
)

func TestVectorLiteral(t *testing.T) {
	got := vectorLiteral([]float32{1, -0.5, 0})
	want := "[1,-0.5,0]"
	if got != want {
		t.Errorf("vectorLiteral = %q, want %q", got, want)
	}
}

func TestRetrievalCacheRoundTrip(t *testing.T) {
	key := "players|[1,2]|5|0.5"
	want := []Snippet{{Content: "players table", Similarity: 0.9}}
	retrievalCache.Set(key, want, retrievalCacheTTL)

	got, ok := retrievalCache.Get(key)
	if !ok {
		t.Fatalf("Get(%q) ok = false, want true", key)
	}
	if snippets, ok := got.([]Snippet); !ok || len(snippets) != 1 || snippets[0].Content != "players table" {
		t.Errorf("Get(%q) = %v, want %v", key, got, want)
	}
}

func TestRetrievalCacheMissAfterExpiry(t *testing.T) {
	key := "teams|[0]|1|0.1"
	retrievalCache.Set(key, []Snippet{{Content: "teams table"}}, -time.Second)

	if _, ok := retrievalCache.Get(key); ok {
		t.Errorf("Get(%q) ok = true after expiry, want false", key)
	}
}

func TestFallbackNonEmpty(t *testing.T) {
	snippets := Fallback()
	if len(snippets) < 6 {
		t.Fatalf("expected at least 6 fallback snippets, got %d", len(snippets))
	}
	for _, s := range snippets {
		if s.Content == "" {
			t.Error("fallback snippet has empty content")
		}
	}
}
