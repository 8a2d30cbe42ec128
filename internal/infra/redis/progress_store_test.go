package redis

import (
	"context"
	"testing"
	"time"

	"sanskrit-quiz-service/internal/domain"
)

func TestProgressStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewProgressStore(client, "s-1", time.Hour)

	if _, ok, err := store.Load(ctx, domain.GameNumber); ok || err != nil {
		t.Fatalf("expected miss, got %v %v", ok, err)
	}
	if err := store.Save(ctx, domain.GameNumber, 8); err != nil {
		t.Fatalf("save: %v", err)
	}
	if v, _ := mr.Get("progress:s-1:number"); v != "8" {
		t.Fatalf("unexpected stored value %q", v)
	}
	if ttl := mr.TTL("progress:s-1:number"); ttl != time.Hour {
		t.Fatalf("expected progress to expire after an hour, got %v", ttl)
	}
	if score, ok, err := store.Load(ctx, domain.GameNumber); !ok || err != nil || score != 8 {
		t.Fatalf("expected 8, got %d %v %v", score, ok, err)
	}
	if err := store.Clear(ctx, domain.GameNumber); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if mr.Exists("progress:s-1:number") {
		t.Fatalf("expected key removed")
	}
}
