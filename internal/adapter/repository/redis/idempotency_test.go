package redis

import (
	"context"
	"testing"
	"time"
)

func TestIdempotencyStore_ReturnsStoredResponse(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if err := client.Set(ctx, store.prefix+"post-entry", `{"id":"e-1"}`, time.Minute).Err(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	exists, resp, err := store.CheckAndSet(ctx, "post-entry", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}
	if !exists {
		t.Fatalf("expected stored response to be reported as existing")
	}
	if string(resp) != `{"id":"e-1"}` {
		t.Fatalf("unexpected response %s", resp)
	}
}

func TestIdempotencyStore_ClaimsNewKeyWithMarker(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, resp, err := store.CheckAndSet(ctx, "post-payment", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}
	if exists || resp != nil {
		t.Fatalf("fresh key must not report existing, got exists=%v resp=%s", exists, resp)
	}

	val, err := client.Get(ctx, store.prefix+"post-payment").Result()
	if err != nil {
		t.Fatalf("expected key to be claimed: %v", err)
	}
	if val != processingMarker {
		t.Fatalf("expected processing marker, got %q", val)
	}
}

func TestIdempotencyStore_LosingTheClaimRaceSeesWinner(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "race", nil, time.Minute); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}

	exists, resp, err := store.CheckAndSet(ctx, "race", nil, time.Minute)
	if err != nil {
		t.Fatalf("second claim failed: %v", err)
	}
	if !exists || string(resp) != processingMarker {
		t.Fatalf("loser should observe the winner's marker, got exists=%v resp=%s", exists, resp)
	}
}

func TestIdempotencyStore_UpdateReplacesMarker(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "complete", nil, time.Minute); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if err := store.Update(ctx, "complete", []byte(`{"status":"posted"}`), time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	val, err := client.Get(ctx, store.prefix+"complete").Result()
	if err != nil || val != `{"status":"posted"}` {
		t.Fatalf("expected final response, got val=%s err=%v", val, err)
	}
}
