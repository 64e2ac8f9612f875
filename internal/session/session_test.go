package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/router-for-me/PrizeCheck/internal/config"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	s := New(1, "admin", now, time.Hour)
	if s.ID == "" || !s.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected session: %+v", s)
	}
	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AdminID != 1 || got.Username != "admin" {
		t.Fatalf("unexpected stored session: %+v", got)
	}

	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreExpiryAndPurge(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	short := New(1, "admin", now, time.Minute)
	long := New(2, "ops", now, time.Hour)
	for _, s := range []Session{short, long} {
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	now = now.Add(time.Minute)
	if _, err := store.Get(ctx, short.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired session to be hidden, got %v", err)
	}
	if _, err := store.Get(ctx, long.ID); err != nil {
		t.Fatalf("expected long session to survive, got %v", err)
	}

	if removed := store.PurgeExpired(); removed != 1 {
		t.Fatalf("purged %d sessions, want 1", removed)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 session left, got %d", store.Len())
	}
}

func TestMemoryStoreRejectsEmptyID(t *testing.T) {
	if err := NewMemoryStore().Create(context.Background(), Session{}); err == nil {
		t.Fatalf("expected empty id to be rejected")
	}
}

func TestRedisStoreRejectsExpiredSessionsBeforeWriting(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()
	store := NewRedisStore(client)
	now := time.Now()

	err := store.Create(context.Background(), New(1, "admin", now.Add(-2*time.Hour), time.Hour))
	if err == nil {
		t.Fatalf("expected expired session to be rejected")
	}
	if redisKey("abc") != "prizecheck:session:abc" {
		t.Fatalf("unexpected redis key %q", redisKey("abc"))
	}
}

func newMiniredisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(config.RedisConfig{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	store := NewRedisStore(client)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStoreRoundTripWithTTL(t *testing.T) {
	store, mr := newMiniredisStore(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time { return now }

	sess := New(7, "admin", now, 2*time.Hour)
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}
	key := "prizecheck:session:" + sess.ID
	if !mr.Exists(key) {
		t.Fatalf("expected key %s", key)
	}
	if ttl := mr.TTL(key); ttl != 2*time.Hour {
		t.Fatalf("ttl = %s, want 2h", ttl)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != sess.ID || got.AdminID != 7 || got.Username != "admin" {
		t.Fatalf("unexpected session %+v", got)
	}
	if !got.IssuedAt.Equal(sess.IssuedAt) || !got.ExpiresAt.Equal(sess.ExpiresAt) {
		t.Fatalf("times not preserved: %+v", got)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists(key) {
		t.Fatalf("key should be gone after delete")
	}
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("deleting a missing session should succeed: %v", err)
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := newMiniredisStore(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time { return now }

	first := New(1, "admin", now, time.Hour)
	second := New(1, "admin", now, time.Hour)
	for _, sess := range []Session{first, second} {
		if err := store.Create(ctx, sess); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	// The store's clock passing ExpiresAt hides the session even while the key lives.
	now = first.ExpiresAt
	if _, err := store.Get(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound past expiry, got %v", err)
	}

	// Redis TTL removes the key on its own.
	now = first.IssuedAt
	mr.FastForward(time.Hour)
	if mr.Exists("prizecheck:session:" + second.ID) {
		t.Fatalf("key should expire with its ttl")
	}
	if _, err := store.Get(ctx, second.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after ttl, got %v", err)
	}
}

func TestRedisStoreReportsCorruptPayload(t *testing.T) {
	store, mr := newMiniredisStore(t)
	if err := mr.Set("prizecheck:session:broken", "not-json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, err := store.Get(context.Background(), "broken")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
}
