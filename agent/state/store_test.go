package state

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Load(ctx, "s-1"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("expected ErrStateNotFound, got %v", err)
	}

	c := NewConversation("s-1", "CUST001", time.Now())
	if err := c.Append(RoleUser, "hi", time.Now()); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := store.Save(ctx, c); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	c.Turns[0].Content = "mutated after save"

	got, err := store.Load(ctx, "s-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Turns[0].Content != "hi" {
		t.Fatalf("store must keep its own copy, got %q", got.Turns[0].Content)
	}

	got.Turns[0].Content = "mutated after load"
	again, _ := store.Load(ctx, "s-1")
	if again.Turns[0].Content != "hi" {
		t.Fatal("Load must return a copy")
	}

	if err := store.Delete(ctx, "s-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(ctx, "s-1"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("expected ErrStateNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Save(ctx, nil); !errors.Is(err, ErrNilConversation) {
		t.Fatalf("expected ErrNilConversation, got %v", err)
	}
	if _, err := store.Load(ctx, " "); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
	if err := store.Delete(ctx, ""); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	noUpstash := func() UpstashRedisConfig { t.Fatal("upstash config must not be read"); return UpstashRedisConfig{} }
	noPostgres := func() PostgresConfig { t.Fatal("postgres config must not be read"); return PostgresConfig{} }

	s, err := Open(ctx, Config{Backend: "memory"}, noUpstash, noPostgres)
	if err != nil {
		t.Fatalf("Open(memory) error = %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Fatalf("expected *MemoryStore, got %T", s)
	}

	s, err = Open(ctx, Config{Backend: "upstash", KeyPrefix: "bank:"}, func() UpstashRedisConfig {
		return UpstashRedisConfig{URL: "https://example.upstash.io", Token: "token"}
	}, noPostgres)
	if err != nil {
		t.Fatalf("Open(upstash) error = %v", err)
	}
	up, ok := s.(*UpstashRedisStore)
	if !ok {
		t.Fatalf("expected *UpstashRedisStore, got %T", s)
	}
	if key, _ := up.redisKey("x"); key != "bank:x:chat:history" {
		t.Fatalf("unexpected key %q", key)
	}

	if _, err := Open(ctx, Config{Backend: "sqlite"}, noUpstash, noPostgres); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
