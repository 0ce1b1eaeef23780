package state

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestToMessageRows(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.FixedZone("ICT", 7*3600))
	c := NewConversation("s-1", "CUST001", now)
	_ = c.Append(RoleUser, "balance?", now)
	_ = c.Append(RoleAssistant, "5000", now)

	rows := toMessageRows(c)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if row.Seq != i || row.SessionID != "s-1" {
			t.Fatalf("unexpected row %d: %#v", i, row)
		}
		if row.ID == uuid.Nil {
			t.Fatalf("row %d has no id", i)
		}
		if row.CreatedAt.Location() != time.UTC {
			t.Fatalf("row %d not normalized to UTC", i)
		}
	}
	if rows[1].Role != "assistant" {
		t.Fatalf("unexpected role %q", rows[1].Role)
	}
}

// Runs against a real database only when STATE_TEST_POSTGRES_DSN is set.
func TestBunStoreRoundTrip(t *testing.T) {
	dsn := os.Getenv("STATE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("STATE_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	store, err := OpenBunStore(ctx, PostgresConfig{DSN: dsn})
	if err != nil {
		t.Fatalf("OpenBunStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	sessionID := "test-" + uuid.NewString()
	t.Cleanup(func() { _ = store.Delete(ctx, sessionID) })

	c := NewConversation(sessionID, "CUST001", time.Now())
	_ = c.Append(RoleUser, "hi", time.Now())
	_ = c.Append(RoleAssistant, "hello", time.Now())
	if err := store.Save(ctx, c); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Turns) != 2 || got.Turns[0].Content != "hi" || got.Turns[1].Role != RoleAssistant {
		t.Fatalf("unexpected turns: %#v", got.Turns)
	}

	c.Trim(1)
	if err := store.Save(ctx, c); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, _ = store.Load(ctx, sessionID)
	if len(got.Turns) != 1 {
		t.Fatalf("expected trimmed history, got %d turns", len(got.Turns))
	}

	if err := store.Delete(ctx, sessionID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(ctx, sessionID); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("expected ErrStateNotFound, got %v", err)
	}
}
