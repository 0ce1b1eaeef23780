package state

import (
	"errors"
	"testing"
	"time"
)

func TestConversationAppend(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewConversation("s-1", "CUST001", now)

	if err := c.Append(RoleUser, "hi", now.Add(time.Second)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := c.Append(RoleAssistant, "hello", now.Add(2*time.Second)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if len(c.Turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(c.Turns))
	}
	if !c.UpdatedAt.Equal(now.Add(2 * time.Second)) {
		t.Fatalf("UpdatedAt = %s", c.UpdatedAt)
	}
}

func TestConversationAppendRejectsInvalid(t *testing.T) {
	t.Parallel()

	c := NewConversation("s-1", "CUST001", time.Now())
	if err := c.Append(Role("tool"), "x", time.Now()); !errors.Is(err, ErrInvalidTurnRole) {
		t.Fatalf("expected ErrInvalidTurnRole, got %v", err)
	}
	if err := c.Append(RoleUser, "  ", time.Now()); !errors.Is(err, ErrEmptyTurnContent) {
		t.Fatalf("expected ErrEmptyTurnContent, got %v", err)
	}

	var nilConv *Conversation
	if err := nilConv.Append(RoleUser, "x", time.Now()); !errors.Is(err, ErrNilConversation) {
		t.Fatalf("expected ErrNilConversation, got %v", err)
	}
}

func TestConversationRecentAndTrim(t *testing.T) {
	t.Parallel()

	c := NewConversation("s-1", "CUST001", time.Now())
	for _, text := range []string{"a", "b", "c", "d"} {
		if err := c.Append(RoleUser, text, time.Now()); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	recent := c.Recent(2)
	if len(recent) != 2 || recent[0].Content != "c" || recent[1].Content != "d" {
		t.Fatalf("unexpected recent turns: %#v", recent)
	}
	if len(c.Recent(0)) != 4 {
		t.Fatal("non-positive limit must return every turn")
	}

	recent[0].Content = "mutated"
	if c.Turns[2].Content != "c" {
		t.Fatal("Recent must return a copy")
	}

	c.Trim(3)
	if len(c.Turns) != 3 || c.Turns[0].Content != "b" {
		t.Fatalf("unexpected trimmed turns: %#v", c.Turns)
	}
}

func TestConversationValidate(t *testing.T) {
	t.Parallel()

	if err := (&Conversation{}).Validate(); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
	bad := &Conversation{SessionID: "s", Turns: []Turn{{Role: "system", Content: "x"}}}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidTurnRole) {
		t.Fatalf("expected ErrInvalidTurnRole, got %v", err)
	}
}
