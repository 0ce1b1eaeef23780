package state

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one persisted chat message. Tool traffic is never persisted.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is the chat history of one session.
type Conversation struct {
	SessionID  string    `json:"session_id"`
	CustomerID string    `json:"customer_id"`
	Turns      []Turn    `json:"turns,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

var (
	ErrStateNotFound    = errors.New("conversation not found")
	ErrNilConversation  = errors.New("conversation is nil")
	ErrInvalidSession   = errors.New("session id is empty")
	ErrInvalidTurnRole  = errors.New("invalid turn role")
	ErrEmptyTurnContent = errors.New("turn content is empty")
)

func NewConversation(sessionID, customerID string, now time.Time) *Conversation {
	return &Conversation{
		SessionID:  sessionID,
		CustomerID: customerID,
		UpdatedAt:  now.UTC(),
	}
}

func (c *Conversation) Touch(now time.Time) {
	c.UpdatedAt = now.UTC()
}

// Append adds a turn and refreshes UpdatedAt.
func (c *Conversation) Append(role Role, content string, now time.Time) error {
	if c == nil {
		return ErrNilConversation
	}
	if role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("%w: %q", ErrInvalidTurnRole, role)
	}
	if strings.TrimSpace(content) == "" {
		return ErrEmptyTurnContent
	}
	c.Turns = append(c.Turns, Turn{Role: role, Content: content, CreatedAt: now.UTC()})
	c.Touch(now)
	return nil
}

// Recent returns at most limit of the latest turns. A non-positive limit
// returns every turn.
func (c *Conversation) Recent(limit int) []Turn {
	if c == nil {
		return nil
	}
	if limit <= 0 || len(c.Turns) <= limit {
		return append([]Turn(nil), c.Turns...)
	}
	return append([]Turn(nil), c.Turns[len(c.Turns)-limit:]...)
}

// Trim keeps only the latest limit turns. A non-positive limit keeps all.
func (c *Conversation) Trim(limit int) {
	if c == nil || limit <= 0 || len(c.Turns) <= limit {
		return
	}
	c.Turns = append([]Turn(nil), c.Turns[len(c.Turns)-limit:]...)
}

func (c *Conversation) Validate() error {
	if c == nil {
		return ErrNilConversation
	}
	if strings.TrimSpace(c.SessionID) == "" {
		return ErrInvalidSession
	}
	for i, t := range c.Turns {
		if t.Role != RoleUser && t.Role != RoleAssistant {
			return fmt.Errorf("%w: turn %d has role %q", ErrInvalidTurnRole, i, t.Role)
		}
	}
	return nil
}

func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	out := *c
	out.Turns = append([]Turn(nil), c.Turns...)
	return &out
}
