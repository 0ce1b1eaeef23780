package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type chatSession struct {
	bun.BaseModel `bun:"table:chat_sessions,alias:cs"`

	SessionID  string    `bun:"session_id,pk"`
	CustomerID string    `bun:"customer_id,notnull"`
	UpdatedAt  time.Time `bun:"updated_at,notnull"`
}

type chatMessage struct {
	bun.BaseModel `bun:"table:chat_messages,alias:cm"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	SessionID string    `bun:"session_id,notnull"`
	Seq       int       `bun:"seq,notnull"`
	Role      string    `bun:"role,notnull"`
	Content   string    `bun:"content,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

type PostgresConfig struct {
	DSN     string        `envconfig:"DSN" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"5s"`
}

// BunStore persists conversations in Postgres. Each Save rewrites the
// session's messages inside one transaction.
type BunStore struct {
	db *bun.DB
}

var _ Store = (*BunStore)(nil)

// OpenBunStore connects to Postgres and creates the chat tables if missing.
func OpenBunStore(ctx context.Context, cfg PostgresConfig) (*BunStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(timeout),
	))
	db := bun.NewDB(sqldb, pgdialect.New())

	store := NewBunStore(db)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

func (s *BunStore) Migrate(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := s.db.NewCreateTable().Model((*chatSession)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create chat_sessions: %w", err)
	}
	if _, err := s.db.NewCreateTable().Model((*chatMessage)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create chat_messages: %w", err)
	}
	if _, err := s.db.NewCreateIndex().
		Model((*chatMessage)(nil)).
		Index("chat_messages_session_seq_idx").
		IfNotExists().
		Column("session_id", "seq").
		Exec(ctx); err != nil {
		return fmt.Errorf("create chat_messages index: %w", err)
	}
	return nil
}

func (s *BunStore) Close() error {
	return s.db.Close()
}

func (s *BunStore) Load(ctx context.Context, sessionID string) (*Conversation, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	var sess chatSession
	err := s.db.NewSelect().Model(&sess).Where("session_id = ?", sessionID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select chat session: %w", err)
	}

	var rows []chatMessage
	if err := s.db.NewSelect().
		Model(&rows).
		Where("session_id = ?", sessionID).
		Order("seq ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("select chat messages: %w", err)
	}

	conv := &Conversation{
		SessionID:  sess.SessionID,
		CustomerID: sess.CustomerID,
		UpdatedAt:  sess.UpdatedAt.UTC(),
	}
	for _, row := range rows {
		conv.Turns = append(conv.Turns, Turn{
			Role:      Role(row.Role),
			Content:   row.Content,
			CreatedAt: row.CreatedAt.UTC(),
		})
	}

	if err := conv.Validate(); err != nil {
		return nil, fmt.Errorf("invalid conversation loaded from store: %w", err)
	}
	return conv, nil
}

func (s *BunStore) Save(ctx context.Context, c *Conversation) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now().UTC()
	}

	sess := chatSession{
		SessionID:  c.SessionID,
		CustomerID: c.CustomerID,
		UpdatedAt:  c.UpdatedAt.UTC(),
	}
	rows := toMessageRows(c)

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().
			Model(&sess).
			On("CONFLICT (session_id) DO UPDATE").
			Set("customer_id = EXCLUDED.customer_id").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx); err != nil {
			return fmt.Errorf("upsert chat session: %w", err)
		}
		if _, err := tx.NewDelete().
			Model((*chatMessage)(nil)).
			Where("session_id = ?", c.SessionID).
			Exec(ctx); err != nil {
			return fmt.Errorf("clear chat messages: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert chat messages: %w", err)
		}
		return nil
	})
}

func (s *BunStore) Delete(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ErrInvalidSession
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*chatMessage)(nil)).
			Where("session_id = ?", sessionID).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete chat messages: %w", err)
		}
		if _, err := tx.NewDelete().
			Model((*chatSession)(nil)).
			Where("session_id = ?", sessionID).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete chat session: %w", err)
		}
		return nil
	})
}

func toMessageRows(c *Conversation) []chatMessage {
	rows := make([]chatMessage, 0, len(c.Turns))
	for i, t := range c.Turns {
		rows = append(rows, chatMessage{
			ID:        uuid.New(),
			SessionID: c.SessionID,
			Seq:       i,
			Role:      string(t.Role),
			Content:   t.Content,
			CreatedAt: t.CreatedAt.UTC(),
		})
	}
	return rows
}
