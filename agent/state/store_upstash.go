package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultStoreKeyPrefix = "conv:"
	historyKeySuffix      = ":chat:history"
	metaKeySuffix         = ":chat:meta"
	defaultStoreTTL       = 24 * time.Hour
	maxResponseSizeBytes  = 2 << 20
)

// StoreOption customizes UpstashRedisStore.
type StoreOption func(*UpstashRedisStore)

// WithKeyPrefix namespaces the history and meta keys of every session.
func WithKeyPrefix(prefix string) StoreOption {
	return func(s *UpstashRedisStore) {
		if trimmed := strings.TrimSpace(prefix); trimmed != "" {
			s.keyPrefix = trimmed
		}
	}
}

// WithTTL expires an idle conversation. Zero keeps it forever.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *UpstashRedisStore) {
		s.ttl = ttl
	}
}

func WithHTTPClient(client *http.Client) StoreOption {
	return func(s *UpstashRedisStore) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// UpstashRedisStore keeps each conversation as two Redis keys over the
// Upstash REST API: a list of turns and a small meta record. Saves rewrite
// both in one MULTI/EXEC transaction.
type UpstashRedisStore struct {
	baseURL    string
	token      string
	httpClient *http.Client
	keyPrefix  string
	ttl        time.Duration
}

var _ Store = (*UpstashRedisStore)(nil)

type UpstashRedisConfig struct {
	URL     string        `envconfig:"URL" split_words:"true" required:"true"`
	Token   string        `envconfig:"TOKEN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// conversationMeta is the Conversation without its turns.
type conversationMeta struct {
	SessionID  string    `json:"session_id"`
	CustomerID string    `json:"customer_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type redisResult struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func NewUpstashRedisStore(cfg UpstashRedisConfig, opts ...StoreOption) (*UpstashRedisStore, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("upstash redis url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid redis rest url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("upstash redis token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	store := &UpstashRedisStore{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		keyPrefix:  defaultStoreKeyPrefix,
		ttl:        defaultStoreTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	if store.ttl < 0 {
		return nil, errors.New("ttl must be >= 0")
	}
	return store, nil
}

// Load reads the meta record and the full turn list in one pipeline.
func (s *UpstashRedisStore) Load(ctx context.Context, sessionID string) (*Conversation, error) {
	historyKey, err := s.redisKey(sessionID)
	if err != nil {
		return nil, err
	}

	results, err := s.batch(ctx, "/pipeline", [][]any{
		{"GET", s.metaKey(sessionID)},
		{"LRANGE", historyKey, 0, -1},
	})
	if err != nil {
		return nil, err
	}

	metaRaw := bytes.TrimSpace(results[0])
	if len(metaRaw) == 0 || bytes.Equal(metaRaw, []byte("null")) {
		return nil, ErrStateNotFound
	}
	var encodedMeta string
	if err := json.Unmarshal(metaRaw, &encodedMeta); err != nil {
		return nil, fmt.Errorf("decode conversation meta: %w", err)
	}
	var meta conversationMeta
	if err := json.Unmarshal([]byte(encodedMeta), &meta); err != nil {
		return nil, fmt.Errorf("unmarshal conversation meta: %w", err)
	}

	var encodedTurns []string
	if raw := bytes.TrimSpace(results[1]); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		if err := json.Unmarshal(raw, &encodedTurns); err != nil {
			return nil, fmt.Errorf("decode chat history: %w", err)
		}
	}

	conv := &Conversation{
		SessionID:  meta.SessionID,
		CustomerID: meta.CustomerID,
		UpdatedAt:  meta.UpdatedAt,
	}
	for i, encoded := range encodedTurns {
		var turn Turn
		if err := json.Unmarshal([]byte(encoded), &turn); err != nil {
			return nil, fmt.Errorf("unmarshal turn %d: %w", i, err)
		}
		conv.Turns = append(conv.Turns, turn)
	}

	if err := conv.Validate(); err != nil {
		return nil, fmt.Errorf("invalid conversation loaded from store: %w", err)
	}
	return conv, nil
}

// Save replaces the stored history with c.Turns and refreshes the TTL of
// both keys atomically.
func (s *UpstashRedisStore) Save(ctx context.Context, c *Conversation) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now().UTC()
	} else {
		c.UpdatedAt = c.UpdatedAt.UTC()
	}

	historyKey, err := s.redisKey(c.SessionID)
	if err != nil {
		return err
	}
	metaKey := s.metaKey(c.SessionID)

	meta, err := json.Marshal(conversationMeta{
		SessionID:  c.SessionID,
		CustomerID: c.CustomerID,
		UpdatedAt:  c.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal conversation meta: %w", err)
	}

	commands := [][]any{{"DEL", historyKey}}
	if len(c.Turns) > 0 {
		push := make([]any, 0, len(c.Turns)+2)
		push = append(push, "RPUSH", historyKey)
		for _, turn := range c.Turns {
			encoded, err := json.Marshal(turn)
			if err != nil {
				return fmt.Errorf("marshal turn: %w", err)
			}
			push = append(push, string(encoded))
		}
		commands = append(commands, push)
	}

	setMeta := []any{"SET", metaKey, string(meta)}
	if s.ttl > 0 {
		setMeta = append(setMeta, "EX", ttlSeconds(s.ttl))
	}
	commands = append(commands, setMeta)
	if s.ttl > 0 && len(c.Turns) > 0 {
		commands = append(commands, []any{"EXPIRE", historyKey, ttlSeconds(s.ttl)})
	}

	_, err = s.batch(ctx, "/multi-exec", commands)
	return err
}

func (s *UpstashRedisStore) Delete(ctx context.Context, sessionID string) error {
	historyKey, err := s.redisKey(sessionID)
	if err != nil {
		return err
	}
	_, err = s.batch(ctx, "/pipeline", [][]any{{"DEL", historyKey, s.metaKey(sessionID)}})
	return err
}

// redisKey is the list key holding a session's turns.
func (s *UpstashRedisStore) redisKey(sessionID string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", ErrInvalidSession
	}
	return s.prefix() + sessionID + historyKeySuffix, nil
}

func (s *UpstashRedisStore) metaKey(sessionID string) string {
	return s.prefix() + strings.TrimSpace(sessionID) + metaKeySuffix
}

func (s *UpstashRedisStore) prefix() string {
	if p := strings.TrimSpace(s.keyPrefix); p != "" {
		return p
	}
	return defaultStoreKeyPrefix
}

// batch posts commands to the pipeline or multi-exec endpoint and returns
// one raw result per command. Any per-command error fails the batch.
func (s *UpstashRedisStore) batch(ctx context.Context, endpoint string, commands [][]any) ([]json.RawMessage, error) {
	if s == nil {
		return nil, errors.New("nil store")
	}
	if len(commands) == 0 {
		return nil, errors.New("empty redis batch")
	}

	body, err := json.Marshal(commands)
	if err != nil {
		return nil, fmt.Errorf("marshal redis batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("redis http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed []redisResult
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis response: %w", err)
	}
	if len(parsed) != len(commands) {
		return nil, fmt.Errorf("redis returned %d results for %d commands", len(parsed), len(commands))
	}

	out := make([]json.RawMessage, len(parsed))
	for i, r := range parsed {
		if r.Error != "" {
			return nil, fmt.Errorf("redis %v: %s", commands[i][0], r.Error)
		}
		out[i] = r.Result
	}
	return out, nil
}

func ttlSeconds(ttl time.Duration) string {
	seconds := ttl / time.Second
	if ttl%time.Second != 0 {
		seconds++
	}
	if seconds <= 0 {
		seconds = 1
	}
	return strconv.FormatInt(int64(seconds), 10)
}
