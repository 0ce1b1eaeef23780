package state

import (
	"context"
	"fmt"
	"strings"
)

const (
	BackendMemory   = "memory"
	BackendUpstash  = "upstash"
	BackendPostgres = "postgres"
)

// Config selects the conversation store. Read with prefix STATE.
type Config struct {
	Backend   string `envconfig:"BACKEND" default:"memory"`
	KeyPrefix string `envconfig:"KEY_PREFIX" split_words:"true" default:"conv:"`
}

// Open builds the configured store. The upstash and postgres loaders are
// only called for their backend so unused credentials are never required.
func Open(
	ctx context.Context,
	cfg Config,
	upstash func() UpstashRedisConfig,
	postgres func() PostgresConfig,
) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendUpstash:
		return NewUpstashRedisStore(upstash(), WithKeyPrefix(cfg.KeyPrefix))
	case BackendPostgres:
		return OpenBunStore(ctx, postgres())
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.Backend)
	}
}
