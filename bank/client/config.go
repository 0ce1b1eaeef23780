package client

import (
	"time"

	"github.com/tanpawarit/banking-tool-gateway/bank"
	"github.com/tanpawarit/banking-tool-gateway/bank/store"
)

// Config selects the bank backend. Read with prefix BANK_API.
type Config struct {
	URL      string        `default:"http://127.0.0.1:8000"`
	Timeout  time.Duration `default:"10s"`
	Embedded bool          `default:"false"`
}

// Open returns an HTTP client for cfg.URL, or a seeded in-process store when
// Embedded is set.
func Open(cfg Config) (bank.Backend, error) {
	if cfg.Embedded {
		return store.NewSeeded(), nil
	}
	return New(cfg.URL, WithTimeout(cfg.Timeout))
}
