// Package gateway scopes bank operations to a caller identity.
//
// Every operation starts with a capability check on the identity. Operations
// addressing an account resolve the caller's own accounts first and only
// proceed when the requested account is one of them, so an account owned by
// someone else is reported as access denied rather than not found.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	contractx "github.com/tanpawarit/banking-tool-gateway/agent/contract"
	"github.com/tanpawarit/banking-tool-gateway/bank"
)

// BalanceView is the reduced account projection returned for balance lookups.
type BalanceView struct {
	AccountID     string           `json:"account_id"`
	AccountNumber string           `json:"account_number"`
	Balance       decimal.Decimal  `json:"balance"`
	Currency      string           `json:"currency"`
	Type          bank.AccountType `json:"type"`
}

type AuditEvent struct {
	Action     string    `json:"action"`
	AccountID  string    `json:"account_id"`
	UserID     string    `json:"user_id"`
	CustomerID string    `json:"customer_id"`
	At         time.Time `json:"at"`
}

// Publisher delivers audit events. pkg/qstash implements it.
type Publisher interface {
	Publish(ctx context.Context, destination string, payload any) error
}

type Option func(*Gateway)

func WithAudit(p Publisher, destination string) Option {
	return func(g *Gateway) {
		if p != nil && strings.TrimSpace(destination) != "" {
			g.audit = p
			g.auditDest = strings.TrimSpace(destination)
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		if now != nil {
			g.now = now
		}
	}
}

type Gateway struct {
	backend   bank.Backend
	audit     Publisher
	auditDest string
	now       func() time.Time
}

func New(backend bank.Backend, opts ...Option) (*Gateway, error) {
	if backend == nil {
		return nil, errors.New("bank backend is required")
	}
	g := &Gateway{backend: backend, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

func authorize(id contractx.Identity) error {
	if !id.Authenticated() {
		return contractx.ErrUnauthenticated
	}
	return nil
}

// ListAccounts returns the caller's accounts in store order. An unknown
// customer has no accounts.
func (g *Gateway) ListAccounts(ctx context.Context, id contractx.Identity) ([]bank.Account, error) {
	if err := authorize(id); err != nil {
		return nil, err
	}
	return g.ownAccounts(ctx, id)
}

func (g *Gateway) LockAccount(ctx context.Context, id contractx.Identity, accountID string) (bank.Account, error) {
	if err := authorize(id); err != nil {
		return bank.Account{}, err
	}
	if _, err := g.ownedAccount(ctx, id, accountID, "you can only lock your own accounts"); err != nil {
		return bank.Account{}, err
	}

	account, err := g.backend.LockAccount(ctx, accountID)
	if err != nil {
		return bank.Account{}, err
	}

	g.publishAudit(ctx, AuditEvent{
		Action:     "lock_account",
		AccountID:  account.ID,
		UserID:     id.UserID,
		CustomerID: id.CustomerID,
		At:         g.now().UTC(),
	})
	return account, nil
}

func (g *Gateway) ListTransactions(ctx context.Context, id contractx.Identity, accountID string) ([]bank.Transaction, error) {
	if err := authorize(id); err != nil {
		return nil, err
	}
	if _, err := g.ownedAccount(ctx, id, accountID, "you can only view transactions for your own accounts"); err != nil {
		return nil, err
	}

	txns, err := g.backend.AccountTransactions(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if txns == nil {
		txns = []bank.Transaction{}
	}
	return txns, nil
}

// SearchDocuments returns the caller's documents whose content contains query,
// ignoring case. Results keep store order and are not ranked.
func (g *Gateway) SearchDocuments(ctx context.Context, id contractx.Identity, query string) ([]bank.Document, error) {
	if err := authorize(id); err != nil {
		return nil, err
	}

	docs, err := g.backend.CustomerDocuments(ctx, id.CustomerID)
	if errors.Is(err, bank.ErrNotFound) {
		return []bank.Document{}, nil
	}
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	return lo.Filter(docs, func(d bank.Document, _ int) bool {
		return strings.Contains(strings.ToLower(d.Content), needle)
	}), nil
}

func (g *Gateway) UserProfile(ctx context.Context, id contractx.Identity) (bank.Customer, error) {
	if err := authorize(id); err != nil {
		return bank.Customer{}, err
	}
	customer, err := g.backend.Customer(ctx, id.CustomerID)
	if err != nil {
		if errors.Is(err, bank.ErrNotFound) {
			return bank.Customer{}, fmt.Errorf("%w: user profile %s", bank.ErrNotFound, id.CustomerID)
		}
		return bank.Customer{}, err
	}
	return customer, nil
}

func (g *Gateway) AccountBalance(ctx context.Context, id contractx.Identity, accountID string) (BalanceView, error) {
	if err := authorize(id); err != nil {
		return BalanceView{}, err
	}
	account, err := g.ownedAccount(ctx, id, accountID, "you can only view balances for your own accounts")
	if err != nil {
		return BalanceView{}, err
	}

	return BalanceView{
		AccountID:     account.ID,
		AccountNumber: account.AccountNumber,
		Balance:       account.Balance,
		Currency:      account.Currency,
		Type:          account.Type,
	}, nil
}

func (g *Gateway) ownAccounts(ctx context.Context, id contractx.Identity) ([]bank.Account, error) {
	accounts, err := g.backend.CustomerAccounts(ctx, id.CustomerID)
	if errors.Is(err, bank.ErrNotFound) {
		return []bank.Account{}, nil
	}
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []bank.Account{}
	}
	return accounts, nil
}

func (g *Gateway) ownedAccount(ctx context.Context, id contractx.Identity, accountID, denial string) (bank.Account, error) {
	accounts, err := g.ownAccounts(ctx, id)
	if err != nil {
		return bank.Account{}, err
	}
	account, ok := lo.Find(accounts, func(a bank.Account) bool {
		return a.ID == accountID
	})
	if !ok {
		return bank.Account{}, fmt.Errorf("%w: %s", contractx.ErrAccessDenied, denial)
	}
	return account, nil
}

func (g *Gateway) publishAudit(ctx context.Context, event AuditEvent) {
	if g.audit == nil {
		return
	}
	if err := g.audit.Publish(ctx, g.auditDest, event); err != nil {
		log.Warn().
			Err(err).
			Str("action", event.Action).
			Str("account_id", event.AccountID).
			Msg("Gateway.publishAudit failed")
	}
}
