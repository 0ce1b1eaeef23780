// Package store is the in-memory resource store behind the mock bank API.
//
// Each record kind lives in an arena: an insertion-ordered slice of rows plus
// a primary-key index. Relations are kept in explicit foreign-key indexes that
// map a parent id to the slots of its children, so lookups by key and by
// relation never scan the whole table.
package store

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tanpawarit/banking-tool-gateway/bank"
)

var _ bank.Backend = (*Store)(nil)

var (
	savingsInterestRate  = decimal.RequireFromString("0.025")
	defaultInterestRate  = decimal.RequireFromString("0.01")
	checkingOverdraft    = decimal.RequireFromString("1000.00")
	defaultCurrency      = "USD"
	createdDateLayout    = "2006-01-02"
	accountIDFormat      = "ACC%03d"
	transactionIDFormat  = "TXN%03d"
	initialDepositRefFmt = "INIT-%s"
)

type table[T any] struct {
	rows  []T
	index map[string]int
}

func newTable[T any]() table[T] {
	return table[T]{index: make(map[string]int)}
}

func (t *table[T]) insert(id string, row T) int {
	slot := len(t.rows)
	t.rows = append(t.rows, row)
	t.index[id] = slot
	return slot
}

func (t *table[T]) get(id string) (T, bool) {
	slot, ok := t.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.rows[slot], true
}

func (t *table[T]) all() []T {
	out := make([]T, len(t.rows))
	copy(out, t.rows)
	return out
}

func (t *table[T]) pick(slots []int) []T {
	out := make([]T, 0, len(slots))
	for _, slot := range slots {
		out = append(out, t.rows[slot])
	}
	return out
}

// Store holds customers, accounts, transactions and documents. Reads return
// copies; writers are serialized by mu.
type Store struct {
	mu sync.RWMutex

	customers    table[bank.Customer]
	accounts     table[bank.Account]
	transactions table[bank.Transaction]
	documents    table[bank.Document]

	accountsByCustomer    map[string][]int
	transactionsByAccount map[string][]int
	documentsByCustomer   map[string][]int

	accountSeq     int
	transactionSeq int

	now          func() time.Time
	randomDigits func() int
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRand sets the source used for generated account numbers.
func WithRand(r *rand.Rand) Option {
	return func(s *Store) {
		if r != nil {
			s.randomDigits = func() int { return 1000 + r.IntN(9000) }
		}
	}
}

// New returns an empty store. Use NewSeeded for the demo data set.
func New(opts ...Option) *Store {
	s := &Store{
		customers:             newTable[bank.Customer](),
		accounts:              newTable[bank.Account](),
		transactions:          newTable[bank.Transaction](),
		documents:             newTable[bank.Document](),
		accountsByCustomer:    make(map[string][]int),
		transactionsByAccount: make(map[string][]int),
		documentsByCustomer:   make(map[string][]int),
		now:                   time.Now,
		randomDigits:          func() int { return 1000 + rand.IntN(9000) },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) AddCustomer(c bank.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers.index[c.ID]; ok {
		return fmt.Errorf("%w: customer %s already exists", bank.ErrValidation, c.ID)
	}
	s.customers.insert(c.ID, c)
	return nil
}

func (s *Store) AddAccount(a bank.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers.index[a.CustomerID]; !ok {
		return fmt.Errorf("%w: customer %s", bank.ErrNotFound, a.CustomerID)
	}
	if _, ok := s.accounts.index[a.ID]; ok {
		return fmt.Errorf("%w: account %s already exists", bank.ErrValidation, a.ID)
	}
	s.insertAccount(a)
	return nil
}

func (s *Store) AddTransaction(t bank.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts.index[t.AccountID]; !ok {
		return fmt.Errorf("%w: account %s", bank.ErrNotFound, t.AccountID)
	}
	if _, ok := s.transactions.index[t.ID]; ok {
		return fmt.Errorf("%w: transaction %s already exists", bank.ErrValidation, t.ID)
	}
	s.insertTransaction(t)
	return nil
}

func (s *Store) AddDocument(d bank.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers.index[d.CustomerID]; !ok {
		return fmt.Errorf("%w: customer %s", bank.ErrNotFound, d.CustomerID)
	}
	if _, ok := s.documents.index[d.ID]; ok {
		return fmt.Errorf("%w: document %s already exists", bank.ErrValidation, d.ID)
	}
	slot := s.documents.insert(d.ID, d)
	s.documentsByCustomer[d.CustomerID] = append(s.documentsByCustomer[d.CustomerID], slot)
	return nil
}

func (s *Store) Customers(_ context.Context) ([]bank.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customers.all(), nil
}

func (s *Store) Customer(_ context.Context, id string) (bank.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers.get(id)
	if !ok {
		return bank.Customer{}, fmt.Errorf("%w: customer %s", bank.ErrNotFound, id)
	}
	return c, nil
}

func (s *Store) Accounts(_ context.Context) ([]bank.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts.all(), nil
}

func (s *Store) Account(_ context.Context, id string) (bank.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts.get(id)
	if !ok {
		return bank.Account{}, fmt.Errorf("%w: account %s", bank.ErrNotFound, id)
	}
	return a, nil
}

func (s *Store) CustomerAccounts(_ context.Context, customerID string) ([]bank.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.customers.index[customerID]; !ok {
		return nil, fmt.Errorf("%w: customer %s", bank.ErrNotFound, customerID)
	}
	return s.accounts.pick(s.accountsByCustomer[customerID]), nil
}

func (s *Store) AccountTransactions(_ context.Context, accountID string) ([]bank.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.accounts.index[accountID]; !ok {
		return nil, fmt.Errorf("%w: account %s", bank.ErrNotFound, accountID)
	}
	return s.transactions.pick(s.transactionsByAccount[accountID]), nil
}

func (s *Store) CustomerDocuments(_ context.Context, customerID string) ([]bank.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.customers.index[customerID]; !ok {
		return nil, fmt.Errorf("%w: customer %s", bank.ErrNotFound, customerID)
	}
	return s.documents.pick(s.documentsByCustomer[customerID]), nil
}

// CreateAccount opens an account for an existing customer. A positive initial
// deposit is recorded as a completed deposit transaction on the new account.
func (s *Store) CreateAccount(_ context.Context, req bank.CreateAccountRequest) (bank.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers.index[req.CustomerID]; !ok {
		return bank.Account{}, fmt.Errorf("%w: customer %s", bank.ErrNotFound, req.CustomerID)
	}
	if !req.AccountType.Valid() {
		return bank.Account{}, fmt.Errorf("%w: invalid account type %q, must be one of: %s",
			bank.ErrValidation, req.AccountType, joinAccountTypes())
	}

	now := s.now()
	interestRate := defaultInterestRate
	if req.AccountType == bank.AccountTypeSavings {
		interestRate = savingsInterestRate
	}
	overdraft := decimal.Zero
	if req.AccountType == bank.AccountTypeChecking {
		overdraft = checkingOverdraft
	}

	account := bank.Account{
		ID:             s.nextAccountID(),
		CustomerID:     req.CustomerID,
		AccountNumber:  s.accountNumber(),
		Type:           req.AccountType,
		Balance:        req.InitialDeposit,
		Currency:       defaultCurrency,
		Status:         bank.AccountActive,
		CreatedDate:    now.Format(createdDateLayout),
		InterestRate:   interestRate,
		OverdraftLimit: overdraft,
	}
	s.insertAccount(account)

	if req.InitialDeposit.IsPositive() {
		s.insertTransaction(bank.Transaction{
			ID:          s.nextTransactionID(),
			AccountID:   account.ID,
			Type:        "deposit",
			Amount:      req.InitialDeposit,
			Description: fmt.Sprintf("Initial deposit for %s account", req.AccountType),
			Date:        now.UTC(),
			Status:      "completed",
			Reference:   fmt.Sprintf(initialDepositRefFmt, account.ID),
		})
	}

	return account, nil
}

// LockAccount sets the account status to locked. Locking a locked account is
// a no-op that returns the account unchanged.
func (s *Store) LockAccount(_ context.Context, id string) (bank.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.accounts.index[id]
	if !ok {
		return bank.Account{}, fmt.Errorf("%w: account %s", bank.ErrNotFound, id)
	}
	s.accounts.rows[slot].Status = bank.AccountLocked
	return s.accounts.rows[slot], nil
}

func (s *Store) insertAccount(a bank.Account) {
	slot := s.accounts.insert(a.ID, a)
	s.accountsByCustomer[a.CustomerID] = append(s.accountsByCustomer[a.CustomerID], slot)
	s.accountSeq = max(s.accountSeq, len(s.accounts.rows))
}

func (s *Store) insertTransaction(t bank.Transaction) {
	slot := s.transactions.insert(t.ID, t)
	s.transactionsByAccount[t.AccountID] = append(s.transactionsByAccount[t.AccountID], slot)
	s.transactionSeq = max(s.transactionSeq, len(s.transactions.rows))
}

// nextAccountID skips ids already taken by seeded rows.
func (s *Store) nextAccountID() string {
	for {
		s.accountSeq++
		id := fmt.Sprintf(accountIDFormat, s.accountSeq)
		if _, taken := s.accounts.index[id]; !taken {
			return id
		}
	}
}

func (s *Store) nextTransactionID() string {
	for {
		s.transactionSeq++
		id := fmt.Sprintf(transactionIDFormat, s.transactionSeq)
		if _, taken := s.transactions.index[id]; !taken {
			return id
		}
	}
}

func (s *Store) accountNumber() string {
	return fmt.Sprintf("%d-%d-%d-%d", s.randomDigits(), s.randomDigits(), s.randomDigits(), s.randomDigits())
}

func joinAccountTypes() string {
	names := make([]string, len(bank.AccountTypes))
	for i, t := range bank.AccountTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
