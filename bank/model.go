package bank

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Amounts go on the wire as JSON numbers.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeInvestment AccountType = "investment"
)

// AccountTypes lists the account types accepted by CreateAccount, in the
// order they are reported back to callers.
var AccountTypes = []AccountType{AccountTypeChecking, AccountTypeSavings, AccountTypeInvestment}

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeInvestment:
		return true
	default:
		return false
	}
}

type AccountStatus string

const (
	AccountActive AccountStatus = "active"
	AccountLocked AccountStatus = "locked"
)

type Customer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	DateOfBirth string `json:"date_of_birth"`
	SSN         string `json:"ssn"`
	RiskProfile string `json:"risk_profile"`
	CreatedDate string `json:"created_date"`
}

type Account struct {
	ID             string          `json:"id"`
	CustomerID     string          `json:"customer_id"`
	AccountNumber  string          `json:"account_number"`
	Type           AccountType     `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	Currency       string          `json:"currency"`
	Status         AccountStatus   `json:"status"`
	CreatedDate    string          `json:"created_date"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	OverdraftLimit decimal.Decimal `json:"overdraft_limit"`
}

// Transaction amounts are signed: negative values are outflows.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Status      string          `json:"status"`
	Reference   string          `json:"reference"`
}

type Document struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Type       string    `json:"type"`
	Content    string    `json:"content"`
	Date       time.Time `json:"date"`
}

type CreateAccountRequest struct {
	CustomerID     string          `json:"customer_id"`
	AccountType    AccountType     `json:"account_type"`
	InitialDeposit decimal.Decimal `json:"initial_deposit"`
}

// Backend is the collaborator boundary the tool gateway consumes. The
// in-memory store and the HTTP client both implement it.
type Backend interface {
	Customer(ctx context.Context, id string) (Customer, error)
	Account(ctx context.Context, id string) (Account, error)
	CustomerAccounts(ctx context.Context, customerID string) ([]Account, error)
	AccountTransactions(ctx context.Context, accountID string) ([]Transaction, error)
	CustomerDocuments(ctx context.Context, customerID string) ([]Document, error)
	CreateAccount(ctx context.Context, req CreateAccountRequest) (Account, error)
	LockAccount(ctx context.Context, id string) (Account, error)
}
