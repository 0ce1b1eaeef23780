package store

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tanpawarit/banking-tool-gateway/bank"
)

// NewSeeded returns a store loaded with the demo customers, accounts,
// transactions and documents.
func NewSeeded(opts ...Option) *Store {
	s := New(opts...)
	for _, c := range seedCustomers {
		mustSeed(s.AddCustomer(c))
	}
	for _, a := range seedAccounts {
		mustSeed(s.AddAccount(a))
	}
	for _, t := range seedTransactions {
		mustSeed(s.AddTransaction(t))
	}
	for _, d := range seedDocuments {
		mustSeed(s.AddDocument(d))
	}
	return s
}

func mustSeed(err error) {
	if err != nil {
		panic(err)
	}
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func ts(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}

var seedCustomers = []bank.Customer{
	{
		ID:          "CUST001",
		Name:        "John Smith",
		Email:       "john.smith@email.com",
		Phone:       "+1-555-0123",
		Address:     "123 Main St, Anytown, USA",
		DateOfBirth: "1985-03-15",
		SSN:         "123-45-6789",
		RiskProfile: "moderate",
		CreatedDate: "2020-01-15",
	},
	{
		ID:          "CUST002",
		Name:        "Sarah Johnson",
		Email:       "sarah.johnson@email.com",
		Phone:       "+1-555-0456",
		Address:     "456 Oak Ave, Somewhere, USA",
		DateOfBirth: "1990-07-22",
		SSN:         "987-65-4321",
		RiskProfile: "conservative",
		CreatedDate: "2018-06-10",
	},
	{
		ID:          "CUST003",
		Name:        "Michael Chen",
		Email:       "michael.chen@email.com",
		Phone:       "+1-555-0789",
		Address:     "789 Pine Rd, Elsewhere, USA",
		DateOfBirth: "1988-11-08",
		SSN:         "456-78-9012",
		RiskProfile: "aggressive",
		CreatedDate: "2021-03-20",
	},
}

var seedAccounts = []bank.Account{
	{
		ID:             "ACC001",
		CustomerID:     "CUST001",
		AccountNumber:  "1001-2345-6789-0123",
		Type:           bank.AccountTypeChecking,
		Balance:        dec("5420.75"),
		Currency:       "USD",
		Status:         bank.AccountActive,
		CreatedDate:    "2020-01-15",
		InterestRate:   dec("0.01"),
		OverdraftLimit: dec("1000.00"),
	},
	{
		ID:             "ACC002",
		CustomerID:     "CUST001",
		AccountNumber:  "2001-3456-7890-1234",
		Type:           bank.AccountTypeSavings,
		Balance:        dec("15750.25"),
		Currency:       "USD",
		Status:         bank.AccountActive,
		CreatedDate:    "2020-01-15",
		InterestRate:   dec("0.025"),
		OverdraftLimit: dec("0.00"),
	},
	{
		ID:             "ACC003",
		CustomerID:     "CUST002",
		AccountNumber:  "3001-4567-8901-2345",
		Type:           bank.AccountTypeChecking,
		Balance:        dec("3200.50"),
		Currency:       "USD",
		Status:         bank.AccountActive,
		CreatedDate:    "2018-06-10",
		InterestRate:   dec("0.01"),
		OverdraftLimit: dec("500.00"),
	},
	{
		ID:             "ACC004",
		CustomerID:     "CUST002",
		AccountNumber:  "4001-5678-9012-3456",
		Type:           bank.AccountTypeInvestment,
		Balance:        dec("45000.00"),
		Currency:       "USD",
		Status:         bank.AccountActive,
		CreatedDate:    "2019-01-15",
		InterestRate:   dec("0.0"),
		OverdraftLimit: dec("0.00"),
	},
	{
		ID:             "ACC005",
		CustomerID:     "CUST003",
		AccountNumber:  "5001-6789-0123-4567",
		Type:           bank.AccountTypeChecking,
		Balance:        dec("8750.00"),
		Currency:       "USD",
		Status:         bank.AccountActive,
		CreatedDate:    "2021-03-20",
		InterestRate:   dec("0.01"),
		OverdraftLimit: dec("2000.00"),
	},
}

var seedTransactions = []bank.Transaction{
	{
		ID:          "TXN001",
		AccountID:   "ACC001",
		Type:        "deposit",
		Amount:      dec("1000.00"),
		Description: "Salary deposit",
		Date:        ts("2024-01-15T09:00:00Z"),
		Status:      "completed",
		Reference:   "SAL-2024-01",
	},
	{
		ID:          "TXN002",
		AccountID:   "ACC001",
		Type:        "withdrawal",
		Amount:      dec("-250.00"),
		Description: "ATM withdrawal",
		Date:        ts("2024-01-16T14:30:00Z"),
		Status:      "completed",
		Reference:   "ATM-001",
	},
	{
		ID:          "TXN003",
		AccountID:   "ACC001",
		Type:        "transfer",
		Amount:      dec("-500.00"),
		Description: "Transfer to savings",
		Date:        ts("2024-01-17T10:15:00Z"),
		Status:      "completed",
		Reference:   "TRF-001",
	},
	{
		ID:          "TXN004",
		AccountID:   "ACC002",
		Type:        "transfer",
		Amount:      dec("500.00"),
		Description: "Transfer from checking",
		Date:        ts("2024-01-17T10:15:00Z"),
		Status:      "completed",
		Reference:   "TRF-001",
	},
}

var seedDocuments = []bank.Document{
	{
		ID:         "DOC001",
		CustomerID: "CUST001",
		Type:       "statement",
		Content:    "Customer statement for account ACC001. Account balance per 31st October 2024 is $5420.75.",
		Date:       ts("2024-01-15T09:00:00Z"),
	},
	{
		ID:         "DOC002",
		CustomerID: "CUST001",
		Type:       "statement",
		Content:    "Customer statement for account ACC001. Account balance per 31st October 2024 is $5420.75.",
		Date:       ts("2024-01-15T09:00:00Z"),
	},
	{
		ID:         "DOC003",
		CustomerID: "CUST002",
		Type:       "statement",
		Content:    "Customer statement for account ACC001. Account balance per 31st October 2024 is $15750.25.",
		Date:       ts("2024-01-15T09:00:00Z"),
	},
	{
		ID:         "DOC004",
		CustomerID: "CUST002",
		Type:       "statement",
		Content:    "Customer statement for account ACC002. Account balance per 31st October 2024 is $15750.25.",
		Date:       ts("2024-01-15T09:00:00Z"),
	},
}
