package bank

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountAmountsMarshalAsNumbers(t *testing.T) {
	account := Account{
		ID:             "ACC001",
		Balance:        decimal.RequireFromString("5420.75"),
		InterestRate:   decimal.RequireFromString("0.01"),
		OverdraftLimit: decimal.RequireFromString("1000.00"),
	}

	raw, err := json.Marshal(account)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, 5420.75, fields["balance"])
	assert.Equal(t, 0.01, fields["interest_rate"])
	assert.Equal(t, float64(1000), fields["overdraft_limit"])

	var back Account
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.Balance.Equal(account.Balance))
}

func TestCreateAccountRequestAcceptsNumberOrString(t *testing.T) {
	var fromNumber, fromString CreateAccountRequest
	require.NoError(t, json.Unmarshal([]byte(`{"customer_id":"CUST001","account_type":"savings","initial_deposit":100.5}`), &fromNumber))
	require.NoError(t, json.Unmarshal([]byte(`{"customer_id":"CUST001","account_type":"savings","initial_deposit":"100.5"}`), &fromString))

	assert.True(t, fromNumber.InitialDeposit.Equal(decimal.RequireFromString("100.5")))
	assert.True(t, fromString.InitialDeposit.Equal(fromNumber.InitialDeposit))
}
