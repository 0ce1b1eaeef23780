package tool

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/banking-tool-gateway/agent/contract"
	"github.com/tanpawarit/banking-tool-gateway/agent/gateway"
	"github.com/tanpawarit/banking-tool-gateway/bank"
)

// Gateway is the identity-scoped surface the executor dispatches to.
type Gateway interface {
	ListAccounts(ctx context.Context, id contractx.Identity) ([]bank.Account, error)
	LockAccount(ctx context.Context, id contractx.Identity, accountID string) (bank.Account, error)
	ListTransactions(ctx context.Context, id contractx.Identity, accountID string) ([]bank.Transaction, error)
	SearchDocuments(ctx context.Context, id contractx.Identity, query string) ([]bank.Document, error)
	UserProfile(ctx context.Context, id contractx.Identity) (bank.Customer, error)
	AccountBalance(ctx context.Context, id contractx.Identity, accountID string) (gateway.BalanceView, error)
}

var _ Gateway = (*gateway.Gateway)(nil)

// Executor runs one named tool for one caller. The result is JSON-serializable.
type Executor func(ctx context.Context, id contractx.Identity, tool string, args map[string]any) (any, error)

func NewExecutor(gw Gateway) Executor {
	return func(ctx context.Context, id contractx.Identity, tool string, args map[string]any) (any, error) {
		switch tool {
		case ToolListAccounts:
			return wrap(gw.ListAccounts(ctx, id))
		case ToolGetUserProfile:
			return wrap(gw.UserProfile(ctx, id))
		case ToolLockAccount:
			accountID, err := stringArg(tool, args, "account_id")
			if err != nil {
				return nil, err
			}
			return wrap(gw.LockAccount(ctx, id, accountID))
		case ToolListTransactions:
			accountID, err := stringArg(tool, args, "account_id")
			if err != nil {
				return nil, err
			}
			return wrap(gw.ListTransactions(ctx, id, accountID))
		case ToolGetAccountBalance:
			accountID, err := stringArg(tool, args, "account_id")
			if err != nil {
				return nil, err
			}
			return wrap(gw.AccountBalance(ctx, id, accountID))
		case ToolSearchDocuments:
			query, err := stringArg(tool, args, "query")
			if err != nil {
				return nil, err
			}
			return wrap(gw.SearchDocuments(ctx, id, query))
		default:
			return nil, fmt.Errorf("%w: %s", contractx.ErrUnknownTool, tool)
		}
	}
}

func wrap[T any](v T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func stringArg(tool string, args map[string]any, name string) (string, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return "", fmt.Errorf("%w: tool=%s: %s is required", contractx.ErrValidation, tool, name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: tool=%s: %s must be a string", contractx.ErrValidation, tool, name)
	}
	return s, nil
}
