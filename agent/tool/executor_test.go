package tool

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	contractx "github.com/tanpawarit/banking-tool-gateway/agent/contract"
	"github.com/tanpawarit/banking-tool-gateway/agent/gateway"
	"github.com/tanpawarit/banking-tool-gateway/bank"
	"github.com/tanpawarit/banking-tool-gateway/bank/store"
)

var cust001 = contractx.Identity{UserID: "CUST001", CustomerID: "CUST001"}

func newTestExecutor(t *testing.T) Executor {
	t.Helper()
	gw, err := gateway.New(store.NewSeeded())
	if err != nil {
		t.Fatalf("gateway.New() error = %v", err)
	}
	return NewExecutor(gw)
}

func TestExecutorDispatchesEveryTool(t *testing.T) {
	t.Parallel()

	exec := newTestExecutor(t)
	ctx := context.Background()

	cases := []struct {
		tool string
		args map[string]any
	}{
		{ToolListAccounts, nil},
		{ToolLockAccount, map[string]any{"account_id": "ACC001"}},
		{ToolListTransactions, map[string]any{"account_id": "ACC001"}},
		{ToolSearchDocuments, map[string]any{"query": "statement"}},
		{ToolGetUserProfile, nil},
		{ToolGetAccountBalance, map[string]any{"account_id": "ACC002"}},
	}
	for _, tc := range cases {
		out, err := exec(ctx, cust001, tc.tool, tc.args)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.tool, err)
		}
		if out == nil {
			t.Fatalf("%s: nil result", tc.tool)
		}
	}
}

func TestExecutorResultTypes(t *testing.T) {
	t.Parallel()

	exec := newTestExecutor(t)

	out, err := exec(context.Background(), cust001, ToolGetAccountBalance, map[string]any{"account_id": "ACC001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	view, ok := out.(gateway.BalanceView)
	if !ok {
		t.Fatalf("unexpected result type: %T", out)
	}
	if view.AccountID != "ACC001" {
		t.Fatalf("unexpected view: %#v", view)
	}

	out, err = exec(context.Background(), cust001, ToolListAccounts, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accounts, ok := out.([]bank.Account); !ok || len(accounts) != 2 {
		t.Fatalf("unexpected accounts result: %#v", out)
	}
}

func TestExecutorUnknownTool(t *testing.T) {
	t.Parallel()

	exec := newTestExecutor(t)

	_, err := exec(context.Background(), cust001, "transfer_funds", nil)
	if !errors.Is(err, contractx.ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestExecutorArgumentValidation(t *testing.T) {
	t.Parallel()

	exec := newTestExecutor(t)
	ctx := context.Background()

	_, err := exec(ctx, cust001, ToolLockAccount, map[string]any{})
	if !errors.Is(err, contractx.ErrValidation) || !strings.Contains(err.Error(), "account_id is required") {
		t.Fatalf("expected missing argument error, got %v", err)
	}

	_, err = exec(ctx, cust001, ToolSearchDocuments, map[string]any{"query": 42})
	if !errors.Is(err, contractx.ErrValidation) || !strings.Contains(err.Error(), "must be a string") {
		t.Fatalf("expected type error, got %v", err)
	}
}

func TestExecutorPropagatesAccessDenied(t *testing.T) {
	t.Parallel()

	exec := newTestExecutor(t)

	_, err := exec(context.Background(), cust001, ToolListTransactions, map[string]any{"account_id": "ACC004"})
	if !errors.Is(err, contractx.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestLocalExecuteKeepsOrderAndReportsErrors(t *testing.T) {
	t.Parallel()

	local := NewLocal(newTestExecutor(t), cust001)

	results, err := local.Execute(context.Background(), []contractx.ToolRequest{
		{ID: "c1", Tool: ToolGetUserProfile},
		{ID: "c2", Tool: ToolLockAccount, Args: map[string]any{"account_id": "ACC005"}},
		{ID: "c3", Tool: ToolListAccounts},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, id := range []string{"c1", "c2", "c3"} {
		if results[i].ID != id {
			t.Fatalf("results[%d].ID = %s, want %s", i, results[i].ID, id)
		}
	}
	if results[0].Error != "" || results[2].Error != "" {
		t.Fatalf("unexpected errors: %#v", results)
	}
	if !strings.HasPrefix(results[1].Error, "access denied") {
		t.Fatalf("results[1].Error = %q, want access denied", results[1].Error)
	}
}

func TestLocalToolsReturnsManifest(t *testing.T) {
	t.Parallel()

	local := NewLocal(newTestExecutor(t), cust001)
	infos, err := local.Tools(context.Background())
	if err != nil {
		t.Fatalf("Tools() error = %v", err)
	}
	if len(infos) != len(catalog) {
		t.Fatalf("expected %d tools, got %d", len(catalog), len(infos))
	}
}

func TestDescribeMapsDeadline(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	err := Describe(ctx.Err())
	if !errors.Is(err, contractx.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if Describe(nil) != nil {
		t.Fatal("Describe(nil) must be nil")
	}
}
