package orchestratornode

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/banking-tool-gateway/agent/contract"
)

type slowGateway struct{}

func (slowGateway) Tools(context.Context) ([]*schema.ToolInfo, error) { return nil, nil }

func (slowGateway) Execute(ctx context.Context, reqs []contractx.ToolRequest) ([]contractx.ToolResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestToToolRequest(t *testing.T) {
	t.Parallel()

	req, err := toToolRequest(schema.ToolCall{
		ID:       "c1",
		Function: schema.FunctionCall{Name: " get_account_balance ", Arguments: `{"account_id":"ACC001"}`},
	})
	if err != nil {
		t.Fatalf("toToolRequest() error = %v", err)
	}
	if req.ID != "c1" || req.Tool != "get_account_balance" || req.Args["account_id"] != "ACC001" {
		t.Fatalf("unexpected request: %#v", req)
	}

	empty, err := toToolRequest(schema.ToolCall{Function: schema.FunctionCall{Name: "list_accounts"}})
	if err != nil || len(empty.Args) != 0 {
		t.Fatalf("empty args must decode to an empty map: %#v %v", empty, err)
	}

	if _, err := toToolRequest(schema.ToolCall{Function: schema.FunctionCall{Name: " "}}); !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation for empty name, got %v", err)
	}
	if _, err := toToolRequest(schema.ToolCall{Function: schema.FunctionCall{Name: "x", Arguments: "[1]"}}); !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation for non-object args, got %v", err)
	}
}

func TestExecuteToolsTimeoutBecomesToolError(t *testing.T) {
	t.Parallel()

	in := &GraphState{
		SessionID: "s1",
		ToolCalls: []schema.ToolCall{{ID: "c1", Function: schema.FunctionCall{Name: "list_accounts"}}},
	}

	out, err := ExecuteTools(context.Background(), in, slowGateway{}, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("ExecuteTools() error = %v", err)
	}
	if len(out.ToolResults) != 1 {
		t.Fatalf("expected one result, got %d", len(out.ToolResults))
	}
	res := out.ToolResults[0]
	if res.ID != "c1" || res.Tool != "list_accounts" {
		t.Fatalf("unexpected result identity: %#v", res)
	}
	if !strings.HasPrefix(res.Error, contractx.ErrTimeout.Error()) {
		t.Fatalf("expected timeout error, got %q", res.Error)
	}
	if len(out.Messages) != 1 || out.Messages[0].Role != schema.Tool || out.Messages[0].ToolCallID != "c1" {
		t.Fatalf("unexpected tool message: %#v", out.Messages)
	}
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	now := func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.FixedZone("ICT", 7*3600)) }

	st, err := ValidateRequest(GraphInput{SessionID: " s1 ", Text: " hi "}, now)
	if err != nil {
		t.Fatalf("ValidateRequest() error = %v", err)
	}
	if st.SessionID != "s1" || st.Text != "hi" || st.Now.Location() != time.UTC {
		t.Fatalf("unexpected state: %#v", st)
	}
	if st.HasToolCalls() {
		t.Fatal("fresh state must have no tool calls")
	}

	if _, err := ValidateRequest(GraphInput{SessionID: "", Text: "hi"}, now); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
	if _, err := ValidateRequest(GraphInput{SessionID: "s1", Text: "\n"}, now); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}
