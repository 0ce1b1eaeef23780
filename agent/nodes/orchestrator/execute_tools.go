package orchestratornode

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/banking-tool-gateway/agent/contract"
	"github.com/tanpawarit/banking-tool-gateway/agent/tool"
)

// ExecuteTools runs each requested call in order, one gateway call at a
// time, and appends one tool message per call. Failures become tool-result
// errors for the model to read.
func ExecuteTools(
	ctx context.Context,
	in *GraphState,
	gateway contractx.ToolGateway,
	timeout time.Duration,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	results := make([]contractx.ToolResult, 0, len(in.ToolCalls))
	for _, call := range in.ToolCalls {
		res := executeOne(ctx, gateway, call, timeout)
		log.Debug().
			Str("session_id", in.SessionID).
			Str("tool", res.Tool).
			Bool("failed", res.Error != "").
			Msg("tool executed")

		results = append(results, res)
		in.Messages = append(in.Messages, schema.ToolMessage(res.Content(), call.ID))
	}
	in.ToolResults = results
	return in, nil
}

func executeOne(
	ctx context.Context,
	gateway contractx.ToolGateway,
	call schema.ToolCall,
	timeout time.Duration,
) contractx.ToolResult {
	req, err := toToolRequest(call)
	if err != nil {
		return contractx.ToolResult{ID: call.ID, Tool: call.Function.Name, Error: err.Error()}
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	out, err := gateway.Execute(ctx, []contractx.ToolRequest{req})
	if err != nil {
		return contractx.ToolResult{ID: req.ID, Tool: req.Tool, Error: tool.Describe(err).Error()}
	}
	if len(out) != 1 {
		return contractx.ToolResult{
			ID:    req.ID,
			Tool:  req.Tool,
			Error: fmt.Sprintf("%v: gateway returned %d results", contractx.ErrSchemaViolation, len(out)),
		}
	}

	res := out[0]
	res.ID = req.ID
	if res.Tool == "" {
		res.Tool = req.Tool
	}
	return res
}

func toToolRequest(call schema.ToolCall) (contractx.ToolRequest, error) {
	name := strings.TrimSpace(call.Function.Name)
	if name == "" {
		return contractx.ToolRequest{}, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
	}

	args := map[string]any{}
	rawArgs := strings.TrimSpace(call.Function.Arguments)
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return contractx.ToolRequest{}, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrSchemaViolation, name, err)
		}
	}

	return contractx.ToolRequest{
		ID:   call.ID,
		Tool: name,
		Args: args,
	}, nil
}
