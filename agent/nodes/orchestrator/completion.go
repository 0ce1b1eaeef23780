package orchestratornode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/banking-tool-gateway/agent/contract"
)

// FirstCompletion sends the assembled messages. Requested tool calls are
// kept for execute_tools, otherwise the text becomes the reply.
func FirstCompletion(ctx context.Context, in *GraphState, timeout time.Duration) (*GraphState, error) {
	if in == nil || in.Model == nil {
		return nil, fmt.Errorf("%w: graph model is nil", contractx.ErrValidation)
	}

	msg, err := generate(ctx, in, timeout)
	if err != nil {
		return nil, err
	}

	if len(msg.ToolCalls) == 0 {
		in.Reply = strings.TrimSpace(msg.Content)
		return in, nil
	}

	for i := range msg.ToolCalls {
		if strings.TrimSpace(msg.ToolCalls[i].ID) == "" {
			msg.ToolCalls[i].ID = fmt.Sprintf("call_%d", i)
		}
	}
	in.Messages = append(in.Messages, msg)
	in.ToolCalls = msg.ToolCalls
	return in, nil
}

// SecondCompletion is the only follow-up request of a turn. Tool calls it
// asks for are never executed.
func SecondCompletion(ctx context.Context, in *GraphState, timeout time.Duration) (*GraphState, error) {
	if in == nil || in.Model == nil {
		return nil, fmt.Errorf("%w: graph model is nil", contractx.ErrValidation)
	}

	msg, err := generate(ctx, in, timeout)
	if err != nil {
		return nil, err
	}

	if n := len(msg.ToolCalls); n > 0 {
		names := make([]string, 0, n)
		for _, call := range msg.ToolCalls {
			names = append(names, call.Function.Name)
		}
		log.Warn().
			Str("session_id", in.SessionID).
			Strs("tools", names).
			Msg("dropping tool calls requested in follow-up round")
	}

	in.Reply = strings.TrimSpace(msg.Content)
	return in, nil
}

func generate(ctx context.Context, in *GraphState, timeout time.Duration) (*schema.Message, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	msg, err := in.Model.Generate(ctx, in.Messages)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: model call exceeded %s", contractx.ErrTimeout, timeout)
		}
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: empty model response", contractx.ErrSchemaViolation)
	}
	return msg, nil
}
