package orchestratornode

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"

	contractx "github.com/tanpawarit/banking-tool-gateway/agent/contract"
)

// ListTools fetches the gateway manifest and binds it to the chat model for
// both rounds of the turn.
func ListTools(
	ctx context.Context,
	in *GraphState,
	tools contractx.ToolGateway,
	chatModel einomodel.ToolCallingChatModel,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	infos, err := tools.Tools(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	in.Tools = infos

	if len(infos) == 0 {
		in.Model = chatModel
		return in, nil
	}

	bound, err := chatModel.WithTools(infos)
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools: %v", contractx.ErrModelInvoke, err)
	}
	in.Model = bound
	return in, nil
}
