package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/banking-tool-gateway/agent/contract"
	statex "github.com/tanpawarit/banking-tool-gateway/agent/state"
)

// SaveHistory records the user message and the reply. Tool traffic stays
// out of the stored history.
func SaveHistory(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
	historyLimit int,
) (*GraphState, error) {
	if in == nil || in.Conversation == nil {
		return nil, fmt.Errorf("%w: graph conversation is nil", contractx.ErrValidation)
	}

	if err := in.Conversation.Append(statex.RoleUser, in.Text, in.Now); err != nil {
		return nil, err
	}
	if in.Reply != "" {
		if err := in.Conversation.Append(statex.RoleAssistant, in.Reply, in.Now); err != nil {
			return nil, err
		}
	}
	in.Conversation.Trim(historyLimit)

	if err := store.Save(ctx, in.Conversation); err != nil {
		return nil, fmt.Errorf("save conversation: %w", err)
	}
	return in, nil
}
