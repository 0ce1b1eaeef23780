package orchestratornode

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/banking-tool-gateway/agent/contract"
	statex "github.com/tanpawarit/banking-tool-gateway/agent/state"
)

// LoadHistory loads the session and assembles the first request:
// system prompt, the latest historyLimit turns, then the user message.
func LoadHistory(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
	customerID string,
	systemPrompt []*schema.Message,
	historyLimit int,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	conv, err := store.Load(ctx, in.SessionID)
	switch {
	case errors.Is(err, statex.ErrStateNotFound):
		conv = statex.NewConversation(in.SessionID, customerID, in.Now)
	case err != nil:
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	in.Conversation = conv

	msgs := make([]*schema.Message, 0, len(systemPrompt)+historyLimit+1)
	for _, m := range systemPrompt {
		if m != nil {
			msgs = append(msgs, m)
		}
	}
	for _, turn := range conv.Recent(historyLimit) {
		switch turn.Role {
		case statex.RoleUser:
			msgs = append(msgs, schema.UserMessage(turn.Content))
		case statex.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(turn.Content, nil))
		}
	}
	msgs = append(msgs, schema.UserMessage(in.Text))

	in.Messages = msgs
	return in, nil
}
