package orchestratornode

import (
	"errors"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/banking-tool-gateway/agent/contract"
	statex "github.com/tanpawarit/banking-tool-gateway/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Text      string
}

type GraphOutput struct {
	Reply     string
	ToolCalls int
}

// GraphState is threaded through every node of one turn.
type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	Conversation *statex.Conversation
	Messages     []*schema.Message

	Tools []*schema.ToolInfo
	Model einomodel.ToolCallingChatModel

	ToolCalls   []schema.ToolCall
	ToolResults []contractx.ToolResult

	Reply string
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
		Now:       nowFn().UTC(),
	}, nil
}

// HasToolCalls picks the branch after the first completion.
func (s *GraphState) HasToolCalls() bool {
	return s != nil && len(s.ToolCalls) > 0
}
