package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/banking-tool-gateway/agent/contract"
	nodex "github.com/tanpawarit/banking-tool-gateway/agent/nodes/orchestrator"
	statex "github.com/tanpawarit/banking-tool-gateway/agent/state"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

// Config is read with prefix CHAT.
type Config struct {
	CustomerID   string        `envconfig:"CUSTOMER_ID" split_words:"true" default:"CUST001"`
	LLMTimeout   time.Duration `envconfig:"LLM_TIMEOUT" split_words:"true" default:"60s"`
	ToolTimeout  time.Duration `envconfig:"TOOL_TIMEOUT" split_words:"true" default:"15s"`
	HistoryLimit int           `envconfig:"HISTORY_LIMIT" split_words:"true" default:"20"`
}

// Orchestrator runs the two-round tool-calling protocol for one user message.
type Orchestrator struct {
	model        einomodel.ToolCallingChatModel
	tools        contractx.ToolGateway
	store        statex.Store
	systemPrompt []*schema.Message

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	customerID   string
	llmTimeout   time.Duration
	toolTimeout  time.Duration
	historyLimit int

	now func() time.Time
}

func New(
	model einomodel.ToolCallingChatModel,
	tools contractx.ToolGateway,
	store statex.Store,
	systemPrompt []*schema.Message,
	cfg Config,
) (*Orchestrator, error) {
	if model == nil {
		return nil, errors.New("chat model is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}
	if store == nil {
		store = statex.NewMemoryStore()
	}

	customerID := strings.TrimSpace(cfg.CustomerID)
	if customerID == "" {
		customerID = "CUST001"
	}
	historyLimit := cfg.HistoryLimit
	if historyLimit < 0 {
		historyLimit = 0
	}

	o := &Orchestrator{
		model:        model,
		tools:        tools,
		store:        store,
		systemPrompt: systemPrompt,
		customerID:   customerID,
		llmTimeout:   cfg.LLMTimeout,
		toolTimeout:  cfg.ToolTimeout,
		historyLimit: historyLimit,
		now:          time.Now,
	}

	graphRunner, err := o.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

func (o *Orchestrator) HandleMessage(ctx context.Context, sessionID string, text string) (string, error) {
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}

// Reset forgets the session history.
func (o *Orchestrator) Reset(ctx context.Context, sessionID string) error {
	return o.store.Delete(ctx, sessionID)
}

// ReadableError renders a turn failure for the chat user.
func ReadableError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidMessage):
		return "please type a message"
	case errors.Is(err, contractx.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "the assistant took too long to answer, please try again"
	case errors.Is(err, contractx.ErrModelInvoke):
		return "the language model is unavailable right now, please try again later"
	case errors.Is(err, contractx.ErrSchemaViolation):
		return "the language model returned a malformed response"
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	default:
		return err.Error()
	}
}
