package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/banking-tool-gateway/agent/agents/orchestrator"
	"github.com/tanpawarit/banking-tool-gateway/agent/chat"
	contractx "github.com/tanpawarit/banking-tool-gateway/agent/contract"
	"github.com/tanpawarit/banking-tool-gateway/agent/gateway"
	"github.com/tanpawarit/banking-tool-gateway/agent/llm"
	"github.com/tanpawarit/banking-tool-gateway/agent/mcpclient"
	"github.com/tanpawarit/banking-tool-gateway/agent/prompt"
	statex "github.com/tanpawarit/banking-tool-gateway/agent/state"
	"github.com/tanpawarit/banking-tool-gateway/agent/tool"
	bankclient "github.com/tanpawarit/banking-tool-gateway/bank/client"
	configx "github.com/tanpawarit/banking-tool-gateway/pkg/config"
	_ "github.com/tanpawarit/banking-tool-gateway/pkg/logger/autoload"
	openrouterx "github.com/tanpawarit/banking-tool-gateway/pkg/openrouter"
)

const (
	toolsMCP   = "mcp"
	toolsLocal = "local"
)

type AppConfig struct {
	Tools     string `default:"mcp"`
	SessionID string `envconfig:"SESSION_ID"`
	UserID    string `envconfig:"USER_ID"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCfg := configx.MustNew[AppConfig]("CHAT")
	chatCfg := configx.MustNew[orchestrator.Config]("CHAT")

	chatModel := mustChatModel(ctx)

	id := callerIdentity(*appCfg, *chatCfg)
	tools, closeTools := mustToolGateway(ctx, appCfg.Tools, id)
	defer closeTools()

	store, err := statex.Open(ctx,
		*configx.MustNew[statex.Config]("STATE"),
		func() statex.UpstashRedisConfig { return *configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS") },
		func() statex.PostgresConfig { return *configx.MustNew[statex.PostgresConfig]("STATE_POSTGRES") },
	)
	if err != nil {
		log.Fatal().Err(err).Msg("open conversation store")
	}

	systemPrompt, err := prompt.Load(configx.MustNew[prompt.Config]("PROMPT").File)
	if err != nil {
		log.Fatal().Err(err).Msg("load system prompt")
	}

	o, err := orchestrator.New(chatModel, tools, store, systemPrompt, *chatCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build orchestrator")
	}

	sessionID := strings.TrimSpace(appCfg.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	log.Info().
		Str("session_id", sessionID).
		Str("customer_id", id.CustomerID).
		Str("tools", appCfg.Tools).
		Msg("chat session started")

	repl := &chat.REPL{
		Responder: o,
		SessionID: sessionID,
		Describe:  orchestrator.ReadableError,
	}
	if err := repl.Run(ctx, os.Stdin, os.Stdout); err != nil {
		log.Error().Err(err).Msg("chat loop stopped")
	}
}

func mustChatModel(ctx context.Context) model.ToolCallingChatModel {
	llmCfg := configx.MustNew[llm.Config]("OPENROUTER")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid model config")
	}
	orCfg := llmCfg.OpenRouter()

	if !llmCfg.SkipPing {
		client := openrouterx.NewClient(orCfg)
		if client == nil {
			log.Fatal().Msg("failed to initialize openrouter client")
		}
		pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		if err := openrouterx.Ping(pingCtx, client); err != nil {
			log.Fatal().Err(err).Msg("model provider unreachable")
		}
		ok, err := openrouterx.HasModel(pingCtx, client, llmCfg.Model)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("model", llmCfg.Model).Msg("could not verify model")
		case !ok:
			log.Fatal().Str("model", llmCfg.Model).Msg("model not offered by provider")
		}
	}

	chatModel, err := orCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("create chat model")
	}
	return chatModel
}

// callerIdentity is the one identity the process acts as. CHAT_CUSTOMER_ID
// scopes tool calls and labels stored history; CHAT_USER_ID defaults to it.
func callerIdentity(app AppConfig, chat orchestrator.Config) contractx.Identity {
	customerID := strings.TrimSpace(chat.CustomerID)
	if customerID == "" {
		customerID = "CUST001"
	}
	userID := strings.TrimSpace(app.UserID)
	if userID == "" {
		userID = customerID
	}
	return contractx.Identity{UserID: userID, CustomerID: customerID}
}

// mustToolGateway connects to the MCP server, or wires the gateway in process
// when tools are local. Both bind id.
func mustToolGateway(ctx context.Context, mode string, id contractx.Identity) (contractx.ToolGateway, func()) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case toolsLocal:
		backend, err := bankclient.Open(*configx.MustNew[bankclient.Config]("BANK_API"))
		if err != nil {
			log.Fatal().Err(err).Msg("open bank backend")
		}
		gw, err := gateway.New(backend)
		if err != nil {
			log.Fatal().Err(err).Msg("build gateway")
		}
		return tool.NewLocal(tool.NewExecutor(gw), id), func() {}
	case toolsMCP, "":
		g, err := mcpclient.Dial(ctx, *configx.MustNew[mcpclient.Config]("MCP"), id)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to mcp server")
		}
		return g, func() { _ = g.Close() }
	default:
		log.Fatal().Str("tools", mode).Msg("unknown tool mode, want mcp or local")
		return nil, nil
	}
}
