// Package mcpserver exposes the scoped banking tools over the Model Context
// Protocol.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/banking-tool-gateway/agent/contract"
	"github.com/tanpawarit/banking-tool-gateway/agent/tool"
	logx "github.com/tanpawarit/banking-tool-gateway/pkg/logger"
)

type Config struct {
	Name              string `default:"Banking MCP Server"`
	Version           string `default:"1.0.0"`
	Port              string `default:"8010"`
	Path              string `default:"/mcp"`
	DefaultUserID     string `split_words:"true" default:"CUST001"`
	DefaultCustomerID string `split_words:"true" default:"CUST001"`
}

func (c Config) DefaultIdentity() contractx.Identity {
	return contractx.Identity{UserID: c.DefaultUserID, CustomerID: c.DefaultCustomerID}
}

// New registers every catalog tool on a fresh MCP server. Tool failures are
// returned as error results so the calling model can read them.
func New(exec tool.Executor, cfg Config) *server.MCPServer {
	s := server.NewMCPServer(
		cfg.Name,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(identityMiddleware(cfg.DefaultIdentity())),
		server.WithToolHandlerMiddleware(loggingMiddleware),
	)

	for _, spec := range tool.Specs() {
		s.AddTool(spec.MCPTool(), toolHandler(exec, spec.Name))
	}
	return s
}

func toolHandler(exec tool.Executor, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, _ := IdentityFrom(ctx)

		out, err := exec(ctx, id, name, req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(tool.Describe(err).Error()), nil
		}

		raw, err := json.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("marshal %s result: %w", name, err)
		}
		return mcp.NewToolResultText(string(raw)), nil
	}
}

func loggingMiddleware(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		res, err := next(ctx, req)

		id, _ := IdentityFrom(ctx)
		event := log.Info()
		if err != nil || (res != nil && res.IsError) {
			event = log.Warn().Err(err)
		}
		event.
			Str("tool", req.Params.Name).
			Str("customer_id", id.CustomerID).
			Bool("tool_error", res != nil && res.IsError).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("MCPServer.CallTool")
		return res, err
	}
}

// Handler serves the MCP endpoint over streamable HTTP, taking caller
// identity from request headers.
func Handler(s *server.MCPServer, cfg Config) http.Handler {
	streamable := server.NewStreamableHTTPServer(s,
		server.WithEndpointPath(cfg.Path),
		server.WithHTTPContextFunc(identityFromHeaders),
	)

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(logx.HTTPMiddleware("MCPServer"))
	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})
	router.Handle(cfg.Path, streamable)
	return router
}

// Serve blocks until the server stops or ctx is cancelled.
func Serve(ctx context.Context, s *server.MCPServer, cfg Config) error {
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           Handler(s, cfg),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", httpServer.Addr).Str("path", cfg.Path).Msg("MCPServer.Serve.listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("MCPServer.Serve.shutting down")
	return nil
}
