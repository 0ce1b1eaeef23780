package mcpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	contractx "github.com/tanpawarit/banking-tool-gateway/agent/contract"
)

const (
	HeaderUserID     = "X-User-ID"
	HeaderCustomerID = "X-Customer-ID"
)

type identityKey struct{}

func WithIdentity(ctx context.Context, id contractx.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) (contractx.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(contractx.Identity)
	return id, ok
}

// identityFromHeaders binds the asserted caller from request headers. A
// request without identity headers leaves the context untouched.
func identityFromHeaders(ctx context.Context, r *http.Request) context.Context {
	userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
	customerID := strings.TrimSpace(r.Header.Get(HeaderCustomerID))
	if userID == "" && customerID == "" {
		return ctx
	}
	if customerID == "" {
		customerID = userID
	}
	return WithIdentity(ctx, contractx.Identity{UserID: userID, CustomerID: customerID})
}

// identityMiddleware falls back to the configured default identity for calls
// that arrive without one. A zero default leaves such calls unauthenticated.
func identityMiddleware(fallback contractx.Identity) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if _, ok := IdentityFrom(ctx); !ok && fallback.Authenticated() {
				ctx = WithIdentity(ctx, fallback)
			}
			return next(ctx, req)
		}
	}
}
