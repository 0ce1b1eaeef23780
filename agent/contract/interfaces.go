package contract

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// ToolGateway exposes the tool manifest and runs tool requests for a single
// caller identity. Execute runs requests in order; a failing tool is reported
// in its ToolResult and does not abort the batch.
type ToolGateway interface {
	Tools(ctx context.Context) ([]*schema.ToolInfo, error)
	Execute(ctx context.Context, reqs []ToolRequest) ([]ToolResult, error)
}
