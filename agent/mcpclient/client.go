// Package mcpclient implements contract.ToolGateway against a remote MCP
// server.
package mcpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/banking-tool-gateway/agent/contract"
	"github.com/tanpawarit/banking-tool-gateway/agent/mcpserver"
)

const clientName = "banking-chat"

type Config struct {
	URL string `default:"http://127.0.0.1:8010/mcp"`
}

type Gateway struct {
	client *client.Client
}

var _ contractx.ToolGateway = (*Gateway)(nil)

// Dial connects over streamable HTTP, asserting id on every request.
func Dial(ctx context.Context, cfg Config, id contractx.Identity) (*Gateway, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, fmt.Errorf("%w: mcp url is required", contractx.ErrValidation)
	}

	headers := map[string]string{}
	if v := strings.TrimSpace(id.UserID); v != "" {
		headers[mcpserver.HeaderUserID] = v
	}
	if v := strings.TrimSpace(id.CustomerID); v != "" {
		headers[mcpserver.HeaderCustomerID] = v
	}

	c, err := client.NewStreamableHttpClient(url, transport.WithHTTPHeaders(headers))
	if err != nil {
		return nil, fmt.Errorf("mcp client: %w", err)
	}
	return New(ctx, c)
}

// New starts and initialises an existing MCP client.
func New(ctx context.Context, c *client.Client) (*Gateway, error) {
	if c == nil {
		return nil, errors.New("mcp client is required")
	}
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("mcp start: %w", err)
	}
	if _, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo:      mcp.Implementation{Name: clientName, Version: "1.0.0"},
		},
	}); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("mcp initialize: %w", err)
	}
	return &Gateway{client: c}, nil
}

func (g *Gateway) Close() error {
	return g.client.Close()
}

func (g *Gateway) Tools(ctx context.Context) ([]*schema.ToolInfo, error) {
	res, err := g.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("mcp list tools: %w", err)
	}
	infos := make([]*schema.ToolInfo, 0, len(res.Tools))
	for _, t := range res.Tools {
		infos = append(infos, ToToolInfo(t))
	}
	return infos, nil
}

func (g *Gateway) Execute(ctx context.Context, reqs []contractx.ToolRequest) ([]contractx.ToolResult, error) {
	results := make([]contractx.ToolResult, 0, len(reqs))
	for _, req := range reqs {
		res := contractx.ToolResult{ID: req.ID, Tool: req.Tool}

		out, err := g.client.CallTool(ctx, mcp.CallToolRequest{
			Params: mcp.CallToolParams{Name: req.Tool, Arguments: req.Args},
		})
		switch {
		case err != nil:
			if errors.Is(err, context.DeadlineExceeded) {
				err = fmt.Errorf("%w: %v", contractx.ErrTimeout, err)
			}
			log.Warn().Err(err).Str("tool", req.Tool).Msg("MCPGateway.Execute call failed")
			res.Error = err.Error()
		case out.IsError:
			res.Error = ExtractText(out)
		default:
			res.Result = decodeResult(ExtractText(out))
		}
		results = append(results, res)
	}
	return results, nil
}

// ExtractText joins the text parts of a tool result.
func ExtractText(res *mcp.CallToolResult) string {
	if res == nil {
		return ""
	}
	var out []string
	for _, c := range res.Content {
		if tc, ok := mcp.AsTextContent(c); ok && strings.TrimSpace(tc.Text) != "" {
			out = append(out, tc.Text)
		}
	}
	return strings.Join(out, "\n")
}

func decodeResult(text string) any {
	if json.Valid([]byte(text)) {
		return json.RawMessage(text)
	}
	return text
}

// ToToolInfo converts an MCP tool definition into an eino tool info.
func ToToolInfo(t mcp.Tool) *schema.ToolInfo {
	info := &schema.ToolInfo{Name: t.Name, Desc: t.Description}
	if len(t.InputSchema.Properties) == 0 {
		return info
	}

	required := make(map[string]bool, len(t.InputSchema.Required))
	for _, name := range t.InputSchema.Required {
		required[name] = true
	}

	params := make(map[string]*schema.ParameterInfo, len(t.InputSchema.Properties))
	for name, raw := range t.InputSchema.Properties {
		prop, _ := raw.(map[string]any)
		typ, _ := prop["type"].(string)
		desc, _ := prop["description"].(string)
		params[name] = &schema.ParameterInfo{
			Type:     dataType(typ),
			Desc:     desc,
			Required: required[name],
		}
	}
	info.ParamsOneOf = schema.NewParamsOneOfByParams(params)
	return info
}

func dataType(t string) schema.DataType {
	switch t {
	case "integer":
		return schema.Integer
	case "number":
		return schema.Number
	case "boolean":
		return schema.Boolean
	case "array":
		return schema.Array
	case "object":
		return schema.Object
	default:
		return schema.String
	}
}
