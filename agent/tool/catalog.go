package tool

import (
	"github.com/cloudwego/eino/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	ToolListAccounts      = "list_accounts"
	ToolLockAccount       = "lock_account"
	ToolListTransactions  = "list_transactions"
	ToolSearchDocuments   = "search_documents"
	ToolGetUserProfile    = "get_user_profile"
	ToolGetAccountBalance = "get_account_balance"
)

// Param is a required string parameter of a tool.
type Param struct {
	Name string
	Desc string
}

type Spec struct {
	Name   string
	Desc   string
	Params []Param
}

var accountIDParam = Param{Name: "account_id", Desc: "Identifier of one of the user's accounts, e.g. ACC001"}

var catalog = []Spec{
	{
		Name: ToolListAccounts,
		Desc: "List all accounts and balances for the authenticated user.",
	},
	{
		Name:   ToolLockAccount,
		Desc:   "Lock an account by account id. Only works for user's own accounts.",
		Params: []Param{accountIDParam},
	},
	{
		Name:   ToolListTransactions,
		Desc:   "List all transactions for an account. Only works for user's own accounts.",
		Params: []Param{accountIDParam},
	},
	{
		Name:   ToolSearchDocuments,
		Desc:   "Search for documents belonging to the authenticated user.",
		Params: []Param{{Name: "query", Desc: "Text to look for in document content, case-insensitive"}},
	},
	{
		Name: ToolGetUserProfile,
		Desc: "Get the authenticated user's profile information.",
	},
	{
		Name:   ToolGetAccountBalance,
		Desc:   "Get balance for a specific account. Only works for user's own accounts.",
		Params: []Param{accountIDParam},
	},
}

// Specs returns the fixed tool manifest in declaration order.
func Specs() []Spec {
	out := make([]Spec, len(catalog))
	for i, s := range catalog {
		out[i] = Spec{Name: s.Name, Desc: s.Desc, Params: append([]Param(nil), s.Params...)}
	}
	return out
}

func Names() []string {
	names := make([]string, len(catalog))
	for i, s := range catalog {
		names[i] = s.Name
	}
	return names
}

func Lookup(name string) (Spec, bool) {
	for _, s := range catalog {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

// Infos returns the manifest as eino tool infos for binding to a chat model.
func Infos() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(catalog))
	for _, s := range catalog {
		infos = append(infos, s.Info())
	}
	return infos
}

// MCPTools returns the manifest as MCP tool definitions.
func MCPTools() []mcp.Tool {
	tools := make([]mcp.Tool, 0, len(catalog))
	for _, s := range catalog {
		tools = append(tools, s.MCPTool())
	}
	return tools
}

func (s Spec) Info() *schema.ToolInfo {
	info := &schema.ToolInfo{Name: s.Name, Desc: s.Desc}
	if len(s.Params) > 0 {
		params := make(map[string]*schema.ParameterInfo, len(s.Params))
		for _, p := range s.Params {
			params[p.Name] = &schema.ParameterInfo{Type: schema.String, Desc: p.Desc, Required: true}
		}
		info.ParamsOneOf = schema.NewParamsOneOfByParams(params)
	}
	return info
}

func (s Spec) MCPTool() mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(s.Desc)}
	for _, p := range s.Params {
		opts = append(opts, mcp.WithString(p.Name, mcp.Required(), mcp.Description(p.Desc)))
	}
	return mcp.NewTool(s.Name, opts...)
}
