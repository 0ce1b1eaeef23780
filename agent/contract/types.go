package contract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Identity is the asserted caller. It is never verified, only scoped against.
type Identity struct {
	UserID     string `json:"user_id"`
	CustomerID string `json:"customer_id"`
}

// Authenticated reports whether the identity is bound to a customer.
func (i Identity) Authenticated() bool {
	return strings.TrimSpace(i.CustomerID) != ""
}

type ToolRequest struct {
	ID   string         `json:"id,omitempty"`
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

type ToolResult struct {
	ID     string `json:"id,omitempty"`
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Content renders the result as the text fed back to the model.
func (r ToolResult) Content() string {
	if r.Error != "" {
		return fmt.Sprintf("Error executing tool %s: %s", r.Tool, r.Error)
	}
	switch v := r.Result.(type) {
	case nil:
		return "null"
	case string:
		return v
	case json.RawMessage:
		return string(v)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(raw)
	}
}
