package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/cloudwego/eino/schema"
	"gopkg.in/yaml.v3"

	contractx "github.com/tanpawarit/banking-tool-gateway/agent/contract"
)

//go:embed template/agent-system-prompt.yaml
var defaultRaw []byte

// Config reads the prompt override path. Read with prefix PROMPT.
type Config struct {
	File string `envconfig:"FILE"`
}

type document struct {
	Messages []message `yaml:"messages"`
}

type message struct {
	Role    string `yaml:"role"`
	Content string `yaml:"content"`
}

// Load returns the system prompt messages. An empty path uses the embedded
// default.
func Load(path string) ([]*schema.Message, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Parse(defaultRaw)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", contractx.ErrPromptMissing, path, err)
	}
	return Parse(raw)
}

// Parse decodes a `messages: [{role, content}]` document.
func Parse(raw []byte) ([]*schema.Message, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode prompt yaml: %v", contractx.ErrPromptMissing, err)
	}

	out := make([]*schema.Message, 0, len(doc.Messages))
	for i, m := range doc.Messages {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		role, err := toRole(m.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: message %d: %v", contractx.ErrPromptMissing, i, err)
		}
		out = append(out, &schema.Message{Role: role, Content: content})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no prompt messages", contractx.ErrPromptMissing)
	}
	return out, nil
}

func toRole(raw string) (schema.RoleType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "system":
		return schema.System, nil
	case "user":
		return schema.User, nil
	case "assistant":
		return schema.Assistant, nil
	default:
		return "", fmt.Errorf("unsupported role %q", raw)
	}
}
