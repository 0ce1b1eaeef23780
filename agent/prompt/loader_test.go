package prompt

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/banking-tool-gateway/agent/contract"
)

func TestLoadDefault(t *testing.T) {
	t.Parallel()

	msgs, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(msgs) == 0 || msgs[0].Role != schema.System {
		t.Fatalf("unexpected default prompt: %#v", msgs)
	}
	if !strings.Contains(msgs[0].Content, "banking assistant") {
		t.Fatalf("unexpected prompt content: %q", msgs[0].Content)
	}
}

func TestLoadOverrideFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "prompt.yaml")
	body := "messages:\n  - role: system\n    content: be brief\n  - role: assistant\n    content: ok\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write prompt: %v", err)
	}

	msgs, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "be brief" || msgs[1].Role != schema.Assistant {
		t.Fatalf("unexpected messages: %#v", msgs)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, contractx.ErrPromptMissing) {
		t.Fatalf("expected ErrPromptMissing, got %v", err)
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":    "messages: []\n",
		"bad role": "messages:\n  - role: tool\n    content: x\n",
		"not yaml": "messages: [",
	}
	for name, raw := range cases {
		if _, err := Parse([]byte(raw)); !errors.Is(err, contractx.ErrPromptMissing) {
			t.Fatalf("%s: expected ErrPromptMissing, got %v", name, err)
		}
	}
}
