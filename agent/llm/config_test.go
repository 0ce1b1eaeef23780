package llm

import (
	"errors"
	"testing"

	contractx "github.com/tanpawarit/banking-tool-gateway/agent/contract"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	ok := Config{APIKey: "k", Model: "mistralai/mistral-small", Temperature: 0.2}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	cases := map[string]Config{
		"no key":      {Model: "m"},
		"no model":    {APIKey: "k", Model: "  "},
		"temperature": {APIKey: "k", Model: "m", Temperature: 3},
	}
	for name, cfg := range cases {
		if err := cfg.Validate(); !errors.Is(err, contractx.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", name, err)
		}
	}
}

func TestConfigOpenRouter(t *testing.T) {
	t.Parallel()

	cfg := Config{
		BaseURL:            " https://openrouter.ai/api/v1 ",
		APIKey:             " key ",
		Model:              " mistralai/mistral-small ",
		MaxCompletionToken: 512,
		Temperature:        0.3,
	}
	out := cfg.OpenRouter()
	if out.APIKey != "key" || out.Model != "mistralai/mistral-small" || out.BaseURL != "https://openrouter.ai/api/v1" {
		t.Fatalf("unexpected openrouter config: %#v", out)
	}
	if out.MaxCompletionToken == nil || *out.MaxCompletionToken != 512 {
		t.Fatalf("unexpected max tokens: %v", out.MaxCompletionToken)
	}
}
