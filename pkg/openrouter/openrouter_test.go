package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newModelsServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

const modelsBody = `{"object":"list","data":[
	{"id":"openai/gpt-4o-mini","object":"model","created":0,"owned_by":"openai"},
	{"id":"anthropic/claude-3.5-haiku","object":"model","created":0,"owned_by":"anthropic"}
]}`

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	if NewClient(Config{BaseURL: "http://localhost", APIKey: " "}) != nil {
		t.Fatal("expected nil client without api key")
	}
}

func TestPingAndHasModel(t *testing.T) {
	t.Parallel()

	srv := newModelsServer(t, modelsBody)
	client := NewClient(Config{BaseURL: srv.URL + "/", APIKey: "test-key"})
	if client == nil {
		t.Fatal("NewClient() returned nil")
	}

	ctx := context.Background()
	if err := Ping(ctx, client); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	ok, err := HasModel(ctx, client, " openai/gpt-4o-mini ")
	if err != nil {
		t.Fatalf("HasModel() error = %v", err)
	}
	if !ok {
		t.Fatal("expected openai/gpt-4o-mini to be offered")
	}

	ok, err = HasModel(ctx, client, "unknown/model")
	if err != nil {
		t.Fatalf("HasModel() error = %v", err)
	}
	if ok {
		t.Fatal("unknown/model must not be offered")
	}
}

func TestPingEmptyCatalog(t *testing.T) {
	t.Parallel()

	srv := newModelsServer(t, `{"object":"list","data":[]}`)
	client := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})

	if err := Ping(context.Background(), client); err == nil {
		t.Fatal("expected error for empty model list")
	}
}

func TestNilClient(t *testing.T) {
	t.Parallel()

	if err := Ping(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil client")
	}
	if _, err := HasModel(context.Background(), nil, "x"); err == nil {
		t.Fatal("expected error for nil client")
	}
}
