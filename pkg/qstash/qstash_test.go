package qstash

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{URL: "", Token: "t"}); err == nil {
		t.Fatal("expected error for empty url")
	}
	if _, err := NewClient(Config{URL: "https://qstash.upstash.io", Token: " "}); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestPublishJSON(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		fmt.Fprint(w, `{"messageId":"msg_1"}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{URL: server.URL + "/", Token: "secret"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	resp, err := client.PublishJSON(context.Background(), "https://audit.example.com/hook", map[string]string{"action": "lock_account"})
	if err != nil {
		t.Fatalf("PublishJSON() error = %v", err)
	}
	if resp.MessageID != "msg_1" {
		t.Fatalf("MessageID = %q, want msg_1", resp.MessageID)
	}
	if gotPath != "/v2/publish/https://audit.example.com/hook" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header: %s", gotAuth)
	}
	if gotBody["action"] != "lock_account" {
		t.Fatalf("unexpected body: %#v", gotBody)
	}
}

func TestPublishErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{URL: server.URL, Token: "bad"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if err := client.Publish(context.Background(), "https://audit.example.com/hook", struct{}{}); err == nil {
		t.Fatal("expected error on 401")
	}
	if err := client.Publish(context.Background(), " ", struct{}{}); err == nil {
		t.Fatal("expected error on empty destination")
	}
}
