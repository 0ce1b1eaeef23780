package main

import (
	"testing"

	"github.com/tanpawarit/banking-tool-gateway/agent/agents/orchestrator"
)

func TestCallerIdentity(t *testing.T) {
	t.Parallel()

	id := callerIdentity(AppConfig{}, orchestrator.Config{CustomerID: " CUST002 "})
	if id.UserID != "CUST002" || id.CustomerID != "CUST002" {
		t.Fatalf("unexpected identity: %#v", id)
	}

	id = callerIdentity(AppConfig{UserID: "teller-7"}, orchestrator.Config{CustomerID: "CUST003"})
	if id.UserID != "teller-7" || id.CustomerID != "CUST003" {
		t.Fatalf("unexpected identity: %#v", id)
	}

	id = callerIdentity(AppConfig{}, orchestrator.Config{})
	if id.CustomerID != "CUST001" || !id.Authenticated() {
		t.Fatalf("unexpected default identity: %#v", id)
	}
}
