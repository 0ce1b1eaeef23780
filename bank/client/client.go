// Package client implements bank.Backend against the bank HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/banking-tool-gateway/bank"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithTimeout bounds every request. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.timeout = d
		}
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("bank client: base url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("bank client: parse base url: %w", err)
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Customer(ctx context.Context, id string) (bank.Customer, error) {
	var out bank.Customer
	err := c.do(ctx, http.MethodGet, "/customers/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) Customers(ctx context.Context) ([]bank.Customer, error) {
	var out []bank.Customer
	err := c.do(ctx, http.MethodGet, "/customers", nil, &out)
	return out, err
}

func (c *Client) Account(ctx context.Context, id string) (bank.Account, error) {
	var out bank.Account
	err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) Accounts(ctx context.Context) ([]bank.Account, error) {
	var out []bank.Account
	err := c.do(ctx, http.MethodGet, "/accounts", nil, &out)
	return out, err
}

func (c *Client) CustomerAccounts(ctx context.Context, customerID string) ([]bank.Account, error) {
	var out []bank.Account
	err := c.do(ctx, http.MethodGet, "/customers/"+url.PathEscape(customerID)+"/accounts", nil, &out)
	return out, err
}

func (c *Client) AccountTransactions(ctx context.Context, accountID string) ([]bank.Transaction, error) {
	var out []bank.Transaction
	err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(accountID)+"/transactions", nil, &out)
	return out, err
}

func (c *Client) CustomerDocuments(ctx context.Context, customerID string) ([]bank.Document, error) {
	var out []bank.Document
	err := c.do(ctx, http.MethodGet, "/customers/"+url.PathEscape(customerID)+"/documents", nil, &out)
	return out, err
}

func (c *Client) CreateAccount(ctx context.Context, req bank.CreateAccountRequest) (bank.Account, error) {
	var out bank.Account
	err := c.do(ctx, http.MethodPost, "/accounts", req, &out)
	return out, err
}

func (c *Client) LockAccount(ctx context.Context, id string) (bank.Account, error) {
	var out bank.Account
	err := c.do(ctx, http.MethodPost, "/accounts/"+url.PathEscape(id)+"/lock", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: marshal request: %v", bank.ErrValidation, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", bank.ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s %s", bank.ErrTimeout, method, path)
		}
		return fmt.Errorf("%w: %s %s: %v", bank.ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("BankClient.do")

	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", bank.ErrUnavailable, method, path, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	detail := strings.TrimSpace(string(raw))

	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != "" {
		detail = body.Detail
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", bank.ErrNotFound, stripPrefix(detail, bank.ErrNotFound))
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", bank.ErrValidation, stripPrefix(detail, bank.ErrValidation))
	default:
		return fmt.Errorf("%w: status %d: %s", bank.ErrUnavailable, resp.StatusCode, detail)
	}
}

// stripPrefix drops sentinel text the server already rendered.
func stripPrefix(detail string, sentinel error) string {
	return strings.TrimPrefix(detail, sentinel.Error()+": ")
}

var _ bank.Backend = (*Client)(nil)
