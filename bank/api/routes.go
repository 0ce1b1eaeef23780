// Package api serves the mock bank over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/tanpawarit/banking-tool-gateway/bank"
	logx "github.com/tanpawarit/banking-tool-gateway/pkg/logger"
)

const apiVersion = "1.0.0"

// Store is the subset of the resource store the API serves.
type Store interface {
	bank.Backend
	Customers(ctx context.Context) ([]bank.Customer, error)
	Accounts(ctx context.Context) ([]bank.Account, error)
}

type Rest struct {
	Store Store
	Port  string
	now   func() time.Time
}

func New(store Store, port string) *Rest {
	return &Rest{Store: store, Port: port, now: time.Now}
}

func (r *Rest) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(logx.HTTPMiddleware("BankAPI"))

	router.Get("/", r.root)
	router.Get("/health", r.health)

	router.Route("/customers", func(cr chi.Router) {
		cr.Get("/", r.listCustomers)
		cr.Get("/{customerID}", r.getCustomer)
		cr.Get("/{customerID}/accounts", r.listCustomerAccounts)
		cr.Get("/{customerID}/documents", r.listCustomerDocuments)
	})

	router.Route("/accounts", func(ar chi.Router) {
		ar.Get("/", r.listAccounts)
		ar.Post("/", r.createAccount)
		ar.Get("/{accountID}", r.getAccount)
		ar.Get("/{accountID}/transactions", r.listAccountTransactions)
		ar.Get("/{accountID}/lock", r.lockAccount)
		ar.Post("/{accountID}/lock", r.lockAccount)
	})

	return router
}

// Serve blocks until the server stops or ctx is cancelled.
func (r *Rest) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Router(),
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", server.Addr).Msg("BankAPI.Serve.listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("BankAPI.Serve.shutting down")
	return nil
}

func (r *Rest) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Mock Banking API", "version": apiVersion})
}

func (r *Rest) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "healthy", "timestamp": r.now().UTC()})
}

func (r *Rest) listCustomers(w http.ResponseWriter, req *http.Request) {
	customers, err := r.Store.Customers(req.Context())
	respond(w, customers, err)
}

func (r *Rest) getCustomer(w http.ResponseWriter, req *http.Request) {
	customer, err := r.Store.Customer(req.Context(), chi.URLParam(req, "customerID"))
	respond(w, customer, err)
}

func (r *Rest) listCustomerAccounts(w http.ResponseWriter, req *http.Request) {
	accounts, err := r.Store.CustomerAccounts(req.Context(), chi.URLParam(req, "customerID"))
	respond(w, accounts, err)
}

func (r *Rest) listCustomerDocuments(w http.ResponseWriter, req *http.Request) {
	documents, err := r.Store.CustomerDocuments(req.Context(), chi.URLParam(req, "customerID"))
	respond(w, documents, err)
}

func (r *Rest) listAccounts(w http.ResponseWriter, req *http.Request) {
	accounts, err := r.Store.Accounts(req.Context())
	respond(w, accounts, err)
}

func (r *Rest) getAccount(w http.ResponseWriter, req *http.Request) {
	account, err := r.Store.Account(req.Context(), chi.URLParam(req, "accountID"))
	respond(w, account, err)
}

func (r *Rest) listAccountTransactions(w http.ResponseWriter, req *http.Request) {
	txns, err := r.Store.AccountTransactions(req.Context(), chi.URLParam(req, "accountID"))
	respond(w, txns, err)
}

func (r *Rest) lockAccount(w http.ResponseWriter, req *http.Request) {
	account, err := r.Store.LockAccount(req.Context(), chi.URLParam(req, "accountID"))
	respond(w, account, err)
}

type createAccountBody struct {
	CustomerID     string          `json:"customer_id"`
	AccountType    string          `json:"account_type"`
	InitialDeposit decimal.Decimal `json:"initial_deposit"`
}

func (r *Rest) createAccount(w http.ResponseWriter, req *http.Request) {
	var body createAccountBody
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	account, err := r.Store.CreateAccount(req.Context(), bank.CreateAccountRequest{
		CustomerID:     body.CustomerID,
		AccountType:    bank.AccountType(body.AccountType),
		InitialDeposit: body.InitialDeposit,
	})
	respond(w, account, err)
}
