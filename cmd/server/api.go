package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"ezanafinance/internal/bank"
	"ezanafinance/internal/config"
	"ezanafinance/internal/quotes"
	"ezanafinance/internal/store"
)

// API wires the HTTP routes to the services behind them.
type API struct {
	cfg      config.Config
	store    *store.Store
	quotes   *quotes.Service
	bank     *bank.Service
	router   *mux.Router
	validate *validator.Validate
}

func NewAPI(cfg config.Config, st *store.Store, qs *quotes.Service, bk *bank.Service) *API {
	a := &API{
		cfg:      cfg,
		store:    st,
		quotes:   qs,
		bank:     bk,
		router:   mux.NewRouter(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	a.setupRoutes()
	return a
}

func (a *API) setupRoutes() {
	a.router.Use(requestID, recoverPanic)

	a.router.HandleFunc("/healthz", a.healthzHandler).Methods("GET")
	a.router.HandleFunc("/api/market/quotes", a.marketQuotesHandler).Methods("GET")

	a.router.HandleFunc("/api/auth/register", a.registerHandler).Methods("POST")
	a.router.HandleFunc("/api/auth/login", a.loginHandler).Methods("POST")

	// Everything below requires a session token.
	priv := a.router.PathPrefix("/api").Subrouter()
	priv.Use(a.requireAuth)

	priv.HandleFunc("/auth/me", a.meHandler).Methods("GET")
	priv.HandleFunc("/auth/logout", a.logoutHandler).Methods("POST")

	priv.HandleFunc("/accounts", a.createAccountHandler).Methods("POST")
	priv.HandleFunc("/accounts", a.listAccountsHandler).Methods("GET")
	priv.HandleFunc("/accounts/{id:[0-9]+}", a.getAccountHandler).Methods("GET")
	priv.HandleFunc("/accounts/{id:[0-9]+}", a.updateAccountHandler).Methods("PUT")
	priv.HandleFunc("/accounts/{id:[0-9]+}", a.deleteAccountHandler).Methods("DELETE")

	priv.HandleFunc("/transactions", a.createTransactionHandler).Methods("POST")
	priv.HandleFunc("/transactions", a.listTransactionsHandler).Methods("GET")
	priv.HandleFunc("/transactions/summary/monthly", a.monthlySummaryHandler).Methods("GET")
	priv.HandleFunc("/transactions/{id:[0-9]+}", a.getTransactionHandler).Methods("GET")
	priv.HandleFunc("/transactions/{id:[0-9]+}", a.updateTransactionHandler).Methods("PUT")
	priv.HandleFunc("/transactions/{id:[0-9]+}", a.deleteTransactionHandler).Methods("DELETE")

	priv.HandleFunc("/budgets", a.createBudgetHandler).Methods("POST")
	priv.HandleFunc("/budgets", a.listBudgetsHandler).Methods("GET")
	priv.HandleFunc("/budgets/overview", a.budgetsOverviewHandler).Methods("GET")
	priv.HandleFunc("/budgets/{id:[0-9]+}", a.getBudgetHandler).Methods("GET")
	priv.HandleFunc("/budgets/{id:[0-9]+}", a.updateBudgetHandler).Methods("PUT")
	priv.HandleFunc("/budgets/{id:[0-9]+}", a.deleteBudgetHandler).Methods("DELETE")

	priv.HandleFunc("/bank/connect", a.bankConnectHandler).Methods("POST")
	priv.HandleFunc("/bank/connections", a.bankConnectionsHandler).Methods("GET")
	priv.HandleFunc("/bank/connections/{id:[0-9]+}", a.bankDisconnectHandler).Methods("DELETE")
	priv.HandleFunc("/bank/import-transactions/{id:[0-9]+}", a.bankImportHandler).Methods("POST")
	priv.HandleFunc("/bank/spending-analysis", a.spendingAnalysisHandler).Methods("GET")

	priv.HandleFunc("/financial-health-score", a.healthScoreHandler).Methods("GET")
}

// Start runs the server until SIGINT/SIGTERM, then drains connections.
func (a *API) Start() error {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + a.cfg.Server.Port,
		Handler:           c.Handler(a.router),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on :%s", a.cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (a *API) healthzHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// --- auth middleware ---

type contextKey string

const userKey contextKey = "user"

func (a *API) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondWithError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		user, err := a.store.UserBySession(r.Context(), token)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusUnauthorized, "invalid or expired session")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

func currentUser(r *http.Request) *store.User {
	u, _ := r.Context().Value(userKey).(*store.User)
	return u
}

// --- generic middleware ---

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				respondWithError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// --- request/response helpers ---

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondStoreError maps store sentinels onto status codes; anything
// else is logged and returned as a 500.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrDuplicate):
		respondWithError(w, http.StatusBadRequest, "already exists")
	default:
		log.Printf("store error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeAndValidate reads a JSON body into dst and runs struct
// validation.
func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := a.validate.Struct(dst); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
