package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ezanafinance/internal/config"
	"ezanafinance/internal/provider"
	"ezanafinance/internal/quotes"
)

type stubProvider struct {
	quotes map[string]provider.RawQuote
	errs   map[string]error
}

func (s *stubProvider) Name() string { return "Stub" }

func (s *stubProvider) Quote(_ context.Context, symbol string) (provider.RawQuote, error) {
	if err, ok := s.errs[symbol]; ok {
		return provider.RawQuote{}, err
	}
	q, ok := s.quotes[symbol]
	if !ok {
		return provider.RawQuote{}, provider.ErrNoData
	}
	return q, nil
}

func f(v float64) *float64 { return &v }

func newTestAPI(p provider.Provider, configured bool) *API {
	cache := quotes.NewCache(5*time.Second, nil)
	svc := quotes.NewService(p, cache, 20, configured)
	return NewAPI(config.Default(), nil, svc, nil)
}

func TestMarketQuotesPartialSuccess(t *testing.T) {
	api := newTestAPI(&stubProvider{
		quotes: map[string]provider.RawQuote{
			"AAPL": {Current: f(190.5), PreviousClose: f(188.0), Change: f(2.5)},
			"MSFT": {Current: f(404.0), PreviousClose: f(400.0), Change: f(4.0)},
		},
		errs: map[string]error{"FAIL": errors.New("upstream timeout")},
	}, true)

	req := httptest.NewRequest(http.MethodGet, "/api/market/quotes?symbols=aapl,FAIL,MSFT", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res quotes.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Quotes) != 2 {
		t.Fatalf("quotes = %d, want 2", len(res.Quotes))
	}
	if res.Quotes[0].Symbol != "AAPL" || res.Quotes[1].Symbol != "MSFT" {
		t.Fatalf("symbols = %s, %s", res.Quotes[0].Symbol, res.Quotes[1].Symbol)
	}
	if len(res.Errors) != 1 || res.Errors[0].Symbol != "FAIL" {
		t.Fatalf("errors = %+v", res.Errors)
	}
}

func TestMarketQuotesMissingParam(t *testing.T) {
	api := newTestAPI(&stubProvider{}, true)

	req := httptest.NewRequest(http.MethodGet, "/api/market/quotes", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMarketQuotesAllInvalidSymbols(t *testing.T) {
	api := newTestAPI(&stubProvider{}, true)

	req := httptest.NewRequest(http.MethodGet, "/api/market/quotes?symbols=%20,aa%20pl", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMarketQuotesUnconfiguredProvider(t *testing.T) {
	api := newTestAPI(&stubProvider{}, false)

	req := httptest.NewRequest(http.MethodGet, "/api/market/quotes?symbols=AAPL", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(&stubProvider{}, true)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(&stubProvider{}, true)

	for _, path := range []string{"/api/accounts", "/api/budgets/overview", "/api/financial-health-score"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		api.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", path, rec.Code)
		}
	}
}

func TestRequestIDHeader(t *testing.T) {
	api := newTestAPI(&stubProvider{}, true)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("X-Request-ID = %q, want passthrough", got)
	}
}
