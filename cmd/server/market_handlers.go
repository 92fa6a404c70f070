package main

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"ezanafinance/internal/quotes"
)

// marketQuotesHandler serves GET /api/market/quotes?symbols=AAPL,MSFT.
// Partial failures come back inside the 200 envelope; only a fully
// invalid symbol list (400) or an unconfigured provider (503) fail the
// request.
func (a *API) marketQuotesHandler(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("symbols")
	if strings.TrimSpace(raw) == "" {
		respondWithError(w, http.StatusBadRequest, "missing symbols query param")
		return
	}

	res, err := a.quotes.GetQuotes(r.Context(), strings.Split(raw, ","))
	if err != nil {
		switch {
		case errors.Is(err, quotes.ErrUnconfigured):
			respondWithError(w, http.StatusServiceUnavailable, "market data provider is not configured")
		case errors.Is(err, quotes.ErrNoValidSymbols):
			respondWithError(w, http.StatusBadRequest, "at least one valid symbol is required")
		default:
			log.Printf("market quotes: %v", err)
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}
