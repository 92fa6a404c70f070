package main

import (
	"net/http"
	"strconv"
	"time"

	"ezanafinance/internal/store"
)

func (a *API) createTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var req store.TransactionCreate
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := a.store.CreateTransaction(r.Context(), currentUser(r).ID, req)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, t)
}

func (a *API) listTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.TransactionFilter{
		Category:        q.Get("category"),
		TransactionType: q.Get("transaction_type"),
		Limit:           queryInt(r, "limit", 100),
		Offset:          queryInt(r, "offset", 0),
	}
	if v := q.Get("account_id"); v != "" {
		filter.AccountID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := q.Get("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
			return
		}
		filter.StartDate = &t
	}
	if v := q.Get("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
			return
		}
		filter.EndDate = &t
	}

	txns, err := a.store.ListTransactions(r.Context(), currentUser(r).ID, filter)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, txns)
}

func (a *API) getTransactionHandler(w http.ResponseWriter, r *http.Request) {
	t, err := a.store.GetTransaction(r.Context(), currentUser(r).ID, pathID(r))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, t)
}

func (a *API) updateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var req store.TransactionUpdate
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := a.store.UpdateTransaction(r.Context(), currentUser(r).ID, pathID(r), req)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, t)
}

func (a *API) deleteTransactionHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteTransaction(r.Context(), currentUser(r).ID, pathID(r)); err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted"})
}

func (a *API) monthlySummaryHandler(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := queryInt(r, "year", now.Year())
	month := queryInt(r, "month", int(now.Month()))
	if month < 1 || month > 12 {
		respondWithError(w, http.StatusBadRequest, "month must be 1-12")
		return
	}

	sum, err := a.store.GetMonthlySummary(r.Context(), currentUser(r).ID, year, month)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sum)
}
