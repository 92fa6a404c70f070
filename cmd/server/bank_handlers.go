package main

import (
	"net/http"
	"time"

	"ezanafinance/internal/insights"
)

type bankConnectRequest struct {
	InstitutionName string `json:"institution_name" validate:"required"`
	BankToken       string `json:"bank_token" validate:"required"`
}

func (a *API) bankConnectHandler(w http.ResponseWriter, r *http.Request) {
	var req bankConnectRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := a.bank.Connect(r.Context(), currentUser(r).ID, req.InstitutionName, req.BankToken)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, summary)
}

func (a *API) bankConnectionsHandler(w http.ResponseWriter, r *http.Request) {
	conns, err := a.bank.Connections(r.Context(), currentUser(r).ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, conns)
}

func (a *API) bankImportHandler(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 30)
	if days < 1 || days > 365 {
		respondWithError(w, http.StatusBadRequest, "days must be 1-365")
		return
	}

	res, err := a.bank.ImportTransactions(r.Context(), currentUser(r).ID, pathID(r), days)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (a *API) bankDisconnectHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.bank.Disconnect(r.Context(), currentUser(r).ID, pathID(r)); err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "bank account disconnected"})
}

func (a *API) spendingAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 30)
	if days < 1 || days > 365 {
		respondWithError(w, http.StatusBadRequest, "days must be 1-365")
		return
	}

	since := time.Now().AddDate(0, 0, -days)
	rows, err := a.store.ExpensesSince(r.Context(), currentUser(r).ID, since)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	expenses := make([]insights.ExpenseRecord, 0, len(rows))
	for _, t := range rows {
		expenses = append(expenses, insights.ExpenseRecord{
			Category: t.Category,
			Amount:   t.Amount,
			Date:     t.Date,
		})
	}
	respondWithJSON(w, http.StatusOK, insights.AnalyzeSpending(expenses, days))
}

func (a *API) healthScoreHandler(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r).ID

	total, savings, err := a.store.BalanceTotals(r.Context(), userID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	income, expenses, err := a.store.IncomeExpenseTotals(r.Context(), userID, time.Now().AddDate(0, 0, -90))
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, insights.ScoreHealth(insights.HealthInput{
		TotalBalance:  total,
		EmergencyFund: savings,
		Income:        income,
		Expenses:      expenses,
	}))
}
