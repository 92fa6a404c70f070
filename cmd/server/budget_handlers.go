package main

import (
	"net/http"
	"time"

	"ezanafinance/internal/insights"
	"ezanafinance/internal/store"
)

func (a *API) createBudgetHandler(w http.ResponseWriter, r *http.Request) {
	var req store.BudgetCreate
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := a.store.CreateBudget(r.Context(), currentUser(r).ID, req)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, b)
}

func (a *API) listBudgetsHandler(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") != "false"
	budgets, err := a.store.ListBudgets(r.Context(), currentUser(r).ID, activeOnly)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, budgets)
}

func (a *API) getBudgetHandler(w http.ResponseWriter, r *http.Request) {
	b, err := a.store.GetBudget(r.Context(), currentUser(r).ID, pathID(r))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, b)
}

func (a *API) updateBudgetHandler(w http.ResponseWriter, r *http.Request) {
	var req store.BudgetUpdate
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := a.store.UpdateBudget(r.Context(), currentUser(r).ID, pathID(r), req)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, b)
}

func (a *API) deleteBudgetHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteBudget(r.Context(), currentUser(r).ID, pathID(r)); err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "budget deleted"})
}

func (a *API) budgetsOverviewHandler(w http.ResponseWriter, r *http.Request) {
	budgets, err := a.store.ActiveBudgets(r.Context(), currentUser(r).ID, time.Now())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	facts := make([]insights.BudgetFacts, 0, len(budgets))
	for _, b := range budgets {
		facts = append(facts, insights.BudgetFacts{
			ID:       b.ID,
			Name:     b.Name,
			Category: b.Category,
			Amount:   b.Amount,
			Spent:    b.Spent,
			Period:   b.Period,
		})
	}
	respondWithJSON(w, http.StatusOK, insights.BuildOverview(facts))
}
