package main

import (
	"net/http"

	"ezanafinance/internal/store"
)

func (a *API) createAccountHandler(w http.ResponseWriter, r *http.Request) {
	var req store.AccountCreate
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := a.store.CreateAccount(r.Context(), currentUser(r).ID, req)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, account)
}

func (a *API) listAccountsHandler(w http.ResponseWriter, r *http.Request) {
	accounts, err := a.store.ListAccounts(r.Context(), currentUser(r).ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, accounts)
}

func (a *API) getAccountHandler(w http.ResponseWriter, r *http.Request) {
	account, err := a.store.GetAccount(r.Context(), currentUser(r).ID, pathID(r))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, account)
}

func (a *API) updateAccountHandler(w http.ResponseWriter, r *http.Request) {
	var req store.AccountUpdate
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := a.store.UpdateAccount(r.Context(), currentUser(r).ID, pathID(r), req)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, account)
}

func (a *API) deleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteAccount(r.Context(), currentUser(r).ID, pathID(r)); err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}
