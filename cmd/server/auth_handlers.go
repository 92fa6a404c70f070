package main

import (
	"errors"
	"net/http"
	"time"

	"ezanafinance/internal/store"
)

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *store.User `json:"user"`
}

func (a *API) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.store.Register(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			respondWithError(w, http.StatusBadRequest, "email already registered")
			return
		}
		respondStoreError(w, err)
		return
	}

	sess, err := a.store.CreateSession(r.Context(), user.ID, a.sessionTTL())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, sessionResponse{Token: sess.Token, ExpiresAt: sess.ExpiresAt, User: user})
}

func (a *API) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.store.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		respondStoreError(w, err)
		return
	}

	sess, err := a.store.CreateSession(r.Context(), user.ID, a.sessionTTL())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sessionResponse{Token: sess.Token, ExpiresAt: sess.ExpiresAt, User: user})
}

func (a *API) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteSession(r.Context(), bearerToken(r)); err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (a *API) meHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := a.store.GetUserProfile(r.Context(), currentUser(r).ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, doc)
}

func (a *API) sessionTTL() time.Duration {
	return time.Duration(a.cfg.Auth.SessionTTLHours) * time.Hour
}
