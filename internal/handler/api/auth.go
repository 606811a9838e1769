// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"quill/internal/auth"
	"quill/internal/middleware"
	"quill/internal/model"
	"quill/internal/store"
)

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

// Register creates a new account with role "user" and returns a signed
// token alongside the public user fields.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	details := make(map[string]string)
	if strings.TrimSpace(req.Name) == "" {
		details["name"] = "Name is required"
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		details["email"] = "Email is required"
	} else if !strings.Contains(email, "@") {
		details["email"] = "Email is invalid"
	}
	if req.Password == "" {
		details["password"] = "Password is required"
	} else if len(req.Password) < auth.MinPasswordLength {
		details["password"] = "Password must be at least 6 characters"
	}
	if req.Password != req.ConfirmPassword {
		details["confirmPassword"] = "Passwords do not match"
	}
	if len(details) > 0 {
		WriteValidationError(w, "Validation failed", details)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}

	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			WriteError(w, http.StatusConflict, "Email is already registered")
			return
		}
		h.writeInternalError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, authResponse{Token: token, User: user.Public()})
}

// Login verifies credentials and returns a signed token. Unknown emails
// and wrong passwords get the same 401 message.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	details := make(map[string]string)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		details["email"] = "Email is required"
	}
	if req.Password == "" {
		details["password"] = "Password is required"
	}
	if len(details) > 0 {
		WriteValidationError(w, "Validation failed", details)
		return
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.writeInternalError(w, r, err)
		return
	}

	ok, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, authResponse{Token: token, User: user.Public()})
}

// Me returns the authenticated caller's public fields.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.queries.GetUserByID(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteError(w, http.StatusUnauthorized, "User no longer exists")
			return
		}
		h.writeInternalError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]model.PublicUser{"user": user.Public()})
}

// Logout acknowledges the request. Tokens are stateless, so the client
// discards its copy and nothing happens server-side.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
