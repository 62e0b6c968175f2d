// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/tribunal-app/tribunal/auth"
	"github.com/tribunal-app/tribunal/cliparse"
	"github.com/tribunal-app/tribunal/middleware"
	"github.com/tribunal-app/tribunal/models"
)

type AuthHandler struct {
	cfg cliparse.Config
}

func NewAuthHandler(cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// Login handles POST /auth/login
// Exchanges the configured owner key for a bearer token. Every
// administrative operation carries that token explicitly; there is no
// ambient "current admin" state.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := auth.ValidateOwnerKey(req.OwnerKey, h.cfg.OwnerKey); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid owner key")
		return
	}

	token, err := auth.IssueOwnerToken(h.cfg.TokenSecret)
	if err != nil {
		slog.Error("failed to issue owner token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	slog.Info("owner logged in")

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{Token: token})
}
