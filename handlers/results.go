// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/tribunal-app/tribunal/cliparse"
	"github.com/tribunal-app/tribunal/middleware"
	"github.com/tribunal-app/tribunal/models"
	"github.com/tribunal-app/tribunal/session"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg}
}

// GetSession handles GET /sessions/:token
// The public read model. Viewers poll this on a short interval; the only
// side effect is the idempotent lazy expiry check, so arbitrary frequency
// is fine.
func (h *ResultsHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	linkToken := r.PathValue("token")
	if linkToken == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "link token is required")
		return
	}

	sessionID, err := sessionIDByToken(h.db, linkToken)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	now := time.Now()
	if _, err := session.FinalizeIfExpired(h.db, sessionID, now); err != nil {
		writeCoreError(w, err)
		return
	}

	sess, err := loadSession(h.db, sessionID)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	media, err := loadMedia(h.db, sessionID)
	if err != nil {
		slog.Error("failed to query media", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SessionView{
		Session: sess,
		Media:   media,
		RemainingSeconds: session.RemainingSeconds(
			sess.State, sess.ActivatedAt, sess.DurationSeconds, now),
	})
}

// GetTally handles GET /sessions/:token/tally
// Always a full recompute over the vote log; read-only and safe at any
// polling frequency. The tally is live while the session runs and permanent
// once finalized (barring reset).
func (h *ResultsHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	linkToken := r.PathValue("token")
	if linkToken == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "link token is required")
		return
	}

	sessionID, err := sessionIDByToken(h.db, linkToken)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	if _, err := session.FinalizeIfExpired(h.db, sessionID, time.Now()); err != nil {
		writeCoreError(w, err)
		return
	}

	tally, err := session.ComputeTally(h.db, sessionID)
	if err != nil {
		slog.Error("failed to compute tally", "error", err, "session_id", sessionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute tally")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tally)
}
