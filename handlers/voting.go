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

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg}
}

// SubmitVote handles POST /sessions/:token/votes
// The coded identity regime: the caller presents an access code, the
// resolved participant gets exactly one vote inside the window, stamped
// with their effective role for this session.
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	linkToken := r.PathValue("token")
	if linkToken == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "link token is required")
		return
	}

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.AccessCode == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "access_code is required")
		return
	}

	// Validate before touching identity or the store
	if req.Score < models.ScoreMin || req.Score > models.ScoreMax {
		middleware.RejectionResponse(w, http.StatusBadRequest, models.ReasonInvalidScore,
			"Score must be between 0 and 10")
		return
	}

	sessionID, err := sessionIDByToken(h.db, linkToken)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	participant, err := session.ResolveParticipant(h.db, req.AccessCode)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	role, err := session.CastVote(h.db, sessionID, participant.ID, req.Score, time.Now())
	if err != nil {
		writeCoreError(w, err)
		return
	}

	slog.Info("vote accepted",
		"session_id", sessionID,
		"participant_id", participant.ID,
		"role", role,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitVoteResponse{
		Role:    role,
		Message: "Vote accepted",
	})
}

// sessionIDByToken resolves a public link token to its session.
func sessionIDByToken(db *sql.DB, linkToken string) (string, error) {
	var sessionID string
	err := db.QueryRow(`SELECT id FROM session WHERE link_token = $1`, linkToken).Scan(&sessionID)
	if err == sql.ErrNoRows {
		return "", session.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return sessionID, nil
}
