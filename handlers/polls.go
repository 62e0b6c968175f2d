// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tribunal-app/tribunal/auth"
	"github.com/tribunal-app/tribunal/cliparse"
	"github.com/tribunal-app/tribunal/middleware"
	"github.com/tribunal-app/tribunal/models"
	"github.com/tribunal-app/tribunal/session"
)

// PollHandler serves the quick-poll variant: same timed lifecycle as a
// session, but voters are anonymous and identified only by a salted device
// fingerprint. That identity is deliberately weaker - clearing state buys a
// new one - and accepted as such.
type PollHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPollHandler(db *sql.DB, cfg cliparse.Config) *PollHandler {
	return &PollHandler{db: db, cfg: cfg}
}

// Create handles POST /polls
func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Question == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question is required")
		return
	}
	if req.DurationSeconds <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "duration_seconds must be positive")
		return
	}

	pollID := uuid.NewString()
	linkToken := auth.GenerateLinkToken(pollID, h.cfg.LinkTokenSalt)

	_, err := h.db.Exec(`
		INSERT INTO poll (id, question, state, duration_seconds, link_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, pollID, req.Question, models.StateInactive, req.DurationSeconds, linkToken, time.Now())
	if err != nil {
		slog.Error("failed to insert poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", pollID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID:    pollID,
		LinkToken: linkToken,
	})
}

// Activate handles POST /polls/:id/activate
func (h *PollHandler) Activate(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	if err := session.ActivatePoll(h.db, pollID, time.Now()); err != nil {
		writeCoreError(w, err)
		return
	}

	slog.Info("poll activated", "poll_id", pollID)
	w.WriteHeader(http.StatusNoContent)
}

// Reset handles POST /polls/:id/reset
func (h *PollHandler) Reset(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	if err := session.ResetPoll(h.db, pollID); err != nil {
		writeCoreError(w, err)
		return
	}

	slog.Info("poll reset", "poll_id", pollID)
	w.WriteHeader(http.StatusNoContent)
}

// Get handles GET /polls/:token
func (h *PollHandler) Get(w http.ResponseWriter, r *http.Request) {
	linkToken := r.PathValue("token")
	if linkToken == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "link token is required")
		return
	}

	pollID, err := pollIDByToken(h.db, linkToken)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	now := time.Now()
	if _, err := session.FinalizePollIfExpired(h.db, pollID, now); err != nil {
		writeCoreError(w, err)
		return
	}

	poll, err := loadPoll(h.db, pollID)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollView{
		Poll: poll,
		RemainingSeconds: session.RemainingSeconds(
			poll.State, poll.ActivatedAt, poll.DurationSeconds, now),
	})
}

// SubmitBallot handles POST /polls/:token/ballots
// The device key comes from the X-Device-Key header; its salted hash is the
// voter's identity for the once-only rule.
func (h *PollHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	linkToken := r.PathValue("token")
	if linkToken == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "link token is required")
		return
	}

	deviceKey := r.Header.Get("X-Device-Key")
	if deviceKey == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-Device-Key header required")
		return
	}

	var req models.SubmitBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Score < models.ScoreMin || req.Score > models.ScoreMax {
		middleware.RejectionResponse(w, http.StatusBadRequest, models.ReasonInvalidScore,
			"Score must be between 0 and 10")
		return
	}

	pollID, err := pollIDByToken(h.db, linkToken)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	// Salted like the link tokens; the raw device key is never stored
	fingerprint := auth.HashFingerprint(deviceKey, h.cfg.LinkTokenSalt)

	if err := session.CastBallot(h.db, pollID, fingerprint, req.Score, time.Now()); err != nil {
		writeCoreError(w, err)
		return
	}

	slog.Info("ballot accepted", "poll_id", pollID)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitBallotResponse{
		Message: "Ballot accepted",
	})
}

// GetTally handles GET /polls/:token/tally
// Viewers poll this at sub-second intervals; it is read-only apart from the
// idempotent expiry check.
func (h *PollHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	linkToken := r.PathValue("token")
	if linkToken == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "link token is required")
		return
	}

	pollID, err := pollIDByToken(h.db, linkToken)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	if _, err := session.FinalizePollIfExpired(h.db, pollID, time.Now()); err != nil {
		writeCoreError(w, err)
		return
	}

	tally, err := session.ComputePollTally(h.db, pollID)
	if err != nil {
		slog.Error("failed to compute poll tally", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute tally")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tally)
}

func pollIDByToken(db *sql.DB, linkToken string) (string, error) {
	var pollID string
	err := db.QueryRow(`SELECT id FROM poll WHERE link_token = $1`, linkToken).Scan(&pollID)
	if err == sql.ErrNoRows {
		return "", session.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return pollID, nil
}

func loadPoll(db *sql.DB, pollID string) (models.Poll, error) {
	var p models.Poll
	var activatedAt sql.NullTime
	err := db.QueryRow(`
		SELECT id, question, state, activated_at, duration_seconds, link_token, created_at
		FROM poll WHERE id = $1
	`, pollID).Scan(
		&p.ID, &p.Question, &p.State, &activatedAt,
		&p.DurationSeconds, &p.LinkToken, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Poll{}, session.ErrNotFound
	}
	if err != nil {
		return models.Poll{}, err
	}
	if activatedAt.Valid {
		t := activatedAt.Time
		p.ActivatedAt = &t
	}
	return p, nil
}
