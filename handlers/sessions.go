// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tribunal-app/tribunal/auth"
	"github.com/tribunal-app/tribunal/cliparse"
	"github.com/tribunal-app/tribunal/middleware"
	"github.com/tribunal-app/tribunal/models"
	"github.com/tribunal-app/tribunal/session"
)

type SessionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewSessionHandler(db *sql.DB, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{db: db, cfg: cfg}
}

// Create handles POST /sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.CandidateName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_name is required")
		return
	}
	if req.DurationSeconds <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "duration_seconds must be positive")
		return
	}

	sessionID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate session ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	linkToken := auth.GenerateLinkToken(sessionID, h.cfg.LinkTokenSalt)

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO session (id, title, candidate_name, description, state, duration_seconds, link_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, sessionID, req.Title, req.CandidateName, req.Description,
		models.StateInactive, req.DurationSeconds, linkToken, time.Now())
	if err != nil {
		slog.Error("failed to insert session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	if err := insertMedia(tx, sessionID, req.MediaURLs); err != nil {
		slog.Error("failed to insert media", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("session created", "session_id", sessionID, "title", req.Title)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID: sessionID,
		LinkToken: linkToken,
	})
}

// Edit handles PUT /sessions/:id
// Non-transitioning; only inactive sessions are editable. The media list is
// replaced wholesale.
func (h *SessionHandler) Edit(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return
	}

	var req models.EditSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.DurationSeconds <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "duration_seconds must be positive")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE session SET title = $1, candidate_name = $2, description = $3, duration_seconds = $4
		WHERE id = $5 AND state = $6
	`, req.Title, req.CandidateName, req.Description, req.DurationSeconds,
		sessionID, models.StateInactive)
	if err != nil {
		slog.Error("failed to update session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to edit session")
		return
	}

	n, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to edit session")
		return
	}
	if n == 0 {
		// Diagnose on the open tx: the pool may have no free connection
		writeNotFoundOrConflict(w, tx, sessionID, "Only inactive sessions can be edited")
		return
	}

	if _, err := tx.Exec(`DELETE FROM session_media WHERE session_id = $1`, sessionID); err != nil {
		slog.Error("failed to clear media", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to edit session")
		return
	}
	if err := insertMedia(tx, sessionID, req.MediaURLs); err != nil {
		slog.Error("failed to insert media", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to edit session")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to edit session")
		return
	}

	slog.Info("session edited", "session_id", sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// Activate handles POST /sessions/:id/activate
func (h *SessionHandler) Activate(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return
	}

	if err := session.Activate(h.db, sessionID, time.Now()); err != nil {
		writeCoreError(w, err)
		return
	}

	slog.Info("session activated", "session_id", sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// Reset handles POST /sessions/:id/reset
// Destroys the session's votes and returns it to inactive.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return
	}

	if err := session.Reset(h.db, sessionID); err != nil {
		writeCoreError(w, err)
		return
	}

	slog.Info("session reset", "session_id", sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /sessions/:id
// Cascades to votes, media, and reviewer assignments.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return
	}

	res, err := h.db.Exec(`DELETE FROM session WHERE id = $1`, sessionID)
	if err != nil {
		slog.Error("failed to delete session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	n, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	if n == 0 {
		middleware.RejectionResponse(w, http.StatusNotFound, models.ReasonNotFound, "Session not found")
		return
	}

	slog.Info("session deleted", "session_id", sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// AssignReviewer handles POST /sessions/:id/reviewers
// Restricted to inactive sessions so a running vote never changes shape.
func (h *SessionHandler) AssignReviewer(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return
	}

	var req models.AssignReviewerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ParticipantID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "participant_id is required")
		return
	}

	if !h.requireInactive(w, sessionID, "Reviewer assignments can only change while inactive") {
		return
	}

	var participantExists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM participant WHERE id = $1)
	`, req.ParticipantID).Scan(&participantExists)
	if err != nil {
		slog.Error("failed to query participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !participantExists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Participant not found")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO reviewer_assignment (session_id, participant_id, assigned_at)
		VALUES ($1, $2, $3)
	`, sessionID, req.ParticipantID, time.Now())
	if err != nil {
		// At most one assignment row per pair; re-assigning is a conflict
		if isUniqueViolationMessage(err.Error()) {
			middleware.ErrorResponse(w, http.StatusConflict, "Participant is already assigned")
			return
		}
		slog.Error("failed to insert assignment", "error", err, "session_id", sessionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to assign reviewer")
		return
	}

	slog.Info("reviewer assigned", "session_id", sessionID, "participant_id", req.ParticipantID)
	w.WriteHeader(http.StatusCreated)
}

// RevokeReviewer handles DELETE /sessions/:id/reviewers/:participantId
// Historical votes keep the role they were cast under.
func (h *SessionHandler) RevokeReviewer(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	participantID := r.PathValue("participantId")
	if sessionID == "" || participantID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id and participant id are required")
		return
	}

	if !h.requireInactive(w, sessionID, "Reviewer assignments can only change while inactive") {
		return
	}

	res, err := h.db.Exec(`
		DELETE FROM reviewer_assignment WHERE session_id = $1 AND participant_id = $2
	`, sessionID, participantID)
	if err != nil {
		slog.Error("failed to delete assignment", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to revoke reviewer")
		return
	}

	n, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to revoke reviewer")
		return
	}
	if n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Assignment not found")
		return
	}

	slog.Info("reviewer revoked", "session_id", sessionID, "participant_id", participantID)
	w.WriteHeader(http.StatusNoContent)
}

// GetAdmin handles GET /sessions/:id/admin
// Owner-facing detail including assignments and vote count. Applies the
// lazy expiry check like every authoritative read.
func (h *SessionHandler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return
	}

	if _, err := session.FinalizeIfExpired(h.db, sessionID, time.Now()); err != nil {
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

	rows, err := h.db.Query(`
		SELECT ra.session_id, ra.participant_id, p.name, ra.assigned_at
		FROM reviewer_assignment ra
		JOIN participant p ON ra.participant_id = p.id
		WHERE ra.session_id = $1
		ORDER BY ra.assigned_at
	`, sessionID)
	if err != nil {
		slog.Error("failed to query assignments", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	reviewers := []models.ReviewerAssignment{}
	for rows.Next() {
		var ra models.ReviewerAssignment
		if err := rows.Scan(&ra.SessionID, &ra.ParticipantID, &ra.Name, &ra.AssignedAt); err != nil {
			slog.Error("failed to scan assignment", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		reviewers = append(reviewers, ra)
	}

	var voteCount int
	err = h.db.QueryRow(`SELECT COUNT(*) FROM vote WHERE session_id = $1`, sessionID).Scan(&voteCount)
	if err != nil {
		slog.Error("failed to count votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SessionAdminView{
		Session:   sess,
		Media:     media,
		Reviewers: reviewers,
		VoteCount: voteCount,
	})
}

// requireInactive writes an error and returns false unless the session
// exists and is inactive.
func (h *SessionHandler) requireInactive(w http.ResponseWriter, sessionID, conflictMsg string) bool {
	var state string
	err := h.db.QueryRow(`SELECT state FROM session WHERE id = $1`, sessionID).Scan(&state)
	if err == sql.ErrNoRows {
		middleware.RejectionResponse(w, http.StatusNotFound, models.ReasonNotFound, "Session not found")
		return false
	}
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return false
	}
	if state != models.StateInactive {
		middleware.RejectionResponse(w, http.StatusConflict, models.ReasonBadTransition, conflictMsg)
		return false
	}
	return true
}

// writeNotFoundOrConflict resolves a guarded UPDATE that matched nothing.
// q must be the open transaction when one is in flight, never the outer
// handle, or the lookup can starve waiting for a pooled connection the
// transaction itself holds.
func writeNotFoundOrConflict(w http.ResponseWriter, q rowQuerier, sessionID, conflictMsg string) {
	var exists bool
	err := q.QueryRow(`SELECT EXISTS(SELECT 1 FROM session WHERE id = $1)`, sessionID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.RejectionResponse(w, http.StatusNotFound, models.ReasonNotFound, "Session not found")
		return
	}
	middleware.RejectionResponse(w, http.StatusConflict, models.ReasonBadTransition, conflictMsg)
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

type rowQuerier interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

func insertMedia(tx execer, sessionID string, urls []string) error {
	for i, url := range urls {
		mediaID, err := auth.GenerateID(12)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			INSERT INTO session_media (id, session_id, position, url)
			VALUES ($1, $2, $3, $4)
		`, mediaID, sessionID, i, url)
		if err != nil {
			return err
		}
	}
	return nil
}

func loadSession(db *sql.DB, sessionID string) (models.Session, error) {
	var s models.Session
	var activatedAt sql.NullTime
	err := db.QueryRow(`
		SELECT id, title, candidate_name, description, state, activated_at,
		       duration_seconds, link_token, created_at
		FROM session WHERE id = $1
	`, sessionID).Scan(
		&s.ID, &s.Title, &s.CandidateName, &s.Description, &s.State,
		&activatedAt, &s.DurationSeconds, &s.LinkToken, &s.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Session{}, session.ErrNotFound
	}
	if err != nil {
		return models.Session{}, err
	}
	if activatedAt.Valid {
		t := activatedAt.Time
		s.ActivatedAt = &t
	}
	return s, nil
}

func loadMedia(db *sql.DB, sessionID string) ([]models.MediaItem, error) {
	rows, err := db.Query(`
		SELECT id, session_id, position, url
		FROM session_media WHERE session_id = $1
		ORDER BY position
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	media := []models.MediaItem{}
	for rows.Next() {
		var m models.MediaItem
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Position, &m.URL); err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}

func isUniqueViolationMessage(msg string) bool {
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
