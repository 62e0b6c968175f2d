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
)

type ParticipantHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewParticipantHandler(db *sql.DB, cfg cliparse.Config) *ParticipantHandler {
	return &ParticipantHandler{db: db, cfg: cfg}
}

// Create handles POST /participants
// Provisions a participant with a generated access code. The base role is a
// global default; the effective role for any given session still depends on
// a reviewer assignment existing there.
func (h *ParticipantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateParticipantRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.BaseRole != models.RoleReviewer && req.BaseRole != models.RoleMember {
		middleware.ErrorResponse(w, http.StatusBadRequest, "base_role must be reviewer or member")
		return
	}

	participantID := uuid.NewString()

	// Access codes are random; the UNIQUE column catches the astronomically
	// unlikely collision, and we retry once rather than reasoning about it.
	for attempt := 0; ; attempt++ {
		accessCode, err := auth.GenerateAccessCode()
		if err != nil {
			slog.Error("failed to generate access code", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create participant")
			return
		}

		_, err = h.db.Exec(`
			INSERT INTO participant (id, name, access_code, base_role, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, participantID, req.Name, accessCode, req.BaseRole, time.Now())
		if err == nil {
			slog.Info("participant created", "participant_id", participantID, "base_role", req.BaseRole)
			middleware.JSONResponse(w, http.StatusCreated, models.CreateParticipantResponse{
				ParticipantID: participantID,
				AccessCode:    accessCode,
			})
			return
		}
		if isUniqueViolationMessage(err.Error()) && attempt == 0 {
			continue
		}
		slog.Error("failed to insert participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create participant")
		return
	}
}

// List handles GET /participants
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, name, access_code, base_role, created_at
		FROM participant ORDER BY created_at, name
	`)
	if err != nil {
		slog.Error("failed to query participants", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.AccessCode, &p.BaseRole, &p.CreatedAt); err != nil {
			slog.Error("failed to scan participant", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		participants = append(participants, p)
	}

	middleware.JSONResponse(w, http.StatusOK, participants)
}
