// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tribunal-app/tribunal/middleware"
	"github.com/tribunal-app/tribunal/models"
	"github.com/tribunal-app/tribunal/session"
)

// writeCoreError maps a session-core rejection onto an HTTP status and a
// machine-readable reason. Unrecognized errors are store failures: logged
// and surfaced as retryable 500s, never swallowed.
func writeCoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		middleware.RejectionResponse(w, http.StatusNotFound, models.ReasonNotFound, "Session not found")
	case errors.Is(err, session.ErrUnknownAccessCode):
		middleware.RejectionResponse(w, http.StatusUnauthorized, models.ReasonNotFound, "Unknown access code")
	case errors.Is(err, session.ErrNotActive):
		middleware.RejectionResponse(w, http.StatusConflict, models.ReasonNotActive, "Session is not accepting votes")
	case errors.Is(err, session.ErrWindowExpired):
		middleware.RejectionResponse(w, http.StatusConflict, models.ReasonWindowExpired, "Voting window has expired")
	case errors.Is(err, session.ErrAlreadyVoted):
		middleware.RejectionResponse(w, http.StatusConflict, models.ReasonAlreadyVoted, "Already voted")
	case errors.Is(err, session.ErrInvalidScore):
		middleware.RejectionResponse(w, http.StatusBadRequest, models.ReasonInvalidScore, "Score must be between 0 and 10")
	case errors.Is(err, session.ErrBadTransition):
		middleware.RejectionResponse(w, http.StatusConflict, models.ReasonBadTransition, "Not allowed in the current state")
	default:
		slog.Error("store failure", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}
