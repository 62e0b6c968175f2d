// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/tribunal-app/tribunal/cliparse"
	"github.com/tribunal-app/tribunal/handlers"
	"github.com/tribunal-app/tribunal/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg)
	sessionHandler := handlers.NewSessionHandler(db, cfg)
	participantHandler := handlers.NewParticipantHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	pollHandler := handlers.NewPollHandler(db, cfg)

	owner := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireOwner(cfg.TokenSecret, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Owner login
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(authHandler.Login))

	// Session management (owner operations)
	mux.HandleFunc("POST /sessions", owner(sessionHandler.Create))
	mux.HandleFunc("PUT /sessions/{id}", owner(sessionHandler.Edit))
	mux.HandleFunc("POST /sessions/{id}/activate", owner(sessionHandler.Activate))
	mux.HandleFunc("POST /sessions/{id}/reset", owner(sessionHandler.Reset))
	mux.HandleFunc("DELETE /sessions/{id}", owner(sessionHandler.Delete))
	mux.HandleFunc("POST /sessions/{id}/reviewers", owner(sessionHandler.AssignReviewer))
	mux.HandleFunc("DELETE /sessions/{id}/reviewers/{participantId}", owner(sessionHandler.RevokeReviewer))
	mux.HandleFunc("GET /sessions/{id}/admin", owner(sessionHandler.GetAdmin))

	// Participant provisioning (owner operations)
	mux.HandleFunc("POST /participants", owner(participantHandler.Create))
	mux.HandleFunc("GET /participants", owner(participantHandler.List))

	// Voting and results (public, by link token)
	mux.HandleFunc("GET /sessions/{token}", middleware.WithLogging(resultsHandler.GetSession))
	mux.HandleFunc("POST /sessions/{token}/votes", middleware.WithLogging(votingHandler.SubmitVote))
	mux.HandleFunc("GET /sessions/{token}/tally", middleware.WithLogging(resultsHandler.GetTally))

	// Quick polls
	mux.HandleFunc("POST /polls", owner(pollHandler.Create))
	mux.HandleFunc("POST /polls/{id}/activate", owner(pollHandler.Activate))
	mux.HandleFunc("POST /polls/{id}/reset", owner(pollHandler.Reset))
	mux.HandleFunc("GET /polls/{token}", middleware.WithLogging(pollHandler.Get))
	mux.HandleFunc("POST /polls/{token}/ballots", middleware.WithLogging(pollHandler.SubmitBallot))
	mux.HandleFunc("GET /polls/{token}/tally", middleware.WithLogging(pollHandler.GetTally))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tribunal API v1"))
	})

	return mux
}
