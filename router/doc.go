// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Tribunal API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Owner login (public):

	POST /auth/login - Exchange the owner key for a bearer token

Session management (owner, requires Authorization: Bearer):

	POST   /sessions                            - Create session
	PUT    /sessions/{id}                       - Edit session (inactive only)
	POST   /sessions/{id}/activate              - Start the voting window
	POST   /sessions/{id}/reset                 - Back to inactive, votes destroyed
	DELETE /sessions/{id}                       - Delete session and its votes
	POST   /sessions/{id}/reviewers             - Assign reviewer role
	DELETE /sessions/{id}/reviewers/{participantId} - Revoke reviewer role
	GET    /sessions/{id}/admin                 - Full admin view

Participant provisioning (owner):

	POST /participants - Create participant with generated access code
	GET  /participants - List participants

Voting and results (public, uses link token):

	GET  /sessions/{token}       - Session view with countdown
	POST /sessions/{token}/votes - Submit vote (access code + score)
	GET  /sessions/{token}/tally - Weighted tally

Quick polls (admin routes owner-gated, voting public):

	POST /polls                 - Create quick poll
	POST /polls/{id}/activate   - Start the window
	POST /polls/{id}/reset      - Back to inactive, ballots destroyed
	GET  /polls/{token}         - Poll view
	POST /polls/{token}/ballots - Submit anonymous ballot (X-Device-Key)
	GET  /polls/{token}/tally   - Average and count

# Handler Initialization

The router creates handler instances with dependency injection:

	sessionHandler := handlers.NewSessionHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	pollHandler := handlers.NewPollHandler(db, cfg)

All handlers receive the database connection and configuration.
*/
package router
