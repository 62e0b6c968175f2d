// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Tribunal API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AuthHandler: owner login
  - SessionHandler: session lifecycle and reviewer assignments (owner)
  - ParticipantHandler: participant provisioning (owner)
  - VotingHandler: coded vote submission (public)
  - ResultsHandler: session view and tally (public)
  - PollHandler: the anonymous quick-poll variant

Handlers are created via constructor functions that accept *sql.DB and Config:

	sessionHandler := handlers.NewSessionHandler(db, cfg)

# Session Lifecycle

Sessions progress inactive → active → finalized (time expiry), with reset
back to inactive as the only escape from finalized:

	POST   /sessions                → Create
	PUT    /sessions/{id}           → Edit (inactive only)
	POST   /sessions/{id}/activate  → Activate
	POST   /sessions/{id}/reset     → Reset (destroys votes)
	DELETE /sessions/{id}           → Delete (cascades)
	POST   /sessions/{id}/reviewers → AssignReviewer (inactive only)
	GET    /sessions/{id}/admin     → GetAdmin

All of the above require an owner bearer token.

# Voting Flow

Voters reach a session through its link token:

	GET  /sessions/{token}       → session view + countdown
	POST /sessions/{token}/votes → submit vote (access code + score)
	GET  /sessions/{token}/tally → live tally

Every read applies the lazy expiry check first, so stored state is never
trusted stale. Vote rejections carry a reason field: session_not_active,
window_expired, already_voted, invalid_score.

# Quick Polls

The anonymous variant uses the X-Device-Key header in place of an access
code:

	POST /polls                  → Create (owner)
	POST /polls/{id}/activate    → Activate (owner)
	POST /polls/{id}/reset       → Reset (owner)
	GET  /polls/{token}          → poll view
	POST /polls/{token}/ballots  → submit ballot
	GET  /polls/{token}/tally    → average + count
*/
package handlers
