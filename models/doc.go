// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Session: a timed voting session with lifecycle state
  - Participant: a coded voter with a global base role
  - ReviewerAssignment: per-session reviewer designation
  - SessionTally: recomputed score, band, and per-reviewer breakdown
  - Poll / PollTally: the quick-poll (device fingerprint) variant

# Constants

Lifecycle states:

	StateInactive  = "inactive"
	StateActive    = "active"
	StateFinalized = "finalized"

Roles:

	RoleReviewer = "reviewer"
	RoleMember   = "member"

Color bands and their thresholds on the final score:

	BandGreen  ≥ 30
	BandYellow ≥ 15
	BandRed    otherwise

Rejection reasons (returned verbatim in error bodies):

	not_found, session_not_active, window_expired,
	already_voted, invalid_score, invalid_transition
*/
package models
