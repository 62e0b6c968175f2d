// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tribunal-app/tribunal/models"
)

// CheckVote decides whether a vote may be accepted right now and returns the
// effective role to stamp on it. Checks run in a fixed order and
// short-circuit on the first failure:
//
//  1. the session exists and is stored active
//  2. now falls inside [activated_at, activated_at+duration) — re-checked
//     here even though lazy finalization also catches expiry, because the
//     admissibility decision must not depend on that materialization timing
//  3. no prior vote exists for the pair
//  4. effective role is reviewer iff an assignment row exists
//
// The prior-vote check only shapes the caller-facing error; the vote table's
// primary key is the guard that actually holds under concurrency.
func CheckVote(db *sql.DB, sessionID, participantID string, now time.Time) (string, error) {
	stored, activatedAt, duration, err := readLifecycle(db, "session", sessionID)
	if err != nil {
		return "", err
	}

	if stored != models.StateActive || activatedAt == nil {
		return "", ErrNotActive
	}
	if now.Before(*activatedAt) {
		return "", ErrNotActive
	}
	if !now.Before(ExpiresAt(*activatedAt, duration)) {
		return "", ErrWindowExpired
	}

	var voted bool
	err = db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM vote WHERE session_id = $1 AND participant_id = $2)
	`, sessionID, participantID).Scan(&voted)
	if err != nil {
		return "", fmt.Errorf("check prior vote: %w", err)
	}
	if voted {
		return "", ErrAlreadyVoted
	}

	// A globally-tagged reviewer without an assignment for this session
	// votes as a member here.
	var assigned bool
	err = db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM reviewer_assignment WHERE session_id = $1 AND participant_id = $2)
	`, sessionID, participantID).Scan(&assigned)
	if err != nil {
		return "", fmt.Errorf("check reviewer assignment: %w", err)
	}

	if assigned {
		return models.RoleReviewer, nil
	}
	return models.RoleMember, nil
}

// CheckBallot is the eligibility decision for the anonymous quick-poll
// regime: same session-state and window rules, identity keyed on the salted
// device fingerprint, no role derivation.
func CheckBallot(db *sql.DB, pollID, fingerprintHash string, now time.Time) error {
	stored, activatedAt, duration, err := readLifecycle(db, "poll", pollID)
	if err != nil {
		return err
	}

	if stored != models.StateActive || activatedAt == nil {
		return ErrNotActive
	}
	if now.Before(*activatedAt) {
		return ErrNotActive
	}
	if !now.Before(ExpiresAt(*activatedAt, duration)) {
		return ErrWindowExpired
	}

	var voted bool
	err = db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM device_ballot WHERE poll_id = $1 AND fingerprint_hash = $2)
	`, pollID, fingerprintHash).Scan(&voted)
	if err != nil {
		return fmt.Errorf("check prior ballot: %w", err)
	}
	if voted {
		return ErrAlreadyVoted
	}
	return nil
}
