// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tribunal-app/tribunal/models"
)

// CastVote validates, authorizes, and appends a vote, returning the role it
// was stamped with. The write is a single INSERT: either the row exists
// afterwards or it doesn't, so a submission can never partially apply. No
// write happens before the eligibility check passes.
func CastVote(db *sql.DB, sessionID, participantID string, score float64, now time.Time) (string, error) {
	if score < models.ScoreMin || score > models.ScoreMax {
		return "", ErrInvalidScore
	}

	role, err := CheckVote(db, sessionID, participantID, now)
	if err != nil {
		return "", err
	}

	_, err = db.Exec(`
		INSERT INTO vote (session_id, participant_id, score, role_at_vote, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, sessionID, participantID, score, role, now)
	if err != nil {
		// Two concurrent submissions can both pass the existence check;
		// the primary key rejects the loser, which to the caller is the
		// same outcome as having voted already.
		if isUniqueViolation(err) {
			return "", ErrAlreadyVoted
		}
		return "", fmt.Errorf("insert vote: %w", err)
	}
	return role, nil
}

// CastBallot is the accept path for the anonymous quick-poll regime.
func CastBallot(db *sql.DB, pollID, fingerprintHash string, score float64, now time.Time) error {
	if score < models.ScoreMin || score > models.ScoreMax {
		return ErrInvalidScore
	}

	if err := CheckBallot(db, pollID, fingerprintHash, now); err != nil {
		return err
	}

	_, err := db.Exec(`
		INSERT INTO device_ballot (poll_id, fingerprint_hash, score, cast_at)
		VALUES ($1, $2, $3, $4)
	`, pollID, fingerprintHash, score, now)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyVoted
		}
		return fmt.Errorf("insert ballot: %w", err)
	}
	return nil
}

// isUniqueViolation matches the constraint-violation text of both supported
// drivers (modernc sqlite and lib/pq).
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
