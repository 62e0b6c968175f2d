// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tribunal-app/tribunal/models"
)

// Activate transitions a session from inactive to active and stamps the
// activation instant. Activation is irreversible outside of Reset.
func Activate(db *sql.DB, sessionID string, now time.Time) error {
	res, err := db.Exec(`
		UPDATE session SET state = $1, activated_at = $2
		WHERE id = $3 AND state = $4
	`, models.StateActive, now, sessionID, models.StateInactive)
	if err != nil {
		return fmt.Errorf("activate session: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("activate session: %w", err)
	}
	if n == 0 {
		return transitionFailure(db, "session", sessionID)
	}
	return nil
}

// Reset returns an active or finalized session to inactive, destroying its
// votes. This is the only transition that deletes votes.
func Reset(db *sql.DB, sessionID string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE session SET state = $1, activated_at = NULL
		WHERE id = $2 AND state IN ($3, $4)
	`, models.StateInactive, sessionID, models.StateActive, models.StateFinalized)
	if err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	if n == 0 {
		// Diagnose on the open tx: the pool may have no free connection
		return transitionFailure(tx, "session", sessionID)
	}

	if _, err := tx.Exec(`DELETE FROM vote WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("reset session votes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	return nil
}

// FinalizeIfExpired materializes time expiry for a session and returns the
// effective state. Idempotent: observing expiry twice is a no-op, and
// concurrent observers race harmlessly on the same guarded UPDATE.
func FinalizeIfExpired(db *sql.DB, sessionID string, now time.Time) (string, error) {
	stored, activatedAt, duration, err := readLifecycle(db, "session", sessionID)
	if err != nil {
		return "", err
	}

	effective := EffectiveState(stored, activatedAt, duration, now)
	if effective == models.StateFinalized && stored == models.StateActive {
		_, err := db.Exec(`
			UPDATE session SET state = $1 WHERE id = $2 AND state = $3
		`, models.StateFinalized, sessionID, models.StateActive)
		if err != nil {
			return "", fmt.Errorf("finalize session: %w", err)
		}
	}
	return effective, nil
}

// ActivatePoll mirrors Activate for the quick-poll variant.
func ActivatePoll(db *sql.DB, pollID string, now time.Time) error {
	res, err := db.Exec(`
		UPDATE poll SET state = $1, activated_at = $2
		WHERE id = $3 AND state = $4
	`, models.StateActive, now, pollID, models.StateInactive)
	if err != nil {
		return fmt.Errorf("activate poll: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("activate poll: %w", err)
	}
	if n == 0 {
		return transitionFailure(db, "poll", pollID)
	}
	return nil
}

// ResetPoll mirrors Reset for the quick-poll variant, destroying its
// device ballots.
func ResetPoll(db *sql.DB, pollID string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("reset poll: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE poll SET state = $1, activated_at = NULL
		WHERE id = $2 AND state IN ($3, $4)
	`, models.StateInactive, pollID, models.StateActive, models.StateFinalized)
	if err != nil {
		return fmt.Errorf("reset poll: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reset poll: %w", err)
	}
	if n == 0 {
		return transitionFailure(tx, "poll", pollID)
	}

	if _, err := tx.Exec(`DELETE FROM device_ballot WHERE poll_id = $1`, pollID); err != nil {
		return fmt.Errorf("reset poll ballots: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reset poll: %w", err)
	}
	return nil
}

// FinalizePollIfExpired mirrors FinalizeIfExpired for the quick-poll variant.
func FinalizePollIfExpired(db *sql.DB, pollID string, now time.Time) (string, error) {
	stored, activatedAt, duration, err := readLifecycle(db, "poll", pollID)
	if err != nil {
		return "", err
	}

	effective := EffectiveState(stored, activatedAt, duration, now)
	if effective == models.StateFinalized && stored == models.StateActive {
		_, err := db.Exec(`
			UPDATE poll SET state = $1 WHERE id = $2 AND state = $3
		`, models.StateFinalized, pollID, models.StateActive)
		if err != nil {
			return "", fmt.Errorf("finalize poll: %w", err)
		}
	}
	return effective, nil
}

// readLifecycle loads the three columns every lifecycle decision needs.
// table is one of the two fixed literals "session" or "poll", never caller
// input.
func readLifecycle(db *sql.DB, table, id string) (string, *time.Time, int, error) {
	var stored string
	var activatedAt sql.NullTime
	var duration int

	err := db.QueryRow(
		`SELECT state, activated_at, duration_seconds FROM `+table+` WHERE id = $1`, id,
	).Scan(&stored, &activatedAt, &duration)
	if err == sql.ErrNoRows {
		return "", nil, 0, ErrNotFound
	}
	if err != nil {
		return "", nil, 0, fmt.Errorf("read %s lifecycle: %w", table, err)
	}

	var at *time.Time
	if activatedAt.Valid {
		t := activatedAt.Time
		at = &t
	}
	return stored, at, duration, nil
}

// rowQuerier is the single-row read surface shared by *sql.DB and *sql.Tx.
// Callers holding an open transaction must pass it here rather than the
// outer handle, which may have no free connection left in the pool.
type rowQuerier interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

// transitionFailure distinguishes "no such row" from "row in the wrong
// state" after a guarded UPDATE matched nothing.
func transitionFailure(q rowQuerier, table, id string) error {
	var exists bool
	err := q.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM `+table+` WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check %s existence: %w", table, err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrBadTransition
}
