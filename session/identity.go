// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"database/sql"
	"fmt"

	"github.com/tribunal-app/tribunal/models"
)

// ResolveParticipant looks up a participant by exact access-code match.
// Pure lookup, no side effects. The anonymous regime needs no resolver: a
// salted device fingerprint is its own identity key.
func ResolveParticipant(db *sql.DB, accessCode string) (models.Participant, error) {
	var p models.Participant
	err := db.QueryRow(`
		SELECT id, name, access_code, base_role, created_at
		FROM participant WHERE access_code = $1
	`, accessCode).Scan(&p.ID, &p.Name, &p.AccessCode, &p.BaseRole, &p.CreatedAt)

	if err == sql.ErrNoRows {
		return models.Participant{}, ErrUnknownAccessCode
	}
	if err != nil {
		return models.Participant{}, fmt.Errorf("resolve participant: %w", err)
	}
	return p, nil
}
