// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Timestamps are always written by application code so the DDL works
// unchanged on both sqlite and postgres.
const schema = `
-- Voting sessions
CREATE TABLE IF NOT EXISTS session (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    candidate_name TEXT NOT NULL,
    description TEXT,
    state TEXT NOT NULL DEFAULT 'inactive' CHECK (state IN ('inactive', 'active', 'finalized')),
    activated_at TIMESTAMP,
    duration_seconds INTEGER NOT NULL CHECK (duration_seconds > 0),
    link_token TEXT UNIQUE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_link_token ON session(link_token);
CREATE INDEX IF NOT EXISTS idx_session_state ON session(state);

-- Ordered media attachments per session
CREATE TABLE IF NOT EXISTS session_media (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    url TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_media_session ON session_media(session_id);

-- Participants (coded identity regime)
CREATE TABLE IF NOT EXISTS participant (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    access_code TEXT NOT NULL UNIQUE,
    base_role TEXT NOT NULL CHECK (base_role IN ('reviewer', 'member')),
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_participant_access_code ON participant(access_code);

-- Per-session reviewer designations
CREATE TABLE IF NOT EXISTS reviewer_assignment (
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    participant_id TEXT NOT NULL REFERENCES participant(id) ON DELETE CASCADE,
    assigned_at TIMESTAMP NOT NULL,
    PRIMARY KEY (session_id, participant_id)
);

-- Votes. The primary key is the authoritative once-per-participant guard;
-- role_at_vote is stamped at cast time and never re-derived.
CREATE TABLE IF NOT EXISTS vote (
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    participant_id TEXT NOT NULL REFERENCES participant(id) ON DELETE CASCADE,
    score REAL NOT NULL CHECK (score >= 0 AND score <= 10),
    role_at_vote TEXT NOT NULL CHECK (role_at_vote IN ('reviewer', 'member')),
    cast_at TIMESTAMP NOT NULL,
    PRIMARY KEY (session_id, participant_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_session ON vote(session_id);

-- Quick polls (anonymous device identity regime)
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    state TEXT NOT NULL DEFAULT 'inactive' CHECK (state IN ('inactive', 'active', 'finalized')),
    activated_at TIMESTAMP,
    duration_seconds INTEGER NOT NULL CHECK (duration_seconds > 0),
    link_token TEXT UNIQUE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_poll_link_token ON poll(link_token);

-- Device ballots. Same once-only invariant as vote, keyed on the salted
-- device fingerprint instead of a participant.
CREATE TABLE IF NOT EXISTS device_ballot (
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    fingerprint_hash TEXT NOT NULL,
    score REAL NOT NULL CHECK (score >= 0 AND score <= 10),
    cast_at TIMESTAMP NOT NULL,
    PRIMARY KEY (poll_id, fingerprint_hash)
);

CREATE INDEX IF NOT EXISTS idx_device_ballot_poll ON device_ballot(poll_id);
`
