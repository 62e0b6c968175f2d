// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL avoids server-side timestamp defaults so the same schema runs on
sqlite and postgres.

# Tables

  - session: timed voting sessions and lifecycle state
  - session_media: ordered attachments per session
  - participant: coded voters with a global base role
  - reviewer_assignment: per-session reviewer designations
  - vote: one vote per (session, participant), role stamped at cast time
  - poll: quick polls (anonymous variant)
  - device_ballot: one ballot per (poll, device fingerprint)

# Relationships

	session 1──* session_media
	session 1──* reviewer_assignment *──1 participant
	session 1──* vote *──1 participant
	poll    1──* device_ballot

All foreign keys use ON DELETE CASCADE, so deleting a session destroys its
votes, media, and assignments in one statement.

# Uniqueness

The primary keys on vote and device_ballot are the authoritative
duplicate-vote guards; application-level existence checks only shape error
messages.
*/
package db
