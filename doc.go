// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Tribunal API server.

Tribunal runs timed, role-weighted voting sessions for thesis-defense
scoring: an owner prepares a session, opens a fixed voting window, and a
committee of reviewers and members each casts one 0-10 score. Reviewer
scores are summed, member scores averaged, and the combined result mapped
to a green/yellow/red band. A second, anonymous quick-poll mode identifies
voters by a salted device fingerprint instead of an access code.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=tribunal.db OWNER_KEY=... TOKEN_SECRET=... LINK_TOKEN_SALT=... go run main.go

Or with flags:

	go run main.go -p 3410 -d tribunal.db -t sqlite

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite file path or PostgreSQL connection string
  - OWNER_KEY (--owner-key): Shared secret exchanged for an owner token
  - TOKEN_SECRET (--token-secret): HMAC secret for owner JWTs
  - LINK_TOKEN_SALT (--link-salt): Secret for link tokens and fingerprints

Optional settings:

  - PORT (-p): Server port (default: 3410)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - SWEEP_INTERVAL (--sweep): Expiry sweep period, e.g. "30s"; "0" disables

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (sessions, participants, voting, results, polls)
  - session: Lifecycle, eligibility, and tally logic shared by both regimes
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, owner auth, JSON helpers
  - models: Request/response types
  - auth: Tokens, access codes, fingerprint hashing
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
