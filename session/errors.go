// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import "errors"

// Rejection and failure modes of the core. Handlers map these onto HTTP
// statuses and the reason constants in models; none are retried here.
var (
	// ErrNotFound: the session or poll does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrUnknownAccessCode: no participant carries the presented code.
	ErrUnknownAccessCode = errors.New("unknown access code")

	// ErrNotActive: the session is not accepting votes in its current state.
	ErrNotActive = errors.New("session is not active")

	// ErrWindowExpired: the voting window has closed, regardless of whether
	// the stored state has caught up yet.
	ErrWindowExpired = errors.New("voting window has expired")

	// ErrAlreadyVoted: a vote for this (session, participant) already
	// exists. A uniqueness-constraint race resolves to this same error.
	ErrAlreadyVoted = errors.New("participant has already voted")

	// ErrInvalidScore: score outside [0, 10]; rejected before any store
	// interaction.
	ErrInvalidScore = errors.New("score must be between 0 and 10")

	// ErrBadTransition: the requested lifecycle transition is not legal
	// from the current state.
	ErrBadTransition = errors.New("invalid lifecycle transition")
)
