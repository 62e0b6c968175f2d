// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session implements the timed voting session state machine, the
eligibility rules, and the tally engine.

# Lifecycle

Sessions move through three states:

	inactive --Activate--> active --time expiry--> finalized

Activation stamps activated_at; the voting window is
[activated_at, activated_at+duration). There is no standing scheduler:
expiry is materialized lazily by FinalizeIfExpired on every authoritative
read, and EffectiveState derives the truthful state from the stored row at
any instant in between. An optional periodic sweep (Run) does the same
materialization for sessions nobody is reading.

Reset is the only way out of finalized: it deletes the session's votes,
clears activated_at, and returns the session to inactive.

# Eligibility and the accept path

CheckVote evaluates, in order: session active, window open, no prior vote,
then derives the effective role (reviewer iff an assignment row exists for
this session). CastVote runs that check and appends the vote in a single
INSERT; the vote table's primary key on (session_id, participant_id) is the
authoritative duplicate guard, so a concurrency race resolves to the same
AlreadyVoted outcome the existence check would have produced.

CheckBallot/CastBallot are the same machinery for the anonymous quick-poll
regime, keyed on a salted device fingerprint instead of a participant.

# Tally

ComputeTally is a pure function of the vote log, recomputed in full on every
call:

	final = Σ reviewer scores + mean(member scores)

with the member mean taken as 0 when no member votes exist. Band maps the
final score onto the green/yellow/red scale. Votes carry the role they were
cast under, so assignment edits never rewrite history.
*/
package session
