// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"errors"
	"testing"
	"time"

	"github.com/tribunal-app/tribunal/models"
	"github.com/tribunal-app/tribunal/testutil"
)

func TestCheckVoteRejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	inactiveID, _ := testutil.CreateTestSession(t, db, cfg, models.StateInactive, 300, time.Time{})
	finalizedID, _ := testutil.CreateTestSession(t, db, cfg, models.StateFinalized, 300, time.Now().Add(-time.Hour))
	// Stored active but the window elapsed an hour ago: expiry must be
	// rejected from the clock, not from the stored column.
	expiredID, _ := testutil.CreateTestSession(t, db, cfg, models.StateActive, 300, time.Now().Add(-time.Hour))
	activeID, _ := testutil.CreateTestSession(t, db, cfg, models.StateActive, 300, time.Now())

	participantID, _ := testutil.CreateTestParticipant(t, db, "Alice", models.RoleMember)
	votedID, _ := testutil.CreateTestParticipant(t, db, "Bob", models.RoleMember)
	testutil.CastTestVote(t, db, activeID, votedID, 5.0, models.RoleMember)

	tests := []struct {
		name          string
		sessionID     string
		participantID string
		expectedErr   error
	}{
		{"unknown session", "no-such-session", participantID, ErrNotFound},
		{"inactive session", inactiveID, participantID, ErrNotActive},
		{"finalized session", finalizedID, participantID, ErrNotActive},
		{"stale active past window", expiredID, participantID, ErrWindowExpired},
		{"already voted", activeID, votedID, ErrAlreadyVoted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CheckVote(db, tt.sessionID, tt.participantID, time.Now())
			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("CheckVote() error = %v, want %v", err, tt.expectedErr)
			}
		})
	}
}

func TestCheckVoteBeforeActivationInstant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	// activated_at in the future; stored active. The window has not opened.
	sessionID, _ := testutil.CreateTestSession(t, db, cfg, models.StateActive, 300, time.Now().Add(time.Minute))
	participantID, _ := testutil.CreateTestParticipant(t, db, "Alice", models.RoleMember)

	_, err := CheckVote(db, sessionID, participantID, time.Now())
	if !errors.Is(err, ErrNotActive) {
		t.Errorf("CheckVote() error = %v, want ErrNotActive", err)
	}
}

func TestCheckVoteRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	sessionID, _ := testutil.CreateTestSession(t, db, cfg, models.StateActive, 300, time.Now())
	otherID, _ := testutil.CreateTestSession(t, db, cfg, models.StateActive, 300, time.Now())

	// base_role reviewer, but no assignment on this session
	globalReviewer, _ := testutil.CreateTestParticipant(t, db, "Prof. Adams", models.RoleReviewer)
	member, _ := testutil.CreateTestParticipant(t, db, "Casey", models.RoleMember)

	assigned, _ := testutil.CreateTestParticipant(t, db, "Prof. Blake", models.RoleReviewer)
	testutil.AssignTestReviewer(t, db, sessionID, assigned)

	tests := []struct {
		name          string
		sessionID     string
		participantID string
		expectedRole  string
	}{
		{"assigned reviewer votes as reviewer", sessionID, assigned, models.RoleReviewer},
		{"unassigned reviewer votes as member", sessionID, globalReviewer, models.RoleMember},
		{"plain member votes as member", sessionID, member, models.RoleMember},
		{"assignment does not leak across sessions", otherID, assigned, models.RoleMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := CheckVote(db, tt.sessionID, tt.participantID, time.Now())
			if err != nil {
				t.Fatalf("CheckVote() error = %v", err)
			}
			if role != tt.expectedRole {
				t.Errorf("CheckVote() role = %q, want %q", role, tt.expectedRole)
			}
		})
	}
}

func TestCastVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	sessionID, _ := testutil.CreateTestSession(t, db, cfg, models.StateActive, 300, time.Now())
	participantID, _ := testutil.CreateTestParticipant(t, db, "Alice", models.RoleMember)

	role, err := CastVote(db, sessionID, participantID, 7.5, time.Now())
	if err != nil {
		t.Fatalf("CastVote() error = %v", err)
	}
	if role != models.RoleMember {
		t.Errorf("CastVote() role = %q, want %q", role, models.RoleMember)
	}

	var score float64
	var stampedRole string
	err = db.QueryRow(`
		SELECT score, role_at_vote FROM vote WHERE session_id = $1 AND participant_id = $2
	`, sessionID, participantID).Scan(&score, &stampedRole)
	if err != nil {
		t.Fatalf("Failed to read vote: %v", err)
	}
	if score != 7.5 {
		t.Errorf("Expected score 7.5, got %v", score)
	}
	if stampedRole != models.RoleMember {
		t.Errorf("Expected role_at_vote %q, got %q", models.RoleMember, stampedRole)
	}

	// Second submission is rejected and leaves the first vote untouched
	if _, err := CastVote(db, sessionID, participantID, 2.0, time.Now()); !errors.Is(err, ErrAlreadyVoted) {
		t.Errorf("CastVote() repeat error = %v, want ErrAlreadyVoted", err)
	}
	if err := db.QueryRow(`
		SELECT score FROM vote WHERE session_id = $1 AND participant_id = $2
	`, sessionID, participantID).Scan(&score); err != nil {
		t.Fatalf("Failed to re-read vote: %v", err)
	}
	if score != 7.5 {
		t.Errorf("Expected original score 7.5 preserved, got %v", score)
	}
}

func TestCastVoteScoreBounds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	sessionID, _ := testutil.CreateTestSession(t, db, cfg, models.StateActive, 300, time.Now())
	participantID, _ := testutil.CreateTestParticipant(t, db, "Alice", models.RoleMember)

	for _, score := range []float64{-0.1, 10.1, 100} {
		if _, err := CastVote(db, sessionID, participantID, score, time.Now()); !errors.Is(err, ErrInvalidScore) {
			t.Errorf("CastVote(score=%v) error = %v, want ErrInvalidScore", score, err)
		}
	}

	// The bounds themselves are admissible
	if _, err := CastVote(db, sessionID, participantID, 0.0, time.Now()); err != nil {
		t.Errorf("CastVote(score=0) error = %v", err)
	}
}

func TestCastBallot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	pollID, _ := testutil.CreateTestPoll(t, db, cfg, models.StateActive, 120, time.Now())

	if err := CastBallot(db, pollID, "fp-device-1", 8.0, time.Now()); err != nil {
		t.Fatalf("CastBallot() error = %v", err)
	}

	// Same fingerprint is the same voter
	if err := CastBallot(db, pollID, "fp-device-1", 3.0, time.Now()); !errors.Is(err, ErrAlreadyVoted) {
		t.Errorf("CastBallot() repeat error = %v, want ErrAlreadyVoted", err)
	}

	// A different fingerprint is a different voter
	if err := CastBallot(db, pollID, "fp-device-2", 3.0, time.Now()); err != nil {
		t.Errorf("CastBallot() second device error = %v", err)
	}
}

func TestCastBallotRejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	inactiveID, _ := testutil.CreateTestPoll(t, db, cfg, models.StateInactive, 120, time.Time{})
	expiredID, _ := testutil.CreateTestPoll(t, db, cfg, models.StateActive, 120, time.Now().Add(-time.Hour))

	if err := CastBallot(db, "no-such-poll", "fp", 5.0, time.Now()); !errors.Is(err, ErrNotFound) {
		t.Errorf("CastBallot() unknown poll error = %v, want ErrNotFound", err)
	}
	if err := CastBallot(db, inactiveID, "fp", 5.0, time.Now()); !errors.Is(err, ErrNotActive) {
		t.Errorf("CastBallot() inactive poll error = %v, want ErrNotActive", err)
	}
	if err := CastBallot(db, expiredID, "fp", 5.0, time.Now()); !errors.Is(err, ErrWindowExpired) {
		t.Errorf("CastBallot() expired poll error = %v, want ErrWindowExpired", err)
	}
}
