// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"math"
	"testing"
	"time"

	"github.com/tribunal-app/tribunal/models"
	"github.com/tribunal-app/tribunal/testutil"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeTally(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	sessionID, _ := testutil.CreateTestSession(t, db, cfg, models.StateActive, 300, time.Now())

	r1, _ := testutil.CreateTestParticipant(t, db, "Prof. Adams", models.RoleReviewer)
	r2, _ := testutil.CreateTestParticipant(t, db, "Prof. Blake", models.RoleReviewer)
	m1, _ := testutil.CreateTestParticipant(t, db, "Casey", models.RoleMember)
	m2, _ := testutil.CreateTestParticipant(t, db, "Drew", models.RoleMember)
	m3, _ := testutil.CreateTestParticipant(t, db, "Emery", models.RoleMember)

	testutil.CastTestVote(t, db, sessionID, r1, 9.0, models.RoleReviewer)
	testutil.CastTestVote(t, db, sessionID, r2, 8.5, models.RoleReviewer)
	testutil.CastTestVote(t, db, sessionID, m1, 6.0, models.RoleMember)
	testutil.CastTestVote(t, db, sessionID, m2, 7.0, models.RoleMember)
	testutil.CastTestVote(t, db, sessionID, m3, 8.0, models.RoleMember)

	tally, err := ComputeTally(db, sessionID)
	if err != nil {
		t.Fatalf("ComputeTally() error = %v", err)
	}

	if tally.Empty {
		t.Error("Expected non-empty tally")
	}
	// Reviewers are summed: 9.0 + 8.5
	if !almostEqual(tally.ReviewerTotal, 17.5) {
		t.Errorf("ReviewerTotal = %v, want 17.5", tally.ReviewerTotal)
	}
	// Members are averaged: (6 + 7 + 8) / 3
	if !almostEqual(tally.MemberAverage, 7.0) {
		t.Errorf("MemberAverage = %v, want 7.0", tally.MemberAverage)
	}
	if !almostEqual(tally.FinalScore, 24.5) {
		t.Errorf("FinalScore = %v, want 24.5", tally.FinalScore)
	}
	if tally.Band != models.BandYellow {
		t.Errorf("Band = %q, want %q", tally.Band, models.BandYellow)
	}
	if tally.ReviewerCount != 2 || tally.MemberCount != 3 {
		t.Errorf("Counts = (%d, %d), want (2, 3)", tally.ReviewerCount, tally.MemberCount)
	}
	if len(tally.Reviewers) != 2 {
		t.Errorf("Expected 2 reviewer breakdown entries, got %d", len(tally.Reviewers))
	}

	// Recomputing from the same immutable log gives the same result
	again, err := ComputeTally(db, sessionID)
	if err != nil {
		t.Fatalf("ComputeTally() second call error = %v", err)
	}
	if !almostEqual(again.FinalScore, tally.FinalScore) || again.Band != tally.Band {
		t.Errorf("Recompute diverged: %v/%q vs %v/%q",
			again.FinalScore, again.Band, tally.FinalScore, tally.Band)
	}
}

func TestComputeTallyEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	sessionID, _ := testutil.CreateTestSession(t, db, cfg, models.StateActive, 300, time.Now())

	tally, err := ComputeTally(db, sessionID)
	if err != nil {
		t.Fatalf("ComputeTally() error = %v", err)
	}
	if !tally.Empty {
		t.Error("Expected empty tally")
	}
	if tally.Band != "" {
		t.Errorf("Empty tally carries no band, got %q", tally.Band)
	}
}

func TestComputeTallyReviewersOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	sessionID, _ := testutil.CreateTestSession(t, db, cfg, models.StateActive, 300, time.Now())

	r1, _ := testutil.CreateTestParticipant(t, db, "Prof. Adams", models.RoleReviewer)
	r2, _ := testutil.CreateTestParticipant(t, db, "Prof. Blake", models.RoleReviewer)
	r3, _ := testutil.CreateTestParticipant(t, db, "Prof. Cruz", models.RoleReviewer)
	testutil.CastTestVote(t, db, sessionID, r1, 10.0, models.RoleReviewer)
	testutil.CastTestVote(t, db, sessionID, r2, 10.0, models.RoleReviewer)
	testutil.CastTestVote(t, db, sessionID, r3, 10.0, models.RoleReviewer)

	tally, err := ComputeTally(db, sessionID)
	if err != nil {
		t.Fatalf("ComputeTally() error = %v", err)
	}
	if !almostEqual(tally.ReviewerTotal, 30.0) {
		t.Errorf("ReviewerTotal = %v, want 30.0", tally.ReviewerTotal)
	}
	// No members: the average contributes nothing rather than poisoning the
	// sum with a division by zero
	if !almostEqual(tally.MemberAverage, 0.0) {
		t.Errorf("MemberAverage = %v, want 0", tally.MemberAverage)
	}
	if tally.Band != models.BandGreen {
		t.Errorf("Band = %q, want %q", tally.Band, models.BandGreen)
	}
}

func TestTallyKeepsStampedRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	sessionID, _ := testutil.CreateTestSession(t, db, cfg, models.StateActive, 300, time.Now())
	reviewer, _ := testutil.CreateTestParticipant(t, db, "Prof. Adams", models.RoleReviewer)
	testutil.AssignTestReviewer(t, db, sessionID, reviewer)

	role, err := CastVote(db, sessionID, reviewer, 9.0, time.Now())
	if err != nil {
		t.Fatalf("CastVote() error = %v", err)
	}
	if role != models.RoleReviewer {
		t.Fatalf("CastVote() role = %q, want %q", role, models.RoleReviewer)
	}

	// Revoke the assignment after the fact: the historical vote keeps the
	// role it was cast under.
	if _, err := db.Exec(`
		DELETE FROM reviewer_assignment WHERE session_id = $1 AND participant_id = $2
	`, sessionID, reviewer); err != nil {
		t.Fatalf("Failed to revoke assignment: %v", err)
	}

	tally, err := ComputeTally(db, sessionID)
	if err != nil {
		t.Fatalf("ComputeTally() error = %v", err)
	}
	if tally.ReviewerCount != 1 {
		t.Errorf("ReviewerCount = %d, want 1", tally.ReviewerCount)
	}
	if !almostEqual(tally.ReviewerTotal, 9.0) {
		t.Errorf("ReviewerTotal = %v, want 9.0", tally.ReviewerTotal)
	}
}

func TestComputePollTally(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	pollID, _ := testutil.CreateTestPoll(t, db, cfg, models.StateActive, 120, time.Now())

	empty, err := ComputePollTally(db, pollID)
	if err != nil {
		t.Fatalf("ComputePollTally() error = %v", err)
	}
	if !empty.Empty || empty.BallotCount != 0 {
		t.Errorf("Expected empty tally, got %+v", empty)
	}

	for i, score := range []float64{4.0, 6.0, 8.0} {
		if err := CastBallot(db, pollID, "fp-"+string(rune('a'+i)), score, time.Now()); err != nil {
			t.Fatalf("CastBallot() error = %v", err)
		}
	}

	tally, err := ComputePollTally(db, pollID)
	if err != nil {
		t.Fatalf("ComputePollTally() error = %v", err)
	}
	if tally.BallotCount != 3 {
		t.Errorf("BallotCount = %d, want 3", tally.BallotCount)
	}
	if !almostEqual(tally.Average, 6.0) {
		t.Errorf("Average = %v, want 6.0", tally.Average)
	}
}
