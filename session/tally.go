// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"database/sql"
	"fmt"

	"github.com/tribunal-app/tribunal/models"
)

// ComputeTally recomputes a session's score from scratch on every call.
// Reviewer scores are summed (a full panel is rewarded additively); member
// scores are averaged; the final score is sum plus average. No incremental
// state is kept - the vote log is the only source of truth, and votes are
// immutable, so this read needs no locking at any concurrency level.
func ComputeTally(db *sql.DB, sessionID string) (models.SessionTally, error) {
	tally := models.SessionTally{
		SessionID: sessionID,
		Reviewers: []models.ReviewerScore{},
	}

	rows, err := db.Query(`
		SELECT v.score, v.role_at_vote, p.name
		FROM vote v
		JOIN participant p ON v.participant_id = p.id
		WHERE v.session_id = $1
		ORDER BY v.cast_at, p.name
	`, sessionID)
	if err != nil {
		return models.SessionTally{}, fmt.Errorf("query votes: %w", err)
	}
	defer rows.Close()

	var memberSum float64
	for rows.Next() {
		var score float64
		var role, name string
		if err := rows.Scan(&score, &role, &name); err != nil {
			return models.SessionTally{}, fmt.Errorf("scan vote: %w", err)
		}

		// role_at_vote was stamped when the vote was cast; assignment
		// edits after the fact never reshuffle a historical tally.
		switch role {
		case models.RoleReviewer:
			tally.ReviewerTotal += score
			tally.ReviewerCount++
			tally.Reviewers = append(tally.Reviewers, models.ReviewerScore{Name: name, Score: score})
		default:
			memberSum += score
			tally.MemberCount++
		}
	}
	if err := rows.Err(); err != nil {
		return models.SessionTally{}, fmt.Errorf("scan votes: %w", err)
	}

	if tally.ReviewerCount == 0 && tally.MemberCount == 0 {
		tally.Empty = true
		return tally, nil
	}

	if tally.MemberCount > 0 {
		tally.MemberAverage = memberSum / float64(tally.MemberCount)
	}
	tally.FinalScore = tally.ReviewerTotal + tally.MemberAverage
	tally.Band = Band(tally.FinalScore)
	return tally, nil
}

// Band maps a final score onto the fixed traffic-light scale.
func Band(finalScore float64) string {
	switch {
	case finalScore >= models.BandGreenMin:
		return models.BandGreen
	case finalScore >= models.BandYellowMin:
		return models.BandYellow
	default:
		return models.BandRed
	}
}

// ComputePollTally is the quick-poll aggregation: a plain average with a
// ballot count, recomputed in full like the session tally.
func ComputePollTally(db *sql.DB, pollID string) (models.PollTally, error) {
	tally := models.PollTally{PollID: pollID}

	rows, err := db.Query(`SELECT score FROM device_ballot WHERE poll_id = $1`, pollID)
	if err != nil {
		return models.PollTally{}, fmt.Errorf("query ballots: %w", err)
	}
	defer rows.Close()

	var sum float64
	for rows.Next() {
		var score float64
		if err := rows.Scan(&score); err != nil {
			return models.PollTally{}, fmt.Errorf("scan ballot: %w", err)
		}
		sum += score
		tally.BallotCount++
	}
	if err := rows.Err(); err != nil {
		return models.PollTally{}, fmt.Errorf("scan ballots: %w", err)
	}

	if tally.BallotCount == 0 {
		tally.Empty = true
		return tally, nil
	}
	tally.Average = sum / float64(tally.BallotCount)
	return tally, nil
}
