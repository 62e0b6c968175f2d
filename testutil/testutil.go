// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tribunal-app/tribunal/auth"
	"github.com/tribunal-app/tribunal/cliparse"
	"github.com/tribunal-app/tribunal/db"
)

// SetupTestDB creates a fresh in-memory sqlite database with the full schema.
// MaxOpenConns(1) keeps every statement on the same connection, which is what
// ":memory:" requires.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3410,
		DatabaseURL:   ":memory:",
		DatabaseType:  "sqlite",
		OwnerKey:      "test-owner-key",
		TokenSecret:   "test-token-secret",
		LinkTokenSalt: "test-link-salt",
	}
}

// OwnerToken issues a bearer token accepted by RequireOwner under the test
// configuration.
func OwnerToken(t *testing.T, cfg cliparse.Config) string {
	t.Helper()

	token, err := auth.IssueOwnerToken(cfg.TokenSecret)
	if err != nil {
		t.Fatalf("Failed to issue owner token: %v", err)
	}
	return token
}

// CreateTestSession inserts a session in the given state and returns its ID
// and link token. state should be "inactive", "active", or "finalized";
// active sessions are stamped as activated at the given time.
func CreateTestSession(t *testing.T, conn *sql.DB, cfg cliparse.Config, state string, durationSeconds int, activatedAt time.Time) (sessionID, linkToken string) {
	t.Helper()

	sessionID, err := auth.GenerateID(16)
	if err != nil {
		t.Fatalf("Failed to generate session ID: %v", err)
	}
	linkToken = auth.GenerateLinkToken(sessionID, cfg.LinkTokenSalt)

	var activated *time.Time
	if state == "active" || state == "finalized" {
		activated = &activatedAt
	}

	_, err = conn.Exec(`
		INSERT INTO session (id, title, candidate_name, description, state, activated_at, duration_seconds, link_token, created_at)
		VALUES ($1, 'Thesis Defense', 'Test Candidate', 'A test session', $2, $3, $4, $5, $6)
	`, sessionID, state, activated, durationSeconds, linkToken, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return sessionID, linkToken
}

// CreateTestParticipant inserts a participant and returns its ID and access code.
func CreateTestParticipant(t *testing.T, conn *sql.DB, name, baseRole string) (participantID, accessCode string) {
	t.Helper()

	participantID, err := auth.GenerateID(16)
	if err != nil {
		t.Fatalf("Failed to generate participant ID: %v", err)
	}
	accessCode, err = auth.GenerateAccessCode()
	if err != nil {
		t.Fatalf("Failed to generate access code: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO participant (id, name, access_code, base_role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, participantID, name, accessCode, baseRole, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test participant: %v", err)
	}

	return participantID, accessCode
}

// AssignTestReviewer designates a participant as reviewer for a session.
func AssignTestReviewer(t *testing.T, conn *sql.DB, sessionID, participantID string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO reviewer_assignment (session_id, participant_id, assigned_at)
		VALUES ($1, $2, $3)
	`, sessionID, participantID, time.Now())
	if err != nil {
		t.Fatalf("Failed to assign test reviewer: %v", err)
	}
}

// CastTestVote inserts a vote row directly, bypassing eligibility checks.
func CastTestVote(t *testing.T, conn *sql.DB, sessionID, participantID string, score float64, role string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO vote (session_id, participant_id, score, role_at_vote, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, sessionID, participantID, score, role, time.Now())
	if err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
}

// CreateTestPoll inserts a quick poll and returns its ID and link token.
func CreateTestPoll(t *testing.T, conn *sql.DB, cfg cliparse.Config, state string, durationSeconds int, activatedAt time.Time) (pollID, linkToken string) {
	t.Helper()

	pollID, err := auth.GenerateID(16)
	if err != nil {
		t.Fatalf("Failed to generate poll ID: %v", err)
	}
	linkToken = auth.GenerateLinkToken(pollID, cfg.LinkTokenSalt)

	var activated *time.Time
	if state == "active" || state == "finalized" {
		activated = &activatedAt
	}

	_, err = conn.Exec(`
		INSERT INTO poll (id, question, state, activated_at, duration_seconds, link_token, created_at)
		VALUES ($1, 'Quick question?', $2, $3, $4, $5, $6)
	`, pollID, state, activated, durationSeconds, linkToken, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return pollID, linkToken
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
