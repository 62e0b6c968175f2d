// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tribunal-app/tribunal/models"
	"github.com/tribunal-app/tribunal/testutil"
)

func TestCreatePoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewPollHandler(db, cfg)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name:           "valid poll",
			requestBody:    models.CreatePollRequest{Question: "Extend the deadline?", DurationSeconds: 120},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing question",
			requestBody:    models.CreatePollRequest{DurationSeconds: 120},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "zero duration",
			requestBody:    models.CreatePollRequest{Question: "Extend?"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/polls", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Create(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var resp models.CreatePollResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.PollID == "" || resp.LinkToken == "" {
					t.Errorf("Expected poll_id and link_token, got %+v", resp)
				}
			}
		})
	}
}

func TestGetPoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewPollHandler(db, cfg)

	pollID, linkToken := testutil.CreateTestPoll(t, db, cfg, models.StateActive, 120, time.Now())

	req := testutil.MakeRequest("GET", "/polls/"+linkToken, nil, nil)
	req.SetPathValue("token", linkToken)
	w := httptest.NewRecorder()
	handler.Get(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var view models.PollView
	testutil.AssertJSON(t, w, &view)
	if view.Poll.ID != pollID {
		t.Errorf("Expected poll %s, got %s", pollID, view.Poll.ID)
	}
	if view.RemainingSeconds <= 0 || view.RemainingSeconds > 120 {
		t.Errorf("Expected remaining seconds in (0, 120], got %d", view.RemainingSeconds)
	}
}

func TestSubmitBallotHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewPollHandler(db, cfg)

	_, linkToken := testutil.CreateTestPoll(t, db, cfg, models.StateActive, 120, time.Now())

	submit := func(token, deviceKey string, score float64) *httptest.ResponseRecorder {
		headers := map[string]string{}
		if deviceKey != "" {
			headers["X-Device-Key"] = deviceKey
		}
		req := testutil.MakeRequest("POST", "/polls/"+token+"/ballots",
			models.SubmitBallotRequest{Score: score}, headers)
		req.SetPathValue("token", token)
		w := httptest.NewRecorder()
		handler.SubmitBallot(w, req)
		return w
	}

	testutil.AssertStatus(t, submit(linkToken, "device-1", 8.0), http.StatusCreated)

	// Same device key is the same voter, regardless of what else changes
	w := submit(linkToken, "device-1", 3.0)
	testutil.AssertStatus(t, w, http.StatusConflict)
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Reason != models.ReasonAlreadyVoted {
		t.Errorf("Expected reason %q, got %q", models.ReasonAlreadyVoted, resp.Reason)
	}

	// A different device votes independently
	testutil.AssertStatus(t, submit(linkToken, "device-2", 4.0), http.StatusCreated)

	// The header is the identity; without it there is no voter
	testutil.AssertStatus(t, submit(linkToken, "", 5.0), http.StatusBadRequest)

	// Score bounds apply to ballots too
	testutil.AssertStatus(t, submit(linkToken, "device-3", 11.0), http.StatusBadRequest)

	// Unknown poll
	testutil.AssertStatus(t, submit("nonexistent", "device-4", 5.0), http.StatusNotFound)
}

func TestSubmitBallotStoresHashedFingerprint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewPollHandler(db, cfg)

	pollID, linkToken := testutil.CreateTestPoll(t, db, cfg, models.StateActive, 120, time.Now())

	req := testutil.MakeRequest("POST", "/polls/"+linkToken+"/ballots",
		models.SubmitBallotRequest{Score: 7.0},
		map[string]string{"X-Device-Key": "raw-device-uuid"})
	req.SetPathValue("token", linkToken)
	w := httptest.NewRecorder()
	handler.SubmitBallot(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	// The raw device key never reaches the store
	var fingerprint string
	if err := db.QueryRow(`SELECT fingerprint_hash FROM device_ballot WHERE poll_id = $1`, pollID).
		Scan(&fingerprint); err != nil {
		t.Fatalf("Failed to read ballot: %v", err)
	}
	if fingerprint == "raw-device-uuid" {
		t.Error("Raw device key was stored instead of its hash")
	}
	if len(fingerprint) != 32 {
		t.Errorf("Expected 32-char fingerprint hash, got %d chars", len(fingerprint))
	}
}

func TestSubmitBallotExpiredPoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewPollHandler(db, cfg)

	_, linkToken := testutil.CreateTestPoll(t, db, cfg, models.StateActive, 120, time.Now().Add(-time.Hour))

	req := testutil.MakeRequest("POST", "/polls/"+linkToken+"/ballots",
		models.SubmitBallotRequest{Score: 5.0},
		map[string]string{"X-Device-Key": "device-1"})
	req.SetPathValue("token", linkToken)
	w := httptest.NewRecorder()
	handler.SubmitBallot(w, req)

	testutil.AssertStatus(t, w, http.StatusConflict)
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Reason != models.ReasonWindowExpired {
		t.Errorf("Expected reason %q, got %q", models.ReasonWindowExpired, resp.Reason)
	}
}

func TestGetPollTally(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewPollHandler(db, cfg)

	pollID, linkToken := testutil.CreateTestPoll(t, db, cfg, models.StateActive, 120, time.Now())

	for i, score := range []float64{4.0, 6.0, 8.0} {
		_, err := db.Exec(`
			INSERT INTO device_ballot (poll_id, fingerprint_hash, score, cast_at)
			VALUES ($1, $2, $3, $4)
		`, pollID, "fp-"+string(rune('a'+i)), score, time.Now())
		if err != nil {
			t.Fatalf("Failed to insert ballot: %v", err)
		}
	}

	req := testutil.MakeRequest("GET", "/polls/"+linkToken+"/tally", nil, nil)
	req.SetPathValue("token", linkToken)
	w := httptest.NewRecorder()
	handler.GetTally(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var tally models.PollTally
	testutil.AssertJSON(t, w, &tally)
	if tally.BallotCount != 3 {
		t.Errorf("BallotCount = %d, want 3", tally.BallotCount)
	}
	if tally.Average != 6.0 {
		t.Errorf("Average = %v, want 6.0", tally.Average)
	}
}

func TestPollLifecycleHandlers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewPollHandler(db, cfg)

	pollID, _ := testutil.CreateTestPoll(t, db, cfg, models.StateInactive, 120, time.Time{})

	req := testutil.MakeRequest("POST", "/polls/"+pollID+"/activate", nil, nil)
	req.SetPathValue("id", pollID)
	w := httptest.NewRecorder()
	handler.Activate(w, req)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	// Second activation conflicts
	req = testutil.MakeRequest("POST", "/polls/"+pollID+"/activate", nil, nil)
	req.SetPathValue("id", pollID)
	w = httptest.NewRecorder()
	handler.Activate(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)

	req = testutil.MakeRequest("POST", "/polls/"+pollID+"/reset", nil, nil)
	req.SetPathValue("id", pollID)
	w = httptest.NewRecorder()
	handler.Reset(w, req)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	var state string
	if err := db.QueryRow(`SELECT state FROM poll WHERE id = $1`, pollID).Scan(&state); err != nil {
		t.Fatalf("Failed to read poll: %v", err)
	}
	if state != models.StateInactive {
		t.Errorf("Expected state %q after reset, got %q", models.StateInactive, state)
	}

	// Resetting again conflicts: the poll is already inactive
	req = testutil.MakeRequest("POST", "/polls/"+pollID+"/reset", nil, nil)
	req.SetPathValue("id", pollID)
	w = httptest.NewRecorder()
	handler.Reset(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)

	req = testutil.MakeRequest("POST", "/polls/no-such-poll/reset", nil, nil)
	req.SetPathValue("id", "no-such-poll")
	w = httptest.NewRecorder()
	handler.Reset(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
