// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tribunal-app/tribunal/models"
	"github.com/tribunal-app/tribunal/testutil"
)

func TestCreateParticipant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewParticipantHandler(db, cfg)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name:           "member",
			requestBody:    models.CreateParticipantRequest{Name: "Casey", BaseRole: models.RoleMember},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "reviewer",
			requestBody:    models.CreateParticipantRequest{Name: "Prof. Adams", BaseRole: models.RoleReviewer},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing name",
			requestBody:    models.CreateParticipantRequest{BaseRole: models.RoleMember},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown role",
			requestBody:    models.CreateParticipantRequest{Name: "Casey", BaseRole: "chair"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing role",
			requestBody:    models.CreateParticipantRequest{Name: "Casey"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/participants", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Create(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var resp models.CreateParticipantResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.ParticipantID == "" {
					t.Error("Expected non-empty participant_id")
				}
				if len(resp.AccessCode) != 8 {
					t.Errorf("Expected 8-char access code, got %q", resp.AccessCode)
				}
			}
		})
	}
}

func TestListParticipants(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewParticipantHandler(db, cfg)

	req := testutil.MakeRequest("GET", "/participants", nil, nil)
	w := httptest.NewRecorder()
	handler.List(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var empty []models.Participant
	testutil.AssertJSON(t, w, &empty)
	if len(empty) != 0 {
		t.Errorf("Expected empty roster, got %d entries", len(empty))
	}

	testutil.CreateTestParticipant(t, db, "Alice", models.RoleMember)
	testutil.CreateTestParticipant(t, db, "Prof. Adams", models.RoleReviewer)

	req = testutil.MakeRequest("GET", "/participants", nil, nil)
	w = httptest.NewRecorder()
	handler.List(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var roster []models.Participant
	testutil.AssertJSON(t, w, &roster)
	if len(roster) != 2 {
		t.Fatalf("Expected 2 participants, got %d", len(roster))
	}
	for _, p := range roster {
		if p.AccessCode == "" {
			t.Errorf("Participant %s listed without access code", p.ID)
		}
	}
}
