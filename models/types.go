package models

import "time"

// Session lifecycle states
const (
	StateInactive  = "inactive"
	StateActive    = "active"
	StateFinalized = "finalized"
)

// Participant roles
const (
	RoleReviewer = "reviewer"
	RoleMember   = "member"
)

// Score bounds for a single vote
const (
	ScoreMin = 0.0
	ScoreMax = 10.0
)

// Color bands for the final score. The thresholds are fixed constants of the
// scoring scale (reviewer sum + member average); they are not derived from
// the number of assigned reviewers.
const (
	BandGreen  = "green"
	BandYellow = "yellow"
	BandRed    = "red"

	BandGreenMin  = 30.0
	BandYellowMin = 15.0
)

// Rejection reasons surfaced verbatim to callers
const (
	ReasonNotFound      = "not_found"
	ReasonNotActive     = "session_not_active"
	ReasonWindowExpired = "window_expired"
	ReasonAlreadyVoted  = "already_voted"
	ReasonInvalidScore  = "invalid_score"
	ReasonBadTransition = "invalid_transition"
)

// Request types

type LoginRequest struct {
	OwnerKey string `json:"owner_key"`
}

type CreateSessionRequest struct {
	Title           string   `json:"title"`
	CandidateName   string   `json:"candidate_name"`
	Description     string   `json:"description"`
	DurationSeconds int      `json:"duration_seconds"`
	MediaURLs       []string `json:"media_urls"`
}

// EditSessionRequest replaces the mutable fields of an inactive session.
// The media list is replaced wholesale.
type EditSessionRequest struct {
	Title           string   `json:"title"`
	CandidateName   string   `json:"candidate_name"`
	Description     string   `json:"description"`
	DurationSeconds int      `json:"duration_seconds"`
	MediaURLs       []string `json:"media_urls"`
}

type AssignReviewerRequest struct {
	ParticipantID string `json:"participant_id"`
}

type CreateParticipantRequest struct {
	Name     string `json:"name"`
	BaseRole string `json:"base_role"`
}

type SubmitVoteRequest struct {
	AccessCode string  `json:"access_code"`
	Score      float64 `json:"score"`
}

type CreatePollRequest struct {
	Question        string `json:"question"`
	DurationSeconds int    `json:"duration_seconds"`
}

type SubmitBallotRequest struct {
	Score float64 `json:"score"`
}

// Response types

type LoginResponse struct {
	Token string `json:"token"`
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	LinkToken string `json:"link_token"`
}

type CreateParticipantResponse struct {
	ParticipantID string `json:"participant_id"`
	AccessCode    string `json:"access_code"`
}

type SubmitVoteResponse struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

type SubmitBallotResponse struct {
	Message string `json:"message"`
}

type CreatePollResponse struct {
	PollID    string `json:"poll_id"`
	LinkToken string `json:"link_token"`
}

// Domain types

type Session struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	CandidateName   string     `json:"candidate_name"`
	Description     string     `json:"description"`
	State           string     `json:"state"`
	ActivatedAt     *time.Time `json:"activated_at,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
	LinkToken       string     `json:"link_token"`
	CreatedAt       time.Time  `json:"created_at"`
}

type MediaItem struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	Position  int    `json:"position"`
	URL       string `json:"url"`
}

// SessionView is the public read model. RemainingSeconds serves the
// on-screen countdown so viewers never do their own clock math.
type SessionView struct {
	Session          Session     `json:"session"`
	Media            []MediaItem `json:"media"`
	RemainingSeconds int64       `json:"remaining_seconds"`
}

type Participant struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	AccessCode string    `json:"access_code"`
	BaseRole   string    `json:"base_role"`
	CreatedAt  time.Time `json:"created_at"`
}

type ReviewerAssignment struct {
	SessionID     string    `json:"session_id"`
	ParticipantID string    `json:"participant_id"`
	Name          string    `json:"name"`
	AssignedAt    time.Time `json:"assigned_at"`
}

// SessionAdminView is the owner-facing read model including assignments.
type SessionAdminView struct {
	Session   Session              `json:"session"`
	Media     []MediaItem          `json:"media"`
	Reviewers []ReviewerAssignment `json:"reviewers"`
	VoteCount int                  `json:"vote_count"`
}

// ReviewerScore is one entry of the per-reviewer breakdown.
type ReviewerScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// SessionTally is the aggregated score for a session, always recomputed in
// full from the vote log. Empty is true when no votes exist; an empty tally
// carries no band.
type SessionTally struct {
	SessionID     string          `json:"session_id"`
	Empty         bool            `json:"empty"`
	ReviewerTotal float64         `json:"reviewer_total"`
	MemberAverage float64         `json:"member_average"`
	FinalScore    float64         `json:"final_score"`
	Band          string          `json:"band,omitempty"`
	ReviewerCount int             `json:"reviewer_count"`
	MemberCount   int             `json:"member_count"`
	Reviewers     []ReviewerScore `json:"reviewers"`
}

type Poll struct {
	ID              string     `json:"id"`
	Question        string     `json:"question"`
	State           string     `json:"state"`
	ActivatedAt     *time.Time `json:"activated_at,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
	LinkToken       string     `json:"link_token"`
	CreatedAt       time.Time  `json:"created_at"`
}

type PollView struct {
	Poll             Poll  `json:"poll"`
	RemainingSeconds int64 `json:"remaining_seconds"`
}

type PollTally struct {
	PollID      string  `json:"poll_id"`
	Empty       bool    `json:"empty"`
	Average     float64 `json:"average"`
	BallotCount int     `json:"ballot_count"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}
