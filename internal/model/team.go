package model

import "time"

type TeamStats struct {
	EventsParticipated int     `json:"events_participated"`
	ChallengesWon      int     `json:"challenges_won"`
	TotalScore         int     `json:"total_score"`
	AverageEngagement  float64 `json:"average_engagement"`
	WinRate            float64 `json:"win_rate"`
}

type TeamAchievement struct {
	AchievementID string    `json:"achievement_id"`
	Name          string    `json:"name"`
	AwardedAt     time.Time `json:"awarded_at"`
}

type Team struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Sport        string            `json:"sport"`
	CaptainID    string            `json:"captain_id"`
	Members      []string          `json:"members"`
	MaxMembers   int               `json:"max_members"`
	IsPublic     bool              `json:"is_public"`
	Achievements []TeamAchievement `json:"achievements"`
	Stats        TeamStats         `json:"stats"`
	CreatedAt    time.Time         `json:"created_at"`
}

type Invitation struct {
	ID          string    `json:"id"`
	TeamID      string    `json:"team_id"`
	InviterID   string    `json:"inviter_id"`
	InviteeID   string    `json:"invitee_id"`
	InviteeName string    `json:"invitee_name"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type CreateTeamRequest struct {
	Name       string `json:"name"`
	Sport      string `json:"sport"`
	MaxMembers int    `json:"max_members"`
	IsPublic   bool   `json:"is_public"`
}

type CreateTeamResponse struct {
	Team Team `json:"team"`
}

type GetTeamRequest struct {
	TeamID string `json:"team_id"`
}

type GetTeamResponse struct {
	Team Team `json:"team"`
}

type InviteToTeamRequest struct {
	TeamID      string `json:"team_id"`
	InviteeID   string `json:"invitee_id"`
	InviteeName string `json:"invitee_name"`
}

type InviteToTeamResponse struct {
	Invitation Invitation `json:"invitation"`
}

type AcceptInvitationRequest struct {
	InvitationID string `json:"invitation_id"`
}

type AcceptInvitationResponse struct {
	Team Team `json:"team"`
}

type DeclineInvitationRequest struct {
	InvitationID string `json:"invitation_id"`
}

type DeclineInvitationResponse struct{}

type LeaveTeamRequest struct {
	TeamID string `json:"team_id"`
	UserID string `json:"user_id,omitempty"`
}

type LeaveTeamResponse struct {
	// Disbanded reports that the team was deleted because its last member
	// left.
	Disbanded bool `json:"disbanded"`
}

type UpdateTeamStatsRequest struct {
	TeamID string         `json:"team_id"`
	Stats  map[string]any `json:"stats"`
}

type UpdateTeamStatsResponse struct {
	Stats TeamStats `json:"stats"`
}

type GetTeamLeaderboardRequest struct {
	Sport  string `json:"sport"`
	SortBy string `json:"sort_by"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type GetTeamLeaderboardResponse struct {
	Teams []Team `json:"teams"`
}

type AwardTeamAchievementRequest struct {
	TeamID        string `json:"team_id"`
	AchievementID string `json:"achievement_id"`
	Name          string `json:"name"`
}

type AwardTeamAchievementResponse struct {
	Achievement TeamAchievement `json:"achievement"`
}

type GetMyInvitationsRequest struct{}

type GetMyInvitationsResponse struct {
	Invitations []Invitation `json:"invitations"`
}
