package model

import "time"

type UserAction struct {
	Type        string `json:"type"`
	EventID     string `json:"event_id,omitempty"`
	ChallengeID int64  `json:"challenge_id,omitempty"`
}

type Achievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IconURL     string    `json:"icon_url"`
	Rarity      string    `json:"rarity"`
	Category    string    `json:"category"`
	Points      int       `json:"points"`
	UnlockedAt  time.Time `json:"unlocked_at,omitempty"`
}

type UserProgress struct {
	UserID               string        `json:"user_id"`
	EventsJoined         int           `json:"events_joined"`
	ConsecutiveEvents    int           `json:"consecutive_events"`
	ReactionsReceived    int           `json:"reactions_received"`
	ChallengesCompleted  int           `json:"challenges_completed"`
	MentorshipsCompleted int           `json:"mentorships_completed"`
	TeamWins             int           `json:"team_wins"`
	DaysActive           int           `json:"days_active"`
	Achievements         []Achievement `json:"achievements"`
	AchievementPoints    int           `json:"achievement_points"`
}

type CheckAchievementsRequest struct {
	UserID string     `json:"user_id"`
	Action UserAction `json:"action"`
}

type CheckAchievementsResponse struct {
	Unlocked []Achievement `json:"unlocked"`
}

type AwardBadgeRequest struct {
	UserID        string `json:"user_id"`
	AchievementID string `json:"achievement_id"`
}

type AwardBadgeResponse struct {
	Achievement Achievement `json:"achievement"`
}

type CalculateEngagementScoreRequest struct {
	UserID string `json:"user_id"`
}

type CalculateEngagementScoreResponse struct {
	Score int `json:"score"`
}

type GetEngagementScoreRequest struct {
	UserID string `json:"user_id"`
}

type GetEngagementScoreResponse struct {
	Score int `json:"score"`
}

type GetUserProgressRequest struct {
	UserID string `json:"user_id"`
}

type GetUserProgressResponse struct {
	Progress UserProgress `json:"progress"`
}
