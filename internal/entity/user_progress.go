package entity

import (
	"time"

	"github.com/playhub-lab/backend/pkg/enum"
)

type UserActionType string

var (
	ActionEventJoined         = enum.New(UserActionType("event_joined"))
	ActionReactionReceived    = enum.New(UserActionType("reaction_received"))
	ActionChallengeCompleted  = enum.New(UserActionType("challenge_completed"))
	ActionMentorshipCompleted = enum.New(UserActionType("mentorship_completed"))
	ActionTeamWin             = enum.New(UserActionType("team_win"))
	ActionDailyCheckin        = enum.New(UserActionType("daily_checkin"))
)

type UnlockedAchievement struct {
	AchievementID string    `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// UserProgress accumulates a user's activity counters together with the
// achievements unlocked so far. One row per user, created lazily on the first
// recorded action. The unlocked list keeps insertion order, which is the
// unlock order.
type UserProgress struct {
	UserID    string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	EventsJoined         int
	ConsecutiveEvents    int
	ReactionsReceived    int
	ChallengesCompleted  int
	MentorshipsCompleted int
	TeamWins             int
	DaysActive           int

	Unlocked Array[UnlockedAchievement]
}

// Holds reports whether the user already unlocked the given achievement.
func (p *UserProgress) Holds(achievementID string) bool {
	for _, u := range p.Unlocked {
		if u.AchievementID == achievementID {
			return true
		}
	}

	return false
}
