package entity

import "time"

type TeamAchievement struct {
	AchievementID string    `json:"achievement_id"`
	Name          string    `json:"name"`
	AwardedAt     time.Time `json:"awarded_at"`
}

type Team struct {
	Base

	Name  string
	Sport string `gorm:"uniqueIndex:idx_sport_name_key"`

	// NameKey is the lower-cased name, so name uniqueness per sport is
	// case-insensitive and enforced by the database.
	NameKey string `gorm:"uniqueIndex:idx_sport_name_key"`

	CaptainID  string `gorm:"index"`
	Members    Array[string]
	MaxMembers int
	IsPublic   bool

	Achievements Array[TeamAchievement]

	EventsParticipated int
	ChallengesWon      int
	TotalScore         int
	AverageEngagement  float64
	WinRate            float64
}

// IsMember reports whether the user is on the roster. The captain is always a
// member.
func (t *Team) IsMember(userID string) bool {
	for _, m := range t.Members {
		if m == userID {
			return true
		}
	}

	return false
}

func (t *Team) IsFull() bool {
	return len(t.Members) >= t.MaxMembers
}
