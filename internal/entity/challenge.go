package entity

import (
	"time"

	"github.com/playhub-lab/backend/pkg/enum"
)

type ChallengeType string

var (
	ChallengeSkillShowcase     = enum.New(ChallengeType("skill_showcase"))
	ChallengeEndurance         = enum.New(ChallengeType("endurance"))
	ChallengeCreativity        = enum.New(ChallengeType("creativity"))
	ChallengeTeamCollaboration = enum.New(ChallengeType("team_collaboration"))
	ChallengeKnowledgeQuiz     = enum.New(ChallengeType("knowledge_quiz"))
	ChallengePhotoContest      = enum.New(ChallengeType("photo_contest"))
)

type ChallengeStatus string

var (
	ChallengeUpcoming  = enum.New(ChallengeStatus("upcoming"))
	ChallengeActive    = enum.New(ChallengeStatus("active"))
	ChallengeCompleted = enum.New(ChallengeStatus("completed"))
	ChallengeCancelled = enum.New(ChallengeStatus("cancelled"))
)

type Reward struct {
	Type        string `json:"type"`
	Points      int    `json:"points,omitempty"`
	Description string `json:"description,omitempty"`
}

type Challenge struct {
	SnowFlakeBase

	EventID     string `gorm:"index"`
	Sport       string
	Title       string
	Description string
	Type        ChallengeType
	Status      ChallengeStatus

	StartTime time.Time
	EndTime   time.Time

	// MaxParticipants of zero means unbounded.
	MaxParticipants int
	CreatedBy       string

	Rewards      Array[Reward]
	Participants Array[string]
}

type ChallengeSubmission struct {
	Base

	ChallengeID int64     `gorm:"uniqueIndex:idx_challenge_user"`
	Challenge   Challenge `gorm:"foreignKey:ChallengeID"`

	UserID   string `gorm:"uniqueIndex:idx_challenge_user"`
	UserName string

	Content     string
	MediaURL    string
	SubmittedAt time.Time

	Votes  int
	Voters Array[string]

	// FinalRank and FinalScore are written once when the challenge ends.
	FinalRank  int
	FinalScore int
}
