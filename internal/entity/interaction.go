package entity

import "time"

type PollOption struct {
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// ChallengePoll is a lightweight interactive attachment of a challenge. It is
// append-only: votes accumulate until the creator closes it.
type ChallengePoll struct {
	Base

	ChallengeID int64 `gorm:"index"`
	Question    string
	Options     Array[PollOption]
	Voters      Array[string]
	IsClosed    bool
	CreatedBy   string
}

// ChallengeQuestion is a single Q&A entry attached to a challenge. Questions
// are appended by anyone; answers come from moderators only.
type ChallengeQuestion struct {
	Base

	ChallengeID int64 `gorm:"index"`
	UserID      string
	UserName    string
	Question    string

	Answer     string
	AnsweredBy string
	AnsweredAt time.Time
	IsAnswered bool
}
