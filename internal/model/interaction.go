package model

import "time"

type PollOption struct {
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

type Poll struct {
	ID          string       `json:"id"`
	ChallengeID int64        `json:"challenge_id"`
	Question    string       `json:"question"`
	Options     []PollOption `json:"options"`
	TotalVotes  int          `json:"total_votes"`
	IsClosed    bool         `json:"is_closed"`
	CreatedBy   string       `json:"created_by"`
}

type Question struct {
	ID          string    `json:"id"`
	ChallengeID int64     `json:"challenge_id"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer,omitempty"`
	AnsweredBy  string    `json:"answered_by,omitempty"`
	AnsweredAt  time.Time `json:"answered_at,omitempty"`
	IsAnswered  bool      `json:"is_answered"`
}

type CreatePollRequest struct {
	ChallengeID int64    `json:"challenge_id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
}

type CreatePollResponse struct {
	Poll Poll `json:"poll"`
}

type VotePollRequest struct {
	PollID      string `json:"poll_id"`
	OptionIndex int    `json:"option_index"`
}

type VotePollResponse struct {
	Poll Poll `json:"poll"`
}

type ClosePollRequest struct {
	PollID string `json:"poll_id"`
}

type ClosePollResponse struct {
	Poll Poll `json:"poll"`
}

type AskQuestionRequest struct {
	ChallengeID int64  `json:"challenge_id"`
	UserName    string `json:"user_name"`
	Question    string `json:"question"`
}

type AskQuestionResponse struct {
	Question Question `json:"question"`
}

type AnswerQuestionRequest struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

type AnswerQuestionResponse struct {
	Question Question `json:"question"`
}

type GetChallengeInteractionsRequest struct {
	ChallengeID int64 `json:"challenge_id"`
}

type GetChallengeInteractionsResponse struct {
	Polls     []Poll     `json:"polls"`
	Questions []Question `json:"questions"`
}
