package model

import "time"

type Reward struct {
	Type        string `json:"type"`
	Points      int    `json:"points,omitempty"`
	Description string `json:"description,omitempty"`
}

type Challenge struct {
	ID              int64     `json:"id"`
	EventID         string    `json:"event_id"`
	Sport           string    `json:"sport"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Type            string    `json:"type"`
	Status          string    `json:"status"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	MaxParticipants int       `json:"max_participants,omitempty"`
	CreatedBy       string    `json:"created_by"`
	Rewards         []Reward  `json:"rewards"`
	Participants    []string  `json:"participants"`
}

type Submission struct {
	ID          string    `json:"id"`
	ChallengeID int64     `json:"challenge_id"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	Content     string    `json:"content"`
	MediaURL    string    `json:"media_url,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	Votes       int       `json:"votes"`
	FinalRank   int       `json:"final_rank,omitempty"`
	FinalScore  int       `json:"final_score,omitempty"`
}

type LeaderboardEntry struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
	Level    int    `json:"level"`
}

type Winner struct {
	WinnerID          string    `json:"winner_id"`
	WinnerName        string    `json:"winner_name"`
	TotalParticipants int       `json:"total_participants"`
	CompletedAt       time.Time `json:"completed_at"`
}

type GenerateChallengesRequest struct {
	EventID string `json:"event_id"`
	Sport   string `json:"sport"`
}

type GenerateChallengesResponse struct {
	Challenges []Challenge `json:"challenges"`
}

type GetChallengesRequest struct {
	EventID string `json:"event_id"`
}

type GetChallengesResponse struct {
	Challenges []Challenge `json:"challenges"`
}

type ActivateChallengeRequest struct {
	ChallengeID int64 `json:"challenge_id"`
}

type ActivateChallengeResponse struct{}

type CancelChallengeRequest struct {
	ChallengeID int64 `json:"challenge_id"`
}

type CancelChallengeResponse struct{}

type SubmitChallengeEntryRequest struct {
	ChallengeID int64  `json:"challenge_id"`
	UserName    string `json:"user_name"`
	Content     string `json:"content"`
	MediaURL    string `json:"media_url,omitempty"`
}

type SubmitChallengeEntryResponse struct {
	Submission Submission `json:"submission"`
}

type VoteOnSubmissionRequest struct {
	SubmissionID string `json:"submission_id"`
}

type VoteOnSubmissionResponse struct {
	Votes int `json:"votes"`
}

type TallyEntry struct {
	SubmissionID string `json:"submission_id"`
	UserID       string `json:"user_id"`
	UserName     string `json:"user_name"`
	Votes        int    `json:"votes"`
}

type GetChallengeTallyRequest struct {
	ChallengeID int64 `json:"challenge_id"`
}

type GetChallengeTallyResponse struct {
	Tally []TallyEntry `json:"tally"`
}

type GetChallengeLeaderboardRequest struct {
	ChallengeID int64 `json:"challenge_id"`
}

type GetChallengeLeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

type EndChallengeRequest struct {
	ChallengeID int64 `json:"challenge_id"`
}

type EndChallengeResponse struct {
	Winners []Winner `json:"winners"`
}
