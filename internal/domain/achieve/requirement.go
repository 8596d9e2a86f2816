package achieve

import (
	"github.com/playhub-lab/backend/internal/entity"
	"github.com/playhub-lab/backend/pkg/enum"
)

type RequirementType string

var (
	RequireEventsJoined         = enum.New(RequirementType("events_joined"))
	RequireConsecutiveEvents    = enum.New(RequirementType("consecutive_events"))
	RequireReactionsReceived    = enum.New(RequirementType("reactions_received"))
	RequireChallengesCompleted  = enum.New(RequirementType("challenges_completed"))
	RequireMentorshipsCompleted = enum.New(RequirementType("mentorships_completed"))
	RequireTeamWins             = enum.New(RequirementType("team_wins"))
	RequireDaysActive           = enum.New(RequirementType("days_active"))
)

// Requirement is a threshold predicate over one cumulative progress counter.
type Requirement struct {
	Type      RequirementType
	Threshold int
}

func (r Requirement) SatisfiedBy(progress *entity.UserProgress) bool {
	return r.counter(progress) >= r.Threshold
}

func (r Requirement) counter(progress *entity.UserProgress) int {
	switch r.Type {
	case RequireEventsJoined:
		return progress.EventsJoined
	case RequireConsecutiveEvents:
		return progress.ConsecutiveEvents
	case RequireReactionsReceived:
		return progress.ReactionsReceived
	case RequireChallengesCompleted:
		return progress.ChallengesCompleted
	case RequireMentorshipsCompleted:
		return progress.MentorshipsCompleted
	case RequireTeamWins:
		return progress.TeamWins
	case RequireDaysActive:
		return progress.DaysActive
	}

	return 0
}
