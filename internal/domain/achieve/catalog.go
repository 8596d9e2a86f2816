package achieve

import (
	"github.com/playhub-lab/backend/pkg/enum"
)

type Rarity string

var (
	RarityCommon    = enum.New(Rarity("common"))
	RarityRare      = enum.New(Rarity("rare"))
	RarityEpic      = enum.New(Rarity("epic"))
	RarityLegendary = enum.New(Rarity("legendary"))
)

// Multiplier scales the points an achievement contributes to the engagement
// score. Anything above common pays out more than its face value.
func (r Rarity) Multiplier() float64 {
	switch r {
	case RarityRare:
		return 1.5
	case RarityEpic:
		return 2
	case RarityLegendary:
		return 3
	}

	return 1
}

type Achievement struct {
	ID          string
	Name        string
	Description string
	IconURL     string
	Rarity      Rarity
	Category    string
	Points      int
	Requirement Requirement
}

// Catalog is the immutable set of achievement definitions the evaluator runs
// against. It is only written at construction, readonly afterwards, so tests
// can inject a minimal one.
type Catalog struct {
	ordered []Achievement
	byID    map[string]Achievement
}

func NewCatalog(achievements ...Achievement) *Catalog {
	catalog := &Catalog{byID: make(map[string]Achievement)}
	for _, a := range achievements {
		if _, ok := catalog.byID[a.ID]; ok {
			continue
		}

		catalog.ordered = append(catalog.ordered, a)
		catalog.byID[a.ID] = a
	}

	return catalog
}

func (c *Catalog) Get(id string) (Achievement, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// All returns definitions in their declaration order.
func (c *Catalog) All() []Achievement {
	return c.ordered
}

// DefaultCatalog is the production achievement set.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Achievement{
			ID:          "first_step",
			Name:        "First Step",
			Description: "Join your first event",
			IconURL:     "/icons/achievements/first_step.svg",
			Rarity:      RarityCommon,
			Category:    "participation",
			Points:      10,
			Requirement: Requirement{Type: RequireEventsJoined, Threshold: 1},
		},
		Achievement{
			ID:          "streak_master",
			Name:        "Streak Master",
			Description: "Attend 5 events in a row",
			IconURL:     "/icons/achievements/streak_master.svg",
			Rarity:      RarityRare,
			Category:    "participation",
			Points:      50,
			Requirement: Requirement{Type: RequireConsecutiveEvents, Threshold: 5},
		},
		Achievement{
			ID:          "community_favorite",
			Name:        "Community Favorite",
			Description: "Receive 50 reactions from the community",
			IconURL:     "/icons/achievements/community_favorite.svg",
			Rarity:      RarityEpic,
			Category:    "social",
			Points:      100,
			Requirement: Requirement{Type: RequireReactionsReceived, Threshold: 50},
		},
		Achievement{
			ID:          "challenge_champion",
			Name:        "Challenge Champion",
			Description: "Complete 10 challenges",
			IconURL:     "/icons/achievements/challenge_champion.svg",
			Rarity:      RarityRare,
			Category:    "competition",
			Points:      75,
			Requirement: Requirement{Type: RequireChallengesCompleted, Threshold: 10},
		},
		Achievement{
			ID:          "mentor_master",
			Name:        "Mentor Master",
			Description: "Guide 3 newcomers through their first event",
			IconURL:     "/icons/achievements/mentor_master.svg",
			Rarity:      RarityLegendary,
			Category:    "mentorship",
			Points:      200,
			Requirement: Requirement{Type: RequireMentorshipsCompleted, Threshold: 3},
		},
		Achievement{
			ID:          "team_player",
			Name:        "Team Player",
			Description: "Win a challenge with your team",
			IconURL:     "/icons/achievements/team_player.svg",
			Rarity:      RarityRare,
			Category:    "competition",
			Points:      60,
			Requirement: Requirement{Type: RequireTeamWins, Threshold: 1},
		},
		Achievement{
			ID:          "regular",
			Name:        "Regular",
			Description: "Check in on 30 different days",
			IconURL:     "/icons/achievements/regular.svg",
			Rarity:      RarityEpic,
			Category:    "participation",
			Points:      120,
			Requirement: Requirement{Type: RequireDaysActive, Threshold: 30},
		},
	)
}
