package domain

import (
	"github.com/playhub-lab/backend/internal/domain/achieve"
	"github.com/playhub-lab/backend/internal/entity"
	"github.com/playhub-lab/backend/internal/model"
)

func convertAchievement(def achieve.Achievement, unlocked *entity.UnlockedAchievement) model.Achievement {
	result := model.Achievement{
		ID:          def.ID,
		Name:        def.Name,
		Description: def.Description,
		IconURL:     def.IconURL,
		Rarity:      string(def.Rarity),
		Category:    def.Category,
		Points:      def.Points,
	}

	if unlocked != nil {
		result.UnlockedAt = unlocked.UnlockedAt
	}

	return result
}

func convertChallenge(challenge *entity.Challenge) model.Challenge {
	rewards := []model.Reward{}
	for _, r := range challenge.Rewards {
		rewards = append(rewards, model.Reward{
			Type:        r.Type,
			Points:      r.Points,
			Description: r.Description,
		})
	}

	return model.Challenge{
		ID:              challenge.ID,
		EventID:         challenge.EventID,
		Sport:           challenge.Sport,
		Title:           challenge.Title,
		Description:     challenge.Description,
		Type:            string(challenge.Type),
		Status:          string(challenge.Status),
		StartTime:       challenge.StartTime,
		EndTime:         challenge.EndTime,
		MaxParticipants: challenge.MaxParticipants,
		CreatedBy:       challenge.CreatedBy,
		Rewards:         rewards,
		Participants:    challenge.Participants,
	}
}

func convertSubmission(submission *entity.ChallengeSubmission) model.Submission {
	return model.Submission{
		ID:          submission.ID,
		ChallengeID: submission.ChallengeID,
		UserID:      submission.UserID,
		UserName:    submission.UserName,
		Content:     submission.Content,
		MediaURL:    submission.MediaURL,
		SubmittedAt: submission.SubmittedAt,
		Votes:       submission.Votes,
		FinalRank:   submission.FinalRank,
		FinalScore:  submission.FinalScore,
	}
}

func convertPoll(poll *entity.ChallengePoll) model.Poll {
	options := []model.PollOption{}
	totalVotes := 0
	for _, o := range poll.Options {
		options = append(options, model.PollOption{Text: o.Text, Votes: o.Votes})
		totalVotes += o.Votes
	}

	return model.Poll{
		ID:          poll.ID,
		ChallengeID: poll.ChallengeID,
		Question:    poll.Question,
		Options:     options,
		TotalVotes:  totalVotes,
		IsClosed:    poll.IsClosed,
		CreatedBy:   poll.CreatedBy,
	}
}

func convertQuestion(question *entity.ChallengeQuestion) model.Question {
	return model.Question{
		ID:          question.ID,
		ChallengeID: question.ChallengeID,
		UserID:      question.UserID,
		UserName:    question.UserName,
		Question:    question.Question,
		Answer:      question.Answer,
		AnsweredBy:  question.AnsweredBy,
		AnsweredAt:  question.AnsweredAt,
		IsAnswered:  question.IsAnswered,
	}
}

func convertTeam(team *entity.Team) model.Team {
	achievements := []model.TeamAchievement{}
	for _, a := range team.Achievements {
		achievements = append(achievements, model.TeamAchievement{
			AchievementID: a.AchievementID,
			Name:          a.Name,
			AwardedAt:     a.AwardedAt,
		})
	}

	return model.Team{
		ID:           team.ID,
		Name:         team.Name,
		Sport:        team.Sport,
		CaptainID:    team.CaptainID,
		Members:      team.Members,
		MaxMembers:   team.MaxMembers,
		IsPublic:     team.IsPublic,
		Achievements: achievements,
		Stats: model.TeamStats{
			EventsParticipated: team.EventsParticipated,
			ChallengesWon:      team.ChallengesWon,
			TotalScore:         team.TotalScore,
			AverageEngagement:  team.AverageEngagement,
			WinRate:            team.WinRate,
		},
		CreatedAt: team.CreatedAt,
	}
}

func convertInvitation(invitation *entity.TeamInvitation) model.Invitation {
	return model.Invitation{
		ID:          invitation.ID,
		TeamID:      invitation.TeamID,
		InviterID:   invitation.InviterID,
		InviteeID:   invitation.InviteeID,
		InviteeName: invitation.InviteeName,
		Status:      string(invitation.Status),
		CreatedAt:   invitation.CreatedAt,
		ExpiresAt:   invitation.ExpiresAt,
	}
}
