package domain

import (
	"testing"

	"github.com/playhub-lab/backend/internal/entity"
	"github.com/playhub-lab/backend/internal/model"
	"github.com/playhub-lab/backend/internal/repository"
	"github.com/playhub-lab/backend/pkg/errorx"
	"github.com/playhub-lab/backend/pkg/testutil"
	"github.com/playhub-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestInteractionDomain() *interactionDomain {
	return NewInteractionDomain(
		repository.NewChallengeRepository(),
		repository.NewChallengePollRepository(),
		repository.NewChallengeQuestionRepository(),
	)
}

func Test_interactionDomain_CreatePoll(t *testing.T) {
	ctx := testutil.MockContext()
	challengeDomain := newTestChallengeDomain()
	interactionDomain := newTestInteractionDomain()
	challenge := createActiveChallenge(t, ctx, challengeDomain, "organizer", 0)

	organizerCtx := xcontext.WithRequestUserID(ctx, "organizer")
	resp, err := interactionDomain.CreatePoll(organizerCtx, &model.CreatePollRequest{
		ChallengeID: challenge.ID,
		Question:    "Best dunk so far?",
		Options:     []string{"Alice", "Bob"},
	})
	require.NoError(t, err)
	require.Equal(t, "organizer", resp.Poll.CreatedBy)
	require.Len(t, resp.Poll.Options, 2)
	require.False(t, resp.Poll.IsClosed)

	_, err = interactionDomain.CreatePoll(organizerCtx, &model.CreatePollRequest{
		ChallengeID: challenge.ID,
		Question:    "One horse race?",
		Options:     []string{"Alice"},
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	_, err = interactionDomain.CreatePoll(organizerCtx, &model.CreatePollRequest{
		ChallengeID: 12345,
		Question:    "Anyone there?",
		Options:     []string{"Yes", "No"},
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.NotFound, ""))

	// Closed challenges take no new polls.
	challenge.Status = entity.ChallengeCompleted
	require.NoError(t, challengeDomain.challengeRepo.Update(ctx, challenge))

	_, err = interactionDomain.CreatePoll(organizerCtx, &model.CreatePollRequest{
		ChallengeID: challenge.ID,
		Question:    "Too late?",
		Options:     []string{"Yes", "No"},
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.Unavailable, ""))
}

func Test_interactionDomain_VotePoll_and_ClosePoll(t *testing.T) {
	ctx := testutil.MockContext()
	challengeDomain := newTestChallengeDomain()
	interactionDomain := newTestInteractionDomain()
	challenge := createActiveChallenge(t, ctx, challengeDomain, "organizer", 0)

	organizerCtx := xcontext.WithRequestUserID(ctx, "organizer")
	created, err := interactionDomain.CreatePoll(organizerCtx, &model.CreatePollRequest{
		ChallengeID: challenge.ID,
		Question:    "Best dunk so far?",
		Options:     []string{"Alice", "Bob"},
	})
	require.NoError(t, err)
	pollID := created.Poll.ID

	voterCtx := xcontext.WithRequestUserID(ctx, "voter1")
	voted, err := interactionDomain.VotePoll(voterCtx, &model.VotePollRequest{
		PollID:      pollID,
		OptionIndex: 1,
	})
	require.NoError(t, err)
	require.Equal(t, 1, voted.Poll.Options[1].Votes)
	require.Equal(t, 1, voted.Poll.TotalVotes)

	_, err = interactionDomain.VotePoll(voterCtx, &model.VotePollRequest{
		PollID:      pollID,
		OptionIndex: 0,
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.AlreadyExists, ""))

	_, err = interactionDomain.VotePoll(
		xcontext.WithRequestUserID(ctx, "voter2"),
		&model.VotePollRequest{PollID: pollID, OptionIndex: 7},
	)
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	// Only the creator closes the poll.
	_, err = interactionDomain.ClosePoll(voterCtx, &model.ClosePollRequest{PollID: pollID})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.PermissionDenied, ""))

	closed, err := interactionDomain.ClosePoll(organizerCtx, &model.ClosePollRequest{PollID: pollID})
	require.NoError(t, err)
	require.True(t, closed.Poll.IsClosed)

	_, err = interactionDomain.ClosePoll(organizerCtx, &model.ClosePollRequest{PollID: pollID})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.Unavailable, ""))

	_, err = interactionDomain.VotePoll(
		xcontext.WithRequestUserID(ctx, "voter2"),
		&model.VotePollRequest{PollID: pollID, OptionIndex: 0},
	)
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.Unavailable, ""))
}

func Test_interactionDomain_Questions(t *testing.T) {
	ctx := testutil.MockContext()
	challengeDomain := newTestChallengeDomain()
	interactionDomain := newTestInteractionDomain()
	challenge := createActiveChallenge(t, ctx, challengeDomain, "organizer", 0)

	userCtx := xcontext.WithRequestUserID(ctx, "curious")
	asked, err := interactionDomain.AskQuestion(userCtx, &model.AskQuestionRequest{
		ChallengeID: challenge.ID,
		UserName:    "Curious",
		Question:    "Does the dunk need to be on video?",
	})
	require.NoError(t, err)
	require.False(t, asked.Question.IsAnswered)

	// Non-moderators cannot answer.
	_, err = interactionDomain.AnswerQuestion(userCtx, &model.AnswerQuestionRequest{
		QuestionID: asked.Question.ID,
		Answer:     "Probably",
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.PermissionDenied, ""))

	moderatorCtx := xcontext.WithRequestUserID(ctx, "moderator")
	answered, err := interactionDomain.AnswerQuestion(moderatorCtx, &model.AnswerQuestionRequest{
		QuestionID: asked.Question.ID,
		Answer:     "Yes, photos are not enough.",
	})
	require.NoError(t, err)
	require.True(t, answered.Question.IsAnswered)
	require.Equal(t, "moderator", answered.Question.AnsweredBy)

	_, err = interactionDomain.AnswerQuestion(moderatorCtx, &model.AnswerQuestionRequest{
		QuestionID: asked.Question.ID,
		Answer:     "Again?",
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.AlreadyExists, ""))

	_, err = interactionDomain.AskQuestion(userCtx, &model.AskQuestionRequest{
		ChallengeID: 12345,
		Question:    "Anyone there?",
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.NotFound, ""))
}

func Test_interactionDomain_GetByChallenge(t *testing.T) {
	ctx := testutil.MockContext()
	challengeDomain := newTestChallengeDomain()
	interactionDomain := newTestInteractionDomain()
	challenge := createActiveChallenge(t, ctx, challengeDomain, "organizer", 0)

	organizerCtx := xcontext.WithRequestUserID(ctx, "organizer")
	_, err := interactionDomain.CreatePoll(organizerCtx, &model.CreatePollRequest{
		ChallengeID: challenge.ID,
		Question:    "Best dunk so far?",
		Options:     []string{"Alice", "Bob"},
	})
	require.NoError(t, err)

	_, err = interactionDomain.AskQuestion(organizerCtx, &model.AskQuestionRequest{
		ChallengeID: challenge.ID,
		Question:    "When do votes close?",
	})
	require.NoError(t, err)

	resp, err := interactionDomain.GetByChallenge(ctx, &model.GetChallengeInteractionsRequest{
		ChallengeID: challenge.ID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Polls, 1)
	require.Len(t, resp.Questions, 1)

	empty, err := interactionDomain.GetByChallenge(ctx, &model.GetChallengeInteractionsRequest{
		ChallengeID: 9999,
	})
	require.NoError(t, err)
	require.Empty(t, empty.Polls)
	require.Empty(t, empty.Questions)
}
