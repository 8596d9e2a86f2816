package domain

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/playhub-lab/backend/internal/entity"
	"github.com/playhub-lab/backend/internal/model"
	"github.com/playhub-lab/backend/internal/repository"
	"github.com/playhub-lab/backend/pkg/errorx"
	"github.com/playhub-lab/backend/pkg/xcontext"
	"github.com/puzpuzpuz/xsync"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// InteractionDomain owns the lightweight interactive attachments of a
// challenge: polls and Q&A. Both are append-only logs with the same
// authorization pattern as the challenge itself.
type InteractionDomain interface {
	CreatePoll(context.Context, *model.CreatePollRequest) (*model.CreatePollResponse, error)
	VotePoll(context.Context, *model.VotePollRequest) (*model.VotePollResponse, error)
	ClosePoll(context.Context, *model.ClosePollRequest) (*model.ClosePollResponse, error)
	AskQuestion(context.Context, *model.AskQuestionRequest) (*model.AskQuestionResponse, error)
	AnswerQuestion(context.Context, *model.AnswerQuestionRequest) (*model.AnswerQuestionResponse, error)
	GetByChallenge(context.Context, *model.GetChallengeInteractionsRequest) (*model.GetChallengeInteractionsResponse, error)
}

type interactionDomain struct {
	challengeRepo repository.ChallengeRepository
	pollRepo      repository.ChallengePollRepository
	questionRepo  repository.ChallengeQuestionRepository

	pollLocks *xsync.MapOf[string, *sync.Mutex]
}

func NewInteractionDomain(
	challengeRepo repository.ChallengeRepository,
	pollRepo repository.ChallengePollRepository,
	questionRepo repository.ChallengeQuestionRepository,
) *interactionDomain {
	return &interactionDomain{
		challengeRepo: challengeRepo,
		pollRepo:      pollRepo,
		questionRepo:  questionRepo,
		pollLocks:     xsync.NewMapOf[*sync.Mutex](),
	}
}

func (d *interactionDomain) lockPoll(pollID string) func() {
	mutex, _ := d.pollLocks.LoadOrCompute(pollID, func() *sync.Mutex {
		return &sync.Mutex{}
	})

	mutex.Lock()
	return mutex.Unlock
}

func (d *interactionDomain) CreatePoll(
	ctx context.Context, req *model.CreatePollRequest,
) (*model.CreatePollResponse, error) {
	if req.Question == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty question")
	}

	if len(req.Options) < 2 {
		return nil, errorx.New(errorx.BadRequest, "Require at least two options")
	}

	challenge, err := d.challengeRepo.GetByID(ctx, req.ChallengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
		return nil, errorx.Unknown
	}

	if challenge.Status == entity.ChallengeCompleted || challenge.Status == entity.ChallengeCancelled {
		return nil, errorx.New(errorx.Unavailable, "Challenge is already closed")
	}

	options := entity.Array[entity.PollOption]{}
	for _, text := range req.Options {
		options = append(options, entity.PollOption{Text: text})
	}

	poll := &entity.ChallengePoll{
		Base:        entity.Base{ID: uuid.NewString()},
		ChallengeID: challenge.ID,
		Question:    req.Question,
		Options:     options,
		Voters:      entity.Array[string]{},
		CreatedBy:   xcontext.RequestUserID(ctx),
	}

	if err := d.pollRepo.Create(ctx, poll); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create poll: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreatePollResponse{Poll: convertPoll(poll)}, nil
}

func (d *interactionDomain) VotePoll(
	ctx context.Context, req *model.VotePollRequest,
) (*model.VotePollResponse, error) {
	voterID := xcontext.RequestUserID(ctx)
	if voterID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not determined user")
	}

	unlock := d.lockPoll(req.PollID)
	defer unlock()

	poll, err := d.getPoll(ctx, req.PollID)
	if err != nil {
		return nil, err
	}

	if poll.IsClosed {
		return nil, errorx.New(errorx.Unavailable, "Poll is already closed")
	}

	if req.OptionIndex < 0 || req.OptionIndex >= len(poll.Options) {
		return nil, errorx.New(errorx.BadRequest, "Invalid option index")
	}

	if slices.Contains(poll.Voters, voterID) {
		return nil, errorx.New(errorx.AlreadyExists, "User already voted")
	}

	poll.Options[req.OptionIndex].Votes++
	poll.Voters = append(poll.Voters, voterID)

	if err := d.pollRepo.Update(ctx, poll); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update poll: %v", err)
		return nil, errorx.Unknown
	}

	return &model.VotePollResponse{Poll: convertPoll(poll)}, nil
}

func (d *interactionDomain) ClosePoll(
	ctx context.Context, req *model.ClosePollRequest,
) (*model.ClosePollResponse, error) {
	unlock := d.lockPoll(req.PollID)
	defer unlock()

	poll, err := d.getPoll(ctx, req.PollID)
	if err != nil {
		return nil, err
	}

	if poll.CreatedBy != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the poll creator can close it")
	}

	if poll.IsClosed {
		return nil, errorx.New(errorx.Unavailable, "Poll is already closed")
	}

	poll.IsClosed = true
	if err := d.pollRepo.Update(ctx, poll); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update poll: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ClosePollResponse{Poll: convertPoll(poll)}, nil
}

func (d *interactionDomain) AskQuestion(
	ctx context.Context, req *model.AskQuestionRequest,
) (*model.AskQuestionResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not determined user")
	}

	if req.Question == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty question")
	}

	if _, err := d.challengeRepo.GetByID(ctx, req.ChallengeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
		return nil, errorx.Unknown
	}

	question := &entity.ChallengeQuestion{
		Base:        entity.Base{ID: uuid.NewString()},
		ChallengeID: req.ChallengeID,
		UserID:      userID,
		UserName:    req.UserName,
		Question:    req.Question,
	}

	if err := d.questionRepo.Create(ctx, question); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create question: %v", err)
		return nil, errorx.Unknown
	}

	return &model.AskQuestionResponse{Question: convertQuestion(question)}, nil
}

func (d *interactionDomain) AnswerQuestion(
	ctx context.Context, req *model.AnswerQuestionRequest,
) (*model.AnswerQuestionResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if !slices.Contains(xcontext.Configs(ctx).Engage.ModeratorIDs, userID) {
		return nil, errorx.New(errorx.PermissionDenied, "Only moderators can answer questions")
	}

	if req.Answer == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty answer")
	}

	question, err := d.questionRepo.GetByID(ctx, req.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found question")
		}

		xcontext.Logger(ctx).Errorf("Cannot get question: %v", err)
		return nil, errorx.Unknown
	}

	if question.IsAnswered {
		return nil, errorx.New(errorx.AlreadyExists, "Question is already answered")
	}

	question.Answer = req.Answer
	question.AnsweredBy = userID
	question.AnsweredAt = xcontext.Clock(ctx).Now()
	question.IsAnswered = true

	if err := d.questionRepo.Update(ctx, question); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update question: %v", err)
		return nil, errorx.Unknown
	}

	return &model.AnswerQuestionResponse{Question: convertQuestion(question)}, nil
}

func (d *interactionDomain) GetByChallenge(
	ctx context.Context, req *model.GetChallengeInteractionsRequest,
) (*model.GetChallengeInteractionsResponse, error) {
	polls, err := d.pollRepo.GetByChallengeID(ctx, req.ChallengeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get polls: %v", err)
		return nil, errorx.Unknown
	}

	questions, err := d.questionRepo.GetByChallengeID(ctx, req.ChallengeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get questions: %v", err)
		return nil, errorx.Unknown
	}

	clientPolls := []model.Poll{}
	for i := range polls {
		clientPolls = append(clientPolls, convertPoll(&polls[i]))
	}

	clientQuestions := []model.Question{}
	for i := range questions {
		clientQuestions = append(clientQuestions, convertQuestion(&questions[i]))
	}

	return &model.GetChallengeInteractionsResponse{
		Polls:     clientPolls,
		Questions: clientQuestions,
	}, nil
}

func (d *interactionDomain) getPoll(ctx context.Context, id string) (*entity.ChallengePoll, error) {
	poll, err := d.pollRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found poll")
		}

		xcontext.Logger(ctx).Errorf("Cannot get poll: %v", err)
		return nil, errorx.Unknown
	}

	return poll, nil
}
