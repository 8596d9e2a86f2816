package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/playhub-lab/backend/internal/entity"
	"github.com/playhub-lab/backend/internal/model"
	"github.com/playhub-lab/backend/internal/repository"
	"github.com/playhub-lab/backend/pkg/errorx"
	"github.com/playhub-lab/backend/pkg/xcontext"
	"github.com/playhub-lab/backend/pkg/xredis"
	"github.com/puzpuzpuz/xsync"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// Fallback scoring weights, used when the configuration leaves them zero.
const (
	defaultVoteWeight        = 10
	defaultContentBonus      = 25
	defaultContentBonusAfter = 50
	defaultMediaBonus        = 15
)

const challengesPerEvent = 3

// challengeTypesBySport decides which three challenge types an event of a
// sport gets. Unknown sports fall back to the basketball set.
var challengeTypesBySport = map[string][]entity.ChallengeType{
	"basketball": {entity.ChallengeSkillShowcase, entity.ChallengeCreativity, entity.ChallengePhotoContest},
	"soccer":     {entity.ChallengeSkillShowcase, entity.ChallengeEndurance, entity.ChallengeTeamCollaboration},
	"tennis":     {entity.ChallengeSkillShowcase, entity.ChallengeEndurance, entity.ChallengeKnowledgeQuiz},
	"volleyball": {entity.ChallengeTeamCollaboration, entity.ChallengeCreativity, entity.ChallengePhotoContest},
	"running":    {entity.ChallengeEndurance, entity.ChallengePhotoContest, entity.ChallengeKnowledgeQuiz},
}

var defaultChallengeTypes = challengeTypesBySport["basketball"]

type challengeBlueprint struct {
	title       string
	description string
	reward      entity.Reward
}

var challengeBlueprints = map[entity.ChallengeType]challengeBlueprint{
	entity.ChallengeSkillShowcase: {
		title:       "Skill Showcase",
		description: "Show off your best move and let the community judge it.",
		reward:      entity.Reward{Type: "badge", Description: "Skill Master"},
	},
	entity.ChallengeEndurance: {
		title:       "Endurance Run",
		description: "Keep going longer than anyone else.",
		reward:      entity.Reward{Type: "badge", Description: "Iron Will"},
	},
	entity.ChallengeCreativity: {
		title:       "Creative Corner",
		description: "Surprise everyone with the most original take on the event.",
		reward:      entity.Reward{Type: "badge", Description: "Creative Mind"},
	},
	entity.ChallengeTeamCollaboration: {
		title:       "Better Together",
		description: "Pull off something that only works as a team.",
		reward:      entity.Reward{Type: "badge", Description: "Team Spirit"},
	},
	entity.ChallengeKnowledgeQuiz: {
		title:       "Know Your Game",
		description: "Answer the trivia round about this sport.",
		reward:      entity.Reward{Type: "badge", Description: "Quiz Whiz"},
	},
	entity.ChallengePhotoContest: {
		title:       "Photo Contest",
		description: "Capture the moment that tells the story of the event.",
		reward:      entity.Reward{Type: "badge", Description: "Sharp Eye"},
	},
}

type ChallengeDomain interface {
	Generate(context.Context, *model.GenerateChallengesRequest) (*model.GenerateChallengesResponse, error)
	GetByEvent(context.Context, *model.GetChallengesRequest) (*model.GetChallengesResponse, error)
	Activate(context.Context, *model.ActivateChallengeRequest) (*model.ActivateChallengeResponse, error)
	Cancel(context.Context, *model.CancelChallengeRequest) (*model.CancelChallengeResponse, error)
	Submit(context.Context, *model.SubmitChallengeEntryRequest) (*model.SubmitChallengeEntryResponse, error)
	Vote(context.Context, *model.VoteOnSubmissionRequest) (*model.VoteOnSubmissionResponse, error)
	GetTally(context.Context, *model.GetChallengeTallyRequest) (*model.GetChallengeTallyResponse, error)
	GetLeaderboard(context.Context, *model.GetChallengeLeaderboardRequest) (*model.GetChallengeLeaderboardResponse, error)
	End(context.Context, *model.EndChallengeRequest) (*model.EndChallengeResponse, error)
}

type challengeDomain struct {
	challengeRepo  repository.ChallengeRepository
	submissionRepo repository.ChallengeSubmissionRepository
	redisClient    xredis.Client
	idNode         *snowflake.Node

	// challengeLocks serializes mutations of one challenge, so the
	// participants list and the submission rows cannot diverge under
	// concurrent submits, votes and closure.
	challengeLocks *xsync.MapOf[string, *sync.Mutex]
}

func NewChallengeDomain(
	challengeRepo repository.ChallengeRepository,
	submissionRepo repository.ChallengeSubmissionRepository,
	redisClient xredis.Client,
	idNode *snowflake.Node,
) *challengeDomain {
	return &challengeDomain{
		challengeRepo:  challengeRepo,
		submissionRepo: submissionRepo,
		redisClient:    redisClient,
		idNode:         idNode,
		challengeLocks: xsync.NewMapOf[*sync.Mutex](),
	}
}

func voteTallyKey(challengeID int64) string {
	return fmt.Sprintf("challenge_votes:%d", challengeID)
}

func (d *challengeDomain) lockChallenge(challengeID int64) func() {
	mutex, _ := d.challengeLocks.LoadOrCompute(
		strconv.FormatInt(challengeID, 10),
		func() *sync.Mutex { return &sync.Mutex{} },
	)

	mutex.Lock()
	return mutex.Unlock
}

func (d *challengeDomain) Generate(
	ctx context.Context, req *model.GenerateChallengesRequest,
) (*model.GenerateChallengesResponse, error) {
	if req.EventID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty event id")
	}

	types, ok := challengeTypesBySport[req.Sport]
	if !ok {
		types = defaultChallengeTypes
	}

	now := xcontext.Clock(ctx).Now()
	userID := xcontext.RequestUserID(ctx)

	challenges := []model.Challenge{}
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	for i := 0; i < challengesPerEvent; i++ {
		blueprint := challengeBlueprints[types[i]]

		// Later challenges open later, so an event rolls them out one by one.
		start := now.Add(time.Duration(i) * 2 * time.Hour)
		challenge := &entity.Challenge{
			SnowFlakeBase: entity.SnowFlakeBase{ID: d.idNode.Generate().Int64()},
			EventID:       req.EventID,
			Sport:         req.Sport,
			Title:         blueprint.title,
			Description:   blueprint.description,
			Type:          types[i],
			Status:        entity.ChallengeUpcoming,
			StartTime:     start,
			EndTime:       start.Add(24 * time.Hour),
			CreatedBy:     userID,
			Rewards: entity.Array[entity.Reward]{
				{Type: "points", Points: 50},
				blueprint.reward,
			},
			Participants: entity.Array[string]{},
		}

		if err := d.challengeRepo.Create(ctx, challenge); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create challenge: %v", err)
			return nil, errorx.Unknown
		}

		challenges = append(challenges, convertChallenge(challenge))
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.GenerateChallengesResponse{Challenges: challenges}, nil
}

func (d *challengeDomain) GetByEvent(
	ctx context.Context, req *model.GetChallengesRequest,
) (*model.GetChallengesResponse, error) {
	challenges, err := d.challengeRepo.GetByEventID(ctx, req.EventID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get challenges: %v", err)
		return nil, errorx.Unknown
	}

	clientChallenges := []model.Challenge{}
	for i := range challenges {
		clientChallenges = append(clientChallenges, convertChallenge(&challenges[i]))
	}

	return &model.GetChallengesResponse{Challenges: clientChallenges}, nil
}

func (d *challengeDomain) Activate(
	ctx context.Context, req *model.ActivateChallengeRequest,
) (*model.ActivateChallengeResponse, error) {
	unlock := d.lockChallenge(req.ChallengeID)
	defer unlock()

	challenge, err := d.getChallenge(ctx, req.ChallengeID)
	if err != nil {
		return nil, err
	}

	if challenge.CreatedBy != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the challenge creator can activate it")
	}

	if challenge.Status != entity.ChallengeUpcoming {
		return nil, errorx.New(errorx.Unavailable, "Challenge is not upcoming")
	}

	challenge.Status = entity.ChallengeActive
	if err := d.challengeRepo.Update(ctx, challenge); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update challenge: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ActivateChallengeResponse{}, nil
}

func (d *challengeDomain) Cancel(
	ctx context.Context, req *model.CancelChallengeRequest,
) (*model.CancelChallengeResponse, error) {
	unlock := d.lockChallenge(req.ChallengeID)
	defer unlock()

	challenge, err := d.getChallenge(ctx, req.ChallengeID)
	if err != nil {
		return nil, err
	}

	if challenge.CreatedBy != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the challenge creator can cancel it")
	}

	if challenge.Status != entity.ChallengeUpcoming && challenge.Status != entity.ChallengeActive {
		return nil, errorx.New(errorx.Unavailable, "Challenge is already closed")
	}

	challenge.Status = entity.ChallengeCancelled
	if err := d.challengeRepo.Update(ctx, challenge); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update challenge: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CancelChallengeResponse{}, nil
}

func (d *challengeDomain) Submit(
	ctx context.Context, req *model.SubmitChallengeEntryRequest,
) (*model.SubmitChallengeEntryResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not determined user")
	}

	unlock := d.lockChallenge(req.ChallengeID)
	defer unlock()

	challenge, err := d.getChallenge(ctx, req.ChallengeID)
	if err != nil {
		return nil, err
	}

	now := xcontext.Clock(ctx).Now()
	if challenge.Status != entity.ChallengeActive ||
		now.Before(challenge.StartTime) || !now.Before(challenge.EndTime) {
		return nil, errorx.New(errorx.Unavailable, "Challenge is not active")
	}

	// The checks below run under the challenge lock, after the authoritative
	// read, so two racing submits cannot both pass them.
	if slices.Contains(challenge.Participants, userID) {
		return nil, errorx.New(errorx.AlreadyExists, "User already participated")
	}

	if challenge.MaxParticipants > 0 && len(challenge.Participants) >= challenge.MaxParticipants {
		return nil, errorx.New(errorx.CapacityExceeded, "Challenge is full")
	}

	submission := &entity.ChallengeSubmission{
		Base:        entity.Base{ID: uuid.NewString()},
		ChallengeID: challenge.ID,
		UserID:      userID,
		UserName:    req.UserName,
		Content:     req.Content,
		MediaURL:    req.MediaURL,
		SubmittedAt: now,
		Voters:      entity.Array[string]{},
	}

	challenge.Participants = append(challenge.Participants, userID)

	// Participant list and submission row must land together.
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.challengeRepo.Update(ctx, challenge); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update challenge participants: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.submissionRepo.Create(ctx, submission); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create submission: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.SubmitChallengeEntryResponse{Submission: convertSubmission(submission)}, nil
}

func (d *challengeDomain) Vote(
	ctx context.Context, req *model.VoteOnSubmissionRequest,
) (*model.VoteOnSubmissionResponse, error) {
	voterID := xcontext.RequestUserID(ctx)
	if voterID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not determined user")
	}

	submission, err := d.submissionRepo.GetByID(ctx, req.SubmissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found submission")
		}

		xcontext.Logger(ctx).Errorf("Cannot get submission: %v", err)
		return nil, errorx.Unknown
	}

	unlock := d.lockChallenge(submission.ChallengeID)
	defer unlock()

	// Re-read under the lock so a concurrent duplicate vote is caught.
	submission, err = d.submissionRepo.GetByID(ctx, req.SubmissionID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get submission: %v", err)
		return nil, errorx.Unknown
	}

	challenge, err := d.getChallenge(ctx, submission.ChallengeID)
	if err != nil {
		return nil, err
	}

	if challenge.Status == entity.ChallengeCompleted || challenge.Status == entity.ChallengeCancelled {
		return nil, errorx.New(errorx.Unavailable, "Challenge is already closed")
	}

	if xcontext.Configs(ctx).Engage.ForbidSelfVote && submission.UserID == voterID {
		return nil, errorx.New(errorx.PermissionDenied, "Not allow voting for yourself")
	}

	if slices.Contains(submission.Voters, voterID) {
		return nil, errorx.New(errorx.AlreadyExists, "User already voted")
	}

	submission.Votes++
	submission.Voters = append(submission.Voters, voterID)

	if err := d.submissionRepo.Update(ctx, submission); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update submission: %v", err)
		return nil, errorx.Unknown
	}

	// Live vote tally for viewers; best effort only.
	err = d.redisClient.ZIncrBy(ctx, voteTallyKey(submission.ChallengeID), 1, submission.ID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot update live vote tally: %v", err)
	}

	return &model.VoteOnSubmissionResponse{Votes: submission.Votes}, nil
}

// GetTally returns the current vote count per submission, best first. While
// the challenge runs it is served from the redis sorted set that Vote feeds,
// so viewers can poll it without hitting the submission rows.
func (d *challengeDomain) GetTally(
	ctx context.Context, req *model.GetChallengeTallyRequest,
) (*model.GetChallengeTallyResponse, error) {
	challenge, err := d.getChallenge(ctx, req.ChallengeID)
	if err != nil {
		return nil, err
	}

	submissions, err := d.submissionRepo.GetByChallengeID(ctx, req.ChallengeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get submissions: %v", err)
		return nil, errorx.Unknown
	}

	if challenge.Status == entity.ChallengeActive {
		if tally, ok := d.liveTally(ctx, challenge.ID, submissions); ok {
			return &model.GetChallengeTallyResponse{Tally: tally}, nil
		}
	}

	ordered := make([]entity.ChallengeSubmission, len(submissions))
	copy(ordered, submissions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Votes > ordered[j].Votes
	})

	tally := []model.TallyEntry{}
	for i := range ordered {
		tally = append(tally, model.TallyEntry{
			SubmissionID: ordered[i].ID,
			UserID:       ordered[i].UserID,
			UserName:     ordered[i].UserName,
			Votes:        ordered[i].Votes,
		})
	}

	return &model.GetChallengeTallyResponse{Tally: tally}, nil
}

// liveTally reads the tally from redis. Submissions nobody voted for never
// reach the sorted set; they trail the redis entries in submission order.
func (d *challengeDomain) liveTally(
	ctx context.Context, challengeID int64, submissions []entity.ChallengeSubmission,
) ([]model.TallyEntry, bool) {
	zs, err := d.redisClient.ZRevRangeWithScores(ctx, voteTallyKey(challengeID), 0, len(submissions))
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot read live vote tally: %v", err)
		return nil, false
	}

	if len(zs) == 0 {
		return nil, false
	}

	byID := map[string]*entity.ChallengeSubmission{}
	for i := range submissions {
		byID[submissions[i].ID] = &submissions[i]
	}

	tally := []model.TallyEntry{}
	counted := map[string]bool{}
	for _, z := range zs {
		id, ok := z.Member.(string)
		if !ok {
			return nil, false
		}

		submission, ok := byID[id]
		if !ok {
			// The set no longer matches the rows, let the rows decide.
			return nil, false
		}

		counted[id] = true
		tally = append(tally, model.TallyEntry{
			SubmissionID: submission.ID,
			UserID:       submission.UserID,
			UserName:     submission.UserName,
			Votes:        int(z.Score),
		})
	}

	for i := range submissions {
		if !counted[submissions[i].ID] {
			tally = append(tally, model.TallyEntry{
				SubmissionID: submissions[i].ID,
				UserID:       submissions[i].UserID,
				UserName:     submissions[i].UserName,
			})
		}
	}

	return tally, true
}

func (d *challengeDomain) GetLeaderboard(
	ctx context.Context, req *model.GetChallengeLeaderboardRequest,
) (*model.GetChallengeLeaderboardResponse, error) {
	if _, err := d.getChallenge(ctx, req.ChallengeID); err != nil {
		return nil, err
	}

	submissions, err := d.submissionRepo.GetByChallengeID(ctx, req.ChallengeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get submissions: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetChallengeLeaderboardResponse{
		Leaderboard: d.rankSubmissions(ctx, submissions),
	}, nil
}

func (d *challengeDomain) End(
	ctx context.Context, req *model.EndChallengeRequest,
) (*model.EndChallengeResponse, error) {
	unlock := d.lockChallenge(req.ChallengeID)
	defer unlock()

	challenge, err := d.getChallenge(ctx, req.ChallengeID)
	if err != nil {
		return nil, err
	}

	if challenge.Status == entity.ChallengeCompleted {
		return nil, errorx.New(errorx.Unavailable, "Challenge is already completed")
	}

	if challenge.Status == entity.ChallengeCancelled {
		return nil, errorx.New(errorx.Unavailable, "Challenge is cancelled")
	}

	submissions, err := d.submissionRepo.GetByChallengeID(ctx, req.ChallengeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get submissions: %v", err)
		return nil, errorx.Unknown
	}

	if len(submissions) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Challenge has no participants")
	}

	leaderboard := d.rankSubmissions(ctx, submissions)
	completedAt := xcontext.Clock(ctx).Now()

	byUser := map[string]*entity.ChallengeSubmission{}
	for i := range submissions {
		byUser[submissions[i].UserID] = &submissions[i]
	}

	// Final ranks, scores and the status flip land in one transaction, so a
	// half-scored challenge is never observable.
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	for _, entry := range leaderboard {
		submission := byUser[entry.UserID]
		submission.FinalRank = entry.Rank
		submission.FinalScore = entry.Score
		if err := d.submissionRepo.Update(ctx, submission); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot finalize submission: %v", err)
			return nil, errorx.Unknown
		}
	}

	challenge.Status = entity.ChallengeCompleted
	if err := d.challengeRepo.Update(ctx, challenge); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update challenge: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	if err := d.redisClient.Del(ctx, voteTallyKey(challenge.ID)); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot drop live vote tally: %v", err)
	}

	winners := []model.Winner{}
	for _, entry := range leaderboard {
		if len(winners) == 3 {
			break
		}

		winners = append(winners, model.Winner{
			WinnerID:          entry.UserID,
			WinnerName:        entry.UserName,
			TotalParticipants: len(submissions),
			CompletedAt:       completedAt,
		})
	}

	return &model.EndChallengeResponse{Winners: winners}, nil
}

func (d *challengeDomain) getChallenge(ctx context.Context, id int64) (*entity.Challenge, error) {
	challenge, err := d.challengeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
		return nil, errorx.Unknown
	}

	return challenge, nil
}

// rankSubmissions scores and orders submissions. The score grows with votes,
// content length past the bonus threshold and media presence; ties keep
// submission order, so the earliest entry wins the tie.
func (d *challengeDomain) rankSubmissions(
	ctx context.Context, submissions []entity.ChallengeSubmission,
) []model.LeaderboardEntry {
	engageCfg := xcontext.Configs(ctx).Engage

	voteWeight := engageCfg.VoteWeight
	if voteWeight == 0 {
		voteWeight = defaultVoteWeight
	}

	contentBonus := engageCfg.ContentBonus
	if contentBonus == 0 {
		contentBonus = defaultContentBonus
	}

	contentBonusAfter := engageCfg.ContentBonusAfter
	if contentBonusAfter == 0 {
		contentBonusAfter = defaultContentBonusAfter
	}

	mediaBonus := engageCfg.MediaBonus
	if mediaBonus == 0 {
		mediaBonus = defaultMediaBonus
	}

	entries := []model.LeaderboardEntry{}
	for i := range submissions {
		submission := &submissions[i]

		score := submission.Votes * voteWeight
		if len(submission.Content) > contentBonusAfter {
			score += contentBonus
		}

		if submission.MediaURL != "" {
			score += mediaBonus
		}

		entries = append(entries, model.LeaderboardEntry{
			UserID:   submission.UserID,
			UserName: submission.UserName,
			Score:    score,
			Level:    score/100 + 1,
		})
	}

	// Input is ordered by submission time already; SliceStable keeps that
	// order between equal scores.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}
