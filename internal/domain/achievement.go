package domain

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/playhub-lab/backend/internal/domain/achieve"
	"github.com/playhub-lab/backend/internal/entity"
	"github.com/playhub-lab/backend/internal/model"
	"github.com/playhub-lab/backend/internal/repository"
	"github.com/playhub-lab/backend/pkg/enum"
	"github.com/playhub-lab/backend/pkg/errorx"
	"github.com/playhub-lab/backend/pkg/xcontext"
	"github.com/playhub-lab/backend/pkg/xredis"
	"github.com/puzpuzpuz/xsync"
	"gorm.io/gorm"
)

// Weights of the participation counters in the engagement score.
const (
	weightEventsJoined         = 10
	weightConsecutiveEvents    = 5
	weightReactionsReceived    = 2
	weightChallengesCompleted  = 15
	weightMentorshipsCompleted = 25
	weightTeamWins             = 20
	weightDaysActive           = 3
)

type AchievementDomain interface {
	CheckAchievements(context.Context, *model.CheckAchievementsRequest) (*model.CheckAchievementsResponse, error)
	AwardBadge(context.Context, *model.AwardBadgeRequest) (*model.AwardBadgeResponse, error)
	CalculateEngagementScore(context.Context, *model.CalculateEngagementScoreRequest) (*model.CalculateEngagementScoreResponse, error)
	GetEngagementScore(context.Context, *model.GetEngagementScoreRequest) (*model.GetEngagementScoreResponse, error)
	GetUserProgress(context.Context, *model.GetUserProgressRequest) (*model.GetUserProgressResponse, error)
}

type achievementDomain struct {
	progressRepo repository.UserProgressRepository
	catalog      *achieve.Catalog
	redisClient  xredis.Client

	// progressLocks serializes read-modify-write cycles per user so counters
	// and unlocks are never interleaved.
	progressLocks *xsync.MapOf[string, *sync.Mutex]
}

func NewAchievementDomain(
	progressRepo repository.UserProgressRepository,
	catalog *achieve.Catalog,
	redisClient xredis.Client,
) *achievementDomain {
	return &achievementDomain{
		progressRepo:  progressRepo,
		catalog:       catalog,
		redisClient:   redisClient,
		progressLocks: xsync.NewMapOf[*sync.Mutex](),
	}
}

func (d *achievementDomain) lockProgress(userID string) func() {
	mutex, _ := d.progressLocks.LoadOrCompute(userID, func() *sync.Mutex {
		return &sync.Mutex{}
	})

	mutex.Lock()
	return mutex.Unlock
}

func engagementScoreKey(userID string) string {
	return fmt.Sprintf("engagement_score:%s", userID)
}

func (d *achievementDomain) CheckAchievements(
	ctx context.Context, req *model.CheckAchievementsRequest,
) (*model.CheckAchievementsResponse, error) {
	// An action without a user is dropped, not failed: the ingestion feed is
	// allowed to deliver anonymous actions.
	if req.UserID == "" {
		return &model.CheckAchievementsResponse{Unlocked: []model.Achievement{}}, nil
	}

	actionType, err := enum.ToEnum[entity.UserActionType](req.Action.Type)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid action type: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid action type %s", req.Action.Type)
	}

	unlock := d.lockProgress(req.UserID)
	defer unlock()

	progress, err := d.getOrInitProgress(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	applyAction(progress, actionType)

	now := xcontext.Clock(ctx).Now()
	newlyUnlocked := []model.Achievement{}
	for _, def := range d.catalog.All() {
		if progress.Holds(def.ID) {
			continue
		}

		if !def.Requirement.SatisfiedBy(progress) {
			continue
		}

		unlocked := entity.UnlockedAchievement{AchievementID: def.ID, UnlockedAt: now}
		progress.Unlocked = append(progress.Unlocked, unlocked)
		newlyUnlocked = append(newlyUnlocked, convertAchievement(def, &unlocked))
	}

	// Counter bump and unlocks land together or not at all.
	if err := d.progressRepo.Update(ctx, progress); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update user progress: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.redisClient.Del(ctx, engagementScoreKey(req.UserID)); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate engagement score cache: %v", err)
	}

	return &model.CheckAchievementsResponse{Unlocked: newlyUnlocked}, nil
}

func (d *achievementDomain) AwardBadge(
	ctx context.Context, req *model.AwardBadgeRequest,
) (*model.AwardBadgeResponse, error) {
	def, ok := d.catalog.Get(req.AchievementID)
	if !ok {
		return nil, errorx.New(errorx.NotFound, "Not found achievement %s", req.AchievementID)
	}

	unlock := d.lockProgress(req.UserID)
	defer unlock()

	progress, err := d.getOrInitProgress(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if progress.Holds(def.ID) {
		return nil, errorx.New(errorx.AlreadyExists, "User already holds achievement %s", def.ID)
	}

	unlocked := entity.UnlockedAchievement{
		AchievementID: def.ID,
		UnlockedAt:    xcontext.Clock(ctx).Now(),
	}
	progress.Unlocked = append(progress.Unlocked, unlocked)

	if err := d.progressRepo.Update(ctx, progress); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update user progress: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.redisClient.Del(ctx, engagementScoreKey(req.UserID)); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate engagement score cache: %v", err)
	}

	return &model.AwardBadgeResponse{Achievement: convertAchievement(def, &unlocked)}, nil
}

// CalculateEngagementScore is the pure variant: it reads the stored progress
// and derives the score without touching any cache or counter.
func (d *achievementDomain) CalculateEngagementScore(
	ctx context.Context, req *model.CalculateEngagementScoreRequest,
) (*model.CalculateEngagementScoreResponse, error) {
	progress, err := d.progressRepo.Get(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.CalculateEngagementScoreResponse{Score: 0}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get user progress: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CalculateEngagementScoreResponse{Score: d.scoreOf(progress)}, nil
}

// GetEngagementScore serves the score through the redis cache, refreshing it
// from the store on a miss.
func (d *achievementDomain) GetEngagementScore(
	ctx context.Context, req *model.GetEngagementScoreRequest,
) (*model.GetEngagementScoreResponse, error) {
	var cached int
	if err := d.redisClient.GetObj(ctx, engagementScoreKey(req.UserID), &cached); err == nil {
		return &model.GetEngagementScoreResponse{Score: cached}, nil
	}

	calculated, err := d.CalculateEngagementScore(
		ctx, &model.CalculateEngagementScoreRequest{UserID: req.UserID})
	if err != nil {
		return nil, err
	}

	ttl := xcontext.Configs(ctx).Engage.ScoreCacheTTL
	if err := d.redisClient.SetObj(ctx, engagementScoreKey(req.UserID), calculated.Score, ttl); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache engagement score: %v", err)
	}

	return &model.GetEngagementScoreResponse{Score: calculated.Score}, nil
}

func (d *achievementDomain) GetUserProgress(
	ctx context.Context, req *model.GetUserProgressRequest,
) (*model.GetUserProgressResponse, error) {
	progress, err := d.progressRepo.Get(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found progress of user %s", req.UserID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get user progress: %v", err)
		return nil, errorx.Unknown
	}

	achievements := []model.Achievement{}
	points := 0
	for _, u := range progress.Unlocked {
		def, ok := d.catalog.Get(u.AchievementID)
		if !ok {
			xcontext.Logger(ctx).Errorf("Not found achievement %s in catalog", u.AchievementID)
			return nil, errorx.Unknown
		}

		unlocked := u
		achievements = append(achievements, convertAchievement(def, &unlocked))
		points += def.Points
	}

	return &model.GetUserProgressResponse{
		Progress: model.UserProgress{
			UserID:               progress.UserID,
			EventsJoined:         progress.EventsJoined,
			ConsecutiveEvents:    progress.ConsecutiveEvents,
			ReactionsReceived:    progress.ReactionsReceived,
			ChallengesCompleted:  progress.ChallengesCompleted,
			MentorshipsCompleted: progress.MentorshipsCompleted,
			TeamWins:             progress.TeamWins,
			DaysActive:           progress.DaysActive,
			Achievements:         achievements,
			AchievementPoints:    points,
		},
	}, nil
}

// getOrInitProgress lazily creates the progress row on a user's first action.
func (d *achievementDomain) getOrInitProgress(
	ctx context.Context, userID string,
) (*entity.UserProgress, error) {
	progress, err := d.progressRepo.Get(ctx, userID)
	if err == nil {
		return progress, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user progress: %v", err)
		return nil, errorx.Unknown
	}

	progress = &entity.UserProgress{UserID: userID, Unlocked: entity.Array[entity.UnlockedAchievement]{}}
	if err := d.progressRepo.Create(ctx, progress); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user progress: %v", err)
		return nil, errorx.Unknown
	}

	return progress, nil
}

func applyAction(progress *entity.UserProgress, actionType entity.UserActionType) {
	switch actionType {
	case entity.ActionEventJoined:
		progress.EventsJoined++
		// No gap detection here: the streak only grows. Resetting on a missed
		// event is a product decision that has not been made yet.
		progress.ConsecutiveEvents++
	case entity.ActionReactionReceived:
		progress.ReactionsReceived++
	case entity.ActionChallengeCompleted:
		progress.ChallengesCompleted++
	case entity.ActionMentorshipCompleted:
		progress.MentorshipsCompleted++
	case entity.ActionTeamWin:
		progress.TeamWins++
	case entity.ActionDailyCheckin:
		progress.DaysActive++
	}
}

func (d *achievementDomain) scoreOf(progress *entity.UserProgress) int {
	score := progress.EventsJoined*weightEventsJoined +
		progress.ConsecutiveEvents*weightConsecutiveEvents +
		progress.ReactionsReceived*weightReactionsReceived +
		progress.ChallengesCompleted*weightChallengesCompleted +
		progress.MentorshipsCompleted*weightMentorshipsCompleted +
		progress.TeamWins*weightTeamWins +
		progress.DaysActive*weightDaysActive

	for _, u := range progress.Unlocked {
		def, ok := d.catalog.Get(u.AchievementID)
		if !ok {
			continue
		}

		score += int(float64(def.Points) * def.Rarity.Multiplier())
	}

	return score
}
