package domain

import (
	"context"
	"testing"
	"time"

	"github.com/playhub-lab/backend/internal/domain/achieve"
	"github.com/playhub-lab/backend/internal/model"
	"github.com/playhub-lab/backend/internal/repository"
	"github.com/playhub-lab/backend/pkg/errorx"
	"github.com/playhub-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_achievementDomain_CheckAchievements(t *testing.T) {
	ctx := testutil.MockContext()
	achievementDomain := NewAchievementDomain(
		repository.NewUserProgressRepository(),
		achieve.DefaultCatalog(),
		&testutil.MockRedisClient{},
	)

	// The first joined event unlocks first_step.
	resp, err := achievementDomain.CheckAchievements(ctx, &model.CheckAchievementsRequest{
		UserID: "user1",
		Action: model.UserAction{Type: "event_joined"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Unlocked, 1)
	require.Equal(t, "first_step", resp.Unlocked[0].ID)

	// Four more events push the streak to 5, which unlocks streak_master but
	// must not unlock first_step a second time.
	for i := 0; i < 3; i++ {
		resp, err = achievementDomain.CheckAchievements(ctx, &model.CheckAchievementsRequest{
			UserID: "user1",
			Action: model.UserAction{Type: "event_joined"},
		})
		require.NoError(t, err)
		require.Empty(t, resp.Unlocked)
	}

	resp, err = achievementDomain.CheckAchievements(ctx, &model.CheckAchievementsRequest{
		UserID: "user1",
		Action: model.UserAction{Type: "event_joined"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Unlocked, 1)
	require.Equal(t, "streak_master", resp.Unlocked[0].ID)

	progress, err := achievementDomain.GetUserProgress(ctx, &model.GetUserProgressRequest{
		UserID: "user1",
	})
	require.NoError(t, err)
	require.Equal(t, 5, progress.Progress.EventsJoined)
	require.Equal(t, 5, progress.Progress.ConsecutiveEvents)
	require.Len(t, progress.Progress.Achievements, 2)
	require.Equal(t, 60, progress.Progress.AchievementPoints)
}

func Test_achievementDomain_CheckAchievements_invalidAction(t *testing.T) {
	ctx := testutil.MockContext()
	achievementDomain := NewAchievementDomain(
		repository.NewUserProgressRepository(),
		achieve.DefaultCatalog(),
		&testutil.MockRedisClient{},
	)

	// Anonymous actions are dropped without an error.
	resp, err := achievementDomain.CheckAchievements(ctx, &model.CheckAchievementsRequest{
		Action: model.UserAction{Type: "event_joined"},
	})
	require.NoError(t, err)
	require.Empty(t, resp.Unlocked)

	_, err = achievementDomain.CheckAchievements(ctx, &model.CheckAchievementsRequest{
		UserID: "user1",
		Action: model.UserAction{Type: "teleported"},
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))
}

func Test_achievementDomain_AwardBadge(t *testing.T) {
	ctx := testutil.MockContext()
	achievementDomain := NewAchievementDomain(
		repository.NewUserProgressRepository(),
		achieve.DefaultCatalog(),
		&testutil.MockRedisClient{},
	)

	resp, err := achievementDomain.AwardBadge(ctx, &model.AwardBadgeRequest{
		UserID:        "user1",
		AchievementID: "mentor_master",
	})
	require.NoError(t, err)
	require.Equal(t, "Mentor Master", resp.Achievement.Name)
	require.False(t, resp.Achievement.UnlockedAt.IsZero())

	_, err = achievementDomain.AwardBadge(ctx, &model.AwardBadgeRequest{
		UserID:        "user1",
		AchievementID: "mentor_master",
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.AlreadyExists, ""))

	_, err = achievementDomain.AwardBadge(ctx, &model.AwardBadgeRequest{
		UserID:        "user1",
		AchievementID: "no_such_badge",
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.NotFound, ""))
}

func Test_achievementDomain_CalculateEngagementScore(t *testing.T) {
	ctx := testutil.MockContext()
	achievementDomain := NewAchievementDomain(
		repository.NewUserProgressRepository(),
		achieve.DefaultCatalog(),
		&testutil.MockRedisClient{},
	)

	// Unknown users score zero instead of failing.
	resp, err := achievementDomain.CalculateEngagementScore(
		ctx, &model.CalculateEngagementScoreRequest{UserID: "nobody"})
	require.NoError(t, err)
	require.Equal(t, 0, resp.Score)

	for i := 0; i < 2; i++ {
		_, err := achievementDomain.CheckAchievements(ctx, &model.CheckAchievementsRequest{
			UserID: "user1",
			Action: model.UserAction{Type: "event_joined"},
		})
		require.NoError(t, err)
	}

	// 2 events (20) + streak of 2 (10) + first_step (10 points, common, x1).
	resp, err = achievementDomain.CalculateEngagementScore(
		ctx, &model.CalculateEngagementScoreRequest{UserID: "user1"})
	require.NoError(t, err)
	require.Equal(t, 40, resp.Score)

	// A legendary badge pays out triple its face value.
	_, err = achievementDomain.AwardBadge(ctx, &model.AwardBadgeRequest{
		UserID:        "user1",
		AchievementID: "mentor_master",
	})
	require.NoError(t, err)

	resp, err = achievementDomain.CalculateEngagementScore(
		ctx, &model.CalculateEngagementScoreRequest{UserID: "user1"})
	require.NoError(t, err)
	require.Equal(t, 640, resp.Score)
}

func Test_achievementDomain_GetEngagementScore_cache(t *testing.T) {
	ctx := testutil.MockContext()
	redisClient := &testutil.MockRedisClient{}
	achievementDomain := NewAchievementDomain(
		repository.NewUserProgressRepository(),
		achieve.DefaultCatalog(),
		redisClient,
	)

	_, err := achievementDomain.CheckAchievements(ctx, &model.CheckAchievementsRequest{
		UserID: "user1",
		Action: model.UserAction{Type: "event_joined"},
	})
	require.NoError(t, err)

	var cachedScore int
	redisClient.SetObjFunc = func(ctx context.Context, key string, obj any, ttl time.Duration) error {
		cachedScore = obj.(int)
		return nil
	}

	resp, err := achievementDomain.GetEngagementScore(
		ctx, &model.GetEngagementScoreRequest{UserID: "user1"})
	require.NoError(t, err)
	require.Equal(t, 25, resp.Score)
	require.Equal(t, 25, cachedScore)

	// A warm cache short-circuits the calculation entirely.
	redisClient.GetObjFunc = func(ctx context.Context, key string, v any) error {
		*(v.(*int)) = 999
		return nil
	}

	resp, err = achievementDomain.GetEngagementScore(
		ctx, &model.GetEngagementScoreRequest{UserID: "user1"})
	require.NoError(t, err)
	require.Equal(t, 999, resp.Score)
}

func Test_achievementDomain_GetUserProgress_notFound(t *testing.T) {
	ctx := testutil.MockContext()
	achievementDomain := NewAchievementDomain(
		repository.NewUserProgressRepository(),
		achieve.DefaultCatalog(),
		&testutil.MockRedisClient{},
	)

	_, err := achievementDomain.GetUserProgress(ctx, &model.GetUserProgressRequest{
		UserID: "nobody",
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.NotFound, ""))
}
