package domain

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/playhub-lab/backend/internal/model"
	"github.com/playhub-lab/backend/internal/repository"
	"github.com/playhub-lab/backend/pkg/errorx"
	"github.com/playhub-lab/backend/pkg/testutil"
	"github.com/playhub-lab/backend/pkg/xcontext"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestTeamDomain(redisClient *testutil.MockRedisClient) *teamDomain {
	return NewTeamDomain(
		repository.NewTeamRepository(),
		repository.NewTeamInvitationRepository(),
		redisClient,
	)
}

func Test_teamDomain_Create(t *testing.T) {
	ctx := testutil.MockContext()
	teamDomain := newTestTeamDomain(&testutil.MockRedisClient{})

	captainCtx := xcontext.WithRequestUserID(ctx, "captain")
	resp, err := teamDomain.Create(captainCtx, &model.CreateTeamRequest{
		Name:       "Thunder",
		Sport:      "basketball",
		MaxMembers: 5,
	})
	require.NoError(t, err)
	require.Equal(t, "captain", resp.Team.CaptainID)
	require.Equal(t, []string{"captain"}, resp.Team.Members)
	require.Equal(t, 5, resp.Team.MaxMembers)

	// One team per user per sport.
	_, err = teamDomain.Create(captainCtx, &model.CreateTeamRequest{
		Name:  "Lightning",
		Sport: "basketball",
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.AlreadyExists, ""))

	// The same user can captain a team for another sport.
	_, err = teamDomain.Create(captainCtx, &model.CreateTeamRequest{
		Name:  "Thunder",
		Sport: "soccer",
	})
	require.NoError(t, err)

	// Team names are unique per sport, case insensitively.
	_, err = teamDomain.Create(
		xcontext.WithRequestUserID(ctx, "rival"),
		&model.CreateTeamRequest{Name: "THUNDER", Sport: "basketball"},
	)
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.AlreadyExists, ""))

	_, err = teamDomain.Create(captainCtx, &model.CreateTeamRequest{Sport: "tennis"})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	_, err = teamDomain.Create(ctx, &model.CreateTeamRequest{Name: "Ghosts", Sport: "tennis"})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.Unauthenticated, ""))
}

func Test_teamDomain_Create_clampsMaxMembers(t *testing.T) {
	ctx := testutil.MockContext()
	teamDomain := newTestTeamDomain(&testutil.MockRedisClient{})

	resp, err := teamDomain.Create(
		xcontext.WithRequestUserID(ctx, "solo"),
		&model.CreateTeamRequest{Name: "Tiny", Sport: "running", MaxMembers: 1},
	)
	require.NoError(t, err)
	require.Equal(t, minTeamMembers, resp.Team.MaxMembers)

	resp, err = teamDomain.Create(
		xcontext.WithRequestUserID(ctx, "crowd"),
		&model.CreateTeamRequest{Name: "Huge", Sport: "running", MaxMembers: 100},
	)
	require.NoError(t, err)
	require.Equal(t, maxTeamMembers, resp.Team.MaxMembers)
}

func Test_teamDomain_Invite_and_Accept(t *testing.T) {
	ctx := testutil.MockContext()
	teamDomain := newTestTeamDomain(&testutil.MockRedisClient{})

	captainCtx := xcontext.WithRequestUserID(ctx, "captain")
	created, err := teamDomain.Create(captainCtx, &model.CreateTeamRequest{
		Name:       "Thunder",
		Sport:      "basketball",
		MaxMembers: 3,
	})
	require.NoError(t, err)
	teamID := created.Team.ID

	// Outsiders cannot invite.
	_, err = teamDomain.Invite(
		xcontext.WithRequestUserID(ctx, "stranger"),
		&model.InviteToTeamRequest{TeamID: teamID, InviteeID: "newbie"},
	)
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.PermissionDenied, ""))

	invited, err := teamDomain.Invite(captainCtx, &model.InviteToTeamRequest{
		TeamID:      teamID,
		InviteeID:   "newbie",
		InviteeName: "New Bee",
	})
	require.NoError(t, err)
	require.Equal(t, "pending", invited.Invitation.Status)
	require.Equal(t, "captain", invited.Invitation.InviterID)

	// A second pending invitation for the same user is rejected.
	_, err = teamDomain.Invite(captainCtx, &model.InviteToTeamRequest{
		TeamID:    teamID,
		InviteeID: "newbie",
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.AlreadyExists, ""))

	newbieCtx := xcontext.WithRequestUserID(ctx, "newbie")
	invitations, err := teamDomain.GetMyInvitations(newbieCtx, &model.GetMyInvitationsRequest{})
	require.NoError(t, err)
	require.Len(t, invitations.Invitations, 1)

	accepted, err := teamDomain.AcceptInvitation(newbieCtx, &model.AcceptInvitationRequest{
		InvitationID: invited.Invitation.ID,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"captain", "newbie"}, accepted.Team.Members)

	// The invitation is consumed.
	_, err = teamDomain.AcceptInvitation(newbieCtx, &model.AcceptInvitationRequest{
		InvitationID: invited.Invitation.ID,
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.Unavailable, ""))

	_, err = teamDomain.Invite(captainCtx, &model.InviteToTeamRequest{
		TeamID:    teamID,
		InviteeID: "newbie",
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.AlreadyExists, ""))
}

func Test_teamDomain_AcceptInvitation_expired(t *testing.T) {
	ctx := testutil.MockContext()
	fakeClock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	ctx = xcontext.WithClock(ctx, fakeClock)
	teamDomain := newTestTeamDomain(&testutil.MockRedisClient{})

	captainCtx := xcontext.WithRequestUserID(ctx, "captain")
	created, err := teamDomain.Create(captainCtx, &model.CreateTeamRequest{
		Name:  "Thunder",
		Sport: "basketball",
	})
	require.NoError(t, err)

	invited, err := teamDomain.Invite(captainCtx, &model.InviteToTeamRequest{
		TeamID:    created.Team.ID,
		InviteeID: "newbie",
	})
	require.NoError(t, err)

	fakeClock.Advance(8 * 24 * time.Hour)

	newbieCtx := xcontext.WithRequestUserID(ctx, "newbie")
	_, err = teamDomain.AcceptInvitation(newbieCtx, &model.AcceptInvitationRequest{
		InvitationID: invited.Invitation.ID,
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.InvitationExpired, ""))

	// The stale invitation is marked, not left pending.
	invitations, err := teamDomain.GetMyInvitations(newbieCtx, &model.GetMyInvitationsRequest{})
	require.NoError(t, err)
	require.Len(t, invitations.Invitations, 1)
	require.Equal(t, "expired", invitations.Invitations[0].Status)
}

func Test_teamDomain_AcceptInvitation_fullTeam(t *testing.T) {
	ctx := testutil.MockContext()
	teamDomain := newTestTeamDomain(&testutil.MockRedisClient{})

	captainCtx := xcontext.WithRequestUserID(ctx, "captain")
	created, err := teamDomain.Create(captainCtx, &model.CreateTeamRequest{
		Name:       "Thunder",
		Sport:      "basketball",
		MaxMembers: 2,
	})
	require.NoError(t, err)
	teamID := created.Team.ID

	// Two invitations go out while there is one seat left.
	first, err := teamDomain.Invite(captainCtx, &model.InviteToTeamRequest{
		TeamID:    teamID,
		InviteeID: "fast",
	})
	require.NoError(t, err)

	second, err := teamDomain.Invite(captainCtx, &model.InviteToTeamRequest{
		TeamID:    teamID,
		InviteeID: "slow",
	})
	require.NoError(t, err)

	_, err = teamDomain.AcceptInvitation(
		xcontext.WithRequestUserID(ctx, "fast"),
		&model.AcceptInvitationRequest{InvitationID: first.Invitation.ID},
	)
	require.NoError(t, err)

	// The seat is gone; the second acceptance fails and no further
	// invitations can be sent.
	_, err = teamDomain.AcceptInvitation(
		xcontext.WithRequestUserID(ctx, "slow"),
		&model.AcceptInvitationRequest{InvitationID: second.Invitation.ID},
	)
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.CapacityExceeded, ""))

	_, err = teamDomain.Invite(captainCtx, &model.InviteToTeamRequest{
		TeamID:    teamID,
		InviteeID: "another",
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.CapacityExceeded, ""))
}

func Test_teamDomain_DeclineInvitation(t *testing.T) {
	ctx := testutil.MockContext()
	teamDomain := newTestTeamDomain(&testutil.MockRedisClient{})

	captainCtx := xcontext.WithRequestUserID(ctx, "captain")
	created, err := teamDomain.Create(captainCtx, &model.CreateTeamRequest{
		Name:  "Thunder",
		Sport: "basketball",
	})
	require.NoError(t, err)

	invited, err := teamDomain.Invite(captainCtx, &model.InviteToTeamRequest{
		TeamID:    created.Team.ID,
		InviteeID: "newbie",
	})
	require.NoError(t, err)

	newbieCtx := xcontext.WithRequestUserID(ctx, "newbie")
	_, err = teamDomain.DeclineInvitation(newbieCtx, &model.DeclineInvitationRequest{
		InvitationID: invited.Invitation.ID,
	})
	require.NoError(t, err)

	_, err = teamDomain.AcceptInvitation(newbieCtx, &model.AcceptInvitationRequest{
		InvitationID: invited.Invitation.ID,
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.Unavailable, ""))

	team, err := teamDomain.Get(ctx, &model.GetTeamRequest{TeamID: created.Team.ID})
	require.NoError(t, err)
	require.Equal(t, []string{"captain"}, team.Team.Members)
}

func Test_teamDomain_Leave(t *testing.T) {
	ctx := testutil.MockContext()
	teamDomain := newTestTeamDomain(&testutil.MockRedisClient{})

	captainCtx := xcontext.WithRequestUserID(ctx, "captain")
	created, err := teamDomain.Create(captainCtx, &model.CreateTeamRequest{
		Name:       "Thunder",
		Sport:      "basketball",
		MaxMembers: 3,
	})
	require.NoError(t, err)
	teamID := created.Team.ID

	invited, err := teamDomain.Invite(captainCtx, &model.InviteToTeamRequest{
		TeamID:    teamID,
		InviteeID: "member",
	})
	require.NoError(t, err)

	memberCtx := xcontext.WithRequestUserID(ctx, "member")
	_, err = teamDomain.AcceptInvitation(memberCtx, &model.AcceptInvitationRequest{
		InvitationID: invited.Invitation.ID,
	})
	require.NoError(t, err)

	_, err = teamDomain.Leave(
		xcontext.WithRequestUserID(ctx, "stranger"),
		&model.LeaveTeamRequest{TeamID: teamID},
	)
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	// The captain leaving hands the team to the remaining member.
	resp, err := teamDomain.Leave(captainCtx, &model.LeaveTeamRequest{TeamID: teamID})
	require.NoError(t, err)
	require.False(t, resp.Disbanded)

	team, err := teamDomain.Get(ctx, &model.GetTeamRequest{TeamID: teamID})
	require.NoError(t, err)
	require.Equal(t, "member", team.Team.CaptainID)
	require.Equal(t, []string{"member"}, team.Team.Members)

	// The last member leaving disbands the team.
	resp, err = teamDomain.Leave(memberCtx, &model.LeaveTeamRequest{TeamID: teamID})
	require.NoError(t, err)
	require.True(t, resp.Disbanded)

	_, err = teamDomain.Get(ctx, &model.GetTeamRequest{TeamID: teamID})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.NotFound, ""))
}

func Test_teamDomain_UpdateStats(t *testing.T) {
	ctx := testutil.MockContext()
	teamDomain := newTestTeamDomain(&testutil.MockRedisClient{})

	created, err := teamDomain.Create(
		xcontext.WithRequestUserID(ctx, "captain"),
		&model.CreateTeamRequest{Name: "Thunder", Sport: "basketball"},
	)
	require.NoError(t, err)
	teamID := created.Team.ID

	resp, err := teamDomain.UpdateStats(ctx, &model.UpdateTeamStatsRequest{
		TeamID: teamID,
		Stats: map[string]any{
			"events_participated": 10,
			"challenges_won":      4,
			"total_score":         1200,
		},
	})
	require.NoError(t, err)
	require.Equal(t, 10, resp.Stats.EventsParticipated)
	require.Equal(t, 4, resp.Stats.ChallengesWon)
	require.Equal(t, 1200, resp.Stats.TotalScore)
	require.Equal(t, 40.0, resp.Stats.WinRate)

	// A partial patch leaves the untouched fields as they were.
	resp, err = teamDomain.UpdateStats(ctx, &model.UpdateTeamStatsRequest{
		TeamID: teamID,
		Stats:  map[string]any{"challenges_won": 5},
	})
	require.NoError(t, err)
	require.Equal(t, 10, resp.Stats.EventsParticipated)
	require.Equal(t, 5, resp.Stats.ChallengesWon)
	require.Equal(t, 1200, resp.Stats.TotalScore)
	require.Equal(t, 50.0, resp.Stats.WinRate)
}

func Test_teamDomain_GetLeaderboard(t *testing.T) {
	ctx := testutil.MockContext()
	teamDomain := newTestTeamDomain(&testutil.MockRedisClient{})

	scores := map[string]int{"Alphas": 300, "Bravos": 100, "Charlies": 200}
	for name, score := range scores {
		created, err := teamDomain.Create(
			xcontext.WithRequestUserID(ctx, "captain-"+name),
			&model.CreateTeamRequest{Name: name, Sport: "basketball"},
		)
		require.NoError(t, err)

		_, err = teamDomain.UpdateStats(ctx, &model.UpdateTeamStatsRequest{
			TeamID: created.Team.ID,
			Stats:  map[string]any{"total_score": score},
		})
		require.NoError(t, err)
	}

	resp, err := teamDomain.GetLeaderboard(ctx, &model.GetTeamLeaderboardRequest{
		Sport:  "basketball",
		SortBy: "total_score",
	})
	require.NoError(t, err)
	require.Len(t, resp.Teams, 3)
	require.Equal(t, "Alphas", resp.Teams[0].Name)
	require.Equal(t, "Charlies", resp.Teams[1].Name)
	require.Equal(t, "Bravos", resp.Teams[2].Name)

	_, err = teamDomain.GetLeaderboard(ctx, &model.GetTeamLeaderboardRequest{
		Sport:  "basketball",
		SortBy: "vibes",
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	_, err = teamDomain.GetLeaderboard(ctx, &model.GetTeamLeaderboardRequest{
		Sport:  "basketball",
		SortBy: "total_score",
		Limit:  1000,
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))
}

func Test_teamDomain_GetLeaderboard_redisMirror(t *testing.T) {
	ctx := testutil.MockContext()

	// The mirror orders ids itself; the domain only hydrates them.
	mirror := map[string][]redis.Z{}
	redisClient := &testutil.MockRedisClient{
		ZAddFunc: func(ctx context.Context, key string, z redis.Z) error {
			mirror[key] = append(mirror[key], z)
			return nil
		},
	}
	teamDomain := newTestTeamDomain(redisClient)

	ids := []string{}
	for i, name := range []string{"Alphas", "Bravos"} {
		created, err := teamDomain.Create(
			xcontext.WithRequestUserID(ctx, fmt.Sprintf("captain%d", i)),
			&model.CreateTeamRequest{Name: name, Sport: "soccer"},
		)
		require.NoError(t, err)
		ids = append(ids, created.Team.ID)
	}

	redisClient.ZRevRangeWithScoresFunc = func(
		ctx context.Context, key string, offset, limit int,
	) ([]redis.Z, error) {
		require.Equal(t, teamLeaderboardKey("soccer", "total_score"), key)
		return []redis.Z{{Member: ids[1]}, {Member: ids[0]}}, nil
	}

	resp, err := teamDomain.GetLeaderboard(ctx, &model.GetTeamLeaderboardRequest{
		Sport:  "soccer",
		SortBy: "total_score",
	})
	require.NoError(t, err)
	require.Len(t, resp.Teams, 2)
	require.Equal(t, "Bravos", resp.Teams[0].Name)
	require.Equal(t, "Alphas", resp.Teams[1].Name)

	// A stale mirror entry pushes the read back to the database.
	redisClient.ZRevRangeWithScoresFunc = func(
		ctx context.Context, key string, offset, limit int,
	) ([]redis.Z, error) {
		return []redis.Z{{Member: "deleted-team"}}, nil
	}

	resp, err = teamDomain.GetLeaderboard(ctx, &model.GetTeamLeaderboardRequest{
		Sport:  "soccer",
		SortBy: "total_score",
	})
	require.NoError(t, err)
	require.Len(t, resp.Teams, 2)
}

func Test_teamDomain_AwardAchievement(t *testing.T) {
	ctx := testutil.MockContext()
	teamDomain := newTestTeamDomain(&testutil.MockRedisClient{})

	created, err := teamDomain.Create(
		xcontext.WithRequestUserID(ctx, "captain"),
		&model.CreateTeamRequest{Name: "Thunder", Sport: "basketball"},
	)
	require.NoError(t, err)

	resp, err := teamDomain.AwardAchievement(ctx, &model.AwardTeamAchievementRequest{
		TeamID:        created.Team.ID,
		AchievementID: "tournament_winner",
		Name:          "Tournament Winner",
	})
	require.NoError(t, err)
	require.Equal(t, "Tournament Winner", resp.Achievement.Name)

	_, err = teamDomain.AwardAchievement(ctx, &model.AwardTeamAchievementRequest{
		TeamID:        created.Team.ID,
		AchievementID: "tournament_winner",
	})
	require.Error(t, err)
	require.ErrorIs(t, err, errorx.New(errorx.AlreadyExists, ""))
}
