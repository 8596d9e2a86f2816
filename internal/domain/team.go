package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/playhub-lab/backend/internal/entity"
	"github.com/playhub-lab/backend/internal/model"
	"github.com/playhub-lab/backend/internal/repository"
	"github.com/playhub-lab/backend/pkg/errorx"
	"github.com/playhub-lab/backend/pkg/xcontext"
	"github.com/playhub-lab/backend/pkg/xredis"
	"github.com/puzpuzpuz/xsync"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	minTeamMembers = 2
	maxTeamMembers = 20

	defaultInvitationExpiration = 7 * 24 * time.Hour
)

// teamSortColumns maps the leaderboard sort keys to their stat columns.
var teamSortColumns = map[string]string{
	"total_score":    "total_score",
	"challenges_won": "challenges_won",
	"win_rate":       "win_rate",
}

type TeamDomain interface {
	Create(context.Context, *model.CreateTeamRequest) (*model.CreateTeamResponse, error)
	Get(context.Context, *model.GetTeamRequest) (*model.GetTeamResponse, error)
	Invite(context.Context, *model.InviteToTeamRequest) (*model.InviteToTeamResponse, error)
	AcceptInvitation(context.Context, *model.AcceptInvitationRequest) (*model.AcceptInvitationResponse, error)
	DeclineInvitation(context.Context, *model.DeclineInvitationRequest) (*model.DeclineInvitationResponse, error)
	GetMyInvitations(context.Context, *model.GetMyInvitationsRequest) (*model.GetMyInvitationsResponse, error)
	Leave(context.Context, *model.LeaveTeamRequest) (*model.LeaveTeamResponse, error)
	UpdateStats(context.Context, *model.UpdateTeamStatsRequest) (*model.UpdateTeamStatsResponse, error)
	GetLeaderboard(context.Context, *model.GetTeamLeaderboardRequest) (*model.GetTeamLeaderboardResponse, error)
	AwardAchievement(context.Context, *model.AwardTeamAchievementRequest) (*model.AwardTeamAchievementResponse, error)
}

type teamDomain struct {
	teamRepo       repository.TeamRepository
	invitationRepo repository.TeamInvitationRepository
	redisClient    xredis.Client

	teamLocks *xsync.MapOf[string, *sync.Mutex]
}

func NewTeamDomain(
	teamRepo repository.TeamRepository,
	invitationRepo repository.TeamInvitationRepository,
	redisClient xredis.Client,
) *teamDomain {
	return &teamDomain{
		teamRepo:       teamRepo,
		invitationRepo: invitationRepo,
		redisClient:    redisClient,
		teamLocks:      xsync.NewMapOf[*sync.Mutex](),
	}
}

func (d *teamDomain) lockTeam(teamID string) func() {
	mutex, _ := d.teamLocks.LoadOrCompute(teamID, func() *sync.Mutex {
		return &sync.Mutex{}
	})

	mutex.Lock()
	return mutex.Unlock
}

func teamLeaderboardKey(sport, sortBy string) string {
	return fmt.Sprintf("team_leaderboard:%s:%s", sport, sortBy)
}

func (d *teamDomain) Create(
	ctx context.Context, req *model.CreateTeamRequest,
) (*model.CreateTeamResponse, error) {
	captainID := xcontext.RequestUserID(ctx)
	if captainID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not determined user")
	}

	if req.Name == "" || req.Sport == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty name or sport")
	}

	existing, err := d.teamRepo.GetByMember(ctx, req.Sport, captainID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get teams of captain: %v", err)
		return nil, errorx.Unknown
	}

	if len(existing) > 0 {
		return nil, errorx.New(errorx.AlreadyExists,
			"User already belongs to a team for %s", req.Sport)
	}

	nameKey := strings.ToLower(req.Name)
	if _, err := d.teamRepo.GetByNameKey(ctx, req.Sport, nameKey); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Team name %s is taken for %s", req.Name, req.Sport)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check team name: %v", err)
		return nil, errorx.Unknown
	}

	maxMembers := req.MaxMembers
	if maxMembers < minTeamMembers {
		maxMembers = minTeamMembers
	}

	if maxMembers > maxTeamMembers {
		maxMembers = maxTeamMembers
	}

	team := &entity.Team{
		Base:         entity.Base{ID: uuid.NewString()},
		Name:         req.Name,
		Sport:        req.Sport,
		NameKey:      nameKey,
		CaptainID:    captainID,
		Members:      entity.Array[string]{captainID},
		MaxMembers:   maxMembers,
		IsPublic:     req.IsPublic,
		Achievements: entity.Array[entity.TeamAchievement]{},
	}

	// The unique (sport, name_key) index backstops the check above if two
	// creations race.
	if err := d.teamRepo.Create(ctx, team); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create team: %v", err)
		return nil, errorx.Unknown
	}

	d.syncLeaderboard(ctx, team)
	return &model.CreateTeamResponse{Team: convertTeam(team)}, nil
}

func (d *teamDomain) Get(
	ctx context.Context, req *model.GetTeamRequest,
) (*model.GetTeamResponse, error) {
	team, err := d.getTeam(ctx, req.TeamID)
	if err != nil {
		return nil, err
	}

	return &model.GetTeamResponse{Team: convertTeam(team)}, nil
}

func (d *teamDomain) Invite(
	ctx context.Context, req *model.InviteToTeamRequest,
) (*model.InviteToTeamResponse, error) {
	inviterID := xcontext.RequestUserID(ctx)

	unlock := d.lockTeam(req.TeamID)
	defer unlock()

	team, err := d.getTeam(ctx, req.TeamID)
	if err != nil {
		return nil, err
	}

	if !team.IsMember(inviterID) {
		return nil, errorx.New(errorx.PermissionDenied, "Only team members can invite")
	}

	if team.IsMember(req.InviteeID) {
		return nil, errorx.New(errorx.AlreadyExists, "User is already a member")
	}

	// No invitation record is created for a full team.
	if team.IsFull() {
		return nil, errorx.New(errorx.CapacityExceeded, "Team is full")
	}

	if _, err := d.invitationRepo.GetPending(ctx, req.TeamID, req.InviteeID); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "User is already invited")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check pending invitation: %v", err)
		return nil, errorx.Unknown
	}

	expiration := xcontext.Configs(ctx).Engage.InvitationExpiration
	if expiration == 0 {
		expiration = defaultInvitationExpiration
	}

	invitation := &entity.TeamInvitation{
		Base:        entity.Base{ID: uuid.NewString()},
		TeamID:      req.TeamID,
		InviterID:   inviterID,
		InviteeID:   req.InviteeID,
		InviteeName: req.InviteeName,
		Status:      entity.InvitationPending,
		ExpiresAt:   xcontext.Clock(ctx).Now().Add(expiration),
	}

	if err := d.invitationRepo.Create(ctx, invitation); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create invitation: %v", err)
		return nil, errorx.Unknown
	}

	return &model.InviteToTeamResponse{Invitation: convertInvitation(invitation)}, nil
}

func (d *teamDomain) AcceptInvitation(
	ctx context.Context, req *model.AcceptInvitationRequest,
) (*model.AcceptInvitationResponse, error) {
	invitation, err := d.getInvitation(ctx, req.InvitationID)
	if err != nil {
		return nil, err
	}

	if invitation.Status != entity.InvitationPending {
		return nil, errorx.New(errorx.Unavailable, "Invitation is not pending")
	}

	if xcontext.Clock(ctx).Now().After(invitation.ExpiresAt) {
		invitation.Status = entity.InvitationExpired
		if err := d.invitationRepo.Update(ctx, invitation); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot expire invitation: %v", err)
			return nil, errorx.Unknown
		}

		return nil, errorx.New(errorx.InvitationExpired, "Invitation has expired")
	}

	unlock := d.lockTeam(invitation.TeamID)
	defer unlock()

	team, err := d.getTeam(ctx, invitation.TeamID)
	if err != nil {
		return nil, err
	}

	// The team may have filled up while the invitation sat pending.
	if team.IsFull() {
		return nil, errorx.New(errorx.CapacityExceeded, "Team is full")
	}

	team.Members = append(team.Members, invitation.InviteeID)
	invitation.Status = entity.InvitationAccepted

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.teamRepo.Update(ctx, team); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update team members: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.invitationRepo.Update(ctx, invitation); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update invitation: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.AcceptInvitationResponse{Team: convertTeam(team)}, nil
}

func (d *teamDomain) DeclineInvitation(
	ctx context.Context, req *model.DeclineInvitationRequest,
) (*model.DeclineInvitationResponse, error) {
	invitation, err := d.getInvitation(ctx, req.InvitationID)
	if err != nil {
		return nil, err
	}

	invitation.Status = entity.InvitationDeclined
	if err := d.invitationRepo.Update(ctx, invitation); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update invitation: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeclineInvitationResponse{}, nil
}

func (d *teamDomain) GetMyInvitations(
	ctx context.Context, req *model.GetMyInvitationsRequest,
) (*model.GetMyInvitationsResponse, error) {
	invitations, err := d.invitationRepo.GetListByInvitee(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get invitations: %v", err)
		return nil, errorx.Unknown
	}

	clientInvitations := []model.Invitation{}
	for i := range invitations {
		clientInvitations = append(clientInvitations, convertInvitation(&invitations[i]))
	}

	return &model.GetMyInvitationsResponse{Invitations: clientInvitations}, nil
}

func (d *teamDomain) Leave(
	ctx context.Context, req *model.LeaveTeamRequest,
) (*model.LeaveTeamResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	unlock := d.lockTeam(req.TeamID)
	defer unlock()

	team, err := d.getTeam(ctx, req.TeamID)
	if err != nil {
		return nil, err
	}

	if !team.IsMember(userID) {
		return nil, errorx.New(errorx.BadRequest, "User is not a member of this team")
	}

	// Last member out disbands the team.
	if len(team.Members) == 1 {
		if err := d.teamRepo.Delete(ctx, team.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete team: %v", err)
			return nil, errorx.Unknown
		}

		d.removeFromLeaderboard(ctx, team)
		return &model.LeaveTeamResponse{Disbanded: true}, nil
	}

	remaining := entity.Array[string]{}
	for _, m := range team.Members {
		if m != userID {
			remaining = append(remaining, m)
		}
	}

	team.Members = remaining
	if team.CaptainID == userID {
		team.CaptainID = remaining[0]
	}

	if err := d.teamRepo.Update(ctx, team); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update team: %v", err)
		return nil, errorx.Unknown
	}

	return &model.LeaveTeamResponse{}, nil
}

// teamStatsPatch carries the merge of UpdateStats. Decoding the request map
// over a snapshot of the current values keeps absent fields untouched.
type teamStatsPatch struct {
	EventsParticipated int     `mapstructure:"events_participated"`
	ChallengesWon      int     `mapstructure:"challenges_won"`
	TotalScore         int     `mapstructure:"total_score"`
	AverageEngagement  float64 `mapstructure:"average_engagement"`
}

func (d *teamDomain) UpdateStats(
	ctx context.Context, req *model.UpdateTeamStatsRequest,
) (*model.UpdateTeamStatsResponse, error) {
	unlock := d.lockTeam(req.TeamID)
	defer unlock()

	team, err := d.getTeam(ctx, req.TeamID)
	if err != nil {
		return nil, err
	}

	patch := teamStatsPatch{
		EventsParticipated: team.EventsParticipated,
		ChallengesWon:      team.ChallengesWon,
		TotalScore:         team.TotalScore,
		AverageEngagement:  team.AverageEngagement,
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &patch,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create stats decoder: %v", err)
		return nil, errorx.Unknown
	}

	if err := decoder.Decode(req.Stats); err != nil {
		xcontext.Logger(ctx).Debugf("Invalid stats patch: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid stats")
	}

	team.EventsParticipated = patch.EventsParticipated
	team.ChallengesWon = patch.ChallengesWon
	team.TotalScore = patch.TotalScore
	team.AverageEngagement = patch.AverageEngagement
	if team.EventsParticipated > 0 {
		team.WinRate = float64(team.ChallengesWon) / float64(team.EventsParticipated) * 100
	}

	if err := d.teamRepo.Update(ctx, team); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update team stats: %v", err)
		return nil, errorx.Unknown
	}

	d.syncLeaderboard(ctx, team)
	return &model.UpdateTeamStatsResponse{
		Stats: model.TeamStats{
			EventsParticipated: team.EventsParticipated,
			ChallengesWon:      team.ChallengesWon,
			TotalScore:         team.TotalScore,
			AverageEngagement:  team.AverageEngagement,
			WinRate:            team.WinRate,
		},
	}, nil
}

func (d *teamDomain) GetLeaderboard(
	ctx context.Context, req *model.GetTeamLeaderboardRequest,
) (*model.GetTeamLeaderboardResponse, error) {
	column, ok := teamSortColumns[req.SortBy]
	if !ok {
		return nil, errorx.New(errorx.BadRequest,
			"Sort key must be total_score, challenges_won or win_rate")
	}

	limit := req.Limit
	if limit == 0 {
		limit = xcontext.Configs(ctx).ApiServer.DefaultLimit
	}

	if maxLimit := xcontext.Configs(ctx).ApiServer.MaxLimit; maxLimit > 0 && limit > maxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", maxLimit)
	}

	// Fast path through the redis sorted set; the database stays the source
	// of truth when the mirror is cold or unavailable.
	if teams, ok := d.leaderboardFromRedis(ctx, req.Sport, req.SortBy, req.Offset, limit); ok {
		return &model.GetTeamLeaderboardResponse{Teams: teams}, nil
	}

	teams, err := d.teamRepo.GetLeaderboard(ctx, repository.TeamLeaderboardFilter{
		Sport:      req.Sport,
		OrderField: column,
		Offset:     req.Offset,
		Limit:      limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get team leaderboard: %v", err)
		return nil, errorx.Unknown
	}

	clientTeams := []model.Team{}
	for i := range teams {
		d.syncLeaderboard(ctx, &teams[i])
		clientTeams = append(clientTeams, convertTeam(&teams[i]))
	}

	return &model.GetTeamLeaderboardResponse{Teams: clientTeams}, nil
}

func (d *teamDomain) AwardAchievement(
	ctx context.Context, req *model.AwardTeamAchievementRequest,
) (*model.AwardTeamAchievementResponse, error) {
	unlock := d.lockTeam(req.TeamID)
	defer unlock()

	team, err := d.getTeam(ctx, req.TeamID)
	if err != nil {
		return nil, err
	}

	for _, a := range team.Achievements {
		if a.AchievementID == req.AchievementID {
			return nil, errorx.New(errorx.AlreadyExists,
				"Team already holds achievement %s", req.AchievementID)
		}
	}

	achievement := entity.TeamAchievement{
		AchievementID: req.AchievementID,
		Name:          req.Name,
		AwardedAt:     xcontext.Clock(ctx).Now(),
	}

	team.Achievements = append(team.Achievements, achievement)
	if err := d.teamRepo.Update(ctx, team); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update team achievements: %v", err)
		return nil, errorx.Unknown
	}

	return &model.AwardTeamAchievementResponse{
		Achievement: model.TeamAchievement{
			AchievementID: achievement.AchievementID,
			Name:          achievement.Name,
			AwardedAt:     achievement.AwardedAt,
		},
	}, nil
}

func (d *teamDomain) getTeam(ctx context.Context, id string) (*entity.Team, error) {
	team, err := d.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found team")
		}

		xcontext.Logger(ctx).Errorf("Cannot get team: %v", err)
		return nil, errorx.Unknown
	}

	return team, nil
}

func (d *teamDomain) getInvitation(ctx context.Context, id string) (*entity.TeamInvitation, error) {
	invitation, err := d.invitationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found invitation")
		}

		xcontext.Logger(ctx).Errorf("Cannot get invitation: %v", err)
		return nil, errorx.Unknown
	}

	return invitation, nil
}

// syncLeaderboard mirrors a team's stats into the per-sport sorted sets. The
// mirror is best effort; readers fall back to the database.
func (d *teamDomain) syncLeaderboard(ctx context.Context, team *entity.Team) {
	scores := map[string]float64{
		"total_score":    float64(team.TotalScore),
		"challenges_won": float64(team.ChallengesWon),
		"win_rate":       team.WinRate,
	}

	for sortBy, score := range scores {
		err := d.redisClient.ZAdd(ctx, teamLeaderboardKey(team.Sport, sortBy), redis.Z{
			Score:  score,
			Member: team.ID,
		})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot sync team leaderboard: %v", err)
			return
		}
	}
}

func (d *teamDomain) removeFromLeaderboard(ctx context.Context, team *entity.Team) {
	for sortBy := range teamSortColumns {
		if err := d.redisClient.ZRem(ctx, teamLeaderboardKey(team.Sport, sortBy), team.ID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot remove team from leaderboard: %v", err)
			return
		}
	}
}

func (d *teamDomain) leaderboardFromRedis(
	ctx context.Context, sport, sortBy string, offset, limit int,
) ([]model.Team, bool) {
	entries, err := d.redisClient.ZRevRangeWithScores(
		ctx, teamLeaderboardKey(sport, sortBy), offset, limit)
	if err != nil || len(entries) == 0 {
		return nil, false
	}

	ids := []string{}
	for _, z := range entries {
		if id, ok := z.Member.(string); ok {
			ids = append(ids, id)
		}
	}

	teams, err := d.teamRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot hydrate leaderboard teams: %v", err)
		return nil, false
	}

	byID := map[string]*entity.Team{}
	for i := range teams {
		byID[teams[i].ID] = &teams[i]
	}

	ordered := []model.Team{}
	for _, id := range ids {
		team, ok := byID[id]
		if !ok {
			// The mirror is stale, let the database answer instead.
			return nil, false
		}

		ordered = append(ordered, convertTeam(team))
	}

	return ordered, true
}
