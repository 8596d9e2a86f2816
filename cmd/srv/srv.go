package main

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/playhub-lab/backend/config"
	"github.com/playhub-lab/backend/internal/domain"
	"github.com/playhub-lab/backend/internal/domain/achieve"
	"github.com/playhub-lab/backend/internal/repository"
	"github.com/playhub-lab/backend/pkg/logger"
	"github.com/playhub-lab/backend/pkg/xcontext"
	"github.com/playhub-lab/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs *config.Configs
	logger  logger.Logger
	db      *gorm.DB

	redisClient xredis.Client
	idNode      *snowflake.Node

	progressRepo   repository.UserProgressRepository
	challengeRepo  repository.ChallengeRepository
	submissionRepo repository.ChallengeSubmissionRepository
	pollRepo       repository.ChallengePollRepository
	questionRepo   repository.ChallengeQuestionRepository
	teamRepo       repository.TeamRepository
	invitationRepo repository.TeamInvitationRepository

	achievementDomain domain.AchievementDomain
	challengeDomain   domain.ChallengeDomain
	interactionDomain domain.InteractionDomain
	teamDomain        domain.TeamDomain

	mux    *http.ServeMux
	server *http.Server
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
}

func (s *srv) loadContext() {
	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, *s.configs)
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithDB(s.ctx, s.db)
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.progressRepo = repository.NewUserProgressRepository()
	s.challengeRepo = repository.NewChallengeRepository()
	s.submissionRepo = repository.NewChallengeSubmissionRepository()
	s.pollRepo = repository.NewChallengePollRepository()
	s.questionRepo = repository.NewChallengeQuestionRepository()
	s.teamRepo = repository.NewTeamRepository()
	s.invitationRepo = repository.NewTeamInvitationRepository()
}

func (s *srv) loadDomains() {
	var err error
	s.idNode, err = snowflake.NewNode(int64(getEnvAsInt("SNOWFLAKE_NODE_ID", 1)))
	if err != nil {
		panic(err)
	}

	s.achievementDomain = domain.NewAchievementDomain(
		s.progressRepo, achieve.DefaultCatalog(), s.redisClient)
	s.challengeDomain = domain.NewChallengeDomain(
		s.challengeRepo, s.submissionRepo, s.redisClient, s.idNode)
	s.interactionDomain = domain.NewInteractionDomain(
		s.challengeRepo, s.pollRepo, s.questionRepo)
	s.teamDomain = domain.NewTeamDomain(
		s.teamRepo, s.invitationRepo, s.redisClient)
}
