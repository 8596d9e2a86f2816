package migration

import (
	"context"

	"github.com/playhub-lab/backend/internal/entity"
	"github.com/playhub-lab/backend/pkg/xcontext"
)

func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.UserProgress{},
		&entity.Challenge{},
		&entity.ChallengeSubmission{},
		&entity.ChallengePoll{},
		&entity.ChallengeQuestion{},
		&entity.Team{},
		&entity.TeamInvitation{},
	)
}
