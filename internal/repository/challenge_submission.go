package repository

import (
	"context"

	"github.com/playhub-lab/backend/internal/entity"
	"github.com/playhub-lab/backend/pkg/xcontext"
)

type ChallengeSubmissionRepository interface {
	Create(ctx context.Context, submission *entity.ChallengeSubmission) error
	GetByID(ctx context.Context, id string) (*entity.ChallengeSubmission, error)
	GetByChallengeID(ctx context.Context, challengeID int64) ([]entity.ChallengeSubmission, error)
	Update(ctx context.Context, submission *entity.ChallengeSubmission) error
}

type challengeSubmissionRepository struct{}

func NewChallengeSubmissionRepository() *challengeSubmissionRepository {
	return &challengeSubmissionRepository{}
}

func (r *challengeSubmissionRepository) Create(ctx context.Context, submission *entity.ChallengeSubmission) error {
	return xcontext.DB(ctx).Create(submission).Error
}

func (r *challengeSubmissionRepository) GetByID(ctx context.Context, id string) (*entity.ChallengeSubmission, error) {
	var result entity.ChallengeSubmission
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetByChallengeID returns submissions ordered by submission time, which is
// the tie-break order of the leaderboard.
func (r *challengeSubmissionRepository) GetByChallengeID(
	ctx context.Context, challengeID int64,
) ([]entity.ChallengeSubmission, error) {
	result := []entity.ChallengeSubmission{}
	err := xcontext.DB(ctx).
		Where("challenge_id=?", challengeID).
		Order("submitted_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *challengeSubmissionRepository) Update(ctx context.Context, submission *entity.ChallengeSubmission) error {
	return xcontext.DB(ctx).Save(submission).Error
}
