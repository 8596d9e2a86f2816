package repository

import (
	"context"

	"github.com/playhub-lab/backend/internal/entity"
	"github.com/playhub-lab/backend/pkg/xcontext"
)

type ChallengePollRepository interface {
	Create(ctx context.Context, poll *entity.ChallengePoll) error
	GetByID(ctx context.Context, id string) (*entity.ChallengePoll, error)
	GetByChallengeID(ctx context.Context, challengeID int64) ([]entity.ChallengePoll, error)
	Update(ctx context.Context, poll *entity.ChallengePoll) error
}

type challengePollRepository struct{}

func NewChallengePollRepository() *challengePollRepository {
	return &challengePollRepository{}
}

func (r *challengePollRepository) Create(ctx context.Context, poll *entity.ChallengePoll) error {
	return xcontext.DB(ctx).Create(poll).Error
}

func (r *challengePollRepository) GetByID(ctx context.Context, id string) (*entity.ChallengePoll, error) {
	var result entity.ChallengePoll
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *challengePollRepository) GetByChallengeID(
	ctx context.Context, challengeID int64,
) ([]entity.ChallengePoll, error) {
	result := []entity.ChallengePoll{}
	err := xcontext.DB(ctx).
		Where("challenge_id=?", challengeID).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *challengePollRepository) Update(ctx context.Context, poll *entity.ChallengePoll) error {
	return xcontext.DB(ctx).Save(poll).Error
}

type ChallengeQuestionRepository interface {
	Create(ctx context.Context, question *entity.ChallengeQuestion) error
	GetByID(ctx context.Context, id string) (*entity.ChallengeQuestion, error)
	GetByChallengeID(ctx context.Context, challengeID int64) ([]entity.ChallengeQuestion, error)
	Update(ctx context.Context, question *entity.ChallengeQuestion) error
}

type challengeQuestionRepository struct{}

func NewChallengeQuestionRepository() *challengeQuestionRepository {
	return &challengeQuestionRepository{}
}

func (r *challengeQuestionRepository) Create(ctx context.Context, question *entity.ChallengeQuestion) error {
	return xcontext.DB(ctx).Create(question).Error
}

func (r *challengeQuestionRepository) GetByID(ctx context.Context, id string) (*entity.ChallengeQuestion, error) {
	var result entity.ChallengeQuestion
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *challengeQuestionRepository) GetByChallengeID(
	ctx context.Context, challengeID int64,
) ([]entity.ChallengeQuestion, error) {
	result := []entity.ChallengeQuestion{}
	err := xcontext.DB(ctx).
		Where("challenge_id=?", challengeID).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *challengeQuestionRepository) Update(ctx context.Context, question *entity.ChallengeQuestion) error {
	return xcontext.DB(ctx).Save(question).Error
}
