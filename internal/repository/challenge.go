package repository

import (
	"context"

	"github.com/playhub-lab/backend/internal/entity"
	"github.com/playhub-lab/backend/pkg/xcontext"
)

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *entity.Challenge) error
	GetByID(ctx context.Context, id int64) (*entity.Challenge, error)
	GetByEventID(ctx context.Context, eventID string) ([]entity.Challenge, error)
	Update(ctx context.Context, challenge *entity.Challenge) error
}

type challengeRepository struct{}

func NewChallengeRepository() *challengeRepository {
	return &challengeRepository{}
}

func (r *challengeRepository) Create(ctx context.Context, challenge *entity.Challenge) error {
	return xcontext.DB(ctx).Create(challenge).Error
}

func (r *challengeRepository) GetByID(ctx context.Context, id int64) (*entity.Challenge, error) {
	var result entity.Challenge
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *challengeRepository) GetByEventID(ctx context.Context, eventID string) ([]entity.Challenge, error) {
	result := []entity.Challenge{}
	err := xcontext.DB(ctx).
		Where("event_id=?", eventID).
		Order("start_time ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *challengeRepository) Update(ctx context.Context, challenge *entity.Challenge) error {
	return xcontext.DB(ctx).Save(challenge).Error
}
