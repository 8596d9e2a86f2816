package repository

import (
	"context"

	"github.com/playhub-lab/backend/internal/entity"
	"github.com/playhub-lab/backend/pkg/xcontext"
)

type UserProgressRepository interface {
	Get(ctx context.Context, userID string) (*entity.UserProgress, error)
	Create(ctx context.Context, progress *entity.UserProgress) error
	Update(ctx context.Context, progress *entity.UserProgress) error
}

type userProgressRepository struct{}

func NewUserProgressRepository() *userProgressRepository {
	return &userProgressRepository{}
}

func (r *userProgressRepository) Get(ctx context.Context, userID string) (*entity.UserProgress, error) {
	var result entity.UserProgress
	if err := xcontext.DB(ctx).Where("user_id=?", userID).Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userProgressRepository) Create(ctx context.Context, progress *entity.UserProgress) error {
	return xcontext.DB(ctx).Create(progress).Error
}

func (r *userProgressRepository) Update(ctx context.Context, progress *entity.UserProgress) error {
	return xcontext.DB(ctx).Save(progress).Error
}
