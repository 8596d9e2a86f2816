package repository

import (
	"context"
	"fmt"

	"github.com/playhub-lab/backend/internal/entity"
	"github.com/playhub-lab/backend/pkg/xcontext"
)

type TeamLeaderboardFilter struct {
	Sport string

	// OrderField must be one of the stat columns, validated by the caller.
	OrderField string

	Offset int
	Limit  int
}

type TeamRepository interface {
	Create(ctx context.Context, team *entity.Team) error
	GetByID(ctx context.Context, id string) (*entity.Team, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Team, error)
	GetByNameKey(ctx context.Context, sport, nameKey string) (*entity.Team, error)
	GetByMember(ctx context.Context, sport, userID string) ([]entity.Team, error)
	GetLeaderboard(ctx context.Context, filter TeamLeaderboardFilter) ([]entity.Team, error)
	Update(ctx context.Context, team *entity.Team) error
	Delete(ctx context.Context, id string) error
}

type teamRepository struct{}

func NewTeamRepository() *teamRepository {
	return &teamRepository{}
}

func (r *teamRepository) Create(ctx context.Context, team *entity.Team) error {
	return xcontext.DB(ctx).Create(team).Error
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (*entity.Team, error) {
	var result entity.Team
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *teamRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Team, error) {
	result := []entity.Team{}
	if err := xcontext.DB(ctx).Where("id IN (?)", ids).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *teamRepository) GetByNameKey(ctx context.Context, sport, nameKey string) (*entity.Team, error) {
	var result entity.Team
	err := xcontext.DB(ctx).Where("sport=? AND name_key=?", sport, nameKey).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetByMember returns the teams of a sport the user belongs to. The members
// column is a JSON array of quoted user ids, so a substring match on the
// quoted id is exact.
func (r *teamRepository) GetByMember(ctx context.Context, sport, userID string) ([]entity.Team, error) {
	result := []entity.Team{}
	err := xcontext.DB(ctx).
		Where("sport=? AND members LIKE ?", sport, fmt.Sprintf(`%%"%s"%%`, userID)).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *teamRepository) GetLeaderboard(ctx context.Context, filter TeamLeaderboardFilter) ([]entity.Team, error) {
	result := []entity.Team{}
	tx := xcontext.DB(ctx).
		Where("sport=?", filter.Sport).
		Order(filter.OrderField + " DESC").
		Offset(filter.Offset)

	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}

	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *teamRepository) Update(ctx context.Context, team *entity.Team) error {
	return xcontext.DB(ctx).Save(team).Error
}

func (r *teamRepository) Delete(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Where("id=?", id).Delete(&entity.Team{}).Error
}
