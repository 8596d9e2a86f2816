package repository

import (
	"context"

	"github.com/playhub-lab/backend/internal/entity"
	"github.com/playhub-lab/backend/pkg/xcontext"
)

type TeamInvitationRepository interface {
	Create(ctx context.Context, invitation *entity.TeamInvitation) error
	GetByID(ctx context.Context, id string) (*entity.TeamInvitation, error)
	GetPending(ctx context.Context, teamID, inviteeID string) (*entity.TeamInvitation, error)
	GetListByInvitee(ctx context.Context, inviteeID string) ([]entity.TeamInvitation, error)
	Update(ctx context.Context, invitation *entity.TeamInvitation) error
}

type teamInvitationRepository struct{}

func NewTeamInvitationRepository() *teamInvitationRepository {
	return &teamInvitationRepository{}
}

func (r *teamInvitationRepository) Create(ctx context.Context, invitation *entity.TeamInvitation) error {
	return xcontext.DB(ctx).Create(invitation).Error
}

func (r *teamInvitationRepository) GetByID(ctx context.Context, id string) (*entity.TeamInvitation, error) {
	var result entity.TeamInvitation
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *teamInvitationRepository) GetPending(
	ctx context.Context, teamID, inviteeID string,
) (*entity.TeamInvitation, error) {
	var result entity.TeamInvitation
	err := xcontext.DB(ctx).
		Where("team_id=? AND invitee_id=? AND status=?", teamID, inviteeID, entity.InvitationPending).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *teamInvitationRepository) GetListByInvitee(
	ctx context.Context, inviteeID string,
) ([]entity.TeamInvitation, error) {
	result := []entity.TeamInvitation{}
	err := xcontext.DB(ctx).
		Where("invitee_id=?", inviteeID).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *teamInvitationRepository) Update(ctx context.Context, invitation *entity.TeamInvitation) error {
	return xcontext.DB(ctx).Save(invitation).Error
}
