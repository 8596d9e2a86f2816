package entity

import (
	"time"

	"github.com/playhub-lab/backend/pkg/enum"
)

type InvitationStatus string

var (
	InvitationPending  = enum.New(InvitationStatus("pending"))
	InvitationAccepted = enum.New(InvitationStatus("accepted"))
	InvitationDeclined = enum.New(InvitationStatus("declined"))
	InvitationExpired  = enum.New(InvitationStatus("expired"))
)

type TeamInvitation struct {
	Base

	TeamID string `gorm:"index"`
	Team   Team   `gorm:"foreignKey:TeamID"`

	InviterID   string
	InviteeID   string `gorm:"index"`
	InviteeName string

	Status    InvitationStatus
	ExpiresAt time.Time
}
