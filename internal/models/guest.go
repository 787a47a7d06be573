package models

import (
	"time"

	"github.com/google/uuid"
)

type GuestStatus string

const (
	StatusPending  GuestStatus = "pending"
	StatusApproved GuestStatus = "approved"
	StatusRejected GuestStatus = "rejected"
)

// Guest is one reservation; GuestCount covers the submitter plus any
// accompanying guests entering under the same QR token.
type Guest struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string      `gorm:"not null" json:"name"`
	Email          string      `gorm:"not null" json:"email"`
	Phone          string      `gorm:"not null" json:"phone"`
	Relation       string      `json:"relation,omitempty"`
	Note           string      `json:"note,omitempty"`
	GuestCount     int         `gorm:"not null;default:1" json:"guest_count"`
	QRToken        string      `gorm:"column:qr_token;uniqueIndex;not null" json:"qr_token"`
	Status         GuestStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CheckedIn      bool        `gorm:"not null;default:false" json:"checked_in"`
	CheckedInCount int         `gorm:"not null;default:0" json:"checked_in_count"`
	CheckedInAt    *time.Time  `json:"checked_in_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Remaining is how many seats are still open under this token.
func (g *Guest) Remaining() int {
	r := g.GuestCount - g.CheckedInCount
	if r < 0 {
		return 0
	}
	return r
}
