package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/laiysh/guestlist/internal/models"
	"github.com/laiysh/guestlist/internal/service"
)

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

type GuestResponse struct {
	ID             uuid.UUID          `json:"id"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	Phone          string             `json:"phone"`
	Relation       string             `json:"relation,omitempty"`
	Note           string             `json:"note,omitempty"`
	GuestCount     int                `json:"guest_count"`
	Status         models.GuestStatus `json:"status"`
	CheckedIn      bool               `json:"checked_in"`
	CheckedInCount int                `json:"checked_in_count"`
	CheckedInAt    *time.Time         `json:"checked_in_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

// ListStats are the per-status people tallies the admin dashboard renders
// next to the guest table.
type ListStats struct {
	TotalGuests    int `json:"total_guests"`
	TotalPeople    int `json:"total_people"`
	PendingPeople  int `json:"pending_people"`
	ApprovedPeople int `json:"approved_people"`
	RejectedPeople int `json:"rejected_people"`
}

type ListGuestsResponse struct {
	Guests []GuestResponse `json:"guests"`
	Stats  ListStats       `json:"stats"`
}

type LookupGuest struct {
	Name           string             `json:"name"`
	GuestCount     int                `json:"guest_count"`
	Status         models.GuestStatus `json:"status"`
	CheckedIn      bool               `json:"checked_in"`
	CheckedInCount int                `json:"checked_in_count"`
}

type LookupResponse struct {
	Guest *LookupGuest `json:"guest,omitempty"`
	Error string       `json:"error,omitempty"`
}

// CheckInGuest reports how many people just entered versus the party size.
type CheckInGuest struct {
	Name            string     `json:"name"`
	GuestCount      int        `json:"guest_count"`
	TotalCheckedIn  int        `json:"total_checked_in,omitempty"`
	RegisteredCount int        `json:"registered_count,omitempty"`
	CheckedInAt     *time.Time `json:"checked_in_at,omitempty"`
}

type CheckInResponse struct {
	Valid bool          `json:"valid"`
	Guest *CheckInGuest `json:"guest,omitempty"`
	Error string        `json:"error,omitempty"`
}

func ToGuestResponse(g *models.Guest) GuestResponse {
	return GuestResponse{
		ID:             g.ID,
		Name:           g.Name,
		Email:          g.Email,
		Phone:          g.Phone,
		Relation:       g.Relation,
		Note:           g.Note,
		GuestCount:     g.GuestCount,
		Status:         g.Status,
		CheckedIn:      g.CheckedIn,
		CheckedInCount: g.CheckedInCount,
		CheckedInAt:    g.CheckedInAt,
		CreatedAt:      g.CreatedAt,
	}
}

func ToListGuestsResponse(guests []models.Guest) ListGuestsResponse {
	resp := ListGuestsResponse{
		Guests: make([]GuestResponse, len(guests)),
	}
	for i, g := range guests {
		resp.Guests[i] = ToGuestResponse(&g)
		resp.Stats.TotalGuests++
		resp.Stats.TotalPeople += g.GuestCount
		switch g.Status {
		case models.StatusPending:
			resp.Stats.PendingPeople += g.GuestCount
		case models.StatusApproved:
			resp.Stats.ApprovedPeople += g.GuestCount
		case models.StatusRejected:
			resp.Stats.RejectedPeople += g.GuestCount
		}
	}
	return resp
}

func ToLookupResponse(p *service.GuestPreview) LookupResponse {
	return LookupResponse{
		Guest: &LookupGuest{
			Name:           p.Name,
			GuestCount:     p.GuestCount,
			Status:         p.Status,
			CheckedIn:      p.CheckedIn,
			CheckedInCount: p.CheckedInCount,
		},
	}
}

func ToCheckInResponse(r *service.CheckInResult) CheckInResponse {
	return CheckInResponse{
		Valid: true,
		Guest: &CheckInGuest{
			Name:            r.Name,
			GuestCount:      r.Entered,
			TotalCheckedIn:  r.TotalCheckedIn,
			RegisteredCount: r.RegisteredCount,
		},
	}
}
