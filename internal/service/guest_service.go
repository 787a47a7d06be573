package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/laiysh/guestlist/internal/models"
	"github.com/laiysh/guestlist/internal/notify"
	"github.com/laiysh/guestlist/internal/repository"
)

var (
	ErrGuestNotFound = errors.New("guest not found")
	ErrInvalidToken  = errors.New("invalid QR code")
	ErrInvalidAction = errors.New("action must be approve or reject")
)

// ValidationError reports a missing required intake field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " is required"
}

// DuplicateEmailError tells the submitter what happened to their earlier
// request; the message depends on that request's current status.
type DuplicateEmailError struct {
	Status models.GuestStatus
}

func (e *DuplicateEmailError) Error() string {
	switch e.Status {
	case models.StatusPending:
		return "a request was already sent and is waiting for approval"
	case models.StatusApproved:
		return "this request was already approved, check your email"
	case models.StatusRejected:
		return "the previous request was declined"
	default:
		return "this email is already registered"
	}
}

// NotApprovedError carries the guest's name so the scanner panel can still
// show who was at the door.
type NotApprovedError struct {
	Name string
}

func (e *NotApprovedError) Error() string {
	return "guest is not approved"
}

// AlreadyFullError means every seat under the token was already used.
type AlreadyFullError struct {
	Name        string
	GuestCount  int
	CheckedInAt *time.Time
}

func (e *AlreadyFullError) Error() string {
	return "all guests already checked in"
}

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

type IntakeRequest struct {
	Name       string
	Email      string
	Phone      string
	GuestCount int
	Note       string
	Relation   string
}

// GuestPreview is the read-only projection returned before committing a
// check-in, so the door UI can render a confirmation screen.
type GuestPreview struct {
	Name           string
	GuestCount     int
	Status         models.GuestStatus
	CheckedIn      bool
	CheckedInCount int
}

type CheckInResult struct {
	Name            string
	Entered         int
	TotalCheckedIn  int
	RegisteredCount int
}

type GuestService interface {
	SubmitRequest(ctx context.Context, req IntakeRequest) (*models.Guest, error)
	SetStatus(ctx context.Context, id uuid.UUID, action Action) (*models.Guest, error)
	LookupByToken(ctx context.Context, token string) (*GuestPreview, error)
	CheckIn(ctx context.Context, token string, entering *int) (*CheckInResult, error)
	ListGuests(ctx context.Context, status *models.GuestStatus, search string) ([]models.Guest, error)
}

type guestService struct {
	repo     repository.GuestRepository
	notifier notify.Dispatcher
}

func NewGuestService(repo repository.GuestRepository, notifier notify.Dispatcher) GuestService {
	return &guestService{repo: repo, notifier: notifier}
}

func (s *guestService) SubmitRequest(ctx context.Context, req IntakeRequest) (*models.Guest, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)

	switch {
	case name == "":
		return nil, &ValidationError{Field: "name"}
	case email == "":
		return nil, &ValidationError{Field: "email"}
	case phone == "":
		return nil, &ValidationError{Field: "phone"}
	}

	count := req.GuestCount
	if count < 1 {
		count = 1
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, &DuplicateEmailError{Status: existing.Status}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	guest := &models.Guest{
		ID:         uuid.New(),
		Name:       name,
		Email:      email,
		Phone:      phone,
		Relation:   strings.TrimSpace(req.Relation),
		Note:       strings.TrimSpace(req.Note),
		GuestCount: count,
		QRToken:    uuid.NewString(),
		Status:     models.StatusPending,
	}

	if err := s.repo.Create(ctx, s.repo.GetDB(), guest); err != nil {
		// Unique index on lower(email) backstops two concurrent intakes
		// racing past the lookup above.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &DuplicateEmailError{}
		}
		return nil, err
	}

	s.notifier.Confirmation(guest)

	return guest, nil
}

func (s *guestService) SetStatus(ctx context.Context, id uuid.UUID, action Action) (*models.Guest, error) {
	var newStatus models.GuestStatus
	switch action {
	case ActionApprove:
		newStatus = models.StatusApproved
	case ActionReject:
		newStatus = models.StatusRejected
	default:
		return nil, ErrInvalidAction
	}

	guest, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}

	// Re-clicking the same action after a stale refresh is a no-op success.
	if guest.Status == newStatus {
		return guest, nil
	}

	if err := s.repo.UpdateStatus(ctx, s.repo.GetDB(), guest.ID, newStatus); err != nil {
		return nil, err
	}
	guest.Status = newStatus

	// The status change is already durable; notification delivery is
	// best-effort from here. The approval mail reuses the original token.
	switch newStatus {
	case models.StatusApproved:
		s.notifier.Approval(guest)
	case models.StatusRejected:
		s.notifier.Rejection(guest)
	}

	return guest, nil
}

func (s *guestService) LookupByToken(ctx context.Context, token string) (*GuestPreview, error) {
	guest, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return &GuestPreview{
		Name:           guest.Name,
		GuestCount:     guest.GuestCount,
		Status:         guest.Status,
		CheckedIn:      guest.CheckedIn,
		CheckedInCount: guest.CheckedInCount,
	}, nil
}

func (s *guestService) CheckIn(ctx context.Context, token string, entering *int) (*CheckInResult, error) {
	var result *CheckInResult

	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		// Row lock serializes concurrent scans of the same token; the
		// status check below runs under the same lock, so an admin
		// rejecting mid-scan cannot slip past it.
		guest, err := s.repo.FindByTokenForUpdate(ctx, tx, token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidToken
			}
			return err
		}

		if guest.Status != models.StatusApproved {
			return &NotApprovedError{Name: guest.Name}
		}

		if guest.CheckedInCount >= guest.GuestCount {
			return &AlreadyFullError{
				Name:        guest.Name,
				GuestCount:  guest.GuestCount,
				CheckedInAt: guest.CheckedInAt,
			}
		}

		// Default: admit everyone remaining. An explicit operator count is
		// applied verbatim, not clamped against remaining seats.
		count := guest.Remaining()
		if entering != nil && *entering > 0 {
			count = *entering
		}

		total := guest.CheckedInCount + count
		now := time.Now()
		if err := s.repo.ApplyCheckIn(ctx, tx, guest.ID, total, now); err != nil {
			return err
		}

		result = &CheckInResult{
			Name:            guest.Name,
			Entered:         count,
			TotalCheckedIn:  total,
			RegisteredCount: guest.GuestCount,
		}
		return nil
	})

	return result, err
}

func (s *guestService) ListGuests(ctx context.Context, status *models.GuestStatus, search string) ([]models.Guest, error) {
	return s.repo.List(ctx, status, search)
}
