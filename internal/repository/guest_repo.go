package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/laiysh/guestlist/internal/models"
)

type GuestRepository interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Create(ctx context.Context, tx *gorm.DB, guest *models.Guest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Guest, error)
	FindByEmail(ctx context.Context, email string) (*models.Guest, error)
	FindByToken(ctx context.Context, token string) (*models.Guest, error)
	FindByTokenForUpdate(ctx context.Context, tx *gorm.DB, token string) (*models.Guest, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.GuestStatus) error
	ApplyCheckIn(ctx context.Context, tx *gorm.DB, id uuid.UUID, total int, at time.Time) error
	List(ctx context.Context, status *models.GuestStatus, search string) ([]models.Guest, error)
	GetDB() *gorm.DB
}

type guestRepository struct {
	db *gorm.DB
}

func NewGuestRepository(db *gorm.DB) GuestRepository {
	return &guestRepository{db: db}
}

func (r *guestRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *guestRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *guestRepository) Create(ctx context.Context, tx *gorm.DB, guest *models.Guest) error {
	return tx.WithContext(ctx).Create(guest).Error
}

func (r *guestRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Guest, error) {
	var guest models.Guest
	if err := r.db.WithContext(ctx).First(&guest, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *guestRepository) FindByEmail(ctx context.Context, email string) (*models.Guest, error) {
	var guest models.Guest
	err := r.db.WithContext(ctx).
		Where("lower(email) = lower(?)", email).
		First(&guest).Error
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *guestRepository) FindByToken(ctx context.Context, token string) (*models.Guest, error) {
	var guest models.Guest
	err := r.db.WithContext(ctx).
		Where("qr_token = ?", token).
		First(&guest).Error
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// FindByTokenForUpdate acquires a row-level lock on the guest within the given
// transaction. Concurrent check-ins on the same token serialize here.
func (r *guestRepository) FindByTokenForUpdate(ctx context.Context, tx *gorm.DB, token string) (*models.Guest, error) {
	var guest models.Guest
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("qr_token = ?", token).
		First(&guest).Error
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *guestRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.GuestStatus) error {
	return tx.WithContext(ctx).
		Model(&models.Guest{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// ApplyCheckIn writes the new cumulative count in a single update so the row
// never reflects a half-applied check-in.
func (r *guestRepository) ApplyCheckIn(ctx context.Context, tx *gorm.DB, id uuid.UUID, total int, at time.Time) error {
	return tx.WithContext(ctx).
		Model(&models.Guest{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"checked_in":       true,
			"checked_in_count": total,
			"checked_in_at":    at,
		}).Error
}

func (r *guestRepository) List(ctx context.Context, status *models.GuestStatus, search string) ([]models.Guest, error) {
	var guests []models.Guest
	q := r.db.WithContext(ctx).Model(&models.Guest{})
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if search != "" {
		q = q.Where("name ILIKE ?", "%"+escapeLike(search)+"%")
	}
	if err := q.Order("created_at DESC").Find(&guests).Error; err != nil {
		return nil, err
	}
	return guests, nil
}

// escapeLike neutralizes LIKE metacharacters so a search term matches
// literally instead of acting as a pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
