package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketgrid/orders-api/internal/domain"
	"gorm.io/gorm"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

// GetOwned returns the contact only when it belongs to the given user.
// Not-owned and missing are indistinguishable by design.
func (r *ContactRepository) GetOwned(ctx context.Context, id, userID uuid.UUID) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.WithContext(ctx).
		First(&contact, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&contacts).Error
	return contacts, err
}

func (r *ContactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

// DeleteOwned removes the contact if owned by the user; reports whether
// a row was deleted. Orders referencing the contact keep existing with a
// nulled contact reference (FK ON DELETE SET NULL).
func (r *ContactRepository) DeleteOwned(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Contact{})
	return result.RowsAffected > 0, result.Error
}
