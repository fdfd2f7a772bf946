package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Snomn123/Whatsapp-layout/internal/domain"
)

// GormContactRepository implements ContactRepository using GORM.
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GORM-backed contact repository.
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// Add creates the directed edge ownerID -> contactID.
func (r *GormContactRepository) Add(ctx context.Context, ownerID, contactID uint) error {
	model := domain.ContactModel{OwnerID: ownerID, ContactID: contactID}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrContactExists
		}
		return err
	}
	return nil
}

// Remove deletes the directed edge ownerID -> contactID.
func (r *GormContactRepository) Remove(ctx context.Context, ownerID, contactID uint) error {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND contact_id = ?", ownerID, contactID).
		Delete(&domain.ContactModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}

// EdgesFor returns every edge touching userID in either direction, with the
// other endpoint's user row loaded. The service layer derives mutual and
// pending pairs from the two directions.
func (r *GormContactRepository) EdgesFor(ctx context.Context, userID uint) ([]ContactEdge, error) {
	var models []domain.ContactModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ? OR contact_id = ?", userID, userID).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}

	otherIDs := make([]uint, 0, len(models))
	for _, m := range models {
		if m.OwnerID == userID {
			otherIDs = append(otherIDs, m.ContactID)
		} else {
			otherIDs = append(otherIDs, m.OwnerID)
		}
	}

	var users []domain.UserModel
	if err := r.db.WithContext(ctx).Where("id IN ?", otherIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]*domain.User, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].ToDomain()
	}

	edges := make([]ContactEdge, 0, len(models))
	for _, m := range models {
		other := m.ContactID
		if m.OwnerID != userID {
			other = m.OwnerID
		}
		edges = append(edges, ContactEdge{
			OwnerID:   m.OwnerID,
			ContactID: m.ContactID,
			User:      byID[other],
		})
	}
	return edges, nil
}

// Exists reports whether the directed edge ownerID -> contactID exists.
func (r *GormContactRepository) Exists(ctx context.Context, ownerID, contactID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ContactModel{}).
		Where("owner_id = ? AND contact_id = ?", ownerID, contactID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
