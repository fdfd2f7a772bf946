package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Snomn123/Whatsapp-layout/internal/domain"
)

// GormReactionRepository implements ReactionRepository using GORM.
type GormReactionRepository struct {
	db *gorm.DB
}

// NewGormReactionRepository creates a new GORM-backed reaction repository.
func NewGormReactionRepository(db *gorm.DB) *GormReactionRepository {
	return &GormReactionRepository{db: db}
}

// Set stores or replaces the reaction of userID on messageID. One reaction
// per (message, user) pair.
func (r *GormReactionRepository) Set(ctx context.Context, messageID, userID uint, emoji string) error {
	model := domain.ReactionModel{MessageID: messageID, UserID: userID, Emoji: emoji}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"emoji"}),
		}).
		Create(&model).Error
}

// ForMessages returns emoji lists keyed by message id.
func (r *GormReactionRepository) ForMessages(ctx context.Context, messageIDs []uint) (map[uint][]string, error) {
	result := make(map[uint][]string)
	if len(messageIDs) == 0 {
		return result, nil
	}

	var models []domain.ReactionModel
	err := r.db.WithContext(ctx).
		Where("message_id IN ?", messageIDs).
		Order("message_id ASC, user_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	for _, m := range models {
		result[m.MessageID] = append(result[m.MessageID], m.Emoji)
	}
	return result, nil
}
