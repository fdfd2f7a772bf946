package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Snomn123/Whatsapp-layout/internal/domain"
)

// GormMessageRepository implements MessageRepository using GORM.
type GormMessageRepository struct {
	db        *gorm.DB
	reactions ReactionRepository
}

// NewGormMessageRepository creates a new GORM-backed message repository.
func NewGormMessageRepository(db *gorm.DB, reactions ReactionRepository) *GormMessageRepository {
	return &GormMessageRepository{db: db, reactions: reactions}
}

// Insert stores a new message with status "sent". The returned row carries
// the autoincrement id and the server-assigned timestamp.
func (r *GormMessageRepository) Insert(ctx context.Context, senderID, receiverID uint, content, kind string) (*domain.Message, error) {
	model := &domain.MessageModel{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Kind:       kind,
		Status:     domain.StatusSent,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// MarkRead flips every "sent" senderID->receiverID row to "read" and returns
// the affected ids. The select-then-update pair runs in one transaction so a
// concurrent insert cannot be reported without being updated.
func (r *GormMessageRepository) MarkRead(ctx context.Context, senderID, receiverID uint) ([]uint, error) {
	var ids []uint

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.MessageModel{}).
			Where("sender_id = ? AND receiver_id = ? AND status = ?", senderID, receiverID, domain.StatusSent).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&domain.MessageModel{}).
			Where("id IN ?", ids).
			Update("status", domain.StatusRead).Error
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Conversation returns all messages between the two users ordered oldest
// first, with reactions attached.
func (r *GormMessageRepository) Conversation(ctx context.Context, userA, userB uint) ([]*domain.Message, error) {
	var models []domain.MessageModel
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("timestamp ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	messages := make([]*domain.Message, 0, len(models))
	ids := make([]uint, 0, len(models))
	for i := range models {
		messages = append(messages, models[i].ToDomain())
		ids = append(ids, models[i].ID)
	}

	if len(ids) > 0 && r.reactions != nil {
		byMessage, err := r.reactions.ForMessages(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, msg := range messages {
			msg.Reactions = byMessage[msg.ID]
		}
	}

	return messages, nil
}

// GetByID retrieves a single message row.
func (r *GormMessageRepository) GetByID(ctx context.Context, id uint) (*domain.Message, error) {
	var model domain.MessageModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}
