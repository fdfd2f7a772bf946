package repository

import (
	"context"
	"errors"

	"github.com/Snomn123/Whatsapp-layout/internal/domain"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameExists  = errors.New("username already exists")
	ErrContactExists   = errors.New("contact already exists")
	ErrContactNotFound = errors.New("contact not found")
	ErrMessageNotFound = errors.New("message not found")
)

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateAvatar(ctx context.Context, id uint, avatar string) error
	// TouchLastSeen sets last_online to now. Called on connect, disconnect
	// and activity heartbeats.
	TouchLastSeen(ctx context.Context, id uint) error
}

// MessageRepository persists chat messages and read receipts.
type MessageRepository interface {
	// Insert stores a new message with status "sent" and returns the row
	// with its server-assigned id and timestamp.
	Insert(ctx context.Context, senderID, receiverID uint, content, kind string) (*domain.Message, error)
	// MarkRead flips every not-yet-read sender->receiver row to "read" and
	// returns the affected ids. An empty result is not an error.
	MarkRead(ctx context.Context, senderID, receiverID uint) ([]uint, error)
	// Conversation returns all messages between the two users, ordered by
	// timestamp then id ascending, with reactions attached.
	Conversation(ctx context.Context, userA, userB uint) ([]*domain.Message, error)
	GetByID(ctx context.Context, id uint) (*domain.Message, error)
}

// ContactEdge is a directed contact relation row joined with the target user.
type ContactEdge struct {
	OwnerID   uint
	ContactID uint
	User      *domain.User // the other endpoint, preloaded for listings
}

// ContactRepository persists directed contact edges.
type ContactRepository interface {
	Add(ctx context.Context, ownerID, contactID uint) error
	Remove(ctx context.Context, ownerID, contactID uint) error
	// EdgesFor returns every edge touching userID in either direction.
	EdgesFor(ctx context.Context, userID uint) ([]ContactEdge, error)
	Exists(ctx context.Context, ownerID, contactID uint) (bool, error)
}

// ReactionRepository persists per-message emoji reactions.
type ReactionRepository interface {
	// Set stores or replaces the reaction of userID on messageID.
	Set(ctx context.Context, messageID, userID uint, emoji string) error
	// ForMessages returns emoji lists keyed by message id.
	ForMessages(ctx context.Context, messageIDs []uint) (map[uint][]string, error)
}
