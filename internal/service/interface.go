package service

import (
	"context"

	"github.com/Snomn123/Whatsapp-layout/internal/domain"
	"github.com/Snomn123/Whatsapp-layout/internal/hub"
)

// ChatService is the websocket event router plus connection lifecycle.
type ChatService interface {
	// Connect registers the authenticated client's session, persists
	// last-seen and announces the user online to everyone else.
	Connect(ctx context.Context, c *hub.Client) error
	// HandleFrame dispatches one inbound frame. Malformed or unknown
	// frames are dropped; the connection stays open.
	HandleFrame(ctx context.Context, c *hub.Client, frame []byte)
	// Disconnect persists last-seen and tears the session down, guarding
	// against a stale handler evicting a newer session after reconnect.
	Disconnect(ctx context.Context, c *hub.Client)
	// History returns the conversation between two users, oldest first.
	History(ctx context.Context, userID, contactID uint) ([]*domain.Message, error)
}

// UserService handles account registration and login.
type UserService interface {
	Register(ctx context.Context, username, password string) (*domain.AuthResult, error)
	Login(ctx context.Context, username, password string) (*domain.AuthResult, error)
	Get(ctx context.Context, userID uint) (*domain.UserResponse, error)
	SetAvatar(ctx context.Context, userID uint, avatarURL string) error
}

// ContactService manages contact edges and their presence-merged listing.
type ContactService interface {
	// List returns the user's contacts with derived presence state and
	// pending/incoming flags.
	List(ctx context.Context, userID uint) ([]*domain.Contact, error)
	// Add creates the directed edge userID -> target and pushes a
	// new-contact event to the target when online.
	Add(ctx context.Context, userID uint, targetUsername string) (*domain.Contact, error)
	Remove(ctx context.Context, userID, contactID uint) error
}
