package service

import (
	"context"
	"encoding/json"

	"github.com/Snomn123/Whatsapp-layout/internal/domain"
	"github.com/Snomn123/Whatsapp-layout/internal/hub"
	"github.com/Snomn123/Whatsapp-layout/internal/registry"
	"github.com/Snomn123/Whatsapp-layout/internal/repository"
	"github.com/Snomn123/Whatsapp-layout/pkg/log"
)

type chatService struct {
	registry  registry.Registry
	users     repository.UserRepository
	messages  repository.MessageRepository
	reactions repository.ReactionRepository
}

// NewChatService creates the websocket event router.
func NewChatService(
	reg registry.Registry,
	users repository.UserRepository,
	messages repository.MessageRepository,
	reactions repository.ReactionRepository,
) ChatService {
	return &chatService{
		registry:  reg,
		users:     users,
		messages:  messages,
		reactions: reactions,
	}
}

func (s *chatService) Connect(ctx context.Context, c *hub.Client) error {
	s.registry.Register(c.UserID, c)

	if err := s.users.TouchLastSeen(ctx, c.UserID); err != nil {
		log.Ctx(ctx).Error().Err(err).Uint(log.FieldUserID, c.UserID).Msg("failed to persist last-seen on connect")
	}

	s.registry.BroadcastAll(domain.NewPresenceUpdate(c.UserID, true, false), c.UserID)

	log.Ctx(ctx).Info().Uint(log.FieldUserID, c.UserID).Str("client_id", c.ID).Msg("session registered")
	return nil
}

func (s *chatService) Disconnect(ctx context.Context, c *hub.Client) {
	if err := s.users.TouchLastSeen(ctx, c.UserID); err != nil {
		log.Ctx(ctx).Error().Err(err).Uint(log.FieldUserID, c.UserID).Msg("failed to persist last-seen on disconnect")
	}

	// Remove only succeeds when c is still the active session. After a
	// reconnect the old socket's close handler lands here and must not
	// evict the replacement, nor announce the user offline.
	if s.registry.Remove(c.UserID, c) {
		s.registry.BroadcastAll(domain.NewPresenceUpdate(c.UserID, false, false), c.UserID)
		log.Ctx(ctx).Info().Uint(log.FieldUserID, c.UserID).Str("client_id", c.ID).Msg("session removed")
	} else {
		log.Ctx(ctx).Debug().Uint(log.FieldUserID, c.UserID).Str("client_id", c.ID).Msg("stale disconnect ignored")
	}
}

// HandleFrame dispatches one inbound frame. Every failure path drops just
// this frame: a bad payload or a persistence error never terminates the
// connection.
func (s *chatService) HandleFrame(ctx context.Context, c *hub.Client, frame []byte) {
	var base domain.BaseEvent
	if err := json.Unmarshal(frame, &base); err != nil {
		log.Ctx(ctx).Warn().Err(err).Uint(log.FieldUserID, c.UserID).Msg("dropping unparsable frame")
		return
	}

	switch base.Type {
	case domain.EventMessage:
		s.handleMessage(ctx, c, frame)
	case domain.EventTyping:
		s.handleTyping(ctx, c, frame)
	case domain.EventActivity:
		s.handleActivity(ctx, c)
	case domain.EventPresence:
		s.handlePresence(ctx, c, frame)
	case domain.EventStatusUpdate:
		s.handleStatusUpdate(ctx, c, frame)
	case domain.EventReaction:
		s.handleReaction(ctx, c, frame)
	default:
		// Unknown event types are ignored, not errors.
		log.Ctx(ctx).Debug().Str(log.FieldEventType, base.Type).Msg("ignoring unknown event type")
	}
}

func (s *chatService) handleMessage(ctx context.Context, c *hub.Client, frame []byte) {
	var evt domain.MessageEvent
	if err := json.Unmarshal(frame, &evt); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("dropping malformed message event")
		return
	}
	if evt.SenderID == 0 || evt.ReceiverID == 0 {
		log.Ctx(ctx).Warn().Msg("dropping message event without sender/receiver")
		return
	}
	if evt.SenderID != c.UserID {
		log.Ctx(ctx).Warn().Uint(log.FieldUserID, c.UserID).Uint("claimed_sender", evt.SenderID).Msg("dropping message with spoofed sender")
		return
	}

	kind := evt.MessageType
	if kind == "" {
		kind = domain.KindText
	}
	if !domain.ValidKind(kind) {
		log.Ctx(ctx).Warn().Str("kind", kind).Msg("dropping message with unknown kind")
		return
	}

	msg, err := s.messages.Insert(ctx, evt.SenderID, evt.ReceiverID, evt.Content, kind)
	if err != nil {
		// Recoverable: the event is dropped, the connection lives on.
		log.Ctx(ctx).Error().Err(err).Msg("failed to persist message")
		return
	}

	// One authoritative echo to both parties. The sender reconciles its
	// optimistic entry via the unchanged tempId; an offline receiver
	// catches up on its next conversation load.
	echo := domain.NewMessageEcho(msg, evt.TempID)
	s.registry.SendTo(msg.SenderID, echo)
	s.registry.SendTo(msg.ReceiverID, echo)
}

func (s *chatService) handleTyping(ctx context.Context, c *hub.Client, frame []byte) {
	var evt domain.TypingEvent
	if err := json.Unmarshal(frame, &evt); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("dropping malformed typing event")
		return
	}
	if evt.SenderID == 0 || evt.ReceiverID == 0 {
		return
	}
	if evt.SenderID != c.UserID {
		log.Ctx(ctx).Warn().Uint(log.FieldUserID, c.UserID).Uint("claimed_sender", evt.SenderID).Msg("dropping typing event with spoofed sender")
		return
	}

	s.registry.SendTo(evt.ReceiverID, &domain.TypingPush{
		Type:     domain.EventTyping,
		SenderID: evt.SenderID,
		IsTyping: evt.IsTyping,
	})
}

func (s *chatService) handleActivity(ctx context.Context, c *hub.Client) {
	s.registry.Touch(c.UserID)
	if err := s.users.TouchLastSeen(ctx, c.UserID); err != nil {
		log.Ctx(ctx).Error().Err(err).Uint(log.FieldUserID, c.UserID).Msg("failed to persist last-seen")
	}
}

// handlePresence is the legacy heartbeat the client sends when opening a
// conversation. Only the activity side effect applies; the contactId payload
// is accepted but no longer triggers a targeted notification.
func (s *chatService) handlePresence(ctx context.Context, c *hub.Client, frame []byte) {
	var evt domain.PresenceHeartbeat
	if err := json.Unmarshal(frame, &evt); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("dropping malformed presence heartbeat")
		return
	}
	s.handleActivity(ctx, c)
}

func (s *chatService) handleStatusUpdate(ctx context.Context, c *hub.Client, frame []byte) {
	var evt domain.StatusUpdateEvent
	if err := json.Unmarshal(frame, &evt); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("dropping malformed status-update event")
		return
	}
	if evt.SenderID == 0 || evt.ReceiverID == 0 {
		return
	}
	// Only the conversation's receiver may flip messages to read.
	if evt.ReceiverID != c.UserID {
		log.Ctx(ctx).Warn().Uint(log.FieldUserID, c.UserID).Uint("claimed_receiver", evt.ReceiverID).Msg("dropping status-update with spoofed receiver")
		return
	}

	ids, err := s.messages.MarkRead(ctx, evt.SenderID, evt.ReceiverID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to mark messages read")
		return
	}
	if ids == nil {
		ids = []uint{}
	}

	// Notify only the original sender; re-issuing with nothing eligible
	// still sends an empty id set.
	s.registry.SendTo(evt.SenderID, &domain.StatusUpdatePush{
		Type:       domain.EventStatusUpdate,
		MessageIDs: ids,
		Status:     domain.StatusRead,
	})
}

func (s *chatService) handleReaction(ctx context.Context, c *hub.Client, frame []byte) {
	var evt domain.ReactionEvent
	if err := json.Unmarshal(frame, &evt); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("dropping malformed reaction event")
		return
	}
	if evt.MessageID == 0 || evt.Emoji == "" {
		return
	}

	msg, err := s.messages.GetByID(ctx, evt.MessageID)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Uint("message_id", evt.MessageID).Msg("reaction on unknown message")
		return
	}
	if msg.SenderID != c.UserID && msg.ReceiverID != c.UserID {
		log.Ctx(ctx).Warn().Uint(log.FieldUserID, c.UserID).Uint("message_id", evt.MessageID).Msg("reaction on foreign conversation")
		return
	}

	if err := s.reactions.Set(ctx, evt.MessageID, c.UserID, evt.Emoji); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to persist reaction")
		return
	}

	push := &domain.ReactionPush{
		Type:      domain.EventReaction,
		MessageID: evt.MessageID,
		UserID:    c.UserID,
		Emoji:     evt.Emoji,
	}
	s.registry.SendTo(msg.SenderID, push)
	s.registry.SendTo(msg.ReceiverID, push)
}

func (s *chatService) History(ctx context.Context, userID, contactID uint) ([]*domain.Message, error) {
	return s.messages.Conversation(ctx, userID, contactID)
}
