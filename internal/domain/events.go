package domain

// WebSocket event types from the client.
const (
	EventMessage      = "message"
	EventTyping       = "typing"
	EventActivity     = "activity"
	EventPresence     = "presence"
	EventStatusUpdate = "status-update"
	EventReaction     = "reaction"
)

// WebSocket event types to the client.
const (
	EventNewContact = "new-contact"
)

// BaseEvent carries only the discriminator, for a first-pass decode.
type BaseEvent struct {
	Type string `json:"type"`
}

// Client -> server events.

type MessageEvent struct {
	Type        string `json:"type"`
	SenderID    uint   `json:"senderId"`
	ReceiverID  uint   `json:"receiverId"`
	Content     string `json:"content"`
	MessageType string `json:"messageType"`
	TempID      int64  `json:"tempId"`
}

type TypingEvent struct {
	Type       string `json:"type"`
	SenderID   uint   `json:"senderId"`
	ReceiverID uint   `json:"receiverId"`
	IsTyping   bool   `json:"isTyping"`
}

// PresenceHeartbeat is the legacy heartbeat the client sends when it opens a
// conversation. Only the activity side effect applies; contactId is accepted
// but no longer triggers a targeted notification.
type PresenceHeartbeat struct {
	Type      string `json:"type"`
	ContactID uint   `json:"contactId"`
	IsActive  bool   `json:"isActive"`
}

type StatusUpdateEvent struct {
	Type       string `json:"type"`
	SenderID   uint   `json:"senderId"`
	ReceiverID uint   `json:"receiverId"`
}

type ReactionEvent struct {
	Type      string `json:"type"`
	MessageID uint   `json:"messageId"`
	Emoji     string `json:"emoji"`
}

// Server -> client events.

// MessageEcho is the authoritative echo of a persisted message, delivered to
// both participants. TempID is passed through unchanged so the sender can
// reconcile its optimistic entry.
type MessageEcho struct {
	Type string `json:"type"`
	Message
	TempID int64 `json:"tempId,omitempty"`
}

// NewMessageEcho builds the echo frame for a stored row.
func NewMessageEcho(msg *Message, tempID int64) *MessageEcho {
	return &MessageEcho{Type: EventMessage, Message: *msg, TempID: tempID}
}

type PresenceUpdate struct {
	Type     string `json:"type"`
	UserID   uint   `json:"userId"`
	IsOnline bool   `json:"isOnline"`
	IsIdle   bool   `json:"isIdle"`
}

// NewPresenceUpdate builds a presence frame for broadcast.
func NewPresenceUpdate(userID uint, online, idle bool) *PresenceUpdate {
	return &PresenceUpdate{Type: EventPresence, UserID: userID, IsOnline: online, IsIdle: idle}
}

type StatusUpdatePush struct {
	Type       string `json:"type"`
	MessageIDs []uint `json:"messageIds"`
	Status     string `json:"status"`
}

type TypingPush struct {
	Type     string `json:"type"`
	SenderID uint   `json:"senderId"`
	IsTyping bool   `json:"isTyping"`
}

type NewContactPush struct {
	Type    string   `json:"type"`
	Contact *Contact `json:"contact"`
}

type ReactionPush struct {
	Type      string `json:"type"`
	MessageID uint   `json:"messageId"`
	UserID    uint   `json:"userId"`
	Emoji     string `json:"emoji"`
}
