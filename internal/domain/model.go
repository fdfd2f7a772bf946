package domain

import (
	"time"
)

// Message kinds. Stored in the messages.type column.
const (
	KindText  = "text"
	KindImage = "image"
	KindFile  = "file"
)

// Message statuses. A row only ever moves sent -> read.
const (
	StatusSent = "sent"
	StatusRead = "read"
)

// ValidKind reports whether k is a known message kind.
func ValidKind(k string) bool {
	return k == KindText || k == KindImage || k == KindFile
}

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID           uint       `gorm:"primaryKey;autoIncrement"`
	Username     string     `gorm:"type:varchar(50);uniqueIndex;not null"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	Avatar       string     `gorm:"type:varchar(255)"`
	LastOnline   *time.Time `gorm:"column:last_online"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
}

func (UserModel) TableName() string { return "users" }

// ToDomain converts UserModel to the domain User.
func (m *UserModel) ToDomain() *User {
	return &User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Avatar:       m.Avatar,
		LastOnline:   m.LastOnline,
		CreatedAt:    m.CreatedAt,
	}
}

// User is the domain representation of an account.
type User struct {
	ID           uint
	Username     string
	PasswordHash string
	Avatar       string
	LastOnline   *time.Time
	CreatedAt    time.Time
}

// ToResponse strips credential data for API output.
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Avatar:     u.Avatar,
		LastOnline: u.LastOnline,
	}
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User  *UserResponse `json:"user"`
	Token string        `json:"token"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID         uint       `json:"id"`
	Username   string     `json:"username"`
	Avatar     string     `json:"avatar,omitempty"`
	LastOnline *time.Time `json:"last_online,omitempty"`
}

// MessageModel is the GORM model for the messages table.
type MessageModel struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	SenderID   uint      `gorm:"column:sender_id;not null;index"`
	ReceiverID uint      `gorm:"column:receiver_id;not null;index"`
	Content    string    `gorm:"type:text;not null"`
	Kind       string    `gorm:"column:type;type:varchar(10);not null"`
	Status     string    `gorm:"type:varchar(10);not null"`
	Timestamp  time.Time `gorm:"autoCreateTime;index"`
}

func (MessageModel) TableName() string { return "messages" }

// ToDomain converts MessageModel to the domain Message.
func (m *MessageModel) ToDomain() *Message {
	return &Message{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		Kind:       m.Kind,
		Status:     m.Status,
		Timestamp:  m.Timestamp,
	}
}

// Message is a persisted chat message. JSON tags match the row fields the
// browser client consumes; the kind column serializes as message_type so it
// never collides with the frame discriminator.
type Message struct {
	ID         uint      `json:"id"`
	SenderID   uint      `json:"sender_id"`
	ReceiverID uint      `json:"receiver_id"`
	Content    string    `json:"content"`
	Kind       string    `json:"message_type"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	Reactions  []string  `json:"reactions,omitempty"`
}

// ContactModel is the GORM model for the contacts table. Edges are directed:
// a row means owner added contact. A mutual pair of rows is a confirmed
// contact; a single row is a pending request.
type ContactModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	OwnerID   uint      `gorm:"column:owner_id;not null;uniqueIndex:idx_contact_edge"`
	ContactID uint      `gorm:"column:contact_id;not null;uniqueIndex:idx_contact_edge"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ContactModel) TableName() string { return "contacts" }

// Contact is a contact entry merged with presence state for API output.
type Contact struct {
	ID         uint       `json:"id"`
	Username   string     `json:"username"`
	Avatar     string     `json:"avatar,omitempty"`
	LastOnline *time.Time `json:"last_online,omitempty"`
	IsOnline   bool       `json:"isOnline"`
	IsIdle     bool       `json:"isIdle"`
	Pending    bool       `json:"pending"`          // they have not added us back
	Incoming   bool       `json:"incoming"`         // they added us, we have not added back
}

// ReactionModel is the GORM model for the reactions table.
type ReactionModel struct {
	MessageID uint   `gorm:"column:message_id;primaryKey"`
	UserID    uint   `gorm:"column:user_id;primaryKey"`
	Emoji     string `gorm:"type:varchar(16);not null"`
}

func (ReactionModel) TableName() string { return "reactions" }
