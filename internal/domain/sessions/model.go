package sessions

import (
	"time"

	"gallery-app/internal/domain/users"
)

const (
	FlashInfo  = "info"
	FlashError = "error"
)

type Message struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Session is the persisted per-client state. UserID is empty for
// anonymous sessions. AuthenticatedAt is when the account logged in; an
// account created after it is not the one that logged in.
type Session struct {
	ID              string `gorm:"primaryKey"`
	UserID          string `gorm:"index"`
	Username        string
	Role            users.Role `gorm:"type:varchar(20)"`
	AuthenticatedAt time.Time
	CSRFSecret      string    `gorm:"column:csrf_secret"`
	Flash           []Message `gorm:"type:text;serializer:json"`
	ExpiresAt       time.Time `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Session) Actor() (users.Actor, bool) {
	if s == nil || s.UserID == "" {
		return users.Actor{}, false
	}
	return users.Actor{ID: s.UserID, Username: s.Username, Role: s.Role}, true
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
