package users

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleGallery Role = "gallery"
	RoleArtist  Role = "artist"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleGallery, RoleArtist:
		return Role(s), true
	}
	return "", false
}

// User is a login account. Gallery accounts use the gallery slug as
// username, artist accounts share their ID with the artist row.
type User struct {
	ID           string `gorm:"primaryKey"`
	Name         string
	Username     string `gorm:"not null;uniqueIndex:idx_users_username"`
	PasswordHash string `gorm:"not null"`
	Role         Role   `gorm:"type:varchar(20);not null"`
	PromoCode    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor is the identity a request acts as.
type Actor struct {
	ID       string
	Username string
	Role     Role
}

func (u User) Actor() Actor {
	return Actor{ID: u.ID, Username: u.Username, Role: u.Role}
}
