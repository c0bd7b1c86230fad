package galleries

import "time"

type Gallery struct {
	Slug      string `gorm:"primaryKey" json:"slug"`
	Name      string `gorm:"not null" json:"name"`
	Bio       string `json:"bio"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	OwnerName string `json:"owner_name"`
	LogoURL   string `json:"logo_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Route segments that share the first path level with gallery slugs.
var reserved = map[string]struct{}{
	"login":     {},
	"logout":    {},
	"signup":    {},
	"dashboard": {},
	"uploads":   {},
	"health":    {},
	"metrics":   {},
	"static":    {},
	"api":       {},
	"admin":     {},
}

func IsReserved(slug string) bool {
	_, ok := reserved[slug]
	return ok
}
