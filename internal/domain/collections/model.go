package collections

import "time"

type Collection struct {
	ID       string `gorm:"primaryKey" json:"id"`
	ArtistID string `gorm:"not null;uniqueIndex:idx_collections_artist_slug,priority:1" json:"artist_id"`
	Name     string `gorm:"not null" json:"name"`
	Slug     string `gorm:"not null;uniqueIndex:idx_collections_artist_slug,priority:2" json:"slug"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
