package artworks

import (
	"time"

	"gallery-app/internal/domain/media"
)

const (
	StatusAvailable = "available"
	StatusCollected = "collected"
	StatusDraft     = "draft"

	MediumOther = "other"
)

type Artwork struct {
	ID       string `gorm:"primaryKey" json:"id"`
	ArtistID string `gorm:"not null;index" json:"artist_id"`
	// GallerySlug mirrors the owning artist's gallery.
	GallerySlug string `gorm:"index" json:"gallery_slug"`

	Title        string `gorm:"not null" json:"title"`
	Medium       string `json:"medium"`
	CustomMedium string `json:"custom_medium,omitempty"`
	Dimensions   string `json:"dimensions"`
	Price        string `json:"price"`

	Images media.ImageSet `gorm:"embedded;embeddedPrefix:image_" json:"images"`

	Status       string  `gorm:"not null;default:'available'" json:"status"`
	Visible      bool    `gorm:"not null" json:"visible"`
	Featured     bool    `gorm:"not null;default:false" json:"featured"`
	Description  string  `json:"description"`
	Framed       bool    `gorm:"not null;default:false" json:"framed"`
	ReadyToHang  bool    `gorm:"not null;default:false" json:"ready_to_hang"`
	CollectionID *string `gorm:"index" json:"collection_id,omitempty"`
	Archived     bool    `gorm:"not null;default:false;index" json:"archived"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
