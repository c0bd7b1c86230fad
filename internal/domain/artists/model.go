package artists

import "time"

type Artist struct {
	ID           string  `gorm:"primaryKey" json:"id"`
	GallerySlug  *string `gorm:"index:idx_artists_gallery_order,priority:1" json:"gallery_slug"`
	Name         string  `gorm:"not null" json:"name"`
	BioShort     string  `json:"bio_short"`
	Bio          string  `json:"bio"`
	BioImageURL  string  `json:"bio_image_url"`
	Live         bool    `gorm:"not null;default:false" json:"live"`
	Archived     bool    `gorm:"not null;default:false;index" json:"archived"`
	DisplayOrder int     `gorm:"not null;default:0;index:idx_artists_gallery_order,priority:2" json:"display_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Public reports whether the artist may appear on public pages.
func (a Artist) Public() bool {
	return a.Live && !a.Archived
}
