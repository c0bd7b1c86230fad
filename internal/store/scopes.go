package store

import (
	"gallery-app/internal/domain/users"

	"gorm.io/gorm"
)

// Per-role query variants. Unknown roles match nothing.

func (s *Scoped) galleryScope(q *gorm.DB) *gorm.DB {
	switch s.actor.Role {
	case users.RoleAdmin:
		return q
	case users.RoleGallery:
		return q.Where("galleries.slug = ?", s.actor.Username)
	case users.RoleArtist:
		return q.Where("galleries.slug IN (SELECT gallery_slug FROM artists WHERE id = ?)", s.actor.ID)
	}
	return q.Where("1 = 0")
}

func (s *Scoped) artistScope(q *gorm.DB) *gorm.DB {
	switch s.actor.Role {
	case users.RoleAdmin:
		return q
	case users.RoleGallery:
		return q.Where("artists.gallery_slug = ?", s.actor.Username)
	case users.RoleArtist:
		return q.Where("artists.id = ?", s.actor.ID)
	}
	return q.Where("1 = 0")
}

func (s *Scoped) artworkScope(q *gorm.DB) *gorm.DB {
	switch s.actor.Role {
	case users.RoleAdmin:
		return q
	case users.RoleGallery:
		return q.Where("artworks.gallery_slug = ?", s.actor.Username)
	case users.RoleArtist:
		return q.Where("artworks.artist_id = ?", s.actor.ID)
	}
	return q.Where("1 = 0")
}

func (s *Scoped) collectionScope(q *gorm.DB) *gorm.DB {
	switch s.actor.Role {
	case users.RoleAdmin:
		return q
	case users.RoleGallery:
		return q.Where("collections.artist_id IN (SELECT id FROM artists WHERE gallery_slug = ?)", s.actor.Username)
	case users.RoleArtist:
		return q.Where("collections.artist_id = ?", s.actor.ID)
	}
	return q.Where("1 = 0")
}
