package store

import (
	"context"
	"strings"

	"gallery-app/internal/domain/artists"
	"gallery-app/internal/domain/artworks"
	"gallery-app/internal/domain/collections"
	"gallery-app/internal/domain/galleries"
	"gallery-app/internal/domain/sessions"
	"gallery-app/internal/domain/slugs"
	"gallery-app/internal/domain/users"

	"gorm.io/gorm"
)

type ArtistInput struct {
	ID          string
	GallerySlug string
	Name        string
	BioShort    string
	Bio         string
	BioImageURL string
	Live        bool
}

type ArtistPatch struct {
	Name        *string
	BioShort    *string
	Bio         *string
	BioImageURL *string
	// GallerySlug moves the artist; admin only. Empty detaches.
	GallerySlug *string
}

func (s *Scoped) ListArtists(ctx context.Context, includeArchived bool) ([]artists.Artist, error) {
	q := s.db.WithContext(ctx).Model(&artists.Artist{}).Scopes(s.artistScope)
	if !includeArchived {
		q = q.Where("artists.archived = ?", false)
	}
	var out []artists.Artist
	err := q.Order("artists.gallery_slug ASC, artists.display_order ASC, artists.name ASC").Find(&out).Error
	return out, err
}

func (s *Scoped) GetArtist(ctx context.Context, id string) (*artists.Artist, error) {
	var a artists.Artist
	err := s.db.WithContext(ctx).
		Model(&artists.Artist{}).
		Scopes(s.artistScope).
		Where("artists.id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// CreateArtist inserts an artist. Gallery accounts always create into
// their own gallery.
func (s *Scoped) CreateArtist(ctx context.Context, in ArtistInput) (*artists.Artist, error) {
	if err := s.require(users.RoleAdmin, users.RoleGallery); err != nil {
		return nil, err
	}
	if s.actor.Role == users.RoleGallery {
		in.GallerySlug = s.actor.Username
	}

	var a *artists.Artist
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		a, err = insertArtist(ctx, tx, in)
		return err
	})
	return a, err
}

func insertArtist(ctx context.Context, tx *gorm.DB, in ArtistInput) (*artists.Artist, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}

	var gallerySlug *string
	if gs := strings.TrimSpace(in.GallerySlug); gs != "" {
		if err := ensureGalleryExists(ctx, tx, gs); err != nil {
			return nil, err
		}
		gallerySlug = &gs
	}
	if in.Live && gallerySlug == nil {
		return nil, invalid("live", "artist needs a gallery before going live")
	}

	id := strings.TrimSpace(in.ID)
	if id != "" {
		if !slugs.Valid(id) {
			return nil, invalid("id", "may only contain lowercase letters, digits and single hyphens")
		}
		var n int64
		if err := tx.WithContext(ctx).Model(&artists.Artist{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, ErrConflict
		}
	} else {
		var err error
		id, err = slugs.Unique(ctx, tx, &artists.Artist{}, "id", slugs.Make(name, "artist"))
		if err != nil {
			return nil, err
		}
	}

	order, err := nextDisplayOrder(ctx, tx, gallerySlug)
	if err != nil {
		return nil, err
	}

	a := artists.Artist{
		ID:           id,
		GallerySlug:  gallerySlug,
		Name:         name,
		BioShort:     in.BioShort,
		Bio:          in.Bio,
		BioImageURL:  strings.TrimSpace(in.BioImageURL),
		Live:         in.Live,
		DisplayOrder: order,
	}
	if err := tx.WithContext(ctx).Create(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func ensureGalleryExists(ctx context.Context, tx *gorm.DB, slug string) error {
	var n int64
	if err := tx.WithContext(ctx).Model(&galleries.Gallery{}).Where("slug = ?", slug).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return invalid("gallery_slug", "unknown gallery")
	}
	return nil
}

// nextDisplayOrder is max+1 within the gallery.
func nextDisplayOrder(ctx context.Context, tx *gorm.DB, gallerySlug *string) (int, error) {
	q := tx.WithContext(ctx).Model(&artists.Artist{}).Select("COALESCE(MAX(display_order), 0)")
	if gallerySlug == nil {
		q = q.Where("gallery_slug IS NULL")
	} else {
		q = q.Where("gallery_slug = ?", *gallerySlug)
	}
	var max int
	if err := q.Row().Scan(&max); err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (s *Scoped) UpdateArtist(ctx context.Context, id string, p ArtistPatch) (*artists.Artist, error) {
	a, err := s.GetArtist(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, invalid("name", "is required")
		}
		changes["name"] = name
	}
	setString(changes, "bio_short", p.BioShort)
	setString(changes, "bio", p.Bio)
	setTrimmed(changes, "bio_image_url", p.BioImageURL)

	var move *string
	if p.GallerySlug != nil {
		if !s.isAdmin() {
			return nil, ErrForbidden
		}
		target := strings.TrimSpace(*p.GallerySlug)
		current := ""
		if a.GallerySlug != nil {
			current = *a.GallerySlug
		}
		if target != current {
			move = &target
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if move != nil {
			var gs *string
			if *move != "" {
				if err := ensureGalleryExists(ctx, tx, *move); err != nil {
					return err
				}
				gs = move
			} else {
				changes["live"] = false
			}
			order, err := nextDisplayOrder(ctx, tx, gs)
			if err != nil {
				return err
			}
			if gs == nil {
				changes["gallery_slug"] = gorm.Expr("NULL")
			} else {
				changes["gallery_slug"] = *gs
			}
			changes["display_order"] = order

			// artworks follow their artist
			if err := tx.Model(&artworks.Artwork{}).
				Where("artist_id = ?", a.ID).
				Update("gallery_slug", *move).Error; err != nil {
				return err
			}
		}
		if len(changes) == 0 {
			return nil
		}
		return tx.Model(&artists.Artist{}).Where("id = ?", a.ID).Updates(changes).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return s.GetArtist(ctx, id)
}

func (s *Scoped) SetArtistLive(ctx context.Context, id string, live bool) (*artists.Artist, error) {
	a, err := s.GetArtist(ctx, id)
	if err != nil {
		return nil, err
	}
	if live && (a.GallerySlug == nil || *a.GallerySlug == "") {
		return nil, invalid("live", "artist needs a gallery before going live")
	}
	if err := s.db.WithContext(ctx).Model(&artists.Artist{}).Where("id = ?", a.ID).Update("live", live).Error; err != nil {
		return nil, err
	}
	a.Live = live
	return a, nil
}

// ArchiveArtist archives the artist and every one of its artworks in one
// transaction.
func (s *Scoped) ArchiveArtist(ctx context.Context, id string) error {
	a, err := s.GetArtist(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&artists.Artist{}).Where("id = ?", a.ID).Update("archived", true).Error; err != nil {
			return err
		}
		return tx.Model(&artworks.Artwork{}).Where("artist_id = ?", a.ID).Update("archived", true).Error
	})
}

// UnarchiveArtist restores only the artist; its artworks stay archived
// until restored one by one.
func (s *Scoped) UnarchiveArtist(ctx context.Context, id string) error {
	a, err := s.GetArtist(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&artists.Artist{}).Where("id = ?", a.ID).Update("archived", false).Error
}

// ReorderArtists rewrites display_order for the listed artists of one
// gallery, starting at 1.
func (s *Scoped) ReorderArtists(ctx context.Context, gallerySlug string, ids []string) error {
	if err := s.require(users.RoleAdmin, users.RoleGallery); err != nil {
		return err
	}
	if s.actor.Role == users.RoleGallery {
		gallerySlug = s.actor.Username
	}
	if len(ids) == 0 {
		return invalid("artist_ids", "is required")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&artists.Artist{}).
			Where("gallery_slug = ? AND id IN ?", gallerySlug, ids).
			Count(&n).Error; err != nil {
			return err
		}
		if int(n) != len(ids) {
			return invalid("artist_ids", "contains artists outside the gallery")
		}
		for i, id := range ids {
			if err := tx.Model(&artists.Artist{}).
				Where("id = ? AND gallery_slug = ?", id, gallerySlug).
				Update("display_order", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteArtist hard-deletes the artist, its artworks, collections,
// account and the account's sessions.
func (s *Scoped) DeleteArtist(ctx context.Context, id string) error {
	if err := s.require(users.RoleAdmin); err != nil {
		return err
	}
	a, err := s.GetArtist(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("artist_id = ?", a.ID).Delete(&artworks.Artwork{}).Error; err != nil {
			return err
		}
		if err := tx.Where("artist_id = ?", a.ID).Delete(&collections.Collection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", a.ID).Delete(&sessions.Session{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ? AND role = ?", a.ID, users.RoleArtist).Delete(&users.User{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", a.ID).Delete(&artists.Artist{}).Error
	})
}
