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

type GalleryInput struct {
	Slug      string
	Name      string
	Bio       string
	Email     string
	Phone     string
	Address   string
	OwnerName string
	LogoURL   string
}

type GalleryPatch struct {
	Name      *string
	Bio       *string
	Email     *string
	Phone     *string
	Address   *string
	OwnerName *string
	LogoURL   *string
}

// ListGalleries is the public index.
func (r *Repo) ListGalleries(ctx context.Context) ([]galleries.Gallery, error) {
	var out []galleries.Gallery
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (s *Scoped) ListGalleries(ctx context.Context) ([]galleries.Gallery, error) {
	var out []galleries.Gallery
	err := s.db.WithContext(ctx).
		Model(&galleries.Gallery{}).
		Scopes(s.galleryScope).
		Order("name ASC").
		Find(&out).Error
	return out, err
}

func (s *Scoped) GetGallery(ctx context.Context, slug string) (*galleries.Gallery, error) {
	var g galleries.Gallery
	err := s.db.WithContext(ctx).
		Model(&galleries.Gallery{}).
		Scopes(s.galleryScope).
		Where("galleries.slug = ?", slug).
		First(&g).Error
	if err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (s *Scoped) CreateGallery(ctx context.Context, in GalleryInput) (*galleries.Gallery, error) {
	if err := s.require(users.RoleAdmin); err != nil {
		return nil, err
	}
	var g *galleries.Gallery
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		g, err = insertGallery(ctx, tx, in)
		return err
	})
	return g, err
}

// insertGallery assigns the slug and inserts. An explicit slug must be
// free; a derived one is made unique.
func insertGallery(ctx context.Context, tx *gorm.DB, in GalleryInput) (*galleries.Gallery, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}

	slug := strings.TrimSpace(in.Slug)
	if slug != "" {
		if !slugs.Valid(slug) {
			return nil, invalid("slug", "may only contain lowercase letters, digits and single hyphens")
		}
		if galleries.IsReserved(slug) {
			return nil, invalid("slug", "is reserved")
		}
		var n int64
		if err := tx.WithContext(ctx).Model(&galleries.Gallery{}).Where("slug = ?", slug).Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, ErrConflict
		}
	} else {
		base := slugs.Make(name, "gallery")
		if galleries.IsReserved(base) {
			base += "-gallery"
		}
		var err error
		slug, err = slugs.Unique(ctx, tx, &galleries.Gallery{}, "slug", base)
		if err != nil {
			return nil, err
		}
	}

	g := galleries.Gallery{
		Slug:      slug,
		Name:      name,
		Bio:       in.Bio,
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   in.Address,
		OwnerName: in.OwnerName,
		LogoURL:   strings.TrimSpace(in.LogoURL),
	}
	if err := tx.WithContext(ctx).Create(&g).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (s *Scoped) UpdateGallery(ctx context.Context, slug string, p GalleryPatch) (*galleries.Gallery, error) {
	g, err := s.GetGallery(ctx, slug)
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
	setString(changes, "bio", p.Bio)
	setTrimmed(changes, "email", p.Email)
	setTrimmed(changes, "phone", p.Phone)
	setString(changes, "address", p.Address)
	setString(changes, "owner_name", p.OwnerName)
	setTrimmed(changes, "logo_url", p.LogoURL)

	if len(changes) > 0 {
		if err := s.db.WithContext(ctx).Model(g).Updates(changes).Error; err != nil {
			return nil, translate(err)
		}
	}
	return s.GetGallery(ctx, slug)
}

// DeleteGallery hard-deletes the gallery with its artists, artworks,
// collections, accounts and their sessions.
func (s *Scoped) DeleteGallery(ctx context.Context, slug string) error {
	if err := s.require(users.RoleAdmin); err != nil {
		return err
	}
	if _, err := s.GetGallery(ctx, slug); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		artistIDs := func() *gorm.DB {
			return tx.Model(&artists.Artist{}).Select("id").Where("gallery_slug = ?", slug)
		}

		if err := tx.Where("gallery_slug = ? OR artist_id IN (?)", slug, artistIDs()).Delete(&artworks.Artwork{}).Error; err != nil {
			return err
		}
		if err := tx.Where("artist_id IN (?)", artistIDs()).Delete(&collections.Collection{}).Error; err != nil {
			return err
		}
		accountIDs := tx.Model(&users.User{}).Select("id").
			Where("(role = ? AND id IN (?)) OR (role = ? AND username = ?)", users.RoleArtist, artistIDs(), users.RoleGallery, slug)
		if err := tx.Where("user_id IN (?)", accountIDs).Delete(&sessions.Session{}).Error; err != nil {
			return err
		}
		if err := tx.Where("role = ? AND id IN (?)", users.RoleArtist, artistIDs()).Delete(&users.User{}).Error; err != nil {
			return err
		}
		if err := tx.Where("gallery_slug = ?", slug).Delete(&artists.Artist{}).Error; err != nil {
			return err
		}
		if err := tx.Where("role = ? AND username = ?", users.RoleGallery, slug).Delete(&users.User{}).Error; err != nil {
			return err
		}
		return tx.Where("slug = ?", slug).Delete(&galleries.Gallery{}).Error
	})
}

func setString(m map[string]interface{}, col string, v *string) {
	if v != nil {
		m[col] = *v
	}
}

func setTrimmed(m map[string]interface{}, col string, v *string) {
	if v != nil {
		m[col] = strings.TrimSpace(*v)
	}
}

func setBool(m map[string]interface{}, col string, v *bool) {
	if v != nil {
		m[col] = *v
	}
}
