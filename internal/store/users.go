package store

import (
	"context"
	"strings"

	"gallery-app/internal/domain/artists"
	"gallery-app/internal/domain/galleries"
	"gallery-app/internal/domain/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *Repo) FindUserByUsername(ctx context.Context, username string) (*users.User, error) {
	var u users.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *Repo) GetUser(ctx context.Context, id string) (*users.User, error) {
	var u users.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *Repo) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	res := r.db.WithContext(ctx).Model(&users.User{}).Where("id = ?", userID).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateGalleryAccount inserts a gallery whose slug is the account's
// username, then the account itself.
func (r *Repo) CreateGalleryAccount(ctx context.Context, u users.User, g GalleryInput) (*galleries.Gallery, error) {
	u.Role = users.RoleGallery
	u.Username = strings.TrimSpace(u.Username)
	g.Slug = u.Username
	u.ID = uuid.NewString()

	var out *galleries.Gallery
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := usernameFree(ctx, tx, u.Username); err != nil {
			return err
		}
		var err error
		if out, err = insertGallery(ctx, tx, g); err != nil {
			return err
		}
		return translate(tx.Create(&u).Error)
	})
	return out, err
}

// CreateArtistAccount inserts an artist and an account sharing its id.
func (r *Repo) CreateArtistAccount(ctx context.Context, u users.User, in ArtistInput) (*artists.Artist, error) {
	u.Role = users.RoleArtist
	u.Username = strings.TrimSpace(u.Username)

	var out *artists.Artist
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := usernameFree(ctx, tx, u.Username); err != nil {
			return err
		}
		var err error
		if out, err = insertArtist(ctx, tx, in); err != nil {
			return err
		}
		u.ID = out.ID
		return translate(tx.Create(&u).Error)
	})
	return out, err
}

func usernameFree(ctx context.Context, tx *gorm.DB, username string) error {
	if username == "" {
		return invalid("username", "is required")
	}
	var n int64
	if err := tx.WithContext(ctx).Model(&users.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	return nil
}

func (s *Scoped) ListUsers(ctx context.Context) ([]users.User, error) {
	if err := s.require(users.RoleAdmin); err != nil {
		return nil, err
	}
	var out []users.User
	err := s.db.WithContext(ctx).Order("role ASC, username ASC").Find(&out).Error
	return out, err
}
