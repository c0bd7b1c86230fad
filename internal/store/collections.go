package store

import (
	"context"
	"strings"

	"gallery-app/internal/domain/artworks"
	"gallery-app/internal/domain/collections"
	"gallery-app/internal/domain/slugs"
	"gallery-app/internal/domain/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Scoped) ListCollections(ctx context.Context, artistID string) ([]collections.Collection, error) {
	q := s.db.WithContext(ctx).Model(&collections.Collection{}).Scopes(s.collectionScope)
	if artistID != "" {
		q = q.Where("collections.artist_id = ?", artistID)
	}
	var out []collections.Collection
	err := q.Order("collections.name ASC").Find(&out).Error
	return out, err
}

func (s *Scoped) GetCollection(ctx context.Context, id string) (*collections.Collection, error) {
	var c collections.Collection
	err := s.db.WithContext(ctx).
		Model(&collections.Collection{}).
		Scopes(s.collectionScope).
		Where("collections.id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// CreateCollection adds a collection for artistID; artist accounts always
// create for themselves.
func (s *Scoped) CreateCollection(ctx context.Context, artistID, name string) (*collections.Collection, error) {
	if err := s.require(users.RoleAdmin, users.RoleArtist); err != nil {
		return nil, err
	}
	if s.actor.Role == users.RoleArtist {
		artistID = s.actor.ID
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if _, err := s.GetArtist(ctx, artistID); err != nil {
		return nil, invalid("artist_id", "unknown artist")
	}

	slug, err := slugs.Unique(ctx, s.db, &collections.Collection{}, "slug", slugs.Make(name, "collection"), byArtist(artistID))
	if err != nil {
		return nil, err
	}

	c := collections.Collection{
		ID:       uuid.NewString(),
		ArtistID: artistID,
		Name:     name,
		Slug:     slug,
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Scoped) RenameCollection(ctx context.Context, id, name string) (*collections.Collection, error) {
	c, err := s.GetCollection(ctx, id)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if name == c.Name {
		return c, nil
	}

	slug, err := slugs.Unique(ctx, s.db, &collections.Collection{}, "slug", slugs.Make(name, "collection"),
		byArtist(c.ArtistID),
		func(q *gorm.DB) *gorm.DB { return q.Where("id <> ?", c.ID) },
	)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&collections.Collection{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{"name": name, "slug": slug}).Error; err != nil {
		return nil, translate(err)
	}
	c.Name, c.Slug = name, slug
	return c, nil
}

// DeleteCollection removes the collection and detaches its artworks.
func (s *Scoped) DeleteCollection(ctx context.Context, id string) error {
	c, err := s.GetCollection(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&artworks.Artwork{}).
			Where("collection_id = ?", c.ID).
			Update("collection_id", gorm.Expr("NULL")).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", c.ID).Delete(&collections.Collection{}).Error
	})
}

// AssignArtworks puts the given artworks of the collection's artist into
// the collection. It returns how many rows changed.
func (s *Scoped) AssignArtworks(ctx context.Context, id string, artworkIDs []string) (int64, error) {
	c, err := s.GetCollection(ctx, id)
	if err != nil {
		return 0, err
	}
	if len(artworkIDs) == 0 {
		return 0, invalid("artwork_ids", "is required")
	}
	res := s.db.WithContext(ctx).
		Model(&artworks.Artwork{}).
		Scopes(s.artworkScope).
		Where("artworks.artist_id = ? AND artworks.id IN ?", c.ArtistID, artworkIDs).
		Update("collection_id", c.ID)
	return res.RowsAffected, res.Error
}

func byArtist(artistID string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("artist_id = ?", artistID)
	}
}
