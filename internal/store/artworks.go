package store

import (
	"context"
	"errors"
	"strings"

	"gallery-app/internal/domain/artworks"
	"gallery-app/internal/domain/collections"
	"gallery-app/internal/domain/media"
	"gallery-app/internal/domain/slugs"
	"gallery-app/internal/domain/users"

	"gorm.io/gorm"
)

type ArtworkInput struct {
	ID           string
	ArtistID     string
	Title        string
	Medium       string
	CustomMedium string
	Dimensions   string
	Price        string
	Status       string
	Description  string
	// Visible defaults to true when nil.
	Visible      *bool
	Featured     bool
	Framed       bool
	ReadyToHang  bool
	CollectionID string
	Images       media.ImageSet
}

type ArtworkPatch struct {
	Title        *string
	Medium       *string
	CustomMedium *string
	Dimensions   *string
	Price        *string
	Status       *string
	Description  *string
	Visible      *bool
	Featured     *bool
	Framed       *bool
	ReadyToHang  *bool
	// CollectionID "" clears the collection.
	CollectionID *string
	Images       *media.ImageSet
}

type ArtworkFilter struct {
	ArtistID        string
	CollectionID    string
	IncludeArchived bool
}

func (s *Scoped) ListArtworks(ctx context.Context, f ArtworkFilter) ([]artworks.Artwork, error) {
	q := s.db.WithContext(ctx).Model(&artworks.Artwork{}).Scopes(s.artworkScope)
	if f.ArtistID != "" {
		q = q.Where("artworks.artist_id = ?", f.ArtistID)
	}
	if f.CollectionID != "" {
		q = q.Where("artworks.collection_id = ?", f.CollectionID)
	}
	if !f.IncludeArchived {
		q = q.Where("artworks.archived = ?", false)
	}
	var out []artworks.Artwork
	err := q.Order("artworks.created_at DESC, artworks.id ASC").Find(&out).Error
	return out, err
}

func (s *Scoped) GetArtwork(ctx context.Context, id string) (*artworks.Artwork, error) {
	var a artworks.Artwork
	err := s.db.WithContext(ctx).
		Model(&artworks.Artwork{}).
		Scopes(s.artworkScope).
		Where("artworks.id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// CreateArtwork inserts an artwork under an artist in scope, copying the
// artist's gallery onto the row.
func (s *Scoped) CreateArtwork(ctx context.Context, in ArtworkInput) (*artworks.Artwork, error) {
	a, err := s.newArtwork(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, translate(err)
	}
	return a, nil
}

// CheckArtwork runs every rule CreateArtwork applies without writing.
func (s *Scoped) CheckArtwork(ctx context.Context, in ArtworkInput) error {
	_, err := s.newArtwork(ctx, in)
	return err
}

func (s *Scoped) newArtwork(ctx context.Context, in ArtworkInput) (*artworks.Artwork, error) {
	if s.actor.Role == users.RoleArtist {
		in.ArtistID = s.actor.ID
	}
	if strings.TrimSpace(in.ArtistID) == "" {
		return nil, invalid("artist_id", "is required")
	}

	artist, err := s.GetArtist(ctx, in.ArtistID)
	if errors.Is(err, ErrNotFound) {
		return nil, invalid("artist_id", "unknown artist")
	}
	if err != nil {
		return nil, err
	}
	if artist.GallerySlug == nil || *artist.GallerySlug == "" {
		return nil, invalid("artist_id", "artist has no gallery")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	status := artworks.NormalizeStatus(in.Status)
	price, err := artworks.FormatPrice(in.Price, status)
	if err != nil {
		return nil, invalid("price", err.Error())
	}
	medium, custom := artworks.NormalizeMedium(in.Medium, in.CustomMedium)

	var collectionID *string
	if cid := strings.TrimSpace(in.CollectionID); cid != "" {
		if err := s.ensureCollectionOf(ctx, cid, artist.ID); err != nil {
			return nil, err
		}
		collectionID = &cid
	}

	id := strings.TrimSpace(in.ID)
	if id != "" {
		if !slugs.Valid(id) {
			return nil, invalid("id", "may only contain lowercase letters, digits and single hyphens")
		}
		var n int64
		if err := s.db.WithContext(ctx).Model(&artworks.Artwork{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, ErrConflict
		}
	} else {
		id, err = slugs.Unique(ctx, s.db, &artworks.Artwork{}, "id", slugs.Make(title, "artwork"))
		if err != nil {
			return nil, err
		}
	}

	visible := true
	if in.Visible != nil {
		visible = *in.Visible
	}

	a := artworks.Artwork{
		ID:           id,
		ArtistID:     artist.ID,
		GallerySlug:  *artist.GallerySlug,
		Title:        title,
		Medium:       medium,
		CustomMedium: custom,
		Dimensions:   strings.TrimSpace(in.Dimensions),
		Price:        price,
		Images:       in.Images,
		Status:       status,
		Visible:      visible,
		Featured:     in.Featured,
		Description:  in.Description,
		Framed:       in.Framed,
		ReadyToHang:  in.ReadyToHang,
		CollectionID: collectionID,
	}
	return &a, nil
}

func (s *Scoped) UpdateArtwork(ctx context.Context, id string, p ArtworkPatch) (*artworks.Artwork, error) {
	a, err := s.GetArtwork(ctx, id)
	if err != nil {
		return nil, err
	}
	changes, err := s.artworkChanges(ctx, a, p)
	if err != nil {
		return nil, err
	}
	if len(changes) > 0 {
		if err := s.db.WithContext(ctx).Model(&artworks.Artwork{}).Where("id = ?", a.ID).Updates(changes).Error; err != nil {
			return nil, translate(err)
		}
	}
	return s.GetArtwork(ctx, id)
}

// CheckArtworkPatch runs every rule UpdateArtwork applies without writing.
func (s *Scoped) CheckArtworkPatch(ctx context.Context, id string, p ArtworkPatch) error {
	a, err := s.GetArtwork(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.artworkChanges(ctx, a, p)
	return err
}

func (s *Scoped) artworkChanges(ctx context.Context, a *artworks.Artwork, p ArtworkPatch) (map[string]interface{}, error) {
	changes := map[string]interface{}{}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, invalid("title", "is required")
		}
		changes["title"] = title
	}

	if p.Medium != nil || p.CustomMedium != nil {
		medium, custom := a.Medium, a.CustomMedium
		if p.Medium != nil {
			medium = *p.Medium
		}
		if p.CustomMedium != nil {
			custom = *p.CustomMedium
		}
		medium, custom = artworks.NormalizeMedium(medium, custom)
		changes["medium"] = medium
		changes["custom_medium"] = custom
	}

	if p.Price != nil || p.Status != nil {
		status, raw := a.Status, a.Price
		if p.Status != nil {
			status = artworks.NormalizeStatus(*p.Status)
		}
		if p.Price != nil {
			raw = *p.Price
		}
		price, err := artworks.FormatPrice(raw, status)
		if err != nil {
			return nil, invalid("price", err.Error())
		}
		changes["status"] = status
		changes["price"] = price
	}

	setTrimmed(changes, "dimensions", p.Dimensions)
	setString(changes, "description", p.Description)
	setBool(changes, "visible", p.Visible)
	setBool(changes, "featured", p.Featured)
	setBool(changes, "framed", p.Framed)
	setBool(changes, "ready_to_hang", p.ReadyToHang)

	if p.CollectionID != nil {
		cid := strings.TrimSpace(*p.CollectionID)
		if cid == "" {
			changes["collection_id"] = gorm.Expr("NULL")
		} else {
			if err := s.ensureCollectionOf(ctx, cid, a.ArtistID); err != nil {
				return nil, err
			}
			changes["collection_id"] = cid
		}
	}

	if p.Images != nil {
		changes["image_full"] = p.Images.Full
		changes["image_standard"] = p.Images.Standard
		changes["image_thumb"] = p.Images.Thumb
	}
	return changes, nil
}

func (s *Scoped) ArchiveArtwork(ctx context.Context, id string) error {
	return s.setArtworkArchived(ctx, id, true)
}

func (s *Scoped) UnarchiveArtwork(ctx context.Context, id string) error {
	return s.setArtworkArchived(ctx, id, false)
}

func (s *Scoped) setArtworkArchived(ctx context.Context, id string, archived bool) error {
	a, err := s.GetArtwork(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&artworks.Artwork{}).Where("id = ?", a.ID).Update("archived", archived).Error
}

func (s *Scoped) DeleteArtwork(ctx context.Context, id string) error {
	if err := s.require(users.RoleAdmin); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&artworks.Artwork{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Scoped) ensureCollectionOf(ctx context.Context, collectionID, artistID string) error {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&collections.Collection{}).
		Where("id = ? AND artist_id = ?", collectionID, artistID).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n == 0 {
		return invalid("collection_id", "unknown collection")
	}
	return nil
}
