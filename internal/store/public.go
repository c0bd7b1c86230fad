package store

import (
	"context"
	"strings"

	"gallery-app/internal/domain/artists"
	"gallery-app/internal/domain/artworks"
	"gallery-app/internal/domain/collections"
	"gallery-app/internal/domain/galleries"
	"gallery-app/internal/domain/media"
)

type GalleryTree struct {
	Gallery  galleries.Gallery
	Artists  []ArtistNode
	Featured []artworks.Artwork
}

type ArtistNode struct {
	Artist   artists.Artist
	Artworks []artworks.Artwork
}

type ArtistPage struct {
	Gallery     galleries.Gallery
	Artist      artists.Artist
	Artworks    []artworks.Artwork
	Collections []collections.Collection
}

type ArtworkPage struct {
	Gallery galleries.Gallery
	Artist  artists.Artist
	Artwork artworks.Artwork
}

// treeRow is one row of the gallery ⋈ artists ⋈ artworks join. Artist and
// artwork columns are NULL when the outer join finds nothing.
type treeRow struct {
	GSlug      string `gorm:"column:g_slug"`
	GName      string `gorm:"column:g_name"`
	GBio       string `gorm:"column:g_bio"`
	GEmail     string `gorm:"column:g_email"`
	GPhone     string `gorm:"column:g_phone"`
	GAddress   string `gorm:"column:g_address"`
	GOwnerName string `gorm:"column:g_owner_name"`
	GLogoURL   string `gorm:"column:g_logo_url"`

	ArID           *string `gorm:"column:ar_id"`
	ArName         *string `gorm:"column:ar_name"`
	ArBioShort     *string `gorm:"column:ar_bio_short"`
	ArBio          *string `gorm:"column:ar_bio"`
	ArBioImageURL  *string `gorm:"column:ar_bio_image_url"`
	ArLive         *bool   `gorm:"column:ar_live"`
	ArArchived     *bool   `gorm:"column:ar_archived"`
	ArDisplayOrder *int    `gorm:"column:ar_display_order"`

	AwID           *string `gorm:"column:aw_id"`
	AwGallerySlug  *string `gorm:"column:aw_gallery_slug"`
	AwTitle        *string `gorm:"column:aw_title"`
	AwMedium       *string `gorm:"column:aw_medium"`
	AwCustomMedium *string `gorm:"column:aw_custom_medium"`
	AwDimensions   *string `gorm:"column:aw_dimensions"`
	AwPrice        *string `gorm:"column:aw_price"`
	AwImageFull    *string `gorm:"column:aw_image_full"`
	AwImageStd     *string `gorm:"column:aw_image_standard"`
	AwImageThumb   *string `gorm:"column:aw_image_thumb"`
	AwStatus       *string `gorm:"column:aw_status"`
	AwVisible      *bool   `gorm:"column:aw_visible"`
	AwFeatured     *bool   `gorm:"column:aw_featured"`
	AwDescription  *string `gorm:"column:aw_description"`
	AwFramed       *bool   `gorm:"column:aw_framed"`
	AwReadyToHang  *bool   `gorm:"column:aw_ready_to_hang"`
	AwCollectionID *string `gorm:"column:aw_collection_id"`
	AwArchived     *bool   `gorm:"column:aw_archived"`
}

const galleryTreeSQL = `
SELECT
	g.slug AS g_slug, g.name AS g_name, g.bio AS g_bio, g.email AS g_email,
	g.phone AS g_phone, g.address AS g_address, g.owner_name AS g_owner_name, g.logo_url AS g_logo_url,
	ar.id AS ar_id, ar.name AS ar_name, ar.bio_short AS ar_bio_short, ar.bio AS ar_bio,
	ar.bio_image_url AS ar_bio_image_url, ar.live AS ar_live, ar.archived AS ar_archived,
	ar.display_order AS ar_display_order,
	aw.id AS aw_id, aw.gallery_slug AS aw_gallery_slug, aw.title AS aw_title, aw.medium AS aw_medium,
	aw.custom_medium AS aw_custom_medium, aw.dimensions AS aw_dimensions, aw.price AS aw_price,
	aw.image_full AS aw_image_full, aw.image_standard AS aw_image_standard, aw.image_thumb AS aw_image_thumb,
	aw.status AS aw_status, aw.visible AS aw_visible, aw.featured AS aw_featured,
	aw.description AS aw_description, aw.framed AS aw_framed, aw.ready_to_hang AS aw_ready_to_hang,
	aw.collection_id AS aw_collection_id, aw.archived AS aw_archived
FROM galleries g
LEFT JOIN artists ar ON ar.gallery_slug = g.slug AND ar.archived = ? AND ar.live = ?
LEFT JOIN artworks aw ON aw.artist_id = ar.id AND aw.archived = ?
WHERE g.slug = ?
ORDER BY ar.display_order ASC, ar.name ASC, aw.created_at ASC, aw.id ASC`

// PublicGallery loads a gallery with its live artists and their visible
// artworks in one query and rebuilds the tree. Featured artworks are also
// collected into a flat list.
func (r *Repo) PublicGallery(ctx context.Context, slug string) (*GalleryTree, error) {
	var rows []treeRow
	if err := r.db.WithContext(ctx).Raw(galleryTreeSQL, false, true, false, slug).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	first := rows[0]
	tree := &GalleryTree{
		Gallery: galleries.Gallery{
			Slug:      first.GSlug,
			Name:      first.GName,
			Bio:       first.GBio,
			Email:     first.GEmail,
			Phone:     first.GPhone,
			Address:   first.GAddress,
			OwnerName: first.GOwnerName,
			LogoURL:   first.GLogoURL,
		},
		Artists:  []ArtistNode{},
		Featured: []artworks.Artwork{},
	}

	index := map[string]int{}
	for _, row := range rows {
		if row.ArID == nil {
			continue
		}
		gs := tree.Gallery.Slug
		artist := artists.Artist{
			ID:           *row.ArID,
			GallerySlug:  &gs,
			Name:         deref(row.ArName),
			BioShort:     deref(row.ArBioShort),
			Bio:          deref(row.ArBio),
			BioImageURL:  deref(row.ArBioImageURL),
			Live:         deref(row.ArLive),
			Archived:     deref(row.ArArchived),
			DisplayOrder: deref(row.ArDisplayOrder),
		}
		// the join conditions already filter these; rows reached through a
		// stale gallery_slug on the artwork side are dropped here
		if !artist.Public() {
			continue
		}

		pos, seen := index[artist.ID]
		if !seen {
			pos = len(tree.Artists)
			index[artist.ID] = pos
			tree.Artists = append(tree.Artists, ArtistNode{Artist: artist, Artworks: []artworks.Artwork{}})
		}

		if row.AwID == nil || deref(row.AwArchived) || !deref(row.AwVisible) {
			continue
		}
		if deref(row.AwGallerySlug) != tree.Gallery.Slug {
			continue
		}

		aw := row.artwork()
		tree.Artists[pos].Artworks = append(tree.Artists[pos].Artworks, aw)
		if aw.Featured {
			tree.Featured = append(tree.Featured, aw)
		}
	}
	return tree, nil
}

func (row treeRow) artwork() artworks.Artwork {
	a := artworks.Artwork{
		ID:           *row.AwID,
		ArtistID:     deref(row.ArID),
		GallerySlug:  deref(row.AwGallerySlug),
		Title:        deref(row.AwTitle),
		Medium:       deref(row.AwMedium),
		CustomMedium: deref(row.AwCustomMedium),
		Dimensions:   deref(row.AwDimensions),
		Price:        deref(row.AwPrice),
		Images: media.ImageSet{
			Full:     deref(row.AwImageFull),
			Standard: deref(row.AwImageStd),
			Thumb:    deref(row.AwImageThumb),
		},
		Status:       deref(row.AwStatus),
		Visible:      true,
		Featured:     deref(row.AwFeatured),
		Description:  deref(row.AwDescription),
		Framed:       deref(row.AwFramed),
		ReadyToHang:  deref(row.AwReadyToHang),
		CollectionID: row.AwCollectionID,
	}
	return a
}

func (r *Repo) publicGalleryRow(ctx context.Context, slug string) (*galleries.Gallery, error) {
	var g galleries.Gallery
	if err := r.db.WithContext(ctx).First(&g, "slug = ?", slug).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (r *Repo) PublicArtist(ctx context.Context, gallerySlug, artistID string) (*ArtistPage, error) {
	g, err := r.publicGalleryRow(ctx, gallerySlug)
	if err != nil {
		return nil, err
	}

	var a artists.Artist
	err = r.db.WithContext(ctx).
		Where("id = ? AND gallery_slug = ? AND live = ? AND archived = ?", artistID, gallerySlug, true, false).
		First(&a).Error
	if err != nil {
		return nil, translate(err)
	}

	page := &ArtistPage{Gallery: *g, Artist: a}
	if err := r.db.WithContext(ctx).
		Where("artist_id = ? AND gallery_slug = ? AND archived = ? AND visible = ?", a.ID, gallerySlug, false, true).
		Order("created_at ASC, id ASC").
		Find(&page.Artworks).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("artist_id = ?", a.ID).
		Order("name ASC").
		Find(&page.Collections).Error; err != nil {
		return nil, err
	}
	return page, nil
}

func (r *Repo) PublicArtwork(ctx context.Context, gallerySlug, artworkID string) (*ArtworkPage, error) {
	g, err := r.publicGalleryRow(ctx, gallerySlug)
	if err != nil {
		return nil, err
	}

	var aw artworks.Artwork
	err = r.db.WithContext(ctx).
		Where("id = ? AND gallery_slug = ? AND archived = ? AND visible = ?", artworkID, gallerySlug, false, true).
		First(&aw).Error
	if err != nil {
		return nil, translate(err)
	}

	var a artists.Artist
	if err := r.db.WithContext(ctx).First(&a, "id = ?", aw.ArtistID).Error; err != nil {
		return nil, translate(err)
	}
	if !a.Public() || a.GallerySlug == nil || !strings.EqualFold(*a.GallerySlug, gallerySlug) {
		return nil, ErrNotFound
	}

	return &ArtworkPage{Gallery: *g, Artist: a, Artwork: aw}, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
