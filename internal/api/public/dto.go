package public

import (
	"gallery-app/internal/domain/artists"
	"gallery-app/internal/domain/artworks"
	"gallery-app/internal/domain/collections"
	"gallery-app/internal/domain/galleries"
	"gallery-app/internal/domain/media"
	"gallery-app/internal/store"
)

type GalleryDTO struct {
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	OwnerName string `json:"owner_name,omitempty"`
	LogoURL   string `json:"logo_url,omitempty"`
}

type ArtistDTO struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	BioShort    string       `json:"bio_short"`
	Bio         string       `json:"bio,omitempty"`
	BioImageURL string       `json:"bio_image_url,omitempty"`
	Artworks    []ArtworkDTO `json:"artworks,omitempty"`
}

type ArtworkDTO struct {
	ID           string          `json:"id"`
	ArtistID     string          `json:"artist_id"`
	Title        string          `json:"title"`
	Medium       string          `json:"medium"`
	Dimensions   string          `json:"dimensions,omitempty"`
	Price        string          `json:"price,omitempty"`
	Status       string          `json:"status"`
	Featured     bool            `json:"featured"`
	Description  string          `json:"description,omitempty"`
	Framed       bool            `json:"framed"`
	ReadyToHang  bool            `json:"ready_to_hang"`
	CollectionID *string         `json:"collection_id,omitempty"`
	Images       *media.ImageSet `json:"images,omitempty"`
}

type CollectionDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func toGallery(g galleries.Gallery) GalleryDTO {
	return GalleryDTO{
		Slug:      g.Slug,
		Name:      g.Name,
		Bio:       g.Bio,
		Email:     g.Email,
		Phone:     g.Phone,
		Address:   g.Address,
		OwnerName: g.OwnerName,
		LogoURL:   g.LogoURL,
	}
}

func toArtist(a artists.Artist, works []artworks.Artwork) ArtistDTO {
	return ArtistDTO{
		ID:          a.ID,
		Name:        a.Name,
		BioShort:    a.BioShort,
		Bio:         a.Bio,
		BioImageURL: a.BioImageURL,
		Artworks:    toArtworks(works),
	}
}

func toArtwork(a artworks.Artwork) ArtworkDTO {
	medium := a.Medium
	if medium == artworks.MediumOther && a.CustomMedium != "" {
		medium = a.CustomMedium
	}
	return ArtworkDTO{
		ID:           a.ID,
		ArtistID:     a.ArtistID,
		Title:        a.Title,
		Medium:       medium,
		Dimensions:   a.Dimensions,
		Price:        a.Price,
		Status:       a.Status,
		Featured:     a.Featured,
		Description:  a.Description,
		Framed:       a.Framed,
		ReadyToHang:  a.ReadyToHang,
		CollectionID: a.CollectionID,
		Images:       imagesOf(a),
	}
}

// imagesOf is nil for artworks without any image.
func imagesOf(a artworks.Artwork) *media.ImageSet {
	if a.Images.Empty() {
		return nil
	}
	set := a.Images
	return &set
}

func toArtworks(in []artworks.Artwork) []ArtworkDTO {
	out := make([]ArtworkDTO, 0, len(in))
	for _, a := range in {
		out = append(out, toArtwork(a))
	}
	return out
}

func toCollections(in []collections.Collection) []CollectionDTO {
	out := make([]CollectionDTO, 0, len(in))
	for _, c := range in {
		out = append(out, CollectionDTO{ID: c.ID, Name: c.Name, Slug: c.Slug})
	}
	return out
}

func treeResponse(t *store.GalleryTree) map[string]interface{} {
	list := make([]ArtistDTO, 0, len(t.Artists))
	for _, n := range t.Artists {
		list = append(list, toArtist(n.Artist, n.Artworks))
	}
	return map[string]interface{}{
		"gallery":  toGallery(t.Gallery),
		"artists":  list,
		"featured": toArtworks(t.Featured),
	}
}
