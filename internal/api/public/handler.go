package public

import (
	"net/http"

	"gallery-app/internal/api/respond"
	"gallery-app/internal/store"

	"github.com/gin-gonic/gin"
)

// Handler serves the anonymous gallery pages.
type Handler struct {
	repo *store.Repo
}

func NewHandler(repo *store.Repo) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) Index(c *gin.Context) {
	list, err := h.repo.ListGalleries(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	out := make([]GalleryDTO, 0, len(list))
	for _, g := range list {
		out = append(out, toGallery(g))
	}
	c.JSON(http.StatusOK, gin.H{"galleries": out})
}

func (h *Handler) Gallery(c *gin.Context) {
	tree, err := h.repo.PublicGallery(c.Request.Context(), c.Param("gallerySlug"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, treeResponse(tree))
}

func (h *Handler) Artist(c *gin.Context) {
	page, err := h.repo.PublicArtist(c.Request.Context(), c.Param("gallerySlug"), c.Param("artistId"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"gallery":     toGallery(page.Gallery),
		"artist":      toArtist(page.Artist, page.Artworks),
		"collections": toCollections(page.Collections),
	})
}

func (h *Handler) Artwork(c *gin.Context) {
	page, err := h.repo.PublicArtwork(c.Request.Context(), c.Param("gallerySlug"), c.Param("artworkId"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"gallery": toGallery(page.Gallery),
		"artist":  toArtist(page.Artist, nil),
		"artwork": toArtwork(page.Artwork),
	})
}
