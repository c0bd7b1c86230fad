package dashboard

import (
	"net/http"

	"gallery-app/internal/api/respond"
	"gallery-app/internal/store"

	"github.com/gin-gonic/gin"
)

type artistRequest struct {
	ID          string  `form:"id" json:"id" binding:"omitempty,slug"`
	GallerySlug *string `form:"gallery_slug" json:"gallery_slug"`
	Name        *string `form:"name" json:"name"`
	BioShort    *string `form:"bio_short" json:"bio_short"`
	Bio         *string `form:"bio" json:"bio"`
	BioImageURL *string `form:"bio_image_url" json:"bio_image_url"`
	Live        bool    `form:"live" json:"live"`
}

func (h *Handler) ListArtists(c *gin.Context) {
	list, err := h.scoped(c).ListArtists(c.Request.Context(), queryBool(c, "archived"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"artists": list})
}

func (h *Handler) GetArtist(c *gin.Context) {
	a, err := h.scoped(c).GetArtist(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) CreateArtist(c *gin.Context) {
	var req artistRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	a, err := h.scoped(c).CreateArtist(c.Request.Context(), store.ArtistInput{
		ID:          req.ID,
		GallerySlug: deref(req.GallerySlug),
		Name:        deref(req.Name),
		BioShort:    deref(req.BioShort),
		Bio:         deref(req.Bio),
		BioImageURL: deref(req.BioImageURL),
		Live:        req.Live,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) UpdateArtist(c *gin.Context) {
	var req artistRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	a, err := h.scoped(c).UpdateArtist(c.Request.Context(), c.Param("id"), store.ArtistPatch{
		Name:        req.Name,
		BioShort:    req.BioShort,
		Bio:         req.Bio,
		BioImageURL: req.BioImageURL,
		GallerySlug: req.GallerySlug,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteArtist(c *gin.Context) {
	if err := h.scoped(c).DeleteArtist(c.Request.Context(), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artist deleted"})
}

func (h *Handler) ArchiveArtist(c *gin.Context) {
	if err := h.scoped(c).ArchiveArtist(c.Request.Context(), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artist archived"})
}

func (h *Handler) UnarchiveArtist(c *gin.Context) {
	if err := h.scoped(c).UnarchiveArtist(c.Request.Context(), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artist restored"})
}

func (h *Handler) SetArtistLive(c *gin.Context) {
	var req struct {
		Live *bool `form:"live" json:"live" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	a, err := h.scoped(c).SetArtistLive(c.Request.Context(), c.Param("id"), *req.Live)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) ReorderArtists(c *gin.Context) {
	var req struct {
		GallerySlug string   `form:"gallery_slug" json:"gallery_slug"`
		ArtistIDs   []string `form:"artist_ids" json:"artist_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBind(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	if err := h.scoped(c).ReorderArtists(c.Request.Context(), req.GallerySlug, req.ArtistIDs); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order saved"})
}
