package dashboard

import (
	"net/http"

	"gallery-app/internal/api/respond"
	"gallery-app/internal/store"

	"github.com/gin-gonic/gin"
)

type galleryRequest struct {
	Slug      string  `form:"slug" json:"slug" binding:"omitempty,slug"`
	Name      *string `form:"name" json:"name"`
	Bio       *string `form:"bio" json:"bio"`
	Email     *string `form:"email" json:"email" binding:"omitempty,email"`
	Phone     *string `form:"phone" json:"phone"`
	Address   *string `form:"address" json:"address"`
	OwnerName *string `form:"owner_name" json:"owner_name"`
	LogoURL   *string `form:"logo_url" json:"logo_url" binding:"omitempty,url"`
}

func (r galleryRequest) patch() store.GalleryPatch {
	return store.GalleryPatch{
		Name:      r.Name,
		Bio:       r.Bio,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
		OwnerName: r.OwnerName,
		LogoURL:   r.LogoURL,
	}
}

func (r galleryRequest) input() store.GalleryInput {
	return store.GalleryInput{
		Slug:      r.Slug,
		Name:      deref(r.Name),
		Bio:       deref(r.Bio),
		Email:     deref(r.Email),
		Phone:     deref(r.Phone),
		Address:   deref(r.Address),
		OwnerName: deref(r.OwnerName),
		LogoURL:   deref(r.LogoURL),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *Handler) ListGalleries(c *gin.Context) {
	list, err := h.scoped(c).ListGalleries(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"galleries": list})
}

func (h *Handler) GetGallery(c *gin.Context) {
	g, err := h.scoped(c).GetGallery(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *Handler) CreateGallery(c *gin.Context) {
	var req galleryRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	g, err := h.scoped(c).CreateGallery(c.Request.Context(), req.input())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (h *Handler) UpdateGallery(c *gin.Context) {
	var req galleryRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	g, err := h.scoped(c).UpdateGallery(c.Request.Context(), c.Param("slug"), req.patch())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *Handler) DeleteGallery(c *gin.Context) {
	if err := h.scoped(c).DeleteGallery(c.Request.Context(), c.Param("slug")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Gallery deleted"})
}
