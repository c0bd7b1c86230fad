package collections

import (
	"net/http"

	"gallery-app/internal/api/respond"
	"gallery-app/internal/app/http/middleware"
	"gallery-app/internal/store"

	"github.com/gin-gonic/gin"
)

// Handler lets artists group their artworks.
type Handler struct {
	repo *store.Repo
}

func NewHandler(repo *store.Repo) *Handler {
	return &Handler{repo: repo}
}

type nameRequest struct {
	Name string `form:"name" json:"name" binding:"required"`
}

func (h *Handler) scoped(c *gin.Context) *store.Scoped {
	return h.repo.For(middleware.CurrentActor(c))
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.scoped(c).ListCollections(c.Request.Context(), "")
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collections": list})
}

func (h *Handler) Create(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	col, err := h.scoped(c).CreateCollection(c.Request.Context(), "", req.Name)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, col)
}

func (h *Handler) Rename(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	col, err := h.scoped(c).RenameCollection(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, col)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.scoped(c).DeleteCollection(c.Request.Context(), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Collection deleted"})
}

func (h *Handler) Assign(c *gin.Context) {
	var req struct {
		ArtworkIDs []string `form:"artwork_ids" json:"artwork_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBind(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	n, err := h.scoped(c).AssignArtworks(c.Request.Context(), c.Param("id"), req.ArtworkIDs)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assigned": n})
}
