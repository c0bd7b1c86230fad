package dashboard

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"gallery-app/internal/api/respond"
	"gallery-app/internal/domain/media"
	"gallery-app/internal/infra/images"
	"gallery-app/internal/store"

	"github.com/gin-gonic/gin"
)

type artworkRequest struct {
	ID           string  `form:"id" json:"id" binding:"omitempty,slug"`
	ArtistID     string  `form:"artist_id" json:"artist_id"`
	Title        *string `form:"title" json:"title"`
	Medium       *string `form:"medium" json:"medium"`
	CustomMedium *string `form:"custom_medium" json:"custom_medium"`
	Dimensions   *string `form:"dimensions" json:"dimensions"`
	Price        *string `form:"price" json:"price"`
	Status       *string `form:"status" json:"status"`
	Description  *string `form:"description" json:"description"`
	Visible      *bool   `form:"visible" json:"visible"`
	Featured     *bool   `form:"featured" json:"featured"`
	Framed       *bool   `form:"framed" json:"framed"`
	ReadyToHang  *bool   `form:"ready_to_hang" json:"ready_to_hang"`
	CollectionID *string `form:"collection_id" json:"collection_id"`
	ImageURL     string  `form:"image_url" json:"image_url" binding:"omitempty,url"`
}

func boolValue(b *bool) bool {
	return b != nil && *b
}

// receiveImage resolves the image set of a write: an uploaded "image" file
// run through the pipeline, or an external image_url. Both at once is
// rejected. A nil set means the request carries no image; uploaded tells
// whether the set's files were produced here.
func (h *Handler) receiveImage(c *gin.Context, imageURL string) (set *media.ImageSet, uploaded bool, err error) {
	file, err := c.FormFile("image")
	hasFile := err == nil && file != nil
	imageURL = strings.TrimSpace(imageURL)

	switch {
	case hasFile && imageURL != "":
		return nil, false, &store.ValidationError{Field: "image", Reason: "send either an uploaded file or an image URL, not both"}
	case imageURL != "":
		ext := media.External(imageURL)
		return &ext, false, nil
	case !hasFile:
		return nil, false, nil
	}

	if err := images.Accept(file.Header.Get("Content-Type"), file.Size); err != nil {
		return nil, false, err
	}

	tmp, err := os.CreateTemp("", "gallery-upload-*")
	if err != nil {
		return nil, false, fmt.Errorf("create temp upload: %w", err)
	}
	tmp.Close()
	if err := c.SaveUploadedFile(file, tmp.Name()); err != nil {
		os.Remove(tmp.Name())
		return nil, false, fmt.Errorf("save upload: %w", err)
	}

	processed, err := h.pipeline.Process(c.Request.Context(), images.Upload{
		TempPath: tmp.Name(),
		MIMEType: file.Header.Get("Content-Type"),
		Filename: file.Filename,
	})
	if err != nil {
		return nil, false, err
	}
	return &processed, true, nil
}

func (h *Handler) ListArtworks(c *gin.Context) {
	list, err := h.scoped(c).ListArtworks(c.Request.Context(), store.ArtworkFilter{
		ArtistID:        c.Query("artist_id"),
		CollectionID:    c.Query("collection_id"),
		IncludeArchived: queryBool(c, "archived"),
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"artworks": list})
}

func (h *Handler) GetArtwork(c *gin.Context) {
	a, err := h.scoped(c).GetArtwork(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) CreateArtwork(c *gin.Context) {
	var req artworkRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	ctx := c.Request.Context()
	scoped := h.scoped(c)

	in := store.ArtworkInput{
		ID:           req.ID,
		ArtistID:     req.ArtistID,
		Title:        deref(req.Title),
		Medium:       deref(req.Medium),
		CustomMedium: deref(req.CustomMedium),
		Dimensions:   deref(req.Dimensions),
		Price:        deref(req.Price),
		Status:       deref(req.Status),
		Description:  deref(req.Description),
		Visible:      req.Visible,
		Featured:     boolValue(req.Featured),
		Framed:       boolValue(req.Framed),
		ReadyToHang:  boolValue(req.ReadyToHang),
		CollectionID: deref(req.CollectionID),
	}
	// no derivative is written for a request the store would refuse
	if err := scoped.CheckArtwork(ctx, in); err != nil {
		respond.Error(c, err)
		return
	}

	set, uploaded, err := h.receiveImage(c, req.ImageURL)
	if err != nil {
		respond.Error(c, err)
		return
	}
	if set != nil {
		in.Images = *set
	}

	a, err := scoped.CreateArtwork(ctx, in)
	if err != nil {
		if uploaded {
			h.pipeline.Discard(ctx, *set)
		}
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) UpdateArtwork(c *gin.Context) {
	var req artworkRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	ctx := c.Request.Context()
	scoped := h.scoped(c)
	id := c.Param("id")

	patch := store.ArtworkPatch{
		Title:        req.Title,
		Medium:       req.Medium,
		CustomMedium: req.CustomMedium,
		Dimensions:   req.Dimensions,
		Price:        req.Price,
		Status:       req.Status,
		Description:  req.Description,
		Visible:      req.Visible,
		Featured:     req.Featured,
		Framed:       req.Framed,
		ReadyToHang:  req.ReadyToHang,
		CollectionID: req.CollectionID,
	}
	if err := scoped.CheckArtworkPatch(ctx, id, patch); err != nil {
		respond.Error(c, err)
		return
	}

	set, uploaded, err := h.receiveImage(c, req.ImageURL)
	if err != nil {
		respond.Error(c, err)
		return
	}
	patch.Images = set

	a, err := scoped.UpdateArtwork(ctx, id, patch)
	if err != nil {
		if uploaded {
			h.pipeline.Discard(ctx, *set)
		}
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteArtwork(c *gin.Context) {
	if err := h.scoped(c).DeleteArtwork(c.Request.Context(), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artwork deleted"})
}

func (h *Handler) ArchiveArtwork(c *gin.Context) {
	if err := h.scoped(c).ArchiveArtwork(c.Request.Context(), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artwork archived"})
}

func (h *Handler) UnarchiveArtwork(c *gin.Context) {
	if err := h.scoped(c).UnarchiveArtwork(c.Request.Context(), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artwork restored"})
}

// Upload runs a single file through the pipeline and returns its URLs.
func (h *Handler) Upload(c *gin.Context) {
	if _, err := c.FormFile("image"); err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}
		respond.Error(c, err)
		return
	}
	set, _, err := h.receiveImage(c, "")
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, set)
}
