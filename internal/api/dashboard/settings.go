package dashboard

import (
	"net/http"

	"gallery-app/internal/api/respond"
	"gallery-app/internal/app/http/middleware"
	"gallery-app/internal/domain/sessions"
	"gallery-app/internal/domain/users"
	"gallery-app/internal/infra/passwords"
	"gallery-app/internal/store"

	"github.com/gin-gonic/gin"
)

// Settings shows the caller's own profile: the gallery for gallery
// accounts, the artist row for artists.
func (h *Handler) Settings(c *gin.Context) {
	a := middleware.CurrentActor(c)
	ctx := c.Request.Context()
	scoped := h.scoped(c)

	switch a.Role {
	case users.RoleGallery:
		g, err := scoped.GetGallery(ctx, a.Username)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"role": a.Role, "gallery": g})
	case users.RoleArtist:
		artist, err := scoped.GetArtist(ctx, a.ID)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"role": a.Role, "artist": artist})
	default:
		u, err := h.repo.GetUser(ctx, a.ID)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"role": a.Role, "user": toAccount(*u)})
	}
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	a := middleware.CurrentActor(c)
	ctx := c.Request.Context()
	scoped := h.scoped(c)

	switch a.Role {
	case users.RoleGallery:
		var req galleryRequest
		if err := c.ShouldBind(&req); err != nil {
			respond.BindError(c, err)
			return
		}
		g, err := scoped.UpdateGallery(ctx, a.Username, req.patch())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"gallery": g})
	case users.RoleArtist:
		var req artistRequest
		if err := c.ShouldBind(&req); err != nil {
			respond.BindError(c, err)
			return
		}
		artist, err := scoped.UpdateArtist(ctx, a.ID, store.ArtistPatch{
			Name:        req.Name,
			BioShort:    req.BioShort,
			Bio:         req.Bio,
			BioImageURL: req.BioImageURL,
		})
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"artist": artist})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Admin accounts have no profile"})
	}
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `form:"current_password" json:"current_password" binding:"required"`
		NewPassword     string `form:"new_password" json:"new_password" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	if !passwords.Strong(req.NewPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters long and contain both letters and numbers"})
		return
	}

	a := middleware.CurrentActor(c)
	u, err := h.repo.GetUser(c.Request.Context(), a.ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	if !h.hasher.Compare(u.PasswordHash, req.CurrentPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	hash, err := h.hasher.Hash(req.NewPassword)
	if err != nil {
		respond.Error(c, err)
		return
	}
	if err := h.repo.UpdatePasswordHash(c.Request.Context(), u.ID, hash); err != nil {
		respond.Error(c, err)
		return
	}
	middleware.SessionFrom(c).PushFlash(sessions.FlashInfo, "Password updated")
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
