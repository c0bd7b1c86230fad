package dashboard

import (
	"net/http"
	"strconv"

	"gallery-app/internal/app/http/middleware"
	"gallery-app/internal/infra/images"
	"gallery-app/internal/infra/passwords"
	"gallery-app/internal/store"

	"github.com/gin-gonic/gin"
)

// Handler serves the role-gated dashboard. Every store call goes through
// the scoped façade of the session's actor.
type Handler struct {
	repo     *store.Repo
	hasher   passwords.Hasher
	pipeline *images.Pipeline
}

func NewHandler(repo *store.Repo, hasher passwords.Hasher, pipeline *images.Pipeline) *Handler {
	return &Handler{repo: repo, hasher: hasher, pipeline: pipeline}
}

func (h *Handler) scoped(c *gin.Context) *store.Scoped {
	return h.repo.For(middleware.CurrentActor(c))
}

func (h *Handler) Home(c *gin.Context) {
	a := middleware.CurrentActor(c)
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":       a.ID,
			"username": a.Username,
			"role":     a.Role,
		},
		"flash":      middleware.SessionFrom(c).DrainFlash(),
		"csrf_token": middleware.CSRFToken(c),
	})
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}
