package auth

import (
	"errors"
	"net/http"
	"strings"

	"gallery-app/internal/api/respond"
	"gallery-app/internal/app/http/middleware"
	"gallery-app/internal/domain/sessions"
	"gallery-app/internal/domain/users"
	"gallery-app/internal/infra/metrics"
	"gallery-app/internal/infra/passwords"
	"gallery-app/internal/store"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo       *store.Repo
	hasher     passwords.Hasher
	promoCodes []string
}

// NewHandler builds the login and signup handlers. An empty promoCodes
// list accepts any code.
func NewHandler(repo *store.Repo, hasher passwords.Hasher, promoCodes []string) *Handler {
	return &Handler{repo: repo, hasher: hasher, promoCodes: promoCodes}
}

func (h *Handler) LoginPage(c *gin.Context) {
	s := middleware.SessionFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"csrf_token": middleware.CSRFToken(c),
		"flash":      s.DrainFlash(),
	})
}

func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Username string `form:"username" binding:"required"`
		Password string `form:"password" binding:"required"`
	}
	s := middleware.SessionFrom(c)
	if err := c.ShouldBind(&input); err != nil {
		s.PushFlash(sessions.FlashError, "Username and password are required")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := h.repo.FindUserByUsername(c.Request.Context(), strings.TrimSpace(input.Username))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		respond.Error(c, err)
		return
	}
	if user == nil || !h.hasher.Compare(user.PasswordHash, input.Password) {
		metrics.Logins.WithLabelValues("failure").Inc()
		s.PushFlash(sessions.FlashError, "Invalid username or password")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	metrics.Logins.WithLabelValues("success").Inc()
	s.Login(user.Actor())
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) Logout(c *gin.Context) {
	middleware.SessionFrom(c).Destroy()
	c.Redirect(http.StatusFound, "/login")
}

func signupRole(c *gin.Context) (users.Role, bool) {
	role, ok := users.ParseRole(c.Param("role"))
	if !ok || role == users.RoleAdmin {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return "", false
	}
	return role, true
}

func (h *Handler) SignupPage(c *gin.Context) {
	role, ok := signupRole(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"role":       role,
		"csrf_token": middleware.CSRFToken(c),
		"flash":      middleware.SessionFrom(c).DrainFlash(),
	})
}

type signupInput struct {
	Name      string `form:"name" binding:"required"`
	Username  string `form:"username" binding:"required,slug"`
	Password  string `form:"password" binding:"required"`
	PromoCode string `form:"promo_code"`

	// gallery accounts
	GalleryName string `form:"gallery_name"`
	Email       string `form:"email"`
	Phone       string `form:"phone"`
	Address     string `form:"address"`

	// artist accounts
	GallerySlug string `form:"gallery_slug"`
	BioShort    string `form:"bio_short"`
}

func (h *Handler) promoAccepted(code string) bool {
	if len(h.promoCodes) == 0 {
		return true
	}
	for _, p := range h.promoCodes {
		if strings.EqualFold(strings.TrimSpace(p), strings.TrimSpace(code)) {
			return true
		}
	}
	return false
}

// Signup creates the account with its gallery or artist row and logs the
// new user in.
func (h *Handler) Signup(c *gin.Context) {
	role, ok := signupRole(c)
	if !ok {
		return
	}
	back := "/signup/" + string(role)
	s := middleware.SessionFrom(c)
	fail := func(msg string) {
		s.PushFlash(sessions.FlashError, msg)
		c.Redirect(http.StatusFound, back)
	}

	var input signupInput
	if err := c.ShouldBind(&input); err != nil {
		fail("Name, a lowercase username and a password are required")
		return
	}
	if !passwords.Strong(input.Password) {
		fail("Password must be at least 8 characters long and contain both letters and numbers")
		return
	}
	if !h.promoAccepted(input.PromoCode) {
		fail("Unknown promo code")
		return
	}

	hash, err := h.hasher.Hash(input.Password)
	if err != nil {
		respond.Error(c, err)
		return
	}
	account := users.User{
		Name:         strings.TrimSpace(input.Name),
		Username:     input.Username,
		PasswordHash: hash,
		PromoCode:    strings.TrimSpace(input.PromoCode),
	}

	ctx := c.Request.Context()
	switch role {
	case users.RoleGallery:
		name := input.GalleryName
		if strings.TrimSpace(name) == "" {
			name = input.Name
		}
		_, err = h.repo.CreateGalleryAccount(ctx, account, store.GalleryInput{
			Name:      name,
			Email:     input.Email,
			Phone:     input.Phone,
			Address:   input.Address,
			OwnerName: input.Name,
		})
	case users.RoleArtist:
		_, err = h.repo.CreateArtistAccount(ctx, account, store.ArtistInput{
			ID:          input.Username,
			GallerySlug: input.GallerySlug,
			Name:        input.Name,
			BioShort:    input.BioShort,
		})
	}

	var verr *store.ValidationError
	switch {
	case errors.Is(err, store.ErrConflict):
		fail("That username is already taken")
		return
	case errors.As(err, &verr):
		fail(verr.Error())
		return
	case err != nil:
		respond.Error(c, err)
		return
	}

	created, err := h.repo.FindUserByUsername(ctx, account.Username)
	if err != nil {
		respond.Error(c, err)
		return
	}
	s.Login(created.Actor())
	s.PushFlash(sessions.FlashInfo, "Welcome! Your account is ready.")
	c.Redirect(http.StatusFound, "/dashboard")
}
