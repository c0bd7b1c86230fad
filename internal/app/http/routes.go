package routes

import (
	"net/http"

	authapi "gallery-app/internal/api/auth"
	collectionsapi "gallery-app/internal/api/collections"
	"gallery-app/internal/api/dashboard"
	"gallery-app/internal/api/public"
	"gallery-app/internal/app/http/middleware"
	"gallery-app/internal/domain/users"
	"gallery-app/internal/infra/images"
	"gallery-app/internal/infra/metrics"
	"gallery-app/internal/infra/passwords"
	"gallery-app/internal/infra/sessionstore"
	"gallery-app/internal/store"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Repo       *store.Repo
	Sessions   sessionstore.Store
	Session    middleware.SessionConfig
	Hasher     passwords.Hasher
	Pipeline   *images.Pipeline
	PromoCodes []string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	registerValidators()

	r.Use(middleware.Recovery(), middleware.RequestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())
	r.Static("/uploads", d.Pipeline.Dir())

	sessionCfg := d.Session
	if sessionCfg.Accounts == nil {
		sessionCfg.Accounts = d.Repo
	}

	app := r.Group("/")
	app.Use(
		middleware.Errors(),
		middleware.Sessions(d.Sessions, sessionCfg),
		middleware.SanitizeAndCleanInputMiddleware(),
		middleware.CSRF(),
	)

	auth := authapi.NewHandler(d.Repo, d.Hasher, d.PromoCodes)
	app.GET("/login", auth.LoginPage)
	app.POST("/login", auth.Login)
	app.GET("/logout", auth.Logout)
	app.GET("/signup/:role", auth.SignupPage)
	app.POST("/signup/:role", auth.Signup)

	// Dashboard
	dash := dashboard.NewHandler(d.Repo, d.Hasher, d.Pipeline)
	anyRole := app.Group("/dashboard")
	anyRole.Use(middleware.RequireRole(users.RoleAdmin, users.RoleGallery, users.RoleArtist))
	anyRole.GET("", dash.Home)

	anyRole.GET("/galleries", dash.ListGalleries)
	anyRole.GET("/galleries/:slug", dash.GetGallery)
	anyRole.PUT("/galleries/:slug", dash.UpdateGallery)

	anyRole.GET("/artists", dash.ListArtists)
	anyRole.GET("/artists/:id", dash.GetArtist)
	anyRole.PUT("/artists/:id", dash.UpdateArtist)
	anyRole.POST("/artists/:id/archive", dash.ArchiveArtist)
	anyRole.POST("/artists/:id/unarchive", dash.UnarchiveArtist)
	anyRole.POST("/artists/:id/live", dash.SetArtistLive)

	anyRole.GET("/artworks", dash.ListArtworks)
	anyRole.POST("/artworks", dash.CreateArtwork)
	anyRole.GET("/artworks/:id", dash.GetArtwork)
	anyRole.PUT("/artworks/:id", dash.UpdateArtwork)
	anyRole.POST("/artworks/:id/archive", dash.ArchiveArtwork)
	anyRole.POST("/artworks/:id/unarchive", dash.UnarchiveArtwork)

	anyRole.GET("/settings", dash.Settings)
	anyRole.PUT("/settings", dash.UpdateSettings)
	anyRole.POST("/settings/password", dash.ChangePassword)
	anyRole.POST("/upload", dash.Upload)

	managers := app.Group("/dashboard")
	managers.Use(middleware.RequireRole(users.RoleAdmin, users.RoleGallery))
	managers.POST("/artists", dash.CreateArtist)
	managers.POST("/artists/reorder", dash.ReorderArtists)

	admin := app.Group("/dashboard")
	admin.Use(middleware.RequireRole(users.RoleAdmin))
	admin.POST("/galleries", dash.CreateGallery)
	admin.DELETE("/galleries/:slug", dash.DeleteGallery)
	admin.DELETE("/artists/:id", dash.DeleteArtist)
	admin.DELETE("/artworks/:id", dash.DeleteArtwork)
	admin.GET("/users", dash.ListUsers)

	cols := collectionsapi.NewHandler(d.Repo)
	artist := app.Group("/dashboard/artist")
	artist.Use(middleware.RequireRole(users.RoleArtist))
	artist.GET("/collections", cols.List)
	artist.POST("/collections", cols.Create)
	artist.PUT("/collections/:id", cols.Rename)
	artist.DELETE("/collections/:id", cols.Delete)
	artist.POST("/collections/:id/artworks", cols.Assign)

	// Public pages share the first path segment with gallery slugs, so
	// they are registered last.
	pub := public.NewHandler(d.Repo)
	app.GET("/", pub.Index)
	app.GET("/:gallerySlug", pub.Gallery)
	app.GET("/:gallerySlug/artists/:artistId", pub.Artist)
	app.GET("/:gallerySlug/artworks/:artworkId", pub.Artwork)
}
