package main

import (
	"context"
	"strings"
	"time"

	"gallery-app/config"
	"gallery-app/database"
	routes "gallery-app/internal/app/http"
	"gallery-app/internal/app/http/middleware"
	"gallery-app/internal/infra/images"
	"gallery-app/internal/infra/logging"
	"gallery-app/internal/infra/passwords"
	"gallery-app/internal/infra/sessionstore"
	"gallery-app/internal/infra/storage"
	"gallery-app/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	config.LoadEnv()
	cfg := config.Cfg
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	database.InitDB(cfg.DBURL)
	ctx := context.Background()

	hasher, err := passwords.New(cfg.PasswordHasher)
	if err != nil {
		log.Fatal().Err(err).Msg("password hasher")
	}
	if cfg.DemoAuth {
		if err := database.EnsureAdmin(ctx, database.DB, hasher, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("bootstrap admin")
		}
	}

	sessions, err := sessionstore.New(cfg.SessionStore, database.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("session store")
	}
	if db, ok := sessions.(*sessionstore.DB); ok {
		if n, err := db.PurgeExpired(ctx, time.Now()); err != nil {
			log.Warn().Err(err).Msg("purge expired sessions")
		} else if n > 0 {
			log.Info().Int64("count", n).Msg("purged expired sessions")
		}
	}

	processor, err := images.NewProcessor(cfg.ImageProcessor)
	if err != nil {
		log.Fatal().Err(err).Msg("image processor")
	}
	backend, err := storage.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("storage backend")
	}

	r := gin.New()

	if cfg.CORSOrigin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Split(cfg.CORSOrigin, ","),
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", middleware.CSRFHeader},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	routes.RegisterRoutes(r, routes.Deps{
		Repo:     store.New(database.DB),
		Sessions: sessions,
		Session: middleware.SessionConfig{
			Secret: []byte(cfg.SessionSecret),
			TTL:    cfg.SessionTTL,
			Secure: cfg.SecureCookies,
		},
		Hasher:     hasher,
		Pipeline:   images.NewPipeline(cfg.UploadsDir, processor, backend),
		PromoCodes: cfg.PromoCodes,
	})

	log.Info().Str("port", cfg.Port).Str("processor", processor.Name()).Msg("gallery server listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
