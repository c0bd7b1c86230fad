package database

import (
	"gallery-app/internal/domain/artists"
	"gallery-app/internal/domain/artworks"
	"gallery-app/internal/domain/collections"
	"gallery-app/internal/domain/galleries"
	"gallery-app/internal/domain/sessions"
	"gallery-app/internal/domain/users"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// migrations is the ordered ledger; append only.
var migrations = []*gormigrate.Migration{
	{
		ID: "202601150001_initial_schema",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
				&galleries.Gallery{},
				&artists.Artist{},
				&artworks.Artwork{},
				&collections.Collection{},
				&users.User{},
			)
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable("users", "collections", "artworks", "artists", "galleries")
		},
	},
	{
		ID: "202601150002_sessions",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&sessions.Session{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable("sessions")
		},
	},
	{
		ID: "202602030001_session_authenticated_at",
		Migrate: func(tx *gorm.DB) error {
			if tx.Migrator().HasColumn(&sessions.Session{}, "AuthenticatedAt") {
				return nil
			}
			return tx.Migrator().AddColumn(&sessions.Session{}, "AuthenticatedAt")
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropColumn(&sessions.Session{}, "AuthenticatedAt")
		},
	},
}

func Migrate(db *gorm.DB) error {
	return gormigrate.New(db, gormigrate.DefaultOptions, migrations).Migrate()
}
