package store

import (
	"gallery-app/internal/domain/users"

	"gorm.io/gorm"
)

// Repo is the data access layer. Public reads live directly on Repo;
// dashboard reads and writes go through Scoped.
type Repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// Scoped applies the ownership filter of one actor to every query:
// galleries see their own slug, artists their own id, admins everything.
type Scoped struct {
	db    *gorm.DB
	actor users.Actor
}

func (r *Repo) For(actor users.Actor) *Scoped {
	return &Scoped{db: r.db, actor: actor}
}

func (s *Scoped) Actor() users.Actor {
	return s.actor
}

func (s *Scoped) isAdmin() bool {
	return s.actor.Role == users.RoleAdmin
}

func (s *Scoped) require(roles ...users.Role) error {
	for _, r := range roles {
		if s.actor.Role == r {
			return nil
		}
	}
	return ErrForbidden
}
