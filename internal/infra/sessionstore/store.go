package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gallery-app/internal/domain/sessions"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("session not found")

// Store persists sessions between requests.
type Store interface {
	Load(ctx context.Context, id string) (*sessions.Session, error)
	Save(ctx context.Context, s *sessions.Session) error
	Delete(ctx context.Context, id string) error
}

func New(kind string, db *gorm.DB) (Store, error) {
	switch kind {
	case "", "db":
		return NewDB(db), nil
	case "memory":
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown session store %q", kind)
}

// DB keeps sessions in the sessions table.
type DB struct {
	db *gorm.DB
}

func NewDB(db *gorm.DB) *DB {
	return &DB{db: db}
}

func (d *DB) Load(ctx context.Context, id string) (*sessions.Session, error) {
	var s sessions.Session
	err := d.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (d *DB) Save(ctx context.Context, s *sessions.Session) error {
	return d.db.WithContext(ctx).Save(s).Error
}

func (d *DB) Delete(ctx context.Context, id string) error {
	return d.db.WithContext(ctx).Where("id = ?", id).Delete(&sessions.Session{}).Error
}

// PurgeExpired removes sessions that expired before now.
func (d *DB) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := d.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&sessions.Session{})
	return res.RowsAffected, res.Error
}

// Memory is a process-local store. Sessions are lost on restart.
type Memory struct {
	mu   sync.Mutex
	data map[string]sessions.Session
}

func NewMemory() *Memory {
	return &Memory{data: map[string]sessions.Session{}}
}

func (m *Memory) Load(_ context.Context, id string) (*sessions.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(s), nil
}

func (m *Memory) Save(_ context.Context, s *sessions.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[s.ID] = *clone(*s)
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

func clone(s sessions.Session) *sessions.Session {
	if s.Flash != nil {
		s.Flash = append([]sessions.Message(nil), s.Flash...)
	}
	return &s
}
