package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gallery-app/internal/domain/sessions"
	"gallery-app/internal/domain/users"
	"gallery-app/internal/infra/sessionstore"
	"gallery-app/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	SessionCookie = "gallery_sid"
	sessionKey    = "session"
)

type SessionConfig struct {
	Secret []byte
	TTL    time.Duration
	Secure bool
	// Accounts, when set, is consulted on every request that carries a
	// logged-in session.
	Accounts Accounts
}

// Accounts looks up the account a session is bound to.
type Accounts interface {
	GetUser(ctx context.Context, id string) (*users.User, error)
}

// Session is the request-scoped view of the client's session. Changes are
// written back once, right before the response headers go out.
type Session struct {
	data      *sessions.Session
	dirty     bool
	destroyed bool
	staleIDs  []string
}

func newSession() *Session {
	return &Session{data: &sessions.Session{ID: uuid.NewString()}}
}

func (s *Session) ID() string {
	return s.data.ID
}

func (s *Session) Actor() (users.Actor, bool) {
	if s.destroyed {
		return users.Actor{}, false
	}
	return s.data.Actor()
}

// Login binds the session to an account under a fresh id and CSRF secret.
func (s *Session) Login(a users.Actor) {
	s.staleIDs = append(s.staleIDs, s.data.ID)
	flash := s.data.Flash
	s.data = &sessions.Session{
		ID:              uuid.NewString(),
		UserID:          a.ID,
		Username:        a.Username,
		Role:            a.Role,
		AuthenticatedAt: time.Now(),
		Flash:           flash,
	}
	s.destroyed = false
	s.dirty = true
}

// Destroy drops the session; the client gets a cleared cookie.
func (s *Session) Destroy() {
	s.destroyed = true
}

// CSRFSecret returns the per-session secret, creating it on first use.
func (s *Session) CSRFSecret() string {
	if s.data.CSRFSecret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			panic(fmt.Sprintf("csrf secret: %v", err))
		}
		s.data.CSRFSecret = hex.EncodeToString(buf)
		s.dirty = true
	}
	return s.data.CSRFSecret
}

func (s *Session) PushFlash(kind, text string) {
	s.data.Flash = append(s.data.Flash, sessions.Message{Kind: kind, Text: text})
	s.dirty = true
}

// DrainFlash returns the queued messages and empties the queue.
func (s *Session) DrainFlash() []sessions.Message {
	msgs := s.data.Flash
	if len(msgs) == 0 {
		return []sessions.Message{}
	}
	s.data.Flash = nil
	s.dirty = true
	return msgs
}

// SessionFrom returns the request's session. Without the Sessions
// middleware it returns a throwaway anonymous session.
func SessionFrom(c *gin.Context) *Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	s := newSession()
	c.Set(sessionKey, s)
	return s
}

// Sessions resolves the session named by the signed cookie and stores
// changes back before the response is written.
func Sessions(sessionStore sessionstore.Store, cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := loadSession(c, sessionStore, cfg)
		c.Set(sessionKey, s)

		w := &sessionWriter{ResponseWriter: c.Writer}
		w.persist = func() { persistSession(c.Request.Context(), w.ResponseWriter, sessionStore, cfg, s) }
		c.Writer = w

		c.Next()
		w.flush()
	}
}

func loadSession(c *gin.Context, sessionStore sessionstore.Store, cfg SessionConfig) *Session {
	raw, err := c.Cookie(SessionCookie)
	if err != nil || raw == "" {
		return newSession()
	}
	sid, err := parseSessionToken(raw, cfg.Secret)
	if err != nil {
		log.Debug().Err(err).Msg("discarding session cookie")
		return newSession()
	}

	data, err := sessionStore.Load(c.Request.Context(), sid)
	if errors.Is(err, sessionstore.ErrNotFound) {
		return newSession()
	}
	if err != nil {
		log.Error().Err(err).Msg("load session")
		return newSession()
	}
	if data.Expired(time.Now()) {
		s := newSession()
		s.staleIDs = []string{sid}
		return s
	}

	if a, ok := data.Actor(); ok && cfg.Accounts != nil {
		valid, err := accountStillValid(c.Request.Context(), cfg.Accounts, a, data.AuthenticatedAt)
		if err != nil {
			log.Error().Err(err).Str("user_id", a.ID).Msg("verify session account")
			return newSession()
		}
		if !valid {
			log.Info().Str("user_id", a.ID).Msg("session account gone, dropping session")
			s := newSession()
			s.staleIDs = []string{sid}
			return s
		}
	}
	return &Session{data: data}
}

// accountStillValid reports whether the session's account is the one that
// logged in: it must exist with the same username and role and predate
// the login.
func accountStillValid(ctx context.Context, accounts Accounts, a users.Actor, authenticatedAt time.Time) (bool, error) {
	u, err := accounts.GetUser(ctx, a.ID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if u.Username != a.Username || u.Role != a.Role {
		return false, nil
	}
	return !u.CreatedAt.After(authenticatedAt), nil
}

func persistSession(ctx context.Context, w http.ResponseWriter, sessionStore sessionstore.Store, cfg SessionConfig, s *Session) {
	for _, id := range s.staleIDs {
		if err := sessionStore.Delete(ctx, id); err != nil {
			log.Error().Err(err).Msg("delete stale session")
		}
	}
	s.staleIDs = nil

	if s.destroyed {
		if err := sessionStore.Delete(ctx, s.data.ID); err != nil {
			log.Error().Err(err).Msg("destroy session")
		}
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   cfg.Secure,
			SameSite: http.SameSiteLaxMode,
		})
		return
	}
	if !s.dirty {
		return
	}

	s.data.ExpiresAt = time.Now().Add(cfg.TTL)
	if err := sessionStore.Save(ctx, s.data); err != nil {
		log.Error().Err(err).Msg("save session")
		return
	}
	s.dirty = false

	token, err := signSessionToken(s.data.ID, s.data.ExpiresAt, cfg.Secret)
	if err != nil {
		log.Error().Err(err).Msg("sign session cookie")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  s.data.ExpiresAt,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func signSessionToken(sid string, exp time.Time, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        sid,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseSessionToken(raw string, secret []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid session token: %w", err)
	}
	if claims.ID == "" {
		return "", errors.New("session token without id")
	}
	return claims.ID, nil
}

// sessionWriter persists the session on the first header write so the
// cookie still makes it into the response.
type sessionWriter struct {
	gin.ResponseWriter
	persist func()
	done    bool
}

func (w *sessionWriter) flush() {
	if !w.done {
		w.done = true
		w.persist()
	}
}

func (w *sessionWriter) WriteHeader(code int) {
	w.flush()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) WriteHeaderNow() {
	w.flush()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.flush()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) WriteString(s string) (int, error) {
	w.flush()
	return w.ResponseWriter.WriteString(s)
}
