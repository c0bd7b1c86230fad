package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"gallery-app/internal/domain/sessions"
	"gallery-app/internal/domain/users"
	"gallery-app/internal/infra/sessionstore"
	"gallery-app/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testSessionConfig = SessionConfig{Secret: []byte("test-secret"), TTL: time.Hour}

func newEngine(sessionStore sessionstore.Store) *gin.Engine {
	return newEngineWith(sessionStore, testSessionConfig)
}

func newEngineWith(sessionStore sessionstore.Store, cfg SessionConfig) *gin.Engine {
	r := gin.New()
	r.Use(Errors(), Sessions(sessionStore, cfg), SanitizeAndCleanInputMiddleware(), CSRF())

	r.GET("/token", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"csrf_token": CSRFToken(c)})
	})
	r.POST("/echo", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"name": c.PostForm("name"), "password": c.PostForm("password")})
	})
	r.POST("/json", func(c *gin.Context) {
		var body map[string]string
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, body)
	})
	r.GET("/as/:role", func(c *gin.Context) {
		role := users.Role(c.Param("role"))
		SessionFrom(c).Login(users.Actor{ID: "u-" + string(role), Username: string(role), Role: role})
		c.Status(http.StatusNoContent)
	})
	r.GET("/flash", func(c *gin.Context) {
		SessionFrom(c).PushFlash(sessions.FlashInfo, "saved")
		c.Status(http.StatusNoContent)
	})
	r.GET("/drain", func(c *gin.Context) {
		c.JSON(http.StatusOK, SessionFrom(c).DrainFlash())
	})
	r.GET("/logout", func(c *gin.Context) {
		SessionFrom(c).Destroy()
		c.Status(http.StatusNoContent)
	})
	r.GET("/admin", RequireRole(users.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": CurrentActor(c).Username})
	})
	return r
}

// client keeps cookies across requests like a browser would.
type client struct {
	t       *testing.T
	engine  *gin.Engine
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, e *gin.Engine) *client {
	return &client{t: t, engine: e, cookies: map[string]*http.Cookie{}}
}

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range cl.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	cl.engine.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(cl.cookies, ck.Name)
			continue
		}
		cl.cookies[ck.Name] = ck
	}
	return w
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	return cl.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (cl *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return cl.do(req)
}

func (cl *client) token() string {
	w := cl.get("/token")
	require.Equal(cl.t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(cl.t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(cl.t, body["csrf_token"])
	return body["csrf_token"]
}

func TestCSRFRejectsUnsafeRequestsWithoutToken(t *testing.T) {
	cl := newClient(t, newEngine(sessionstore.NewMemory()))

	w := cl.postForm("/echo", url.Values{"name": {"x"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// a session alone is not enough
	cl.token()
	w = cl.postForm("/echo", url.Values{"name": {"x"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = cl.postForm("/echo", url.Values{"name": {"x"}, CSRFField: {"forged"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCSRFAcceptsTokenFromEverySource(t *testing.T) {
	cl := newClient(t, newEngine(sessionstore.NewMemory()))
	tok := cl.token()
	assert.Equal(t, tok, cl.token(), "token is stable within a session")

	w := cl.postForm("/echo", url.Values{"name": {"x"}, CSRFField: {tok}})
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/echo", nil)
	req.Header.Set(CSRFHeader, tok)
	assert.Equal(t, http.StatusOK, cl.do(req).Code)

	w = cl.do(httptest.NewRequest(http.MethodPost, "/echo?"+CSRFField+"="+tok, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/json", strings.NewReader(`{"`+CSRFField+`":"`+tok+`","title":"Dawn"}`))
	req.Header.Set("Content-Type", "application/json")
	w = cl.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"title":"Dawn"`, "handler still reads the body")

	req = httptest.NewRequest(http.MethodPost, "/json", strings.NewReader(`{"`+CSRFField+`":"forged"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusForbidden, cl.do(req).Code)
}

func TestSafeMethodsSkipCSRF(t *testing.T) {
	cl := newClient(t, newEngine(sessionstore.NewMemory()))
	assert.Equal(t, http.StatusOK, cl.get("/token").Code)
	assert.Equal(t, http.StatusNoContent, cl.get("/flash").Code)
}

func TestRequireRole(t *testing.T) {
	e := newEngine(sessionstore.NewMemory())

	anon := newClient(t, e)
	w := anon.get("/admin")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	artist := newClient(t, e)
	artist.get("/as/artist")
	assert.Equal(t, http.StatusForbidden, artist.get("/admin").Code)

	admin := newClient(t, e)
	admin.get("/as/admin")
	w = admin.get("/admin")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user":"admin"`)

	admin.get("/logout")
	assert.Equal(t, http.StatusFound, admin.get("/admin").Code)
}

type fakeAccounts map[string]users.User

func (f fakeAccounts) GetUser(_ context.Context, id string) (*users.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func TestSessionDroppedWhenAccountGoes(t *testing.T) {
	accounts := fakeAccounts{
		"u-admin": {ID: "u-admin", Username: "admin", Role: users.RoleAdmin, CreatedAt: time.Now().Add(-time.Hour)},
	}
	cfg := testSessionConfig
	cfg.Accounts = accounts
	sessionStore := sessionstore.NewMemory()
	e := newEngineWith(sessionStore, cfg)

	cl := newClient(t, e)
	cl.get("/as/admin")
	require.Equal(t, http.StatusOK, cl.get("/admin").Code)

	delete(accounts, "u-admin")
	assert.Equal(t, http.StatusFound, cl.get("/admin").Code)

	sid, err := parseSessionToken(cl.cookies[SessionCookie].Value, cfg.Secret)
	require.NoError(t, err)
	_, err = sessionStore.Load(context.Background(), sid)
	assert.ErrorIs(t, err, sessionstore.ErrNotFound)
}

func TestSessionDroppedWhenAccountRecreated(t *testing.T) {
	accounts := fakeAccounts{
		"u-admin": {ID: "u-admin", Username: "admin", Role: users.RoleAdmin, CreatedAt: time.Now().Add(-time.Hour)},
	}
	cfg := testSessionConfig
	cfg.Accounts = accounts
	e := newEngineWith(sessionstore.NewMemory(), cfg)

	cl := newClient(t, e)
	cl.get("/as/admin")
	require.Equal(t, http.StatusOK, cl.get("/admin").Code)

	// same id and username, created after the login
	accounts["u-admin"] = users.User{ID: "u-admin", Username: "admin", Role: users.RoleAdmin, CreatedAt: time.Now().Add(time.Minute)}
	assert.Equal(t, http.StatusFound, cl.get("/admin").Code)

	other := newClient(t, e)
	other.get("/as/admin")
	accounts["u-admin"] = users.User{ID: "u-admin", Username: "admin", Role: users.RoleArtist, CreatedAt: time.Now().Add(-time.Hour)}
	assert.Equal(t, http.StatusFound, other.get("/admin").Code, "role changed under the session")
}

func TestLoginRotatesSessionID(t *testing.T) {
	sessionStore := sessionstore.NewMemory()
	cl := newClient(t, newEngine(sessionStore))
	cl.token()
	before := cl.cookies[SessionCookie].Value

	cl.get("/as/gallery")
	after := cl.cookies[SessionCookie].Value
	assert.NotEqual(t, before, after)

	oldID, err := parseSessionToken(before, testSessionConfig.Secret)
	require.NoError(t, err)
	_, err = sessionStore.Load(context.Background(), oldID)
	assert.ErrorIs(t, err, sessionstore.ErrNotFound)
}

func TestFlashIsDrainedOnce(t *testing.T) {
	cl := newClient(t, newEngine(sessionstore.NewMemory()))
	cl.get("/flash")

	w := cl.get("/drain")
	assert.JSONEq(t, `[{"kind":"info","text":"saved"}]`, w.Body.String())
	w = cl.get("/drain")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestTamperedCookieStartsFreshSession(t *testing.T) {
	cl := newClient(t, newEngine(sessionstore.NewMemory()))
	cl.get("/as/admin")
	ck := cl.cookies[SessionCookie]
	ck.Value = ck.Value[:len(ck.Value)-2] + "xx"

	assert.Equal(t, http.StatusFound, cl.get("/admin").Code)
}

func TestSanitizeStripsMarkup(t *testing.T) {
	cl := newClient(t, newEngine(sessionstore.NewMemory()))
	tok := cl.token()

	w := cl.postForm("/echo", url.Values{
		"name":     {"<script>alert(1)</script>Blue"},
		"password": {"<b>secret</b>"},
		CSRFField:  {tok},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"Blue","password":"<b>secret</b>"}`, w.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/json", strings.NewReader(`{"title":"<i>Dawn</i>","image_url":"https://x/y.jpg?a=1&b=2"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(CSRFHeader, tok)
	w = cl.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"title":"Dawn","image_url":"https://x/y.jpg?a=1&b=2"}`, w.Body.String())
}

func TestSanitizeKeepsLiteralCharacters(t *testing.T) {
	cl := newClient(t, newEngine(sessionstore.NewMemory()))
	tok := cl.token()

	w := cl.postForm("/echo", url.Values{"name": {`Smith & Sons "Fine" <b>Art</b>`}, CSRFField: {tok}})
	require.Equal(t, http.StatusOK, w.Code)
	var form map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &form))
	assert.Equal(t, `Smith & Sons "Fine" Art`, form["name"])

	req := httptest.NewRequest(http.MethodPost, "/json", strings.NewReader(`{"title":"O'Keeffe's <i>Iris</i>"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(CSRFHeader, tok)
	w = cl.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "O'Keeffe's Iris", body["title"])
}
