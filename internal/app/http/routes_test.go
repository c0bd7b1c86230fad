package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gallery-app/database"
	"gallery-app/internal/app/http/middleware"
	"gallery-app/internal/infra/images"
	"gallery-app/internal/infra/passwords"
	"gallery-app/internal/infra/sessionstore"
	"gallery-app/internal/infra/storage"
	"gallery-app/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, promoCodes ...string) *gin.Engine {
	t.Helper()
	srv, _ := newServerWithUploads(t, promoCodes...)
	return srv
}

// newServerWithUploads also returns the uploads directory.
func newServerWithUploads(t *testing.T, promoCodes ...string) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	uploads := filepath.Join(dir, "uploads")

	db, err := database.Open(filepath.Join(dir, "gallery.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	hasher := passwords.NewBcrypt(4)
	require.NoError(t, database.EnsureAdmin(context.Background(), db, hasher, "admin", "password"))

	r := gin.New()
	RegisterRoutes(r, Deps{
		Repo:       store.New(db),
		Sessions:   sessionstore.NewDB(db),
		Session:    middleware.SessionConfig{Secret: []byte("test"), TTL: time.Hour},
		Hasher:     hasher,
		Pipeline:   images.NewPipeline(uploads, images.Copy{}, storage.NewLocal("/uploads")),
		PromoCodes: promoCodes,
	})
	return r, uploads
}

type browser struct {
	t       *testing.T
	srv     *gin.Engine
	cookies map[string]*http.Cookie
	token   string
}

func newBrowser(t *testing.T, srv *gin.Engine) *browser {
	return &browser{t: t, srv: srv, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range b.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	b.srv.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(b.cookies, ck.Name)
			continue
		}
		b.cookies[ck.Name] = ck
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) form(method, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) json(method, path string, body any) *httptest.ResponseRecorder {
	buf, err := json.Marshal(body)
	require.NoError(b.t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.CSRFHeader, b.token)
	return b.do(req)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// fetchToken reads the CSRF token from a page that exposes it.
func (b *browser) fetchToken(path string) string {
	w := b.get(path)
	require.Equal(b.t, http.StatusOK, w.Code, w.Body.String())
	tok, _ := decode(b.t, w)["csrf_token"].(string)
	require.NotEmpty(b.t, tok)
	b.token = tok
	return tok
}

func (b *browser) login(username, password string) {
	tok := b.fetchToken("/login")
	w := b.form(http.MethodPost, "/login", url.Values{"username": {username}, "password": {password}, "_csrf": {tok}})
	require.Equal(b.t, http.StatusFound, w.Code)
	require.Equal(b.t, "/dashboard", w.Header().Get("Location"))
	b.fetchToken("/dashboard")
}

func TestLoginNeedsCSRFToken(t *testing.T) {
	b := newBrowser(t, newServer(t))

	w := b.form(http.MethodPost, "/login", url.Values{"username": {"admin"}, "password": {"password"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	tok := b.fetchToken("/login")
	w = b.form(http.MethodPost, "/login", url.Values{"username": {"admin"}, "password": {"password"}, "_csrf": {tok}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	w = b.get("/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "admin", user["role"])
}

func TestBadLoginFlashesAndRedirects(t *testing.T) {
	b := newBrowser(t, newServer(t))
	tok := b.fetchToken("/login")

	w := b.form(http.MethodPost, "/login", url.Values{"username": {"admin"}, "password": {"nope"}, "_csrf": {tok}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	page := decode(t, b.get("/login"))
	flash := page["flash"].([]any)
	require.Len(t, flash, 1)
	assert.Equal(t, "error", flash[0].(map[string]any)["kind"])

	page = decode(t, b.get("/login"))
	assert.Empty(t, page["flash"])
}

func TestRoleGating(t *testing.T) {
	srv := newServer(t)

	anon := newBrowser(t, srv)
	w := anon.get("/dashboard/users")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	artist := newBrowser(t, srv)
	tok := artist.fetchToken("/signup/artist")
	w = artist.form(http.MethodPost, "/signup/artist", url.Values{
		"name": {"Ann Smith"}, "username": {"ann"}, "password": {"painting1"}, "_csrf": {tok},
	})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/dashboard", w.Header().Get("Location"))
	assert.Equal(t, http.StatusForbidden, artist.get("/dashboard/users").Code)
	assert.Equal(t, http.StatusOK, artist.get("/dashboard/artist/collections").Code)

	admin := newBrowser(t, srv)
	admin.login("admin", "password")
	w = admin.get("/dashboard/users")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["total"])
	assert.Equal(t, http.StatusForbidden, admin.get("/dashboard/artist/collections").Code)
}

func TestDemoGalleryScenario(t *testing.T) {
	srv := newServer(t)
	admin := newBrowser(t, srv)
	admin.login("admin", "password")

	w := admin.json(http.MethodPost, "/dashboard/galleries", map[string]any{"slug": "demo-gallery", "name": "Demo Gallery"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = admin.json(http.MethodPost, "/dashboard/artists", map[string]any{"id": "artist1", "name": "Artist One", "gallery_slug": "demo-gallery", "live": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = admin.json(http.MethodPost, "/dashboard/artworks", map[string]any{"id": "a1", "artist_id": "artist1", "title": "First Light", "featured": true, "price": "$950"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "950.00", decode(t, w)["price"])

	visitor := newBrowser(t, srv)
	w = visitor.get("/demo-gallery")
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	artists := page["artists"].([]any)
	require.Len(t, artists, 1)
	first := artists[0].(map[string]any)
	assert.Equal(t, "artist1", first["id"])
	assert.Equal(t, "a1", first["artworks"].([]any)[0].(map[string]any)["id"])
	assert.Equal(t, "a1", page["featured"].([]any)[0].(map[string]any)["id"])

	assert.Equal(t, http.StatusOK, visitor.get("/demo-gallery/artists/artist1").Code)
	assert.Equal(t, http.StatusOK, visitor.get("/demo-gallery/artworks/a1").Code)

	w = admin.json(http.MethodPost, "/dashboard/artists/artist1/archive", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, http.StatusNotFound, visitor.get("/demo-gallery/artists/artist1").Code)
	assert.Equal(t, http.StatusNotFound, visitor.get("/demo-gallery/artworks/a1").Code)
	assert.Equal(t, http.StatusNotFound, visitor.get("/no-such-gallery").Code)
}

func TestGalleryAccountIsScoped(t *testing.T) {
	srv := newServer(t)
	admin := newBrowser(t, srv)
	admin.login("admin", "password")
	require.Equal(t, http.StatusCreated, admin.json(http.MethodPost, "/dashboard/galleries", map[string]any{"slug": "elsewhere", "name": "Elsewhere"}).Code)
	require.Equal(t, http.StatusCreated, admin.json(http.MethodPost, "/dashboard/artists", map[string]any{"id": "bob", "name": "Bob", "gallery_slug": "elsewhere"}).Code)

	owner := newBrowser(t, srv)
	tok := owner.fetchToken("/signup/gallery")
	w := owner.form(http.MethodPost, "/signup/gallery", url.Values{
		"name": {"Nora North"}, "username": {"north"}, "password": {"gallery2024"},
		"gallery_name": {"North Gallery"}, "_csrf": {tok},
	})
	require.Equal(t, http.StatusFound, w.Code)
	owner.fetchToken("/dashboard")

	w = owner.get("/dashboard/settings")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "north", decode(t, w)["gallery"].(map[string]any)["slug"])

	assert.Equal(t, http.StatusNotFound, owner.get("/dashboard/artists/bob").Code)
	assert.Equal(t, http.StatusNotFound, owner.get("/dashboard/galleries/elsewhere").Code)
	assert.Equal(t, http.StatusForbidden, owner.json(http.MethodPost, "/dashboard/galleries", map[string]any{"name": "Mine"}).Code)

	w = owner.json(http.MethodPost, "/dashboard/artists", map[string]any{"name": "Cleo", "gallery_slug": "elsewhere"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "north", decode(t, w)["gallery_slug"])
}

func TestSignupRules(t *testing.T) {
	srv := newServer(t, "SPRING")

	b := newBrowser(t, srv)
	tok := b.fetchToken("/signup/gallery")
	w := b.form(http.MethodPost, "/signup/gallery", url.Values{
		"name": {"X"}, "username": {"xgal"}, "password": {"gallery2024"}, "promo_code": {"WINTER"}, "_csrf": {tok},
	})
	assert.Equal(t, "/signup/gallery", w.Header().Get("Location"))

	w = b.form(http.MethodPost, "/signup/gallery", url.Values{
		"name": {"X"}, "username": {"Bad Name"}, "password": {"gallery2024"}, "promo_code": {"spring"}, "_csrf": {tok},
	})
	assert.Equal(t, "/signup/gallery", w.Header().Get("Location"))

	w = b.form(http.MethodPost, "/signup/gallery", url.Values{
		"name": {"X"}, "username": {"dashboard"}, "password": {"gallery2024"}, "promo_code": {"spring"}, "_csrf": {tok},
	})
	assert.Equal(t, "/signup/gallery", w.Header().Get("Location"), "reserved slugs cannot be gallery usernames")

	w = b.form(http.MethodPost, "/signup/gallery", url.Values{
		"name": {"X"}, "username": {"xgal"}, "password": {"gallery2024"}, "promo_code": {"spring"}, "_csrf": {tok},
	})
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	assert.Equal(t, http.StatusNotFound, b.get("/signup/admin").Code)
}

func multipartBody(t *testing.T, fields map[string]string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="image"; filename="photo.png"`)
		h.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestArtworkImageUpload(t *testing.T) {
	srv := newServer(t)
	admin := newBrowser(t, srv)
	admin.login("admin", "password")
	require.Equal(t, http.StatusCreated, admin.json(http.MethodPost, "/dashboard/galleries", map[string]any{"slug": "demo-gallery", "name": "Demo"}).Code)
	require.Equal(t, http.StatusCreated, admin.json(http.MethodPost, "/dashboard/artists", map[string]any{"id": "artist1", "name": "One", "gallery_slug": "demo-gallery", "live": true}).Code)

	payload := []byte("\x89PNG fake bytes")
	body, ct := multipartBody(t, map[string]string{"artist_id": "artist1", "title": "Upload", "_csrf": admin.token}, payload)
	req := httptest.NewRequest(http.MethodPost, "/dashboard/artworks", body)
	req.Header.Set("Content-Type", ct)
	w := admin.do(req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	imgs := decode(t, w)["images"].(map[string]any)
	for _, variant := range []string{"full", "standard", "thumb"} {
		u := imgs[variant].(string)
		assert.True(t, strings.HasSuffix(u, fmt.Sprintf("_%s.png", variant)), u)
		got := admin.get(u)
		require.Equal(t, http.StatusOK, got.Code, u)
		assert.Equal(t, payload, got.Body.Bytes())
	}

	body, ct = multipartBody(t, map[string]string{
		"artist_id": "artist1", "title": "Both", "image_url": "https://example.com/a.jpg", "_csrf": admin.token,
	}, payload)
	req = httptest.NewRequest(http.MethodPost, "/dashboard/artworks", body)
	req.Header.Set("Content-Type", ct)
	assert.Equal(t, http.StatusBadRequest, admin.do(req).Code)

	w = admin.json(http.MethodPost, "/dashboard/artworks", map[string]any{
		"artist_id": "artist1", "title": "Linked", "image_url": "https://example.com/a.jpg",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "https://example.com/a.jpg", decode(t, w)["images"].(map[string]any)["thumb"])
}

func TestRejectedArtworkLeavesNoFiles(t *testing.T) {
	srv, uploads := newServerWithUploads(t)
	admin := newBrowser(t, srv)
	admin.login("admin", "password")
	require.Equal(t, http.StatusCreated, admin.json(http.MethodPost, "/dashboard/galleries", map[string]any{"slug": "demo-gallery", "name": "Demo"}).Code)
	require.Equal(t, http.StatusCreated, admin.json(http.MethodPost, "/dashboard/artists", map[string]any{"id": "artist1", "name": "One", "gallery_slug": "demo-gallery"}).Code)

	post := func(method, path string, fields map[string]string) int {
		fields["_csrf"] = admin.token
		body, ct := multipartBody(t, fields, []byte("\x89PNG fake bytes"))
		req := httptest.NewRequest(method, path, body)
		req.Header.Set("Content-Type", ct)
		return admin.do(req).Code
	}

	assert.Equal(t, http.StatusBadRequest, post(http.MethodPost, "/dashboard/artworks", map[string]string{"artist_id": "nobody", "title": "Lost"}))
	assert.Equal(t, http.StatusBadRequest, post(http.MethodPost, "/dashboard/artworks", map[string]string{"artist_id": "artist1", "title": "Cheap", "price": "abc"}))
	assert.Equal(t, http.StatusBadRequest, post(http.MethodPost, "/dashboard/artworks", map[string]string{"artist_id": "artist1", "title": "Loose", "collection_id": "missing"}))

	w := admin.json(http.MethodPost, "/dashboard/artworks", map[string]any{"id": "a1", "artist_id": "artist1", "title": "Kept"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, http.StatusBadRequest, post(http.MethodPut, "/dashboard/artworks/a1", map[string]string{"collection_id": "missing"}))
	assert.Equal(t, http.StatusNotFound, post(http.MethodPut, "/dashboard/artworks/nope", map[string]string{"title": "Ghost"}))

	entries, err := os.ReadDir(uploads)
	if err == nil {
		assert.Empty(t, entries)
	} else {
		assert.True(t, os.IsNotExist(err), err)
	}
}

func TestDeletedAccountSessionCannotActForNewOwner(t *testing.T) {
	srv := newServer(t)

	ann := newBrowser(t, srv)
	tok := ann.fetchToken("/signup/artist")
	w := ann.form(http.MethodPost, "/signup/artist", url.Values{
		"name": {"Ann"}, "username": {"ann"}, "password": {"painting1"}, "_csrf": {tok},
	})
	require.Equal(t, "/dashboard", w.Header().Get("Location"))
	require.Equal(t, http.StatusOK, ann.get("/dashboard/settings").Code)

	admin := newBrowser(t, srv)
	admin.login("admin", "password")
	require.Equal(t, http.StatusOK, admin.json(http.MethodDelete, "/dashboard/artists/ann", nil).Code)
	w = admin.json(http.MethodPost, "/dashboard/artists", map[string]any{"name": "Ann", "bio": "new person"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Equal(t, "ann", decode(t, w)["id"])

	w = ann.get("/dashboard/settings")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = admin.get("/dashboard/artists/ann")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "new person", decode(t, w)["bio"])
}

func TestNamesKeepLiteralCharacters(t *testing.T) {
	srv := newServer(t)
	admin := newBrowser(t, srv)
	admin.login("admin", "password")

	w := admin.json(http.MethodPost, "/dashboard/galleries", map[string]any{"name": "Smith & Sons"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	g := decode(t, w)
	assert.Equal(t, "smith-sons", g["slug"])
	assert.Equal(t, "Smith & Sons", g["name"])

	require.Equal(t, http.StatusCreated, admin.json(http.MethodPost, "/dashboard/artists", map[string]any{"id": "georgia", "name": "Georgia", "gallery_slug": "smith-sons"}).Code)
	w = admin.json(http.MethodPost, "/dashboard/artworks", map[string]any{"artist_id": "georgia", "title": "O'Keeffe's <em>Iris</em>"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	a := decode(t, w)
	assert.Equal(t, "okeeffes-iris", a["id"])
	assert.Equal(t, "O'Keeffe's Iris", a["title"])
}

func TestLogoutEndsSession(t *testing.T) {
	b := newBrowser(t, newServer(t))
	b.login("admin", "password")

	w := b.get("/logout")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", b.get("/dashboard").Header().Get("Location"))
}

func TestHealth(t *testing.T) {
	srv := newServer(t)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
