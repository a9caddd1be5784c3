package router

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/models"
	"yatube/internal/services"
	"yatube/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testPassword = "password123"

type testApp struct {
	db     *gorm.DB
	store  cache.Store
	cfg    *config.Config
	server *httptest.Server
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn := testutil.NewDB(t)
	cfg := &config.Config{
		Port:           "0",
		Env:            "test",
		DBDriver:       "sqlite",
		SessionSecret:  "test-session-secret",
		TemplatesDir:   "../../web/templates",
		StaticDir:      "../../web/static",
		MediaRoot:      t.TempDir(),
		PostsPerPage:   10,
		IndexCacheTTL:  20 * time.Second,
		CacheBackend:   "memory",
		CacheSize:      100,
		MaxUploadBytes: services.DefaultMaxUploadBytes,
		SiteURL:        "http://yatube.test",
	}
	store, err := cache.NewMemory(cfg.CacheSize)
	require.NoError(t, err)

	r, err := Setup(cfg, conn, store)
	require.NoError(t, err)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testApp{db: conn, store: store, cfg: cfg, server: srv}
}

// createUser registers a user that can log in with testPassword.
func (a *testApp) createUser(t *testing.T, username string) models.User {
	t.Helper()
	user, err := services.NewUserService(a.db).Register(context.Background(), services.RegisterInput{
		Username: username,
		Password: testPassword,
	})
	require.NoError(t, err)
	return *user
}

// client returns an HTTP client that keeps cookies and does not follow
// redirects. With a non-nil user it is logged in first.
func (a *testApp) client(t *testing.T, user *models.User) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	if user != nil {
		resp := a.postForm(t, c, "/auth/login/", url.Values{
			"username": {user.Username},
			"password": {testPassword},
		})
		require.Equal(t, http.StatusFound, resp.StatusCode, "login %s", user.Username)
	}
	return c
}

type response struct {
	StatusCode int
	Location   string
	Body       string
}

func read(t *testing.T, resp *http.Response) response {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{StatusCode: resp.StatusCode, Location: resp.Header.Get("Location"), Body: string(body)}
}

func (a *testApp) get(t *testing.T, c *http.Client, path string) response {
	t.Helper()
	resp, err := c.Get(a.server.URL + path)
	require.NoError(t, err)
	return read(t, resp)
}

func (a *testApp) postForm(t *testing.T, c *http.Client, path string, form url.Values) response {
	t.Helper()
	resp, err := c.PostForm(a.server.URL+path, form)
	require.NoError(t, err)
	return read(t, resp)
}

func (a *testApp) postMultipart(t *testing.T, c *http.Client, path string, fields map[string]string, filename string, file []byte) response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		fw, err := w.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	resp, err := c.Post(a.server.URL+path, w.FormDataContentType(), &buf)
	require.NoError(t, err)
	return read(t, resp)
}

func countPosts(t *testing.T, conn *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, conn.Model(&models.Post{}).Count(&n).Error)
	return n
}

func postCards(body string) int {
	return strings.Count(body, `class="post-card"`)
}

var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}
