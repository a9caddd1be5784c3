package router

import (
	"net/http"
	"testing"
	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func followCount(t *testing.T, app *testApp) int64 {
	t.Helper()
	var n int64
	require.NoError(t, app.db.Model(&models.Follow{}).Count(&n).Error)
	return n
}

func TestFollowFeed(t *testing.T) {
	app := newTestApp(t)
	reader := app.createUser(t, "reader")
	writer := app.createUser(t, "writer")
	bystander := app.createUser(t, "bystander")
	testutil.CreatePost(t, app.db, writer, nil, "Writer post")

	rc := app.client(t, &reader)
	resp := app.get(t, rc, "/profile/writer/follow/")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/profile/writer/", resp.Location)
	assert.Equal(t, int64(1), followCount(t, app))

	// Following twice keeps one edge.
	app.get(t, rc, "/profile/writer/follow/")
	assert.Equal(t, int64(1), followCount(t, app))

	assert.Contains(t, app.get(t, rc, "/follow/").Body, "Writer post")

	bc := app.client(t, &bystander)
	assert.NotContains(t, app.get(t, bc, "/follow/").Body, "Writer post")

	profile := app.get(t, rc, "/profile/writer/")
	assert.Contains(t, profile.Body, "/profile/writer/unfollow/")

	resp = app.get(t, rc, "/profile/writer/unfollow/")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/profile/writer/", resp.Location)
	assert.Zero(t, followCount(t, app))
	assert.NotContains(t, app.get(t, rc, "/follow/").Body, "Writer post")
}

func TestSelfFollowIgnored(t *testing.T) {
	app := newTestApp(t)
	user := app.createUser(t, "narcissus")
	c := app.client(t, &user)

	resp := app.get(t, c, "/profile/narcissus/follow/")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/profile/narcissus/", resp.Location)
	assert.Zero(t, followCount(t, app))

	profile := app.get(t, c, "/profile/narcissus/")
	assert.NotContains(t, profile.Body, "/profile/narcissus/follow/")
}

func TestFollowUnknownAuthor(t *testing.T) {
	app := newTestApp(t)
	user := app.createUser(t, "reader")
	c := app.client(t, &user)

	assert.Equal(t, http.StatusNotFound, app.get(t, c, "/profile/ghost/follow/").StatusCode)
	assert.Equal(t, http.StatusNotFound, app.get(t, c, "/profile/ghost/unfollow/").StatusCode)
}
