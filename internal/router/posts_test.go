package router

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostAppearsInFeeds(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "author")
	group := testutil.CreateGroup(t, app.db, "cats")
	other := testutil.CreateGroup(t, app.db, "dogs")
	c := app.client(t, &author)

	before := countPosts(t, app.db)
	resp := app.postForm(t, c, "/create/", url.Values{
		"text":  {"Cats rule the internet"},
		"group": {fmt.Sprint(group.ID)},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/profile/author/", resp.Location)
	assert.Equal(t, before+1, countPosts(t, app.db))

	for _, path := range []string{"/", "/group/cats/", "/profile/author/"} {
		page := app.get(t, c, path)
		require.Equal(t, http.StatusOK, page.StatusCode, path)
		assert.Contains(t, page.Body, "Cats rule the internet", path)
	}

	page := app.get(t, c, "/group/"+other.Slug+"/")
	require.Equal(t, http.StatusOK, page.StatusCode)
	assert.NotContains(t, page.Body, "Cats rule the internet")
}

func TestCreatePostWithImage(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "author")
	c := app.client(t, &author)

	resp := app.postMultipart(t, c, "/create/", map[string]string{"text": "Post with picture"}, "small.gif", smallGIF)
	require.Equal(t, http.StatusFound, resp.StatusCode, resp.Body)

	var post models.Post
	require.NoError(t, app.db.Where("text = ?", "Post with picture").First(&post).Error)
	assert.Equal(t, "posts/small.gif", post.Image)

	detail := app.get(t, c, fmt.Sprintf("/posts/%d/", post.ID))
	assert.Contains(t, detail.Body, `src="/media/posts/small.gif"`)

	media := app.get(t, c, "/media/posts/small.gif")
	assert.Equal(t, http.StatusOK, media.StatusCode)
}

func TestCreatePostRejectsNonImage(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "author")
	c := app.client(t, &author)

	resp := app.postMultipart(t, c, "/create/", map[string]string{"text": "Broken picture"}, "notes.gif", []byte("plain text, not a gif"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, "Upload a valid image")
	assert.Zero(t, countPosts(t, app.db))
}

func TestCreatePostEmptyTextRedisplaysForm(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "author")
	c := app.client(t, &author)

	resp := app.postForm(t, c, "/create/", url.Values{"text": {"   "}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, "This field is required.")
	assert.Zero(t, countPosts(t, app.db))
}

func TestCreatePostUnknownGroup(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "author")
	c := app.client(t, &author)

	resp := app.postForm(t, c, "/create/", url.Values{"text": {"hello"}, "group": {"999"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, "select a valid group")
	assert.Zero(t, countPosts(t, app.db))
}

func TestAnonymousRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "author")
	post := testutil.CreatePost(t, app.db, author, nil, "some post")
	c := app.client(t, nil)

	paths := []string{
		"/create/",
		"/follow/",
		fmt.Sprintf("/posts/%d/edit/", post.ID),
		"/profile/author/follow/",
		"/profile/author/unfollow/",
	}
	for _, path := range paths {
		resp := app.get(t, c, path)
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/auth/login/?next="+url.QueryEscape(path), resp.Location, path)
	}
}

func TestPublicPages(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "author")
	group := testutil.CreateGroup(t, app.db, "cats")
	post := testutil.CreatePost(t, app.db, author, &group, "Public post text")
	c := app.client(t, nil)

	for _, path := range []string{
		"/",
		"/group/cats/",
		"/profile/author/",
		fmt.Sprintf("/posts/%d/", post.ID),
		"/about/author/",
		"/about/tech/",
		"/auth/login/",
		"/auth/signup/",
	} {
		resp := app.get(t, c, path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestNotFound(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t, nil)

	for _, path := range []string{
		"/group/missing/",
		"/profile/ghost/",
		"/posts/999/",
		"/posts/abc/",
		"/unexisting_page/",
	} {
		resp := app.get(t, c, path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Contains(t, resp.Body, "Page not found", path)
	}
}

func TestPostDetail(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "author")
	group := testutil.CreateGroup(t, app.db, "cats")
	post := testutil.CreatePost(t, app.db, author, &group, "A rather long post text that goes past thirty characters")
	c := app.client(t, nil)

	resp := app.get(t, c, fmt.Sprintf("/posts/%d/", post.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, "<title>A rather long post text that g</title>")
	assert.Contains(t, resp.Body, `href="/group/cats/"`)
	assert.NotContains(t, resp.Body, "/edit/", "anonymous visitors get no edit link")
}

func TestEditPost(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "author")
	stranger := app.createUser(t, "stranger")
	post := testutil.CreatePost(t, app.db, author, nil, "original text")
	editPath := fmt.Sprintf("/posts/%d/edit/", post.ID)
	detailPath := fmt.Sprintf("/posts/%d/", post.ID)

	sc := app.client(t, &stranger)
	resp := app.get(t, sc, editPath)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, detailPath, resp.Location)

	resp = app.postForm(t, sc, editPath, url.Values{"text": {"hijacked"}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, detailPath, resp.Location)

	ac := app.client(t, &author)
	resp = app.get(t, ac, editPath)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, "original text")

	resp = app.postForm(t, ac, editPath, url.Values{"text": {"edited text"}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, detailPath, resp.Location)

	var got models.Post
	require.NoError(t, app.db.First(&got, post.ID).Error)
	assert.Equal(t, "edited text", got.Text)
	assert.Equal(t, int64(1), countPosts(t, app.db))
}

func TestComments(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "author")
	reader := app.createUser(t, "reader")
	post := testutil.CreatePost(t, app.db, author, nil, "commentable")
	commentPath := fmt.Sprintf("/posts/%d/comment/", post.ID)
	detailPath := fmt.Sprintf("/posts/%d/", post.ID)

	anon := app.client(t, nil)
	resp := app.postForm(t, anon, commentPath, url.Values{"text": {"anonymous words"}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Location, "/auth/login/")

	var count int64
	app.db.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count)

	rc := app.client(t, &reader)
	resp = app.postForm(t, rc, commentPath, url.Values{"text": {"   "}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, detailPath, resp.Location)
	app.db.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count)

	resp = app.postForm(t, rc, commentPath, url.Values{"text": {"Great post"}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, detailPath, resp.Location)

	detail := app.get(t, rc, detailPath)
	assert.Contains(t, detail.Body, "Great post")

	resp = app.postForm(t, rc, "/posts/999/comment/", url.Values{"text": {"lost"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPaginationFirstAndSecondPage(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "author")
	group := testutil.CreateGroup(t, app.db, "cats")
	testutil.CreatePosts(t, app.db, author, &group, 13)
	c := app.client(t, nil)

	for _, base := range []string{"/", "/group/cats/", "/profile/author/"} {
		first := app.get(t, c, base)
		second := app.get(t, c, base+"?page=2")
		assert.Equal(t, 10, postCards(first.Body), base)
		assert.Equal(t, 3, postCards(second.Body), base)
		assert.Contains(t, first.Body, "Test post 12", base)
		assert.Contains(t, second.Body, "Test post 0", base)
	}
}

func TestPaginationOutOfRangeShowsLastPage(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "author")
	testutil.CreatePosts(t, app.db, author, nil, 13)
	c := app.client(t, nil)

	resp := app.get(t, c, "/profile/author/?page=99")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, postCards(resp.Body))

	resp = app.get(t, c, "/profile/author/?page=abc")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 10, postCards(resp.Body))
}
